package model

import "time"

// User holds the local profile for a verified attendee. The profile is
// itself reportable content: its display fields sit behind ModerationStatus
// like any post payload.
type User struct {
	Id               string           `db:"id" json:"id"`
	Username         string           `db:"username" json:"username"`
	DisplayName      string           `db:"display_name" json:"displayName"`
	About            string           `db:"about" json:"about"`
	IsModerator      bool             `db:"is_moderator" json:"isModerator"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// Actor builds the capability value passed into engine operations.
func (u *User) Actor() Actor {
	return Actor{UserId: u.Id, IsModerator: u.IsModerator}
}

// MakeDisplayableFor projects the profile through its moderation status.
func (u *User) MakeDisplayableFor(viewerIsModerator bool) *User {
	if u.ModerationStatus.IsVisible(viewerIsModerator) {
		return u
	}
	shown := *u
	shown.DisplayName = QuarantinePlaceholder
	shown.About = ""
	return &shown
}
