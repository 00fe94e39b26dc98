package model

import "time"

// StreamPost is one post in the ship-wide stream. ReplyTo links replies
// into a reply group rooted at the original post.
type StreamPost struct {
	Id               int64            `db:"id" json:"id"`
	AuthorId         string           `db:"author_id" json:"authorId"`
	Text             string           `db:"text" json:"text"`
	Images           []string         `db:"-" json:"images"`
	ReplyTo          int64            `db:"reply_to" json:"replyTo,omitempty"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	Deleted          bool             `db:"deleted" json:"-"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// MakeDisplayableFor projects the post through its moderation status.
// Mutates the object.
func (sp *StreamPost) MakeDisplayableFor(viewerIsModerator bool) *StreamPost {
	sp.Text, sp.Images = Render(sp.Text, sp.Images, sp.ModerationStatus, viewerIsModerator)
	return sp
}

// StreamPostEdit is the pre-mutation snapshot of a stream post, written in
// the same transaction as the edit it precedes.
type StreamPostEdit struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	EditorId  string    `db:"editor_id" json:"editorId"`
	Text      string    `db:"text" json:"text"`
	Images    []string  `db:"-" json:"images"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
