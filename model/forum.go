package model

import "time"

type ForumCategory struct {
	Id       string `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	ModsOnly bool   `db:"mods_only" json:"modsOnly"`
}

// Forum is a thread in a category. The forum itself is reportable content:
// its title falls under the same moderation status machinery as post text.
type Forum struct {
	Id               string           `db:"id" json:"id"`
	CategoryId       string           `db:"category_id" json:"categoryId"`
	CreatorId        string           `db:"creator_id" json:"creatorId"`
	Title            string           `db:"title" json:"title"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

type ForumPost struct {
	Id               int64            `db:"id" json:"id"`
	ForumId          string           `db:"forum_id" json:"forumId"`
	AuthorId         string           `db:"author_id" json:"authorId"`
	Text             string           `db:"text" json:"text"`
	Images           []string         `db:"-" json:"images"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	Deleted          bool             `db:"deleted" json:"-"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// MakeDisplayableFor projects the thread title through its moderation
// status. Mutates the object.
func (f *Forum) MakeDisplayableFor(viewerIsModerator bool) *Forum {
	f.Title, _ = Render(f.Title, nil, f.ModerationStatus, viewerIsModerator)
	return f
}

// MakeDisplayableFor projects the post through its moderation status.
// Mutates the object.
func (fp *ForumPost) MakeDisplayableFor(viewerIsModerator bool) *ForumPost {
	fp.Text, fp.Images = Render(fp.Text, fp.Images, fp.ModerationStatus, viewerIsModerator)
	return fp
}

type ForumEdit struct {
	Id        int64     `db:"id" json:"id"`
	ForumId   string    `db:"forum_id" json:"forumId"`
	EditorId  string    `db:"editor_id" json:"editorId"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ForumPostEdit struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	EditorId  string    `db:"editor_id" json:"editorId"`
	Text      string    `db:"text" json:"text"`
	Images    []string  `db:"-" json:"images"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// GroupEdit snapshots the owner- or moderator-editable fields of a group.
type GroupEdit struct {
	Id        int64     `db:"id" json:"id"`
	GroupId   string    `db:"group_id" json:"groupId"`
	EditorId  string    `db:"editor_id" json:"editorId"`
	Title     string    `db:"title" json:"title"`
	Info      string    `db:"info" json:"info"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type GroupPostEdit struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	EditorId  string    `db:"editor_id" json:"editorId"`
	Text      string    `db:"text" json:"text"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ProfileEdit struct {
	Id          int64     `db:"id" json:"id"`
	UserId      string    `db:"user_id" json:"userId"`
	EditorId    string    `db:"editor_id" json:"editorId"`
	DisplayName string    `db:"display_name" json:"displayName"`
	About       string    `db:"about" json:"about"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
