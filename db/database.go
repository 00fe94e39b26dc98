package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/seafarer/shipboard-be/model"

	_ "github.com/go-sql-driver/mysql"
)

type Database interface {
	StreamDatabase
	ForumDatabase
	GroupDatabase
	ReportDatabase
	ModerationDatabase
	UserDatabase
	SettingsDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type CreateStreamPost struct {
	AuthorId string
	Text     string
	Images   []string
	ReplyTo  int64 // 0 for a top-level post
}

type UpdateStreamPost struct {
	Editor model.Actor
	// ActionGroupId correlates a moderator edit to the reports being
	// handled, when any.
	ActionGroupId string
	Text          string
	Images        []string
}

type StreamQuery struct {
	From       *time.Time
	LastId     int64
	ReplyGroup int64
	Limit      int
}

type StreamDatabase interface {
	CreateStreamPost(ctx context.Context, req *CreateStreamPost) (postId int64, err error)
	GetStreamPostById(ctx context.Context, id int64) (*model.StreamPost, error)
	GetStreamPosts(ctx context.Context, query *StreamQuery) ([]*model.StreamPost, error)
	// UpdateStreamPost snapshots the current row into the edit table and
	// applies the new values, in one transaction. A moderator editing
	// someone else's post also gets an EDIT action record in that
	// transaction.
	UpdateStreamPost(ctx context.Context, id int64, req *UpdateStreamPost) error
	MarkStreamPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error
	GetStreamPostEdits(ctx context.Context, postId int64) ([]*model.StreamPostEdit, error)
}

type CreateForum struct {
	CategoryId string
	CreatorId  string
	Title      string
	FirstPost  *CreateForumPost
}

type CreateForumPost struct {
	ForumId  string
	AuthorId string
	Text     string
	Images   []string
}

type UpdateForumPost struct {
	Editor        model.Actor
	ActionGroupId string
	Text          string
	Images        []string
}

type ForumDatabase interface {
	GetForumCategories(ctx context.Context) ([]*model.ForumCategory, error)
	CreateForum(ctx context.Context, req *CreateForum) (forumId string, err error)
	GetForumById(ctx context.Context, id string) (*model.Forum, error)
	GetForums(ctx context.Context, categoryId string) ([]*model.Forum, error)
	// RenameForum snapshots the forum title before applying the new one.
	RenameForum(ctx context.Context, id string, editor model.Actor, actionGroupId, title string) error
	GetForumEdits(ctx context.Context, forumId string) ([]*model.ForumEdit, error)
	CreateForumPost(ctx context.Context, req *CreateForumPost) (postId int64, err error)
	GetForumPostById(ctx context.Context, id int64) (*model.ForumPost, error)
	GetForumPosts(ctx context.Context, forumId string) ([]*model.ForumPost, error)
	UpdateForumPost(ctx context.Context, id int64, req *UpdateForumPost) error
	MarkForumPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error
	GetForumPostEdits(ctx context.Context, postId int64) ([]*model.ForumPostEdit, error)
}

type CreateGroup struct {
	OwnerId     string
	Kind        model.GroupKind
	Title       string
	Info        string
	Location    string
	StartTime   *time.Time
	EndTime     *time.Time
	MinCapacity int
	MaxCapacity int
	// InitialUsers are seeded into the participant order after the owner,
	// in the given order.
	InitialUsers []string
}

type UpdateGroup struct {
	Editor        model.Actor
	ActionGroupId string
	Title         string
	Info          string
	Location      string
}

type CreateGroupPost struct {
	GroupId  string
	AuthorId string
	Text     string
	Image    string
}

// PromotionEvent reports a member whose classification became active so
// the caller can notify them.
type PromotionEvent struct {
	GroupId string `json:"groupId"`
	UserId  string `json:"userId"`
}

type GroupDatabase interface {
	CreateGroup(ctx context.Context, req *CreateGroup) (groupId string, err error)
	GetGroupById(ctx context.Context, id string) (*model.Group, error)
	// GetGroups lists non-cancelled groups for discovery.
	GetGroups(ctx context.Context, kind model.GroupKind, limit int) ([]*model.Group, error)
	GetGroupsForUser(ctx context.Context, userId string) ([]*model.Group, error)
	JoinGroup(ctx context.Context, groupId, userId string) (model.MembershipStatus, error)
	LeaveGroup(ctx context.Context, groupId, userId string) (*PromotionEvent, error)
	SetGroupCapacity(ctx context.Context, groupId, ownerId string, newMin, newMax int) ([]PromotionEvent, error)
	CancelGroup(ctx context.Context, groupId, ownerId string) error
	// UpdateGroup snapshots the editable fields before applying new ones.
	// Owner or moderator only; the capability check happens at the route.
	UpdateGroup(ctx context.Context, groupId string, req *UpdateGroup) error
	GetGroupEdits(ctx context.Context, groupId string) ([]*model.GroupEdit, error)
	MarkGroupRead(ctx context.Context, groupId, userId string, upToPostCount int64) error
	GetMembership(ctx context.Context, groupId, userId string) (*model.GroupMembership, error)
	CreateGroupPost(ctx context.Context, req *CreateGroupPost) (postId int64, err error)
	GetGroupPostById(ctx context.Context, id int64) (*model.GroupPost, error)
	GetGroupPosts(ctx context.Context, groupId string) ([]*model.GroupPost, error)
	MarkGroupPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error
}

type FileReport struct {
	ContentKind model.ContentKind
	ContentId   string
	SubmitterId string
	Message     string
	// Threshold is the auto-quarantine threshold for this content kind,
	// resolved from settings by the caller at the start of the operation.
	Threshold int64
}

type ReportDatabase interface {
	// FileReport inserts the report and, when the open-report count for the
	// content reaches the threshold, auto-quarantines it — all in one
	// transaction serialized on the content row.
	FileReport(ctx context.Context, req *FileReport) (*model.Report, error)
	// ClaimReports assigns a fresh action group id to the given open
	// reports. First claim wins; if any report is held by another
	// moderator, nothing is claimed.
	ClaimReports(ctx context.Context, reportIds []int64, moderatorId string) (actionGroupId string, err error)
	// ReleaseReports clears the claim on still-open reports held by
	// moderatorId.
	ReleaseReports(ctx context.Context, actionGroupId, moderatorId string) error
	CloseReport(ctx context.Context, reportId int64, moderatorId string) error
	GetOpenReports(ctx context.Context) ([]*model.Report, error)
	GetReportsByActionGroup(ctx context.Context, actionGroupId string) ([]*model.Report, error)
}

type ModerationDatabase interface {
	// SetModerationStatus validates and applies a status transition and
	// appends the moderator action record in the same transaction.
	SetModerationStatus(ctx context.Context, kind model.ContentKind, contentId string, target model.ModerationStatus, actor model.Actor, actionGroupId string) error
	LogModeratorAction(ctx context.Context, action *model.ModeratorAction) error
	GetModeratorActionsByActor(ctx context.Context, actorId string) ([]*model.ModeratorAction, error)
	GetModeratorActionsByTarget(ctx context.Context, targetUserId string) ([]*model.ModeratorAction, error)
	GetModeratorActionsByActionGroup(ctx context.Context, actionGroupId string) ([]*model.ModeratorAction, error)
}

type UpdateProfile struct {
	Editor        model.Actor
	ActionGroupId string
	DisplayName   string
	About         string
}

type UserDatabase interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateProfile snapshots the current profile fields before applying
	// the new ones.
	UpdateProfile(ctx context.Context, userId string, req *UpdateProfile) error
	GetProfileEdits(ctx context.Context, userId string) ([]*model.ProfileEdit, error)
}

type SettingsDatabase interface {
	// GetModSettings reads the live moderation settings. Never cached:
	// operators change thresholds while the system runs.
	GetModSettings(ctx context.Context) (*model.ModSettings, error)
	SetModSetting(ctx context.Context, kind model.ContentKind, threshold int64) error
}
