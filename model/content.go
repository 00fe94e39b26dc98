package model

// ContentKind tags the table a piece of reportable content lives in.
// Reports, moderator actions, and edit snapshots address content as
// (kind, opaque id) so the ledger code never branches on the concrete type.
type ContentKind string

const (
	KindStreamPost ContentKind = "STREAM_POST"
	KindForumPost  ContentKind = "FORUM_POST"
	KindGroupPost  ContentKind = "GROUP_POST"
	KindForum      ContentKind = "FORUM"
	KindGroup      ContentKind = "GROUP"
	KindProfile    ContentKind = "PROFILE"
)

var ContentKinds = []ContentKind{
	KindStreamPost,
	KindForumPost,
	KindGroupPost,
	KindForum,
	KindGroup,
	KindProfile,
}

func (k ContentKind) IsValid() bool {
	for _, kind := range ContentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ModerationStatus is the lifecycle state of a content item. Every content
// row has exactly one, starting at NORMAL.
type ModerationStatus string

const (
	StatusNormal          ModerationStatus = "NORMAL"
	StatusAutoQuarantined ModerationStatus = "AUTO_QUARANTINED"
	StatusQuarantined     ModerationStatus = "QUARANTINED"
	StatusModReviewed     ModerationStatus = "MOD_REVIEWED"
	StatusLocked          ModerationStatus = "LOCKED"
)

// QuarantinePlaceholder replaces quarantined text for non-moderators.
const QuarantinePlaceholder = "This content is under review."

// Actor identifies who is requesting a transition. The system actor (used
// for threshold-driven auto-quarantine) has no user id.
type Actor struct {
	UserId      string
	IsModerator bool
	IsSystem    bool
}

var SystemActor = Actor{IsSystem: true}

// CanTransitionTo validates a requested status change against the legal
// transition table. Returns nil when the transition may be applied.
//
// The table:
//   - system may only take NORMAL -> AUTO_QUARANTINED
//   - a moderator may move any non-locked content to QUARANTINED,
//     MOD_REVIEWED, LOCKED, or NORMAL
//   - LOCKED is frozen: the only exit is an explicit moderator unlock
//     (LOCKED -> NORMAL)
func (s ModerationStatus) CanTransitionTo(target ModerationStatus, actor Actor) error {
	if s == target {
		return ErrAlreadyInState
	}
	if actor.IsSystem {
		if s == StatusNormal && target == StatusAutoQuarantined {
			return nil
		}
		return ErrIllegalTransition
	}
	if !actor.IsModerator {
		return ErrIllegalTransition
	}
	if target == StatusAutoQuarantined {
		// auto-quarantine is system-invoked only
		return ErrIllegalTransition
	}
	if s == StatusLocked && target != StatusNormal {
		return ErrIllegalTransition
	}
	switch target {
	case StatusQuarantined, StatusModReviewed, StatusLocked, StatusNormal:
		return nil
	}
	return ErrIllegalTransition
}

// IsVisible reports whether the payload may be shown unmodified to the
// requester. Locking affects editability, not visibility.
func (s ModerationStatus) IsVisible(viewerIsModerator bool) bool {
	switch s {
	case StatusAutoQuarantined, StatusQuarantined:
		return viewerIsModerator
	default:
		return true
	}
}

// Render projects a content payload through its moderation status. The
// rendered output is a pure function of (payload, status, viewer role).
func Render(text string, images []string, status ModerationStatus, viewerIsModerator bool) (string, []string) {
	if status.IsVisible(viewerIsModerator) {
		return text, images
	}
	return QuarantinePlaceholder, nil
}

// CanEdit reports whether actor may mutate content authored by authorId in
// the given status. Locked and quarantined content rejects author edits;
// moderators may always edit.
func CanEdit(authorId string, status ModerationStatus, actor Actor) bool {
	if actor.IsModerator {
		return true
	}
	if actor.UserId != authorId {
		return false
	}
	switch status {
	case StatusLocked, StatusAutoQuarantined, StatusQuarantined:
		return false
	}
	return true
}
