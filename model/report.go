package model

import "time"

// Report is a user-filed complaint against a piece of content. At most one
// open report may exist per (submitter, content kind, content id). Reports
// are closed by the handling moderator, never deleted.
type Report struct {
	Id             int64       `db:"id" json:"id"`
	ContentKind    ContentKind `db:"content_kind" json:"contentKind"`
	ContentId      string      `db:"content_id" json:"contentId"`
	ReportedUserId string      `db:"reported_user_id" json:"reportedUserId"`
	SubmitterId    string      `db:"submitter_id" json:"submitterId"`
	Message        string      `db:"message" json:"message"`
	ActionGroupId  string      `db:"action_group_id" json:"actionGroupId,omitempty"`
	HandledById    string      `db:"handled_by_id" json:"handledById,omitempty"`
	IsClosed       bool        `db:"is_closed" json:"isClosed"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// ShouldAutoQuarantine decides whether filing a report escalates its
// content. True only when the open-report count has reached a positive
// threshold AND the system transition out of the current status is legal,
// which limits escalation to NORMAL content: once auto-quarantined the
// status blocks re-triggering, and moderator-set statuses (including
// LOCKED) are never overridden by report volume.
func ShouldAutoQuarantine(openCount, threshold int64, status ModerationStatus) bool {
	if threshold <= 0 || openCount < threshold {
		return false
	}
	return status.CanTransitionTo(StatusAutoQuarantined, SystemActor) == nil
}

// CanClaim reports whether moderatorId may take the report given its
// current claim state. First claim wins; a moderator re-claiming their own
// open report is allowed.
func CanClaim(handledById string, isClosed bool, moderatorId string) bool {
	if isClosed {
		return false
	}
	return handledById == "" || handledById == moderatorId
}

type ModActionType string

const (
	ModActionQuarantine   ModActionType = "QUARANTINE"
	ModActionMarkReviewed ModActionType = "MARK_REVIEWED"
	ModActionLock         ModActionType = "LOCK"
	ModActionUnlock       ModActionType = "UNLOCK"
	ModActionEdit         ModActionType = "EDIT"
	ModActionDelete       ModActionType = "DELETE"
)

// ActionForTransition maps a successful moderator transition onto the
// action type recorded for it.
func ActionForTransition(target ModerationStatus) ModActionType {
	switch target {
	case StatusQuarantined:
		return ModActionQuarantine
	case StatusModReviewed:
		return ModActionMarkReviewed
	case StatusLocked:
		return ModActionLock
	default:
		return ModActionUnlock
	}
}

// ModeratorAction is one row of the append-only moderator action log.
// ActionGroupId, when set, correlates the action to the batch of reports
// the moderator had claimed when taking it.
type ModeratorAction struct {
	Id            int64         `db:"id" json:"id"`
	ActionType    ModActionType `db:"action_type" json:"actionType"`
	ContentKind   ContentKind   `db:"content_kind" json:"contentKind"`
	ContentId     string        `db:"content_id" json:"contentId"`
	ActorId       string        `db:"actor_id" json:"actorId"`
	TargetUserId  string        `db:"target_user_id" json:"targetUserId"`
	ActionGroupId string        `db:"action_group_id" json:"actionGroupId,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}
