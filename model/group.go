package model

import (
	"encoding/json"
	"time"
)

type GroupKind string

const (
	GroupKindOpen   GroupKind = "OPEN"
	GroupKindClosed GroupKind = "CLOSED"
)

// MembershipStatus classifies a participant relative to the group's
// capacity. It is derived from (ParticipantOrder, MaxCapacity), never
// stored.
type MembershipStatus string

const (
	MembershipActive     MembershipStatus = "ACTIVE"
	MembershipWaitlisted MembershipStatus = "WAITLISTED"
)

type Group struct {
	Id               string           `db:"id" json:"id"`
	OwnerId          string           `db:"owner_id" json:"ownerId"`
	Kind             GroupKind        `db:"kind" json:"kind"`
	Title            string           `db:"title" json:"title"`
	Info             string           `db:"info" json:"info"`
	Location         string           `db:"location" json:"location,omitempty"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	StartTime        *time.Time       `db:"start_time" json:"startTime,omitempty"`
	EndTime          *time.Time       `db:"end_time" json:"endTime,omitempty"`
	MinCapacity      int              `db:"min_capacity" json:"minCapacity"`
	MaxCapacity      int              `db:"max_capacity" json:"maxCapacity"`
	Cancelled        bool             `db:"cancelled" json:"cancelled"`
	PostCount        int64            `db:"post_count" json:"postCount"`
	Participants     ParticipantOrder `db:"-" json:"participants"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// StatusOf classifies userId within the group, or "" if not a participant.
func (g *Group) StatusOf(userId string) MembershipStatus {
	idx := g.Participants.IndexOf(userId)
	if idx < 0 {
		return ""
	}
	if idx < g.Participants.activeBound(g.MaxCapacity) {
		return MembershipActive
	}
	return MembershipWaitlisted
}

// MakeDisplayableFor projects the group's text fields through its
// moderation status. Mutates the object.
func (g *Group) MakeDisplayableFor(viewerIsModerator bool) *Group {
	g.Title, _ = Render(g.Title, nil, g.ModerationStatus, viewerIsModerator)
	g.Info, _ = Render(g.Info, nil, g.ModerationStatus, viewerIsModerator)
	return g
}

type GroupMembership struct {
	GroupId   string    `db:"group_id" json:"groupId"`
	UserId    string    `db:"user_id" json:"userId"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
	ReadCount int64     `db:"read_count" json:"readCount"`
}

type GroupPost struct {
	Id               int64            `db:"id" json:"id"`
	GroupId          string           `db:"group_id" json:"groupId"`
	AuthorId         string           `db:"author_id" json:"authorId"`
	Text             string           `db:"text" json:"text"`
	Image            string           `db:"image" json:"image,omitempty"`
	ModerationStatus ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	Deleted          bool             `db:"deleted" json:"-"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// MakeDisplayableFor projects the post through its moderation status.
// Mutates the object.
func (gp *GroupPost) MakeDisplayableFor(viewerIsModerator bool) *GroupPost {
	if !gp.ModerationStatus.IsVisible(viewerIsModerator) {
		gp.Text = QuarantinePlaceholder
		gp.Image = ""
	}
	return gp
}

// ParticipantOrder is the ordered, unique-element list of user ids on a
// group. The first min(maxCapacity, len) entries are the active members;
// the remainder is the waitlist in strict join (FIFO) order. All promotion
// and demotion is index arithmetic on this list against the capacity value.
type ParticipantOrder []string

// ParseParticipantOrder decodes the JSON column value. An empty column is
// an empty list.
func ParseParticipantOrder(raw string) (ParticipantOrder, error) {
	if raw == "" {
		return ParticipantOrder{}, nil
	}
	var order ParticipantOrder
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (po ParticipantOrder) Encode() (string, error) {
	if po == nil {
		po = ParticipantOrder{}
	}
	raw, err := json.Marshal(po)
	return string(raw), err
}

func (po ParticipantOrder) IndexOf(userId string) int {
	for i, id := range po {
		if id == userId {
			return i
		}
	}
	return -1
}

func (po ParticipantOrder) Contains(userId string) bool {
	return po.IndexOf(userId) >= 0
}

// activeBound resolves a capacity value against the list length.
// maxCapacity <= 0 means unbounded (private chats are created with a zero
// capacity and never waitlist anyone).
func (po ParticipantOrder) activeBound(maxCapacity int) int {
	if maxCapacity <= 0 || maxCapacity > len(po) {
		return len(po)
	}
	return maxCapacity
}

// Active returns the members currently within capacity, in join order.
func (po ParticipantOrder) Active(maxCapacity int) []string {
	return po[:po.activeBound(maxCapacity)]
}

// Waitlist returns the members beyond capacity, in join order.
func (po ParticipantOrder) Waitlist(maxCapacity int) []string {
	return po[po.activeBound(maxCapacity):]
}

// Join appends userId and classifies the resulting slot. ok is false if
// userId is already present, in which case the list is returned unchanged.
func (po ParticipantOrder) Join(userId string, maxCapacity int) (next ParticipantOrder, status MembershipStatus, ok bool) {
	if po.Contains(userId) {
		return po, "", false
	}
	next = append(append(ParticipantOrder{}, po...), userId)
	if maxCapacity <= 0 || len(next)-1 < maxCapacity {
		return next, MembershipActive, true
	}
	return next, MembershipWaitlisted, true
}

// Leave removes userId. removed is false when userId was not present (the
// caller treats that as an idempotent no-op). promoted is the head of the
// former waitlist when the departure freed an active slot.
func (po ParticipantOrder) Leave(userId string, maxCapacity int) (next ParticipantOrder, promoted string, removed bool) {
	idx := po.IndexOf(userId)
	if idx < 0 {
		return po, "", false
	}
	next = append(append(ParticipantOrder{}, po[:idx]...), po[idx+1:]...)
	if maxCapacity > 0 && idx < maxCapacity && len(next) >= maxCapacity {
		promoted = next[maxCapacity-1]
	}
	return next, promoted, true
}

// PromotionsOnResize returns the members whose classification flips from
// waitlisted to active when capacity grows from oldMax to newMax. Narrowing
// produces no events: demotion is a pure reclassification.
func (po ParticipantOrder) PromotionsOnResize(oldMax, newMax int) []string {
	oldBound := po.activeBound(oldMax)
	newBound := po.activeBound(newMax)
	if newBound <= oldBound {
		return nil
	}
	promoted := make([]string, newBound-oldBound)
	copy(promoted, po[oldBound:newBound])
	return promoted
}
