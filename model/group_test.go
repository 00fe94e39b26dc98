package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantOrderJoin(t *testing.T) {
	order := ParticipantOrder{"a"}

	order, status, ok := order.Join("b", 2)
	require.True(t, ok)
	assert.Equal(t, MembershipActive, status)

	order, status, ok = order.Join("c", 2)
	require.True(t, ok)
	assert.Equal(t, MembershipWaitlisted, status)
	assert.Equal(t, []string{"a", "b"}, order.Active(2))
	assert.Equal(t, []string{"c"}, order.Waitlist(2))

	_, _, ok = order.Join("b", 2)
	assert.False(t, ok, "rejoining must be rejected")
}

func TestParticipantOrderJoinUnbounded(t *testing.T) {
	order := ParticipantOrder{}
	for _, userId := range []string{"a", "b", "c", "d"} {
		var status MembershipStatus
		var ok bool
		order, status, ok = order.Join(userId, 0)
		require.True(t, ok)
		assert.Equal(t, MembershipActive, status)
	}
	assert.Len(t, order.Active(0), 4)
	assert.Empty(t, order.Waitlist(0))
}

func TestParticipantOrderLeavePromotesInJoinOrder(t *testing.T) {
	order := ParticipantOrder{"a", "b", "c", "d"}

	next, promoted, removed := order.Leave("a", 2)
	require.True(t, removed)
	assert.Equal(t, "c", promoted, "head of the waitlist takes the freed slot")
	assert.Equal(t, []string{"b", "c"}, next.Active(2))
	assert.Equal(t, []string{"d"}, next.Waitlist(2))
}

func TestParticipantOrderLeaveFromWaitlist(t *testing.T) {
	order := ParticipantOrder{"a", "b", "c", "d"}

	next, promoted, removed := order.Leave("d", 2)
	require.True(t, removed)
	assert.Empty(t, promoted, "a waitlist departure frees no active slot")
	assert.Equal(t, []string{"a", "b"}, next.Active(2))
}

func TestParticipantOrderLeaveWithoutWaitlist(t *testing.T) {
	order := ParticipantOrder{"a", "b"}

	next, promoted, removed := order.Leave("a", 2)
	require.True(t, removed)
	assert.Empty(t, promoted)
	assert.Equal(t, []string{"b"}, next.Active(2))
}

func TestParticipantOrderLeaveIdempotent(t *testing.T) {
	order := ParticipantOrder{"a", "b"}

	next, promoted, removed := order.Leave("z", 2)
	assert.False(t, removed)
	assert.Empty(t, promoted)
	assert.Equal(t, order, next)
}

func TestParticipantOrderPromotionsOnResize(t *testing.T) {
	order := ParticipantOrder{"a", "b", "c", "d", "e"}

	assert.Equal(t, []string{"c", "d"}, order.PromotionsOnResize(2, 4))
	assert.Nil(t, order.PromotionsOnResize(4, 2), "narrowing promotes nobody")
	assert.Nil(t, order.PromotionsOnResize(2, 2))
	assert.Equal(t, []string{"c", "d", "e"}, order.PromotionsOnResize(2, 0),
		"lifting the capacity bound activates the whole waitlist")
}

func TestParticipantOrderResizeBeyondLength(t *testing.T) {
	order := ParticipantOrder{"a", "b", "c"}
	assert.Equal(t, []string{"c"}, order.PromotionsOnResize(2, 10))
}

func TestParticipantOrderRoundTrip(t *testing.T) {
	order, err := ParseParticipantOrder("")
	require.NoError(t, err)
	assert.Empty(t, order)

	encoded, err := ParticipantOrder{"a", "b"}.Encode()
	require.NoError(t, err)
	decoded, err := ParseParticipantOrder(encoded)
	require.NoError(t, err)
	assert.Equal(t, ParticipantOrder{"a", "b"}, decoded)
}

func TestGroupStatusOf(t *testing.T) {
	group := &Group{
		MaxCapacity:  2,
		Participants: ParticipantOrder{"a", "b", "c"},
	}

	assert.Equal(t, MembershipActive, group.StatusOf("a"))
	assert.Equal(t, MembershipActive, group.StatusOf("b"))
	assert.Equal(t, MembershipWaitlisted, group.StatusOf("c"))
	assert.Equal(t, MembershipStatus(""), group.StatusOf("z"))
}

func TestGroupStatusOfUnbounded(t *testing.T) {
	group := &Group{
		MaxCapacity:  0,
		Participants: ParticipantOrder{"a", "b", "c"},
	}
	assert.Equal(t, MembershipActive, group.StatusOf("c"))
}
