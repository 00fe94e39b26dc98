package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldAutoQuarantine(t *testing.T) {
	// below threshold nothing happens
	assert.False(t, ShouldAutoQuarantine(2, 3, StatusNormal))
	// the report that reaches the threshold escalates
	assert.True(t, ShouldAutoQuarantine(3, 3, StatusNormal))
	assert.True(t, ShouldAutoQuarantine(4, 3, StatusNormal))
	// already escalated content does not re-trigger on the next report
	assert.False(t, ShouldAutoQuarantine(4, 3, StatusAutoQuarantined))
	// moderator-set statuses are never overridden by report volume
	assert.False(t, ShouldAutoQuarantine(10, 3, StatusQuarantined))
	assert.False(t, ShouldAutoQuarantine(10, 3, StatusModReviewed))
	assert.False(t, ShouldAutoQuarantine(10, 3, StatusLocked))
	// non-positive threshold disables escalation entirely
	assert.False(t, ShouldAutoQuarantine(100, 0, StatusNormal))
	assert.False(t, ShouldAutoQuarantine(100, -1, StatusNormal))
}

func TestCanClaim(t *testing.T) {
	assert.True(t, CanClaim("", false, "mod-a"))
	// re-claiming one's own open report is fine
	assert.True(t, CanClaim("mod-a", false, "mod-a"))
	// first claim wins
	assert.False(t, CanClaim("mod-a", false, "mod-b"))
	assert.False(t, CanClaim("", true, "mod-a"))
	assert.False(t, CanClaim("mod-a", true, "mod-a"))
}

func TestActionForTransition(t *testing.T) {
	assert.Equal(t, ModActionQuarantine, ActionForTransition(StatusQuarantined))
	assert.Equal(t, ModActionMarkReviewed, ActionForTransition(StatusModReviewed))
	assert.Equal(t, ModActionLock, ActionForTransition(StatusLocked))
	assert.Equal(t, ModActionUnlock, ActionForTransition(StatusNormal))
}
