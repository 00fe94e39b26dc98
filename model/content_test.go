package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var moderator = Actor{UserId: "mod", IsModerator: true}

func TestSystemTransitions(t *testing.T) {
	assert.NoError(t, StatusNormal.CanTransitionTo(StatusAutoQuarantined, SystemActor))

	for _, from := range []ModerationStatus{StatusQuarantined, StatusModReviewed, StatusLocked} {
		assert.ErrorIs(t, from.CanTransitionTo(StatusAutoQuarantined, SystemActor),
			ErrIllegalTransition, "system escalation from %v", from)
	}
	assert.ErrorIs(t, StatusNormal.CanTransitionTo(StatusLocked, SystemActor), ErrIllegalTransition)
}

func TestModeratorTransitions(t *testing.T) {
	for _, from := range []ModerationStatus{StatusNormal, StatusAutoQuarantined, StatusQuarantined, StatusModReviewed} {
		for _, to := range []ModerationStatus{StatusQuarantined, StatusModReviewed, StatusLocked, StatusNormal} {
			if from == to {
				continue
			}
			assert.NoError(t, from.CanTransitionTo(to, moderator), "%v -> %v", from, to)
		}
	}
}

func TestLockedIsFrozen(t *testing.T) {
	assert.ErrorIs(t, StatusLocked.CanTransitionTo(StatusQuarantined, moderator), ErrIllegalTransition)
	assert.ErrorIs(t, StatusLocked.CanTransitionTo(StatusModReviewed, moderator), ErrIllegalTransition)
	assert.NoError(t, StatusLocked.CanTransitionTo(StatusNormal, moderator), "explicit unlock")
}

func TestAutoQuarantineIsSystemOnly(t *testing.T) {
	assert.ErrorIs(t, StatusNormal.CanTransitionTo(StatusAutoQuarantined, moderator), ErrIllegalTransition)
}

func TestSameStateTransition(t *testing.T) {
	assert.ErrorIs(t, StatusQuarantined.CanTransitionTo(StatusQuarantined, moderator), ErrAlreadyInState)
}

func TestNonModeratorCannotTransition(t *testing.T) {
	author := Actor{UserId: "author"}
	assert.ErrorIs(t, StatusNormal.CanTransitionTo(StatusLocked, author), ErrIllegalTransition)
	assert.ErrorIs(t, StatusQuarantined.CanTransitionTo(StatusNormal, author), ErrIllegalTransition)
}

func TestIsVisible(t *testing.T) {
	assert.True(t, StatusNormal.IsVisible(false))
	assert.True(t, StatusModReviewed.IsVisible(false))
	assert.True(t, StatusLocked.IsVisible(false), "locking freezes edits, not reads")
	assert.False(t, StatusAutoQuarantined.IsVisible(false))
	assert.False(t, StatusQuarantined.IsVisible(false))
	assert.True(t, StatusQuarantined.IsVisible(true))
}

func TestRender(t *testing.T) {
	text, images := Render("hello", []string{"a.png"}, StatusQuarantined, false)
	assert.Equal(t, QuarantinePlaceholder, text)
	assert.Nil(t, images)

	text, images = Render("hello", []string{"a.png"}, StatusQuarantined, true)
	assert.Equal(t, "hello", text)
	assert.Equal(t, []string{"a.png"}, images)
}

func TestCanEdit(t *testing.T) {
	author := Actor{UserId: "author"}

	assert.True(t, CanEdit("author", StatusNormal, author))
	assert.True(t, CanEdit("author", StatusModReviewed, author))
	assert.False(t, CanEdit("author", StatusLocked, author))
	assert.False(t, CanEdit("author", StatusQuarantined, author))
	assert.False(t, CanEdit("author", StatusAutoQuarantined, author))
	assert.False(t, CanEdit("author", StatusNormal, Actor{UserId: "other"}))
	assert.True(t, CanEdit("author", StatusLocked, moderator))
}
