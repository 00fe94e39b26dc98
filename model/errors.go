package model

import "errors"

var (
	// ErrIllegalTransition rejects a status change not in the transition
	// table for the requesting actor.
	ErrIllegalTransition = errors.New("illegal moderation status transition")
	// ErrAlreadyInState rejects a no-op transition. Callers treating the
	// operation as idempotent should surface this as success.
	ErrAlreadyInState = errors.New("content already in requested moderation status")
)
