package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/seafarer/shipboard-be/model"
)

// Conflict errors: the requested state already holds. Call sites treat
// these as "already done", never as server failures.
var (
	ErrAlreadyMember    = errors.New("user is already a participant of this group")
	ErrDuplicateReport  = errors.New("an open report from this user already exists for this content")
	ErrAlreadyHandled   = errors.New("report is already being handled by another moderator")
	ErrAlreadyCancelled = errors.New("group is already cancelled")
)

// Precondition errors: the operation is invalid given current state.
var (
	ErrGroupCancelled  = errors.New("group has been cancelled")
	ErrNotMember       = errors.New("user is not an active member of this group")
	ErrInvalidCapacity = errors.New("invalid capacity bounds")
	ErrNotFound        = errors.New("record not found")
)

// Authorization errors: rejected before any state is touched.
var (
	ErrNotOwner       = errors.New("only the group owner may perform this operation")
	ErrNotModerator   = errors.New("moderator capability required")
	ErrEditNotAllowed = errors.New("content may not be edited by this user in its current moderation status")
)

func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrDuplicateReport) ||
		errors.Is(err, ErrAlreadyHandled) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, model.ErrAlreadyInState)
}

func IsPrecondition(err error) bool {
	return errors.Is(err, ErrGroupCancelled) ||
		errors.Is(err, ErrNotMember) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, model.ErrIllegalTransition)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrNotModerator) ||
		errors.Is(err, ErrEditNotAllowed)
}

func IsDupKeyErr(err *mysql.MySQLError) bool {
	return strings.Contains(err.Error(), "Duplicate")
}

const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

// IsRetryableErr reports whether err is a transient serialization failure
// from contention on a hot row. Callers retry the whole transaction a small
// bounded number of times before surfacing it.
func IsRetryableErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
}
