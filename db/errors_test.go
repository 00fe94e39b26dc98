package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableErr(t *testing.T) {
	assert.True(t, IsRetryableErr(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.True(t, IsRetryableErr(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}))
	assert.True(t, IsRetryableErr(fmt.Errorf("tx failed: %w",
		&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})))
	assert.False(t, IsRetryableErr(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsRetryableErr(errors.New("connection reset")))
}

func TestErrorTaxonomyIsDisjoint(t *testing.T) {
	conflicts := []error{ErrAlreadyMember, ErrDuplicateReport, ErrAlreadyHandled, ErrAlreadyCancelled}
	preconditions := []error{ErrGroupCancelled, ErrNotMember, ErrInvalidCapacity}
	authorization := []error{ErrNotOwner, ErrNotModerator, ErrEditNotAllowed}

	for _, err := range conflicts {
		assert.True(t, IsConflict(err), "%v", err)
		assert.False(t, IsPrecondition(err), "%v", err)
		assert.False(t, IsAuthorization(err), "%v", err)
	}
	for _, err := range preconditions {
		assert.True(t, IsPrecondition(err), "%v", err)
		assert.False(t, IsConflict(err), "%v", err)
	}
	for _, err := range authorization {
		assert.True(t, IsAuthorization(err), "%v", err)
		assert.False(t, IsConflict(err), "%v", err)
	}
}
