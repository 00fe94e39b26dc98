package mysqldb

import (
	"testing"

	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/stretchr/testify/assert"
)

// The status a handler read before opening the transaction is advisory: the
// locked-row state is what authorizes the mutation. These cover the decision
// lockForMutation applies after fetchForUpdate.
func TestAuthorizeMutation(t *testing.T) {
	author := model.Actor{UserId: "author"}
	moderator := model.Actor{UserId: "mod", IsModerator: true}

	t.Run("author may edit own normal content", func(t *testing.T) {
		record, err := authorizeMutation(
			&contentState{AuthorId: "author", Status: model.StatusNormal}, author)
		assert.NoError(t, err)
		assert.False(t, record)
	})

	t.Run("author edit rejected once content is locked", func(t *testing.T) {
		// models the race where a moderator locks the row between the
		// handler's read and the update transaction
		_, err := authorizeMutation(
			&contentState{AuthorId: "author", Status: model.StatusLocked}, author)
		assert.ErrorIs(t, err, db2.ErrEditNotAllowed)
	})

	t.Run("author edit rejected on quarantined content", func(t *testing.T) {
		for _, status := range []model.ModerationStatus{
			model.StatusAutoQuarantined, model.StatusQuarantined,
		} {
			_, err := authorizeMutation(
				&contentState{AuthorId: "author", Status: status}, author)
			assert.ErrorIs(t, err, db2.ErrEditNotAllowed, "%v", status)
		}
	})

	t.Run("non-author rejected", func(t *testing.T) {
		_, err := authorizeMutation(
			&contentState{AuthorId: "author", Status: model.StatusNormal},
			model.Actor{UserId: "someone-else"})
		assert.ErrorIs(t, err, db2.ErrEditNotAllowed)
	})

	t.Run("moderator may edit locked content and is recorded", func(t *testing.T) {
		record, err := authorizeMutation(
			&contentState{AuthorId: "author", Status: model.StatusLocked}, moderator)
		assert.NoError(t, err)
		assert.True(t, record)
	})

	t.Run("moderator editing own content leaves no action record", func(t *testing.T) {
		record, err := authorizeMutation(
			&contentState{AuthorId: "mod", Status: model.StatusNormal}, moderator)
		assert.NoError(t, err)
		assert.False(t, record)
	})
}
