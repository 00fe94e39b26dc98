package mysqldb

import (
	"context"
	"database/sql"

	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type ModerationDB struct {
	sess db.Session
}

func getModerationDB(sess db.Session) *ModerationDB {
	return &ModerationDB{sess}
}

// SetModerationStatus validates the requested transition against the live
// status under a row lock and applies it together with its moderator action
// record. Nothing is written when the transition is rejected. This is the
// moderator entry point; the system's threshold escalation runs inline in
// FileReport against the same transition table.
func (mdb *ModerationDB) SetModerationStatus(ctx context.Context, kind model.ContentKind, contentId string, target model.ModerationStatus, actor model.Actor, actionGroupId string) error {
	acc, err := accessorFor(kind)
	if err != nil {
		return err
	}
	return withRetry(func() error {
		return mdb.sess.TxContext(ctx, func(sess db.Session) error {
			state, err := acc.fetchForUpdate(ctx, sess, contentId)
			if err != nil {
				return err
			}
			if err := state.Status.CanTransitionTo(target, actor); err != nil {
				return err
			}
			if err := acc.applyStatus(ctx, sess, contentId, target); err != nil {
				return err
			}
			return insertModeratorAction(ctx, sess, &model.ModeratorAction{
				ActionType:    model.ActionForTransition(target),
				ContentKind:   kind,
				ContentId:     contentId,
				ActorId:       actor.UserId,
				TargetUserId:  state.AuthorId,
				ActionGroupId: actionGroupId,
			})
		}, &sql.TxOptions{})
	})
}

func (mdb *ModerationDB) LogModeratorAction(ctx context.Context, action *model.ModeratorAction) error {
	return insertModeratorAction(ctx, mdb.sess, action)
}

func insertModeratorAction(ctx context.Context, sess db.Session, action *model.ModeratorAction) error {
	_, err := sess.SQL().
		InsertInto("moderator_action").
		Columns("action_type", "content_kind", "content_id", "actor_id", "target_user_id", "action_group_id").
		Values(action.ActionType, action.ContentKind, action.ContentId, action.ActorId, action.TargetUserId, action.ActionGroupId).
		ExecContext(ctx)
	return err
}

func (mdb *ModerationDB) GetModeratorActionsByActor(ctx context.Context, actorId string) ([]*model.ModeratorAction, error) {
	return mdb.getModeratorActions(ctx, "actor_id = ?", actorId)
}

func (mdb *ModerationDB) GetModeratorActionsByTarget(ctx context.Context, targetUserId string) ([]*model.ModeratorAction, error) {
	return mdb.getModeratorActions(ctx, "target_user_id = ?", targetUserId)
}

func (mdb *ModerationDB) GetModeratorActionsByActionGroup(ctx context.Context, actionGroupId string) ([]*model.ModeratorAction, error) {
	return mdb.getModeratorActions(ctx, "action_group_id = ?", actionGroupId)
}

func (mdb *ModerationDB) getModeratorActions(ctx context.Context, where string, arg interface{}) ([]*model.ModeratorAction, error) {
	var actions []*model.ModeratorAction
	if err := mdb.sess.SQL().
		Select("*").
		From("moderator_action").
		Where(where, arg).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&actions); err != nil {
		return nil, err
	}
	return actions, nil
}
