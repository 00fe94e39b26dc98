package mysqldb

import (
	"context"
	"database/sql"

	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type UserDB struct {
	sess db.Session
}

func getUserDB(sess db.Session) *UserDB {
	return &UserDB{sess}
}

func (udb *UserDB) CreateUser(ctx context.Context, user *model.User) error {
	if user.ModerationStatus == "" {
		user.ModerationStatus = model.StatusNormal
	}
	_, err := udb.sess.SQL().
		InsertInto("person").
		Columns("id", "username", "display_name", "about", "is_moderator", "moderation_status").
		Values(user.Id, user.Username, user.DisplayName, user.About, user.IsModerator, user.ModerationStatus).
		ExecContext(ctx)
	return err
}

func (udb *UserDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	return udb.getUser(ctx, "id = ?", id)
}

func (udb *UserDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return udb.getUser(ctx, "username = ?", username)
}

func (udb *UserDB) getUser(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := udb.sess.SQL().
		Select("*").
		From("person").
		Where(where, arg).
		IteratorContext(ctx).
		One(&user); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile snapshots the current display fields into profile_edit and
// applies the new ones in one transaction.
func (udb *UserDB) UpdateProfile(ctx context.Context, userId string, req *db2.UpdateProfile) error {
	acc := contentAccessors[model.KindProfile]
	return udb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindProfile, userId,
			req.Editor, req.ActionGroupId, model.ModActionEdit); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, userId, req.Editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("person").
			Set("display_name = ?, about = ?", req.DisplayName, req.About).
			Where("id = ?", userId).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

func (udb *UserDB) GetProfileEdits(ctx context.Context, userId string) ([]*model.ProfileEdit, error) {
	var edits []*model.ProfileEdit
	if err := udb.sess.SQL().
		Select("*").
		From("profile_edit").
		Where("user_id = ?", userId).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&edits); err != nil {
		return nil, err
	}
	return edits, nil
}
