package mysqldb

import (
	"context"
	"database/sql"
	"fmt"

	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

// contentState is the slice of a content row the moderation and report
// machinery needs: who to attribute it to and where it is in the status
// machine.
type contentState struct {
	AuthorId string
	Status   model.ModerationStatus
}

// contentAccessor is the per-kind indirection that keeps the report ledger,
// the state machine, and the audit trail free of per-kind branching. All
// three functions run inside the caller's transaction.
//
// fetchForUpdate locks the content row, making it the serialization point
// for status evaluation on that item. snapshot writes the pre-mutation edit
// record via INSERT..SELECT so the captured values are exactly the row
// being locked.
type contentAccessor struct {
	fetchForUpdate func(ctx context.Context, sess db.Session, id string) (*contentState, error)
	applyStatus    func(ctx context.Context, sess db.Session, id string, status model.ModerationStatus) error
	snapshot       func(ctx context.Context, sess db.Session, id, editorId string) error
}

var contentAccessors = map[model.ContentKind]contentAccessor{
	model.KindStreamPost: {
		fetchForUpdate: fetchStateForUpdate("stream_post", "author_id", "id"),
		applyStatus:    applyStatusTo("stream_post", "id"),
		snapshot: execSnapshot(`INSERT INTO stream_post_edit (post_id, editor_id, text, images)
			SELECT id, ?, text, images FROM stream_post WHERE id = ?`),
	},
	model.KindForumPost: {
		fetchForUpdate: fetchStateForUpdate("forum_post", "author_id", "id"),
		applyStatus:    applyStatusTo("forum_post", "id"),
		snapshot: execSnapshot(`INSERT INTO forum_post_edit (post_id, editor_id, text, images)
			SELECT id, ?, text, images FROM forum_post WHERE id = ?`),
	},
	model.KindGroupPost: {
		fetchForUpdate: fetchStateForUpdate("group_post", "author_id", "id"),
		applyStatus:    applyStatusTo("group_post", "id"),
		snapshot: execSnapshot(`INSERT INTO group_post_edit (post_id, editor_id, text, image)
			SELECT id, ?, text, image FROM group_post WHERE id = ?`),
	},
	model.KindForum: {
		fetchForUpdate: fetchStateForUpdate("forum", "creator_id", "id"),
		applyStatus:    applyStatusTo("forum", "id"),
		snapshot: execSnapshot(`INSERT INTO forum_edit (forum_id, editor_id, title)
			SELECT id, ?, title FROM forum WHERE id = ?`),
	},
	model.KindGroup: {
		fetchForUpdate: fetchStateForUpdate("social_group", "owner_id", "id"),
		applyStatus:    applyStatusTo("social_group", "id"),
		snapshot: execSnapshot(`INSERT INTO group_edit (group_id, editor_id, title, info, location)
			SELECT id, ?, title, info, location FROM social_group WHERE id = ?`),
	},
	model.KindProfile: {
		fetchForUpdate: fetchStateForUpdate("person", "id", "id"),
		applyStatus:    applyStatusTo("person", "id"),
		snapshot: execSnapshot(`INSERT INTO profile_edit (user_id, editor_id, display_name, about)
			SELECT id, ?, display_name, about FROM person WHERE id = ?`),
	},
}

func accessorFor(kind model.ContentKind) (contentAccessor, error) {
	acc, ok := contentAccessors[kind]
	if !ok {
		return contentAccessor{}, fmt.Errorf("unknown content kind %v", kind)
	}
	return acc, nil
}

// authorizeMutation decides, from the locked row state, whether editor may
// mutate the content and whether a moderator action record must accompany
// the mutation (a moderator touching content they did not author).
func authorizeMutation(state *contentState, editor model.Actor) (recordAction bool, err error) {
	if !model.CanEdit(state.AuthorId, state.Status, editor) {
		return false, db2.ErrEditNotAllowed
	}
	return editor.IsModerator && state.AuthorId != editor.UserId, nil
}

// lockForMutation locks the content row and revalidates edit permission
// against the status read under the lock. Any status the caller saw before
// the transaction is advisory only: a moderator may have locked the content
// in between, and that lock must win. When the mutation is a moderator
// acting on someone else's content, the EDIT or DELETE action record is
// written here, inside the same transaction, so it commits or rolls back
// with the mutation it documents.
func lockForMutation(ctx context.Context, sess db.Session, kind model.ContentKind, id string, editor model.Actor, actionGroupId string, action model.ModActionType) error {
	state, err := contentAccessors[kind].fetchForUpdate(ctx, sess, id)
	if err != nil {
		return err
	}
	recordAction, err := authorizeMutation(state, editor)
	if err != nil {
		return err
	}
	if !recordAction {
		return nil
	}
	return insertModeratorAction(ctx, sess, &model.ModeratorAction{
		ActionType:    action,
		ContentKind:   kind,
		ContentId:     id,
		ActorId:       editor.UserId,
		TargetUserId:  state.AuthorId,
		ActionGroupId: actionGroupId,
	})
}

func fetchStateForUpdate(table, authorCol, idCol string) func(context.Context, db.Session, string) (*contentState, error) {
	query := fmt.Sprintf(`SELECT %s, moderation_status FROM %s WHERE %s = ? FOR UPDATE`,
		authorCol, table, idCol)
	return func(ctx context.Context, sess db.Session, id string) (*contentState, error) {
		row, err := sess.SQL().QueryRowContext(ctx, query, id)
		if err != nil {
			return nil, err
		}
		var state contentState
		if err := row.Scan(&state.AuthorId, &state.Status); err != nil {
			if err == sql.ErrNoRows {
				return nil, db2.ErrNotFound
			}
			return nil, err
		}
		return &state, nil
	}
}

func applyStatusTo(table, idCol string) func(context.Context, db.Session, string, model.ModerationStatus) error {
	return func(ctx context.Context, sess db.Session, id string, status model.ModerationStatus) error {
		_, err := sess.SQL().
			Update(table).
			Set("moderation_status", status).
			Where(idCol+" = ?", id).
			ExecContext(ctx)
		return err
	}
}

func execSnapshot(query string) func(context.Context, db.Session, string, string) error {
	return func(ctx context.Context, sess db.Session, id, editorId string) error {
		res, err := sess.SQL().ExecContext(ctx, query, editorId, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return db2.ErrNotFound
		}
		return nil
	}
}
