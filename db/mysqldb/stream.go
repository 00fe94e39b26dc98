package mysqldb

import (
	"context"
	"database/sql"
	"time"

	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type StreamDB struct {
	sess db.Session
}

func getStreamDB(sess db.Session) *StreamDB {
	return &StreamDB{sess}
}

func (sdb *StreamDB) CreateStreamPost(ctx context.Context, req *db2.CreateStreamPost) (int64, error) {
	images, err := encodeImages(req.Images)
	if err != nil {
		return 0, err
	}
	var replyTo interface{}
	if req.ReplyTo != 0 {
		replyTo = req.ReplyTo
	}
	res, err := sdb.sess.SQL().
		InsertInto("stream_post").
		Columns("author_id", "text", "images", "reply_to", "moderation_status").
		Values(req.AuthorId, req.Text, images, replyTo, model.StatusNormal).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type flattenedStreamPost struct {
	Id               int64                  `db:"id"`
	AuthorId         string                 `db:"author_id"`
	Text             string                 `db:"text"`
	ImagesRaw        string                 `db:"images"`
	ReplyTo          sql.NullInt64          `db:"reply_to"`
	ModerationStatus model.ModerationStatus `db:"moderation_status"`
	Deleted          bool                   `db:"deleted"`
	CreatedAt        time.Time              `db:"created_at"`
	UpdatedAt        time.Time              `db:"updated_at"`
}

func buildStreamPostFromFlattened(post *flattenedStreamPost) (*model.StreamPost, error) {
	images, err := decodeImages(post.ImagesRaw)
	if err != nil {
		return nil, err
	}
	return &model.StreamPost{
		Id:               post.Id,
		AuthorId:         post.AuthorId,
		Text:             post.Text,
		Images:           images,
		ReplyTo:          post.ReplyTo.Int64,
		ModerationStatus: post.ModerationStatus,
		Deleted:          post.Deleted,
		CreatedAt:        post.CreatedAt,
		UpdatedAt:        post.UpdatedAt,
	}, nil
}

func (sdb *StreamDB) GetStreamPostById(ctx context.Context, id int64) (*model.StreamPost, error) {
	var post flattenedStreamPost
	if err := sdb.sess.SQL().
		Select("*").
		From("stream_post").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildStreamPostFromFlattened(&post)
}

func (sdb *StreamDB) GetStreamPosts(ctx context.Context, query *db2.StreamQuery) ([]*model.StreamPost, error) {
	selector := sdb.sess.SQL().
		Select("*").
		From("stream_post").
		Where("deleted = ?", false)
	if query.ReplyGroup != 0 {
		selector = selector.And("(id = ? OR reply_to = ?)", query.ReplyGroup, query.ReplyGroup)
	}
	if query.From != nil {
		selector = selector.And("(created_at < ? OR created_at = ? AND id < ?)",
			query.From, query.From, query.LastId)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	var flattenedPosts []flattenedStreamPost
	if err := selector.
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.StreamPost, len(flattenedPosts))
	for i := range flattenedPosts {
		post, err := buildStreamPostFromFlattened(&flattenedPosts[i])
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

// UpdateStreamPost writes the pre-edit snapshot and applies the new payload
// in one transaction, so the edit chain replays the post's full history.
func (sdb *StreamDB) UpdateStreamPost(ctx context.Context, id int64, req *db2.UpdateStreamPost) error {
	images, err := encodeImages(req.Images)
	if err != nil {
		return err
	}
	acc := contentAccessors[model.KindStreamPost]
	return sdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindStreamPost, formatId(id),
			req.Editor, req.ActionGroupId, model.ModActionEdit); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, formatId(id), req.Editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("stream_post").
			Set("text = ?, images = ?", req.Text, images).
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

// MarkStreamPostDeleted soft-deletes the post; the payload is snapshotted
// and retained for the audit trail.
func (sdb *StreamDB) MarkStreamPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error {
	acc := contentAccessors[model.KindStreamPost]
	return sdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindStreamPost, formatId(id),
			editor, actionGroupId, model.ModActionDelete); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, formatId(id), editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("stream_post").
			Set("deleted", true).
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

type flattenedStreamPostEdit struct {
	Id        int64     `db:"id"`
	PostId    int64     `db:"post_id"`
	EditorId  string    `db:"editor_id"`
	Text      string    `db:"text"`
	ImagesRaw string    `db:"images"`
	CreatedAt time.Time `db:"created_at"`
}

func (sdb *StreamDB) GetStreamPostEdits(ctx context.Context, postId int64) ([]*model.StreamPostEdit, error) {
	var flattenedEdits []flattenedStreamPostEdit
	if err := sdb.sess.SQL().
		Select("*").
		From("stream_post_edit").
		Where("post_id = ?", postId).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&flattenedEdits); err != nil {
		return nil, err
	}
	edits := make([]*model.StreamPostEdit, len(flattenedEdits))
	for i, flattened := range flattenedEdits {
		images, err := decodeImages(flattened.ImagesRaw)
		if err != nil {
			return nil, err
		}
		edits[i] = &model.StreamPostEdit{
			Id:        flattened.Id,
			PostId:    flattened.PostId,
			EditorId:  flattened.EditorId,
			Text:      flattened.Text,
			Images:    images,
			CreatedAt: flattened.CreatedAt,
		}
	}
	return edits, nil
}
