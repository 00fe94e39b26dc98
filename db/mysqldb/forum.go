package mysqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type ForumDB struct {
	sess db.Session
}

func getForumDB(sess db.Session) *ForumDB {
	return &ForumDB{sess}
}

func (fdb *ForumDB) GetForumCategories(ctx context.Context) ([]*model.ForumCategory, error) {
	var categories []*model.ForumCategory
	if err := fdb.sess.SQL().
		Select("*").
		From("forum_category").
		OrderBy("title").
		IteratorContext(ctx).
		All(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateForum creates the thread and its first post together.
func (fdb *ForumDB) CreateForum(ctx context.Context, req *db2.CreateForum) (string, error) {
	forumId := uuid.NewString()
	err := fdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("forum").
			Columns("id", "category_id", "creator_id", "title", "moderation_status").
			Values(forumId, req.CategoryId, req.CreatorId, req.Title, model.StatusNormal).
			ExecContext(ctx); err != nil {
			return err
		}
		if req.FirstPost == nil {
			return nil
		}
		images, err := encodeImages(req.FirstPost.Images)
		if err != nil {
			return err
		}
		_, err = sess.SQL().
			InsertInto("forum_post").
			Columns("forum_id", "author_id", "text", "images", "moderation_status").
			Values(forumId, req.FirstPost.AuthorId, req.FirstPost.Text, images, model.StatusNormal).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return "", err
	}
	return forumId, nil
}

func (fdb *ForumDB) GetForumById(ctx context.Context, id string) (*model.Forum, error) {
	var forum model.Forum
	if err := fdb.sess.SQL().
		Select("*").
		From("forum").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&forum); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &forum, nil
}

func (fdb *ForumDB) GetForums(ctx context.Context, categoryId string) ([]*model.Forum, error) {
	var forums []*model.Forum
	if err := fdb.sess.SQL().
		Select("*").
		From("forum").
		Where("category_id = ?", categoryId).
		OrderBy("updated_at DESC").
		IteratorContext(ctx).
		All(&forums); err != nil {
		return nil, err
	}
	return forums, nil
}

// RenameForum snapshots the current title into forum_edit before applying
// the new one.
func (fdb *ForumDB) RenameForum(ctx context.Context, id string, editor model.Actor, actionGroupId, title string) error {
	acc := contentAccessors[model.KindForum]
	return fdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindForum, id,
			editor, actionGroupId, model.ModActionEdit); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, id, editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("forum").
			Set("title", title).
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

func (fdb *ForumDB) GetForumEdits(ctx context.Context, forumId string) ([]*model.ForumEdit, error) {
	var edits []*model.ForumEdit
	if err := fdb.sess.SQL().
		Select("*").
		From("forum_edit").
		Where("forum_id = ?", forumId).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&edits); err != nil {
		return nil, err
	}
	return edits, nil
}

func (fdb *ForumDB) CreateForumPost(ctx context.Context, req *db2.CreateForumPost) (int64, error) {
	images, err := encodeImages(req.Images)
	if err != nil {
		return 0, err
	}
	res, err := fdb.sess.SQL().
		InsertInto("forum_post").
		Columns("forum_id", "author_id", "text", "images", "moderation_status").
		Values(req.ForumId, req.AuthorId, req.Text, images, model.StatusNormal).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type flattenedForumPost struct {
	Id               int64                  `db:"id"`
	ForumId          string                 `db:"forum_id"`
	AuthorId         string                 `db:"author_id"`
	Text             string                 `db:"text"`
	ImagesRaw        string                 `db:"images"`
	ModerationStatus model.ModerationStatus `db:"moderation_status"`
	Deleted          bool                   `db:"deleted"`
	CreatedAt        time.Time              `db:"created_at"`
	UpdatedAt        time.Time              `db:"updated_at"`
}

func buildForumPostFromFlattened(post *flattenedForumPost) (*model.ForumPost, error) {
	images, err := decodeImages(post.ImagesRaw)
	if err != nil {
		return nil, err
	}
	return &model.ForumPost{
		Id:               post.Id,
		ForumId:          post.ForumId,
		AuthorId:         post.AuthorId,
		Text:             post.Text,
		Images:           images,
		ModerationStatus: post.ModerationStatus,
		Deleted:          post.Deleted,
		CreatedAt:        post.CreatedAt,
		UpdatedAt:        post.UpdatedAt,
	}, nil
}

func (fdb *ForumDB) GetForumPostById(ctx context.Context, id int64) (*model.ForumPost, error) {
	var post flattenedForumPost
	if err := fdb.sess.SQL().
		Select("*").
		From("forum_post").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildForumPostFromFlattened(&post)
}

func (fdb *ForumDB) GetForumPosts(ctx context.Context, forumId string) ([]*model.ForumPost, error) {
	var flattenedPosts []flattenedForumPost
	if err := fdb.sess.SQL().
		Select("*").
		From("forum_post").
		Where("forum_id = ? AND deleted = ?", forumId, false).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.ForumPost, len(flattenedPosts))
	for i := range flattenedPosts {
		post, err := buildForumPostFromFlattened(&flattenedPosts[i])
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

func (fdb *ForumDB) UpdateForumPost(ctx context.Context, id int64, req *db2.UpdateForumPost) error {
	images, err := encodeImages(req.Images)
	if err != nil {
		return err
	}
	acc := contentAccessors[model.KindForumPost]
	return fdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindForumPost, formatId(id),
			req.Editor, req.ActionGroupId, model.ModActionEdit); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, formatId(id), req.Editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("forum_post").
			Set("text = ?, images = ?", req.Text, images).
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

func (fdb *ForumDB) MarkForumPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error {
	acc := contentAccessors[model.KindForumPost]
	return fdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindForumPost, formatId(id),
			editor, actionGroupId, model.ModActionDelete); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, formatId(id), editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("forum_post").
			Set("deleted", true).
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

type flattenedForumPostEdit struct {
	Id        int64     `db:"id"`
	PostId    int64     `db:"post_id"`
	EditorId  string    `db:"editor_id"`
	Text      string    `db:"text"`
	ImagesRaw string    `db:"images"`
	CreatedAt time.Time `db:"created_at"`
}

func (fdb *ForumDB) GetForumPostEdits(ctx context.Context, postId int64) ([]*model.ForumPostEdit, error) {
	var flattenedEdits []flattenedForumPostEdit
	if err := fdb.sess.SQL().
		Select("*").
		From("forum_post_edit").
		Where("post_id = ?", postId).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&flattenedEdits); err != nil {
		return nil, err
	}
	edits := make([]*model.ForumPostEdit, len(flattenedEdits))
	for i, flattened := range flattenedEdits {
		images, err := decodeImages(flattened.ImagesRaw)
		if err != nil {
			return nil, err
		}
		edits[i] = &model.ForumPostEdit{
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
