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

type GroupDB struct {
	sess db.Session
}

func getGroupDB(sess db.Session) *GroupDB {
	return &GroupDB{sess}
}

// lockedGroup is the slice of the group row read under FOR UPDATE by every
// membership mutation. Holding the row lock makes the read-decide-write on
// participant_order atomic per group.
type lockedGroup struct {
	ownerId     string
	maxCapacity int
	cancelled   bool
	order       model.ParticipantOrder
}

func lockGroupRow(ctx context.Context, sess db.Session, groupId string) (*lockedGroup, error) {
	row, err := sess.SQL().QueryRowContext(ctx, `
SELECT owner_id, max_capacity, cancelled, participant_order
	FROM social_group WHERE id = ? FOR UPDATE`, groupId)
	if err != nil {
		return nil, err
	}
	var lg lockedGroup
	var rawOrder string
	if err := row.Scan(&lg.ownerId, &lg.maxCapacity, &lg.cancelled, &rawOrder); err != nil {
		if err == sql.ErrNoRows {
			return nil, db2.ErrNotFound
		}
		return nil, err
	}
	if lg.order, err = model.ParseParticipantOrder(rawOrder); err != nil {
		return nil, err
	}
	return &lg, nil
}

func writeParticipantOrder(ctx context.Context, sess db.Session, groupId string, order model.ParticipantOrder) error {
	encoded, err := order.Encode()
	if err != nil {
		return err
	}
	_, err = sess.SQL().
		Update("social_group").
		Set("participant_order", encoded).
		Where("id = ?", groupId).
		ExecContext(ctx)
	return err
}

func (gdb *GroupDB) CreateGroup(ctx context.Context, req *db2.CreateGroup) (string, error) {
	groupId := uuid.NewString()
	order := model.ParticipantOrder{req.OwnerId}
	for _, userId := range req.InitialUsers {
		if !order.Contains(userId) {
			order = append(order, userId)
		}
	}
	encoded, err := order.Encode()
	if err != nil {
		return "", err
	}
	err = gdb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.SQL().
			InsertInto("social_group").
			Columns("id", "owner_id", "kind", "title", "info", "location",
				"moderation_status", "start_time", "end_time",
				"min_capacity", "max_capacity", "participant_order").
			Values(groupId, req.OwnerId, req.Kind, req.Title, req.Info, req.Location,
				model.StatusNormal, req.StartTime, req.EndTime,
				req.MinCapacity, req.MaxCapacity, encoded).
			ExecContext(ctx); err != nil {
			return err
		}
		batchInserter := sess.SQL().
			InsertInto("group_membership").
			Columns("group_id", "user_id").
			Batch(len(order))
		for _, userId := range order {
			batchInserter.Values(groupId, userId)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	if err != nil {
		return "", err
	}
	return groupId, nil
}

// JoinGroup appends the user to the participant order. The append, the
// capacity classification, and the write-back happen under the group row
// lock so two concurrent joins can never both take the last active slot.
func (gdb *GroupDB) JoinGroup(ctx context.Context, groupId, userId string) (model.MembershipStatus, error) {
	var status model.MembershipStatus
	err := withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			lg, err := lockGroupRow(ctx, sess, groupId)
			if err != nil {
				return err
			}
			if lg.cancelled {
				return db2.ErrGroupCancelled
			}
			next, joined, ok := lg.order.Join(userId, lg.maxCapacity)
			if !ok {
				return db2.ErrAlreadyMember
			}
			if err := writeParticipantOrder(ctx, sess, groupId, next); err != nil {
				return err
			}
			if _, err := sess.SQL().
				InsertInto("group_membership").
				Columns("group_id", "user_id").
				Values(groupId, userId).
				ExecContext(ctx); err != nil {
				return err
			}
			status = joined
			return nil
		}, &sql.TxOptions{})
	})
	return status, err
}

// LeaveGroup removes the user. Leaving is idempotent: a user not in the
// participant order succeeds as a no-op. When the departure frees an active
// slot the head of the waitlist moves across the capacity boundary and is
// returned so the caller can notify them.
func (gdb *GroupDB) LeaveGroup(ctx context.Context, groupId, userId string) (*db2.PromotionEvent, error) {
	var promotion *db2.PromotionEvent
	err := withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			promotion = nil
			lg, err := lockGroupRow(ctx, sess, groupId)
			if err != nil {
				return err
			}
			if lg.cancelled {
				return db2.ErrGroupCancelled
			}
			next, promoted, removed := lg.order.Leave(userId, lg.maxCapacity)
			if !removed {
				return nil
			}
			if err := writeParticipantOrder(ctx, sess, groupId, next); err != nil {
				return err
			}
			if _, err := sess.SQL().
				DeleteFrom("group_membership").
				Where("group_id = ? AND user_id = ?", groupId, userId).
				ExecContext(ctx); err != nil {
				return err
			}
			if promoted != "" {
				promotion = &db2.PromotionEvent{GroupId: groupId, UserId: promoted}
			}
			return nil
		}, &sql.TxOptions{})
	})
	if err != nil {
		return nil, err
	}
	return promotion, nil
}

// SetGroupCapacity resizes the group. Widening promotes the members who now
// fall inside the active prefix; narrowing is a pure reclassification and
// removes nobody.
func (gdb *GroupDB) SetGroupCapacity(ctx context.Context, groupId, ownerId string, newMin, newMax int) ([]db2.PromotionEvent, error) {
	if newMin < 0 || newMax < 0 || (newMax > 0 && newMin > newMax) {
		return nil, db2.ErrInvalidCapacity
	}
	var promotions []db2.PromotionEvent
	err := withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			promotions = nil
			lg, err := lockGroupRow(ctx, sess, groupId)
			if err != nil {
				return err
			}
			if lg.ownerId != ownerId {
				return db2.ErrNotOwner
			}
			if lg.cancelled {
				return db2.ErrGroupCancelled
			}
			for _, userId := range lg.order.PromotionsOnResize(lg.maxCapacity, newMax) {
				promotions = append(promotions, db2.PromotionEvent{GroupId: groupId, UserId: userId})
			}
			_, err = sess.SQL().
				Update("social_group").
				Set("min_capacity = ?, max_capacity = ?", newMin, newMax).
				Where("id = ?", groupId).
				ExecContext(ctx)
			return err
		}, &sql.TxOptions{})
	})
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// CancelGroup freezes the group: it disappears from discovery and its
// membership list stops changing, but existing members keep read access.
func (gdb *GroupDB) CancelGroup(ctx context.Context, groupId, ownerId string) error {
	return withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			lg, err := lockGroupRow(ctx, sess, groupId)
			if err != nil {
				return err
			}
			if lg.ownerId != ownerId {
				return db2.ErrNotOwner
			}
			if lg.cancelled {
				return db2.ErrAlreadyCancelled
			}
			_, err = sess.SQL().
				Update("social_group").
				Set("cancelled", true).
				Where("id = ?", groupId).
				ExecContext(ctx)
			return err
		}, &sql.TxOptions{})
	})
}

// UpdateGroup snapshots the editable fields into group_edit and applies the
// new values in one transaction.
func (gdb *GroupDB) UpdateGroup(ctx context.Context, groupId string, req *db2.UpdateGroup) error {
	acc := contentAccessors[model.KindGroup]
	return gdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := lockForMutation(ctx, sess, model.KindGroup, groupId,
			req.Editor, req.ActionGroupId, model.ModActionEdit); err != nil {
			return err
		}
		if err := acc.snapshot(ctx, sess, groupId, req.Editor.UserId); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("social_group").
			Set("title = ?, info = ?, location = ?", req.Title, req.Info, req.Location).
			Where("id = ?", groupId).
			ExecContext(ctx)
		return err
	}, &sql.TxOptions{})
}

func (gdb *GroupDB) GetGroupEdits(ctx context.Context, groupId string) ([]*model.GroupEdit, error) {
	var edits []*model.GroupEdit
	if err := gdb.sess.SQL().
		Select("*").
		From("group_edit").
		Where("group_id = ?", groupId).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&edits); err != nil {
		return nil, err
	}
	return edits, nil
}

// MarkGroupRead advances the member's read progress. Monotonic: the stored
// count never decreases, and never exceeds the group's post count.
func (gdb *GroupDB) MarkGroupRead(ctx context.Context, groupId, userId string, upToPostCount int64) error {
	_, err := gdb.sess.SQL().ExecContext(ctx, `
UPDATE group_membership AS gm
	INNER JOIN social_group AS g ON g.id = gm.group_id
	SET gm.read_count = GREATEST(gm.read_count, LEAST(?, g.post_count))
	WHERE gm.group_id = ? AND gm.user_id = ?`,
		upToPostCount, groupId, userId)
	return err
}

func (gdb *GroupDB) GetMembership(ctx context.Context, groupId, userId string) (*model.GroupMembership, error) {
	var membership model.GroupMembership
	if err := gdb.sess.SQL().
		Select("*").
		From("group_membership").
		Where("group_id = ? AND user_id = ?", groupId, userId).
		IteratorContext(ctx).
		One(&membership); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

type flattenedGroup struct {
	Id                  string                 `db:"id"`
	OwnerId             string                 `db:"owner_id"`
	Kind                model.GroupKind        `db:"kind"`
	Title               string                 `db:"title"`
	Info                string                 `db:"info"`
	Location            string                 `db:"location"`
	ModerationStatus    model.ModerationStatus `db:"moderation_status"`
	StartTime           *time.Time             `db:"start_time"`
	EndTime             *time.Time             `db:"end_time"`
	MinCapacity         int                    `db:"min_capacity"`
	MaxCapacity         int                    `db:"max_capacity"`
	Cancelled           bool                   `db:"cancelled"`
	PostCount           int64                  `db:"post_count"`
	ParticipantOrderRaw string                 `db:"participant_order"`
	CreatedAt           time.Time              `db:"created_at"`
	UpdatedAt           time.Time              `db:"updated_at"`
}

func buildGroupFromFlattened(flattened *flattenedGroup) (*model.Group, error) {
	order, err := model.ParseParticipantOrder(flattened.ParticipantOrderRaw)
	if err != nil {
		return nil, err
	}
	return &model.Group{
		Id:               flattened.Id,
		OwnerId:          flattened.OwnerId,
		Kind:             flattened.Kind,
		Title:            flattened.Title,
		Info:             flattened.Info,
		Location:         flattened.Location,
		ModerationStatus: flattened.ModerationStatus,
		StartTime:        flattened.StartTime,
		EndTime:          flattened.EndTime,
		MinCapacity:      flattened.MinCapacity,
		MaxCapacity:      flattened.MaxCapacity,
		Cancelled:        flattened.Cancelled,
		PostCount:        flattened.PostCount,
		Participants:     order,
		CreatedAt:        flattened.CreatedAt,
		UpdatedAt:        flattened.UpdatedAt,
	}, nil
}

func (gdb *GroupDB) GetGroupById(ctx context.Context, id string) (*model.Group, error) {
	var flattened flattenedGroup
	if err := gdb.sess.SQL().
		Select("*").
		From("social_group").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildGroupFromFlattened(&flattened)
}

// GetGroups lists open groups for discovery. Cancelled groups are excluded;
// they remain reachable by id for their members.
func (gdb *GroupDB) GetGroups(ctx context.Context, kind model.GroupKind, limit int) ([]*model.Group, error) {
	var flattenedGroups []flattenedGroup
	if err := gdb.sess.SQL().
		Select("*").
		From("social_group").
		Where("kind = ? AND cancelled = ?", kind, false).
		OrderBy("start_time", "created_at").
		Limit(limit).
		IteratorContext(ctx).
		All(&flattenedGroups); err != nil {
		return nil, err
	}
	return buildGroupsFromFlattened(flattenedGroups)
}

func (gdb *GroupDB) GetGroupsForUser(ctx context.Context, userId string) ([]*model.Group, error) {
	var flattenedGroups []flattenedGroup
	if err := gdb.sess.SQL().
		Select("g.*").
		From("social_group AS g").
		Join("group_membership AS gm").On("g.id = gm.group_id").
		Where("gm.user_id = ?", userId).
		OrderBy("g.created_at").
		IteratorContext(ctx).
		All(&flattenedGroups); err != nil {
		return nil, err
	}
	return buildGroupsFromFlattened(flattenedGroups)
}

func buildGroupsFromFlattened(flattenedGroups []flattenedGroup) ([]*model.Group, error) {
	groups := make([]*model.Group, len(flattenedGroups))
	for i := range flattenedGroups {
		group, err := buildGroupFromFlattened(&flattenedGroups[i])
		if err != nil {
			return nil, err
		}
		groups[i] = group
	}
	return groups, nil
}

// CreateGroupPost inserts a post and bumps the group's post count in the
// same transaction. Only active members of a live group may post.
func (gdb *GroupDB) CreateGroupPost(ctx context.Context, req *db2.CreateGroupPost) (int64, error) {
	var postId int64
	err := withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			lg, err := lockGroupRow(ctx, sess, req.GroupId)
			if err != nil {
				return err
			}
			if lg.cancelled {
				return db2.ErrGroupCancelled
			}
			idx := lg.order.IndexOf(req.AuthorId)
			if idx < 0 || idx >= len(lg.order.Active(lg.maxCapacity)) {
				return db2.ErrNotMember
			}
			res, err := sess.SQL().
				InsertInto("group_post").
				Columns("group_id", "author_id", "text", "image", "moderation_status").
				Values(req.GroupId, req.AuthorId, req.Text, req.Image, model.StatusNormal).
				ExecContext(ctx)
			if err != nil {
				return err
			}
			if postId, err = res.LastInsertId(); err != nil {
				return err
			}
			_, err = sess.SQL().
				Update("social_group").
				Set("post_count = post_count + 1").
				Where("id = ?", req.GroupId).
				ExecContext(ctx)
			return err
		}, &sql.TxOptions{})
	})
	return postId, err
}

func (gdb *GroupDB) GetGroupPostById(ctx context.Context, id int64) (*model.GroupPost, error) {
	var post model.GroupPost
	if err := gdb.sess.SQL().
		Select("*").
		From("group_post").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (gdb *GroupDB) GetGroupPosts(ctx context.Context, groupId string) ([]*model.GroupPost, error) {
	var posts []*model.GroupPost
	if err := gdb.sess.SQL().
		Select("*").
		From("group_post").
		Where("group_id = ? AND deleted = ?", groupId, false).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MarkGroupPostDeleted soft-deletes a post after snapshotting it, and
// decrements the group's post count so read progress stays within bounds.
func (gdb *GroupDB) MarkGroupPostDeleted(ctx context.Context, id int64, editor model.Actor, actionGroupId string) error {
	acc := contentAccessors[model.KindGroupPost]
	return withRetry(func() error {
		return gdb.sess.TxContext(ctx, func(sess db.Session) error {
			row, err := sess.SQL().QueryRowContext(ctx,
				`SELECT deleted FROM group_post WHERE id = ? FOR UPDATE`, id)
			if err != nil {
				return err
			}
			var deleted bool
			if err := row.Scan(&deleted); err != nil {
				if err == sql.ErrNoRows {
					return db2.ErrNotFound
				}
				return err
			}
			if deleted {
				return nil
			}
			if err := lockForMutation(ctx, sess, model.KindGroupPost, formatId(id),
				editor, actionGroupId, model.ModActionDelete); err != nil {
				return err
			}
			if err := acc.snapshot(ctx, sess, formatId(id), editor.UserId); err != nil {
				return err
			}
			if _, err := sess.SQL().
				Update("group_post").
				Set("deleted", true).
				Where("id = ?", id).
				ExecContext(ctx); err != nil {
				return err
			}
			_, err = sess.SQL().ExecContext(ctx, `
UPDATE social_group AS g
	INNER JOIN group_post AS gp ON gp.group_id = g.id
	SET g.post_count = g.post_count - 1
	WHERE gp.id = ? AND g.post_count > 0`, id)
			return err
		}, &sql.TxOptions{})
	})
}
