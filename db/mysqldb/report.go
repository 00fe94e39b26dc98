package mysqldb

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/upper/db/v4"
)

type ReportDB struct {
	sess db.Session
}

func getReportDB(sess db.Session) *ReportDB {
	return &ReportDB{sess}
}

// FileReport inserts the report and re-evaluates the open-report count for
// the content in the same transaction. The content row is locked first, so
// two reports racing on the same item serialize: exactly one of them sees
// the count reach the threshold and performs the auto-quarantine
// transition.
func (rdb *ReportDB) FileReport(ctx context.Context, req *db2.FileReport) (*model.Report, error) {
	acc, err := accessorFor(req.ContentKind)
	if err != nil {
		return nil, err
	}
	var report *model.Report
	err = withRetry(func() error {
		return rdb.sess.TxContext(ctx, func(sess db.Session) error {
			state, err := acc.fetchForUpdate(ctx, sess, req.ContentId)
			if err != nil {
				return err
			}

			var open int64
			row, err := sess.SQL().QueryRowContext(ctx, `
SELECT COUNT(*) FROM report
	WHERE submitter_id = ? AND content_kind = ? AND content_id = ? AND is_closed = 0`,
				req.SubmitterId, req.ContentKind, req.ContentId)
			if err != nil {
				return err
			}
			if err := row.Scan(&open); err != nil {
				return err
			}
			if open > 0 {
				return db2.ErrDuplicateReport
			}

			res, err := sess.SQL().
				InsertInto("report").
				Columns("content_kind", "content_id", "reported_user_id", "submitter_id", "message").
				Values(req.ContentKind, req.ContentId, state.AuthorId, req.SubmitterId, req.Message).
				ExecContext(ctx)
			if err != nil {
				return err
			}
			reportId, err := res.LastInsertId()
			if err != nil {
				return err
			}

			row, err = sess.SQL().QueryRowContext(ctx, `
SELECT COUNT(*) FROM report
	WHERE content_kind = ? AND content_id = ? AND is_closed = 0`,
				req.ContentKind, req.ContentId)
			if err != nil {
				return err
			}
			var openCount int64
			if err := row.Scan(&openCount); err != nil {
				return err
			}

			if model.ShouldAutoQuarantine(openCount, req.Threshold, state.Status) {
				if err := acc.applyStatus(ctx, sess, req.ContentId, model.StatusAutoQuarantined); err != nil {
					return err
				}
				log.Printf("auto-quarantined %v %v after %v open reports",
					req.ContentKind, req.ContentId, openCount)
			}

			// re-read so the response carries the DB-assigned timestamps
			var created, updated time.Time
			row, err = sess.SQL().QueryRowContext(ctx,
				`SELECT created_at, updated_at FROM report WHERE id = ?`, reportId)
			if err != nil {
				return err
			}
			if err := row.Scan(&created, &updated); err != nil {
				return err
			}

			report = &model.Report{
				Id:             reportId,
				ContentKind:    req.ContentKind,
				ContentId:      req.ContentId,
				ReportedUserId: state.AuthorId,
				SubmitterId:    req.SubmitterId,
				Message:        req.Message,
				CreatedAt:      created,
				UpdatedAt:      updated,
			}
			return nil
		}, &sql.TxOptions{})
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ClaimReports stamps a fresh action group id onto the given reports.
// First claim wins: if any report is already held by a different moderator
// the whole claim fails and nothing is written.
func (rdb *ReportDB) ClaimReports(ctx context.Context, reportIds []int64, moderatorId string) (string, error) {
	if len(reportIds) == 0 {
		return "", db2.ErrNotFound
	}
	actionGroupId := uuid.NewString()
	err := withRetry(func() error {
		return rdb.sess.TxContext(ctx, func(sess db.Session) error {
			var rows []struct {
				Id          int64  `db:"id"`
				HandledById string `db:"handled_by_id"`
				IsClosed    bool   `db:"is_closed"`
			}
			if err := sess.SQL().
				Select("id", "handled_by_id", "is_closed").
				From("report").
				Where("id IN ?", reportIds).
				Amend(func(query string) string {
					return query + " FOR UPDATE"
				}).
				IteratorContext(ctx).
				All(&rows); err != nil {
				return err
			}
			if len(rows) != len(reportIds) {
				return db2.ErrNotFound
			}
			for _, row := range rows {
				if !model.CanClaim(row.HandledById, row.IsClosed, moderatorId) {
					return db2.ErrAlreadyHandled
				}
			}
			_, err := sess.SQL().
				Update("report").
				Set("handled_by_id = ?, action_group_id = ?", moderatorId, actionGroupId).
				Where("id IN ?", reportIds).
				ExecContext(ctx)
			return err
		}, &sql.TxOptions{})
	})
	if err != nil {
		return "", err
	}
	return actionGroupId, nil
}

// ReleaseReports clears the claim on still-open reports in the action
// group, making them claimable again.
func (rdb *ReportDB) ReleaseReports(ctx context.Context, actionGroupId, moderatorId string) error {
	_, err := rdb.sess.SQL().
		Update("report").
		Set("handled_by_id = ?", "").
		Where("action_group_id = ? AND handled_by_id = ? AND is_closed = 0", actionGroupId, moderatorId).
		ExecContext(ctx)
	return err
}

// CloseReport closes one report. Closing never touches content status:
// correcting content and resolving its reports are independent moderator
// actions.
func (rdb *ReportDB) CloseReport(ctx context.Context, reportId int64, moderatorId string) error {
	return withRetry(func() error {
		return rdb.sess.TxContext(ctx, func(sess db.Session) error {
			row, err := sess.SQL().QueryRowContext(ctx,
				`SELECT handled_by_id FROM report WHERE id = ? AND is_closed = 0 FOR UPDATE`, reportId)
			if err != nil {
				return err
			}
			var handledBy string
			if err := row.Scan(&handledBy); err != nil {
				if err == sql.ErrNoRows {
					return db2.ErrNotFound
				}
				return err
			}
			if handledBy != "" && handledBy != moderatorId {
				return db2.ErrAlreadyHandled
			}
			_, err = sess.SQL().
				Update("report").
				Set("is_closed = ?, handled_by_id = ?", true, moderatorId).
				Where("id = ?", reportId).
				ExecContext(ctx)
			return err
		}, &sql.TxOptions{})
	})
}

func (rdb *ReportDB) GetOpenReports(ctx context.Context) ([]*model.Report, error) {
	return rdb.getReports(ctx, "is_closed = ?", false)
}

func (rdb *ReportDB) GetReportsByActionGroup(ctx context.Context, actionGroupId string) ([]*model.Report, error) {
	return rdb.getReports(ctx, "action_group_id = ?", actionGroupId)
}

func (rdb *ReportDB) getReports(ctx context.Context, where string, arg interface{}) ([]*model.Report, error) {
	var reports []*model.Report
	if err := rdb.sess.SQL().
		Select("*").
		From("report").
		Where(where, arg).
		OrderBy("created_at", "id").
		IteratorContext(ctx).
		All(&reports); err != nil {
		return nil, err
	}
	return reports, nil
}
