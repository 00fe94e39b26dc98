package app

import (
	"context"
	"time"

	"github.com/seafarer/shipboard-be/db"
	"github.com/seafarer/shipboard-be/model"
	"github.com/seafarer/shipboard-be/util"
)

type StreamCursorOpts struct {
	Limit int
}

// StreamCursor pages through the stream newest-first with a keyset cursor.
// Cursors are advisory: visibility is re-projected against the live
// moderation status on every page.
type StreamCursor interface {
	Posts(ctx context.Context, opts *StreamCursorOpts) (posts []*model.StreamPost, cursor interface{}, err error)
}

type RawCursor = map[string]interface{}

type streamCursor struct {
	db         db.Database
	ReplyGroup int64     `json:"replyGroup,omitempty"`
	LastDate   time.Time `json:"lastDate"`
	LastId     int64     `json:"lastId"`
}

// GetStream returns a cursor over the ship-wide stream, optionally filtered
// to one reply group. A nil rawCursor starts from the newest post.
func GetStream(db db.Database, replyGroup int64, rawCursor RawCursor) (StreamCursor, error) {
	if rawCursor == nil {
		return &streamCursor{
			db:         db,
			ReplyGroup: replyGroup,
			LastDate:   time.Now(),
		}, nil
	}
	return streamCursorFromRaw(db, replyGroup, rawCursor)
}

func streamCursorFromRaw(db db.Database, replyGroup int64, rawCursor RawCursor) (*streamCursor, error) {
	lastDate := time.Now()
	if lastDateStr, hasLastDate := rawCursor["lastDate"].(string); hasLastDate {
		var err error
		if lastDate, err = util.ParseTime(lastDateStr); err != nil {
			return nil, err
		}
	}
	lastId, _ := rawCursor["lastId"].(float64)
	return &streamCursor{
		db:         db,
		ReplyGroup: replyGroup,
		LastDate:   lastDate,
		LastId:     int64(lastId),
	}, nil
}

func (sc *streamCursor) Posts(ctx context.Context, opts *StreamCursorOpts) ([]*model.StreamPost, interface{}, error) {
	posts, err := sc.db.GetStreamPosts(ctx, &db.StreamQuery{
		From:       &sc.LastDate,
		LastId:     sc.LastId,
		ReplyGroup: sc.ReplyGroup,
		Limit:      opts.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, sc.buildCursorForNextPage(posts), nil
}

func (sc *streamCursor) buildCursorForNextPage(previousPosts []*model.StreamPost) *streamCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	return &streamCursor{
		db:         sc.db,
		ReplyGroup: sc.ReplyGroup,
		LastDate:   last.CreatedAt,
		LastId:     last.Id,
	}
}
