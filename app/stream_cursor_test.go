package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStreamWithoutCursor(t *testing.T) {
	cursor, err := GetStream(nil, 0, nil)
	require.NoError(t, err)

	sc := cursor.(*streamCursor)
	assert.Zero(t, sc.LastId)
	assert.WithinDuration(t, time.Now(), sc.LastDate, time.Minute)
}

func TestGetStreamFromRawCursor(t *testing.T) {
	cursor, err := GetStream(nil, 7, RawCursor{
		"lastDate": "2026-03-14T12:00:00Z",
		"lastId":   float64(42),
	})
	require.NoError(t, err)

	sc := cursor.(*streamCursor)
	assert.Equal(t, int64(7), sc.ReplyGroup)
	assert.Equal(t, int64(42), sc.LastId)
	assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), sc.LastDate)
}

func TestGetStreamRejectsMalformedDate(t *testing.T) {
	_, err := GetStream(nil, 0, RawCursor{"lastDate": "yesterday"})
	assert.Error(t, err)
}
