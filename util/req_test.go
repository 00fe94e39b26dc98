package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/seafarer/shipboard-be/db"
	"github.com/stretchr/testify/assert"
)

func TestBuildDbHTTPErr(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{db.ErrNotFound, http.StatusNotFound},
		{db.ErrAlreadyMember, http.StatusConflict},
		{db.ErrDuplicateReport, http.StatusConflict},
		{db.ErrAlreadyHandled, http.StatusConflict},
		{db.ErrGroupCancelled, http.StatusUnprocessableEntity},
		{db.ErrNotMember, http.StatusUnprocessableEntity},
		{db.ErrInvalidCapacity, http.StatusUnprocessableEntity},
		{db.ErrNotOwner, http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		assert.Equal(t, test.status, BuildDbHTTPErr(test.err).Status, "error: %v", test.err)
	}
}

func TestParseId(t *testing.T) {
	id, httpErr := ParseId("42")
	assert.Nil(t, httpErr)
	assert.Equal(t, int64(42), id)

	_, httpErr = ParseId("not-a-number")
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}
