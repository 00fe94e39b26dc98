package util

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seafarer/shipboard-be/db"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
	NotFoundHTTPErr = HTTPError{
		Message: "not found",
		Status:  http.StatusNotFound,
	}
	ForbiddenHTTPErr = HTTPError{
		Message: "forbidden",
		Status:  http.StatusForbidden,
	}
)

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

// BuildDbHTTPErr maps an engine error onto a response. Conflicts surface as
// 409 ("already done", recoverable at the client), preconditions as 422,
// authorization as 403; anything else is an infrastructure failure.
func BuildDbHTTPErr(err error) *HTTPError {
	switch {
	case err == db.ErrNotFound:
		return &NotFoundHTTPErr
	case db.IsConflict(err):
		return &HTTPError{Status: http.StatusConflict, Message: err.Error()}
	case db.IsPrecondition(err):
		return &HTTPError{Status: http.StatusUnprocessableEntity, Message: err.Error()}
	case db.IsAuthorization(err):
		return &HTTPError{Status: http.StatusForbidden, Message: err.Error()}
	}
	log.Println("database error occurred", err)
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "database error",
	}
}

type HandlerOpts struct {
}

type WrappedHandler func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper adapts a handler returning (data, *HTTPError) onto the
// {success, data|message} response envelope.
func HandlerWrapper(handler WrappedHandler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			c.JSON(httpErr.Status, gin.H{
				"success": false,
				"message": httpErr.Message,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
		})
	}
}
