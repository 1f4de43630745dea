package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(NotFound, "safety metric not found"))
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(Internal, "failed to list", sql.ErrConnDone)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "failed to list: "+sql.ErrConnDone.Error(), err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated:  http.StatusUnauthorized,
		PermissionDenied: http.StatusForbidden,
		AlreadyExists:    http.StatusConflict,
		NotFound:         http.StatusNotFound,
		InvalidArgument:  http.StatusBadRequest,
		Internal:         http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, HTTPStatus(k), string(k))
	}
}
