package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   string
	}{
		{NotFound("x"), http.StatusNotFound, "not_found"},
		{Validation("x"), http.StatusBadRequest, "validation"},
		{PermissionDenied("x"), http.StatusForbidden, "permission_denied"},
		{Conflict("x"), http.StatusConflict, "conflict"},
		{UnsupportedState("x"), http.StatusBadRequest, "unsupported_state"},
		{New(KindInternal, "x"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status())
			assert.Equal(t, tc.code, tc.err.Code())
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, KindInternal, "lookup failed")

	assert.Equal(t, "lookup failed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))

	// Kind survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("outer: %w", Conflict("busy"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
}
