package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		title  string
	}{
		{KindNotFound, http.StatusNotFound, "Not Found"},
		{KindBadRequest, http.StatusBadRequest, "Bad Request"},
		{KindNotImplemented, http.StatusNotImplemented, "Not Implemented"},
		{KindInternal, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.title, tt.kind.Title())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := BadRequest("missing %s member", "data")
	assert.Equal(t, "Bad Request: missing data member", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Status())

	cause := errors.New("connection refused")
	internal := Internal(cause, "failed to list %s", "organization")
	assert.Equal(t, "Internal Server Error: failed to list organization: connection refused", internal.Error())
	assert.ErrorIs(t, internal, cause)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("no record"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(nil, KindInternal))
	assert.True(t, Is(NotImplemented("later"), KindNotImplemented))
}
