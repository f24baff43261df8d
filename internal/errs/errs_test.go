package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Authentication, http.StatusUnauthorized},
		{Authorization, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{InsufficientStock, http.StatusBadRequest},
		{Conflict, http.StatusBadRequest},
		{Inconsistent, http.StatusInternalServerError},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Status(), tt.kind.String())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", E(NotFound, "sweet not found"))

	assert.Equal(t, NotFound, KindOf(err))
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(nil, NotFound))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestClientMessageHidesInternalCause(t *testing.T) {
	cause := errors.New("database is locked")

	assert.Equal(t, "internal server error", ClientMessage(cause))
	assert.Equal(t, "internal server error", ClientMessage(Wrap(Internal, "listing sweets", cause)))
	assert.Equal(t, "insufficient stock", ClientMessage(E(InsufficientStock, "insufficient stock")))

	wrapped := Wrap(Inconsistent, "purchase left the store in an inconsistent state", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "purchase left the store in an inconsistent state", ClientMessage(wrapped))
}
