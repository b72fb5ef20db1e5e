package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", Validation("username cannot be empty"), http.StatusBadRequest},
		{"not found", NotFound("order not found: %s", "order-1"), http.StatusNotFound},
		{"conflict", Conflict("cannot cancel"), http.StatusConflict},
		{"persistence", Persistence(cause, "save failed"), http.StatusInternalServerError},
		{"interrupted", Interrupted(cause, "cut off"), http.StatusInternalServerError},
		{"internal", Internal(cause, "unexpected"), http.StatusInternalServerError},
		{"plain error", cause, http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestMessageDoesNotLeakType(t *testing.T) {
	err := Validation("amount must be positive")
	assert.Equal(t, "amount must be positive", Message(err))
	assert.NotContains(t, Message(err), "VALIDATION")

	plain := fmt.Errorf("raw failure")
	assert.Equal(t, "raw failure", Message(plain))
}

func TestIsType(t *testing.T) {
	err := Conflict("order %s cannot be processed", "order-1")
	assert.True(t, IsType(err, ErrorTypeConflict))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeConflict))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeConflict))
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := fmt.Errorf("driver: bad connection")
	err := Persistence(cause, "failed to save order")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PERSISTENCE")
	assert.Contains(t, err.Error(), "driver: bad connection")
}
