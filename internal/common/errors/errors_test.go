package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"backend message verbatim", NewBackendError("/jobs/x", 400, "Title already taken"), "Failed to add job", "Title already taken"},
		{"backend without message", NewBackendError("/jobs/x", 500, ""), "Failed to add job", "Failed to add job"},
		{"transport failure", NewBackendUnavailableError("/jobs/", fmt.Errorf("dial tcp: refused")), "Failed to load jobs", "Failed to load jobs"},
		{"validation", NewValidationError("Summary is required"), "x", "Summary is required"},
		{"wrapped", fmt.Errorf("saving: %w", NewBackendError("/a", 409, "conflict")), "x", "conflict"},
		{"foreign error", fmt.Errorf("plain"), "fallback", "fallback"},
		{"nil", nil, "fallback", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(NewValidationError("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(NewUploadRejectedError("a.pdf", "too big")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFoundError("job", "")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewSessionNotFoundError("home", "1")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewInvalidStateError("x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewBackendError("/a", 500, "")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("x")))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("filter", "")))
	assert.False(t, IsNotFound(NewBackendError("/a", 500, "")))
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.False(t, IsValidation(nil))

	se := NewBackendError("/a", 503, "down")
	assert.True(t, se.Retryable)
	assert.Equal(t, "StandardError[BACKEND_ERROR]: down", se.Error())
	assert.Equal(t, "v", se.WithMetadata("k", "v").Metadata["k"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "BACKEND", GetErrorCategory(ErrCodeBackendUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeUploadRejected))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeSessionNotFound))
	assert.Equal(t, "STATE", GetErrorCategory(ErrCodeInvalidState))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
