// Package errors provides the StandardError type shared by the backend client,
// the page services and the HTTP surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendError       ErrorCode = "BACKEND_ERROR"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeUploadRejected     ErrorCode = "UPLOAD_REJECTED"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidState       ErrorCode = "INVALID_STATE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Status    int                    `json:"status,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewBackendUnavailableError reports a transport failure talking to the ATS backend.
func NewBackendUnavailableError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendUnavailable,
		Message:   fmt.Sprintf("Backend unreachable at %s", endpoint),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendError reports a non-2xx answer. message is whatever the backend put in
// its body and is surfaced to users verbatim; it may be empty.
func NewBackendError(endpoint string, status int, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendError,
		Message:   message,
		Details:   fmt.Sprintf("%s answered %d", endpoint, status),
		Retryable: status >= 500,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError reports an absent resource. Some callers treat it as an empty state.
func NewNotFoundError(resource, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   message,
		Details:   fmt.Sprintf("%s not found", resource),
		Retryable: false,
		Status:    http.StatusNotFound,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError is raised before a request ever reaches the backend.
func NewValidationError(message string, fields ...string) *StandardError {
	e := &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
	if len(fields) > 0 {
		e.Details = strings.Join(fields, ", ")
	}
	return e
}

func NewUploadRejectedError(filename, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadRejected,
		Message:   reason,
		Details:   filename,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   fmt.Sprintf("No %s page with id %s", kind, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidStateError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidState,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(message string, err error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeInternal,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard unwraps err into a StandardError when it carries one.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the error code, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if se, ok := AsStandard(err); ok {
		return se.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeNotFound
}

func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	code := CodeOf(err)
	return code == ErrCodeValidationFailed || code == ErrCodeUploadRejected
}

// UserMessage picks the text shown in a notice: the backend's own message when it
// sent one, the validation message for client-side failures, otherwise fallback.
func UserMessage(err error, fallback string) string {
	se, ok := AsStandard(err)
	if !ok {
		return fallback
	}
	switch se.Code {
	case ErrCodeBackendUnavailable, ErrCodeInternal:
		return fallback
	}
	if strings.TrimSpace(se.Message) == "" {
		return fallback
	}
	return se.Message
}

// HTTPStatus maps an error onto the status the console API answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeUploadRejected:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodeBackendError, ErrCodeBackendUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "BACKEND"):
		return "BACKEND"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "UPLOAD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "STATE"):
		return "STATE"
	default:
		return "OTHER"
	}
}
