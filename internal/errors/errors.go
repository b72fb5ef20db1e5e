// Package errors provides the unified error taxonomy used across all
// application layers. Services classify failures here and the HTTP layer
// maps the classification to a status code without inspecting causes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of error for proper handling and response.
type ErrorType string

const (
	// Business logic errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Infrastructure errors
	ErrorTypePersistence ErrorType = "PERSISTENCE"
	ErrorTypeInterrupted ErrorType = "INTERRUPTED"
	ErrorTypeInternal    ErrorType = "INTERNAL"
)

// AppError carries an error classification, a human-readable message, and
// the underlying cause. It is the single error type crossing layer
// boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error (missing/empty/invalid-range input).
func Validation(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates an error for a referenced entity that does not exist.
func NotFound(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates an error for an illegal state transition.
func Conflict(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage collaborator failure.
func Persistence(cause error, format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypePersistence, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Interrupted wraps a failure from an operation cut off mid-flight.
func Interrupted(cause error, format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeInterrupted, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Internal wraps an unclassified failure.
func Internal(cause error, format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// HTTPStatus maps an error to the HTTP status class the dispatcher returns.
// Unclassified errors are treated as internal failures.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypePersistence, ErrorTypeInterrupted, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human-readable message without leaking error types to
// API clients. Non-AppError values fall back to their Error string.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
