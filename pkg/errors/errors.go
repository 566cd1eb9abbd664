// Package errors provides structured error types for campaigncanvas.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API, and the edge functions
//   - Machine-readable error codes for programmatic handling
//   - A single mapping from error code to HTTP status
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*, MISSING_*: Input validation failures (400)
//   - NOT_FOUND: Resource not found (404)
//   - RATE_LIMITED, CREDITS_EXHAUSTED: Upstream quota responses (429, 402)
//   - UPSTREAM_*, PARSE_FAILED, INTERNAL_*: Everything else (500)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingField, "url is required")
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUpstream, origErr, "failed to fetch %s", url)
//	status := errors.HTTPStatus(err) // 500
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeMissingField Code = "MISSING_FIELD"
	ErrCodeInvalidURL   Code = "INVALID_URL"
	ErrCodeInvalidImage Code = "INVALID_IMAGE"
	ErrCodeInvalidBoard Code = "INVALID_BOARD"
	ErrCodeInvalidID    Code = "INVALID_ID"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Upstream quota errors
	ErrCodeRateLimited      Code = "RATE_LIMITED"
	ErrCodeCreditsExhausted Code = "CREDITS_EXHAUSTED"

	// Upstream and processing errors
	ErrCodeUpstream    Code = "UPSTREAM_ERROR"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeParseFailed Code = "PARSE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code an HTTP handler should answer
// with. Errors without a code map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidURL,
		ErrCodeInvalidImage, ErrCodeInvalidBoard, ErrCodeInvalidID:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeCreditsExhausted:
		return http.StatusPaymentRequired
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus classifies an upstream HTTP status code. It returns
// ErrCodeRateLimited for 429, ErrCodeCreditsExhausted for 402 and
// ErrCodeUpstream for anything else.
func FromStatus(status int) Code {
	switch status {
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusPaymentRequired:
		return ErrCodeCreditsExhausted
	default:
		return ErrCodeUpstream
	}
}
