// Package errors provides standardized error handling for the relay endpoints.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMethodNotAllowed   ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeProviderError      ErrorCode = "PROVIDER_ERROR"
	ErrCodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe
// to return to callers; Details is for server-side logs only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the status code for the error's code.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   fmt.Sprintf("method: %s", method),
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a 400 error whose message is shown to the caller.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError(clientKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Details:   fmt.Sprintf("clientKey: %s", clientKey),
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError hides err from the caller behind message.
func NewProviderError(message, provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   message,
		Details:   fmt.Sprintf("provider: %s, error: %v", provider, err),
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewConfigurationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationError,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AsStandard extracts a StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}
