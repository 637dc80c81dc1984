// Package errors provides standardized error handling for the gift finder.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeValidation covers input rejected before any network call:
	// queries too short, missing credentials, password below policy.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeNetwork covers requests that failed before any response arrived.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// ErrCodeServer covers responses received with a non-2xx status.
	ErrCodeServer ErrorCode = "SERVER_ERROR"

	// ErrCodeAuth covers a missing, malformed, or expired token.
	ErrCodeAuth ErrorCode = "AUTH_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Status    int       `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates an error for input rejected before dispatch.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError creates an error for a request that got no response.
func NewNetworkError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewServerError creates an error for a non-2xx response. The message is
// whatever the server surfaced in its body, or the caller's fallback.
func NewServerError(message string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeServer,
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthError creates an error for a missing, malformed, or expired session.
func NewAuthError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuth,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the ErrorCode of err if it is a StandardError, else "".
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// MessageOf returns the user-facing message of err. Non-StandardError values
// fall back to err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsNetwork reports whether err carries ErrCodeNetwork.
func IsNetwork(err error) bool { return CodeOf(err) == ErrCodeNetwork }

// IsServer reports whether err carries ErrCodeServer.
func IsServer(err error) bool { return CodeOf(err) == ErrCodeServer }

// IsAuth reports whether err carries ErrCodeAuth.
func IsAuth(err error) bool { return CodeOf(err) == ErrCodeAuth }
