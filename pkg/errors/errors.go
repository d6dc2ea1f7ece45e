package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeUsage              ErrorType = "usage"
	ErrorTypeConfig             ErrorType = "config"
	ErrorTypeAuthFlow           ErrorType = "auth_flow"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeRateLimit          ErrorType = "rate_limit"
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeServerError        ErrorType = "server_error"
	ErrorTypeAuth               ErrorType = "auth"
	ErrorTypeUnwrap             ErrorType = "unwrap"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Error represents a typed failure with an optional cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int

	// Remaining and Reset carry the quota hint of a rate limited response.
	// Reset is zero when the upstream did not report one.
	Remaining int
	Reset     time.Time

	Err error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    t,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a typed error around cause
func Wrap(t ErrorType, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// TypeOf returns the ErrorType of the first *Error in err's chain,
// or ErrorTypeUnknown when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries a typed error of type t
func Is(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// As extracts the typed error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable checks if an error type should be retried without consulting
// the upstream first
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// IsFatal reports whether an error type must end the whole program
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeUsage, ErrorTypeConfig, ErrorTypeAuthFlow, ErrorTypeAuth:
		return true
	default:
		return false
	}
}
