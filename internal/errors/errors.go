// Package errors defines the stable error codes returned by agentlog.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract of the HTTP API.
const (
	EUsage         Code = "E_USAGE"
	EInvalidEntry  Code = "E_INVALID_ENTRY"  // agent or content empty after sanitization
	ERateLimited   Code = "E_RATE_LIMITED"   // source exceeded its submit quota
	ENotAllowed    Code = "E_NOT_ALLOWED"    // document name not in the allow-list
	ENotFound      Code = "E_NOT_FOUND"      // document allowed but absent on disk
	EPersistFailed Code = "E_PERSIST_FAILED" // append/write to the log failed
	EReadFailed    Code = "E_READ_FAILED"    // log or document could not be read
	EInvalidConfig Code = "E_INVALID_CONFIG"
	EInternal      Code = "E_INTERNAL"
)

// AppError is the standard error type for agentlog errors.
type AppError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError with the given code and message.
func New(code Code, msg string) error {
	return &AppError{Code: code, Msg: msg}
}

// NewWithDetails creates a new AppError with code, message, and details.
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &AppError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new AppError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &AppError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not an AppError.
func GetCode(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// AsAppError returns (*AppError, true) if err is or wraps an AppError.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case EUsage, EInvalidEntry:
		return http.StatusBadRequest
	case ENotAllowed:
		return http.StatusForbidden
	case ENotFound:
		return http.StatusNotFound
	case ERateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}
