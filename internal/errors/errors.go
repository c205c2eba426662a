// Package errors provides typed error definitions for cirrus.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Service lifecycle errors
	ErrServiceNotFound    ErrorCode = "SERVICE_NOT_FOUND"
	ErrServiceStartFailed ErrorCode = "SERVICE_START_FAILED"
	ErrServiceStopFailed  ErrorCode = "SERVICE_STOP_FAILED"
	ErrManagerNotFound    ErrorCode = "MANAGER_NOT_FOUND"

	// Supervisor errors
	ErrWorkerCrashed   ErrorCode = "WORKER_CRASHED"
	ErrShutdownTimeout ErrorCode = "SHUTDOWN_TIMEOUT"
	ErrShuttingDown    ErrorCode = "SHUTTING_DOWN"

	// Store errors
	ErrStoreConnection ErrorCode = "STORE_CONNECTION"
	ErrStoreQuery      ErrorCode = "STORE_QUERY"
	ErrStoreMigration  ErrorCode = "STORE_MIGRATION"

	// Object store errors
	ErrBucketNotFound ErrorCode = "BUCKET_NOT_FOUND"
	ErrObjectNotFound ErrorCode = "OBJECT_NOT_FOUND"

	// Network/API errors
	ErrNetworkConnection ErrorCode = "NETWORK_CONNECTION"
	ErrAPICall           ErrorCode = "API_CALL"

	// Validation errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrInvalidPort      ErrorCode = "INVALID_PORT"
	ErrInvalidState     ErrorCode = "INVALID_STATE"

	// Internal errors
	ErrInternal  ErrorCode = "INTERNAL_ERROR"
	ErrTimeout   ErrorCode = "TIMEOUT"
	ErrCancelled ErrorCode = "CANCELLED"
	ErrNotFound  ErrorCode = "NOT_FOUND"
)

// CirrusError represents a structured error with additional context
type CirrusError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *CirrusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *CirrusError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *CirrusError) WithContext(key string, value interface{}) *CirrusError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *CirrusError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrConfigNotFound, ErrServiceNotFound, ErrManagerNotFound, ErrBucketNotFound, ErrObjectNotFound, ErrNotFound:
		return http.StatusNotFound
	case ErrValidationFailed, ErrInvalidInput, ErrInvalidPort, ErrConfigValidation:
		return http.StatusBadRequest
	case ErrShuttingDown:
		return http.StatusServiceUnavailable
	case ErrTimeout, ErrShutdownTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new CirrusError
func New(code ErrorCode, message string) *CirrusError {
	return &CirrusError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new CirrusError with details
func NewWithDetails(code ErrorCode, message, details string) *CirrusError {
	return &CirrusError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new CirrusError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *CirrusError {
	return &CirrusError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the error code from an error, if it's a CirrusError
func GetCode(err error) ErrorCode {
	if ce, ok := err.(*CirrusError); ok {
		return ce.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// Common pre-defined errors for consistency
var (
	ErrServiceNotFoundError = New(ErrServiceNotFound, "service not found")
	ErrManagerNotFoundError = New(ErrManagerNotFound, "no manager registered under this name")
	ErrShuttingDownError    = New(ErrShuttingDown, "supervisor is shutting down")
	ErrShutdownTimedOut     = New(ErrShutdownTimeout, "workers did not stop within the grace period")
	ErrEmptyInput           = New(ErrInvalidInput, "input cannot be empty")
	ErrInvalidPortError     = New(ErrInvalidPort, "port number is invalid")
)
