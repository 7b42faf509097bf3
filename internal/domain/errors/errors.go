// Package errors defines the typed error kinds the core hands back to the transport layer.
// Every kind carries an HTTP status, a stable code and a client-safe message.
package errors

import (
	"net/http"

	"taskhub/internal/errors"
)

// Error codes. They double as the "kind" of an AppError.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodePasswordMismatch    = "PASSWORD_MISMATCH"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeNotImplemented      = "NOT_IMPLEMENTED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeStorageFailure      = "STORAGE_FAILURE"
	CodeIntegrityCorruption = "INTEGRITY_CORRUPTION"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError or DatabaseExecuteError with the same code, so copies made by
// WithDetails still satisfy errors.Is against the predefined values below.
func (e *BaseError) Is(target error) bool {
	var app AppError
	if !errors.As(target, &app) {
		return false
	}

	return app.ErrorCode() == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error kinds
var (
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Validation failed",
		"",
	)

	ErrDuplicateEmail = NewBaseError(
		http.StatusConflict,
		CodeDuplicateEmail,
		"User with this email already exists",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		CodePasswordMismatch,
		"Password and confirmation password do not match",
		"",
	)

	// ErrInvalidCredentials is shared by the unknown-email and wrong-password paths.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		CodeInvalidCredentials,
		"Invalid email or password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		CodeUnauthorized,
		"Invalid or expired token",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		CodeNotFound,
		"Resource not found",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		CodeNotFound,
		"User not found",
		"",
	)

	ErrTaskNotFound = NewBaseError(
		http.StatusNotFound,
		CodeNotFound,
		"Task not found",
		"",
	)

	ErrCategoryNotFound = NewBaseError(
		http.StatusNotFound,
		CodeNotFound,
		"Category not found",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		CodeForbidden,
		"You do not have access to this resource",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		CodeConflict,
		"Resource conflict",
		"",
	)

	ErrDuplicateCategory = NewBaseError(
		http.StatusConflict,
		CodeConflict,
		"Category with this name already exists",
		"",
	)

	ErrNotImplemented = NewBaseError(
		http.StatusNotImplemented,
		CodeNotImplemented,
		"Refresh token functionality not implemented yet",
		"",
	)

	ErrStorageFailure = NewBaseError(
		http.StatusInternalServerError,
		CodeStorageFailure,
		"Storage operation failed",
		"",
	)

	// ErrIntegrityCorruption marks stored data the core cannot interpret, such as an
	// unparseable password hash. It must be logged as an operational alert.
	ErrIntegrityCorruption = NewBaseError(
		http.StatusInternalServerError,
		CodeIntegrityCorruption,
		"Stored credential data is corrupt",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		CodeInternal,
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a storage failure, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	if e.err == nil {
		return e.details
	}

	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Is makes every DatabaseExecuteError match ErrStorageFailure.
func (e *DatabaseExecuteError) Is(target error) bool {
	var app AppError
	if !errors.As(target, &app) {
		return false
	}

	return app.ErrorCode() == CodeStorageFailure
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return CodeStorageFailure
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Storage operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// KindOf returns the error code of the first AppError in err's chain, or CodeInternal.
func KindOf(err error) string {
	if err == nil {
		return ""
	}

	var app AppError
	if errors.As(err, &app) {
		return app.ErrorCode()
	}

	return CodeInternal
}
