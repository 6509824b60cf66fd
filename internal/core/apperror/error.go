// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Query compilation, transport and gateway errors all surface as AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeDatabase  = "DATABASE_ERROR"
	CodeTransport = "TRANSPORT_ERROR"
	CodeRemote    = "REMOTE_ERROR"

	// Validation errors (400)
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidOperator    = "INVALID_OPERATOR"
	CodeInvalidQueryOption = "INVALID_QUERY_OPTION"
	CodeUnknownField       = "UNKNOWN_FIELD"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound      = "NOT_FOUND"
	CodeUnknownEntity = "UNKNOWN_ENTITY"
)

// AppError is the standard error type for the library.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field, operator, remote status, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidOperator is returned when a criteria operator object carries a key
// outside the supported operator set.
func NewInvalidOperator(field, operator string) *AppError {
	return &AppError{
		Code:       CodeInvalidOperator,
		Message:    fmt.Sprintf("unsupported operator %q on field %q", operator, field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "operator": operator},
	}
}

// NewInvalidQueryOption creates an error for malformed criteria values, sort
// specs or pagination options (400).
func NewInvalidQueryOption(option, message string) *AppError {
	return &AppError{
		Code:       CodeInvalidQueryOption,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"option": option},
	}
}

// NewUnknownField is returned by strict field tables for names they do not declare.
func NewUnknownField(entity, field string) *AppError {
	return &AppError{
		Code:       CodeUnknownField,
		Message:    fmt.Sprintf("unknown field %q", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"entity": entity, "field": field},
	}
}

// NewUnknownEntity creates an error for entity names missing from the registry (404).
func NewUnknownEntity(name string) *AppError {
	return &AppError{
		Code:       CodeUnknownEntity,
		Message:    fmt.Sprintf("unknown entity %q", name),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": name},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewRemote wraps a non-2xx response of the Logo Objects API.
// 404 and 401 keep their own codes so callers can branch on them.
func NewRemote(status int, message string) *AppError {
	code := CodeRemote
	switch status {
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusForbidden:
		code = CodeForbidden
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Details:    map[string]any{"remote_status": status},
	}
}

// NewTransport creates an error for failures below HTTP (dial, TLS, decode) (502).
func NewTransport(err error) *AppError {
	return &AppError{
		Code:       CodeTransport,
		Message:    "Logo Objects API unreachable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsUnauthorized checks if error is CodeUnauthorized
func IsUnauthorized(err error) bool {
	return HasCode(err, CodeUnauthorized)
}
