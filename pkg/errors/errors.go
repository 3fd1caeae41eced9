// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes for better error handling and API responses.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal   ErrorCode = "E1000"
	ErrCodeValidation ErrorCode = "E1001"
	ErrCodeNotFound   ErrorCode = "E1002"
	ErrCodeConflict   ErrorCode = "E1003"

	// Layout errors (2xxx)
	ErrCodeLayoutEmpty    ErrorCode = "E2001"
	ErrCodeLayoutSettings ErrorCode = "E2002"

	// Image pipeline errors (3xxx)
	ErrCodeImageFetch   ErrorCode = "E3001"
	ErrCodeImageDecode  ErrorCode = "E3002"
	ErrCodeImageTimeout ErrorCode = "E3003"

	// Render/measure errors (4xxx)
	ErrCodeRenderFailed  ErrorCode = "E4001"
	ErrCodeMeasureFailed ErrorCode = "E4002"
	ErrCodeChromeMissing ErrorCode = "E4003"

	// Export errors (5xxx)
	ErrCodeExportFailed    ErrorCode = "E5001"
	ErrCodeExportCancelled ErrorCode = "E5002"
	ErrCodeExportBusy      ErrorCode = "E5003"
	ErrCodeExportNoPages   ErrorCode = "E5004"

	// Configuration errors (6xxx)
	ErrCodeConfigNotFound ErrorCode = "E6001"
	ErrCodeConfigInvalid  ErrorCode = "E6002"
	ErrCodeConfigParse    ErrorCode = "E6003"
)

// Exit codes for application startup failures
const (
	// ExitCodeConfigValidation indicates configuration validation failure
	ExitCodeConfigValidation = 2
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeConfigNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeLayoutSettings, ErrCodeExportNoPages:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeExportBusy:
		return http.StatusConflict
	case ErrCodeImageTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeChromeMissing:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// Common error constructors for convenience

// ErrInternal creates an internal server error
func ErrInternal(message string, err error) *AppError {
	return Wrap(ErrCodeInternal, message, err)
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ErrExportBusy creates an error for an export started while one is running
func ErrExportBusy() *AppError {
	return New(ErrCodeExportBusy, "an export is already in progress")
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError attempts to convert an error to AppError
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
