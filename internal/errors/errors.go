package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"stataid/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain sentinels pick up their code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, else the code implied by a
// domain sentinel in the chain, else "INTERNAL_ERROR"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case stderrors.Is(err, core.ErrMalformedInput):
		return CodeMalformedInput
	case stderrors.Is(err, core.ErrHardLimitExceeded):
		return CodeHardLimitExceeded
	case stderrors.Is(err, core.ErrInsufficientData):
		return CodeInsufficientData
	case stderrors.Is(err, core.ErrTestUnavailable):
		return CodeTestUnavailable
	}
	return CodeInternalError
}

// HTTPStatus maps an error to the status the API answers with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeMalformedInput, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTestUnavailable, CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeMalformedInput    = "MALFORMED_INPUT"
	CodeHardLimitExceeded = "HARD_LIMIT_EXCEEDED"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeTestUnavailable   = "EXTERNAL_TEST_UNAVAILABLE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
