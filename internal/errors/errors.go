package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"gomediate/domain/core"
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

// Wrap wraps an error with additional context, keeping the code of a wrapped
// AppError and deriving one from the domain taxonomy otherwise
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, or the code implied
// by the domain error category
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case err == nil:
		return ""
	case core.IsConfigurationError(err):
		return CodeConfigInvalid
	case core.IsExtractionError(err):
		return CodeExtractionError
	case core.IsConvergenceError(err):
		return CodeConvergenceError
	case stderrors.Is(err, core.ErrRefitFailed):
		return CodeModelFitFailed
	case stderrors.Is(err, core.ErrInsufficientData):
		return CodeInvalidInput
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	}
	return CodeInternalError
}

// HTTPStatus maps an error to the status code the API responds with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeConfigInvalid, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeExtractionError, CodeConvergenceError, CodeModelFitFailed:
		return http.StatusUnprocessableEntity
	case CodeCanceled:
		return http.StatusRequestTimeout
	case CodeExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Category is the lowercase error category used for metrics labels
func Category(err error) string {
	switch GetCode(err) {
	case CodeConfigInvalid, CodeInvalidInput:
		return "configuration"
	case CodeExtractionError:
		return "extraction"
	case CodeConvergenceError:
		return "convergence"
	case CodeModelFitFailed:
		return "model_fit"
	case CodeCanceled:
		return "canceled"
	}
	if core.IsRandomnessError(err) {
		return "randomness"
	}
	return "internal"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeExtractionError  = "EXTRACTION_ERROR"
	CodeConvergenceError = "CONVERGENCE_ERROR"
	CodeModelFitFailed   = "MODEL_FIT_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeCanceled         = "CANCELED"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
