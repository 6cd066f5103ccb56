package apperrors

import (
	"net/http"
)

// AppError is an error with the HTTP status it should be reported with.
// Message is an i18n message id; GlobalErrorMiddleware translates it.
type AppError struct {
	Code    int
	Message string
	Data    map[string]interface{}
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches the underlying cause for logging.
func (e *AppError) Wrap(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithData sets the template data used when translating Message.
func (e *AppError) WithData(data map[string]interface{}) *AppError {
	e.Data = data
	return e
}

func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "error.invalid_request")
}

func NotFoundError(message string) *AppError {
	return WithCode(http.StatusNotFound, message)
}

func ConflictError(message string) *AppError {
	return WithCode(http.StatusConflict, message)
}

// UnavailableError is for transient failures the client may retry.
func UnavailableError(message string) *AppError {
	return WithCode(http.StatusServiceUnavailable, message)
}

func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "error.internal")
}
