package shared

import (
	"errors"
	"net/http"
)

// Sentinel errors for absent records. Callers branch on these instead of
// inspecting nil results.
var (
	ErrProgressNotFound = errors.New("lesson progress not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrLessonCompleted  = errors.New("lesson already completed")
	ErrStaleWrite       = errors.New("stale progress write rejected")
)

// AppError carries an HTTP status alongside the underlying error so the
// transport layer can map failures without string matching.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, err error, message string) *AppError {
	return &AppError{StatusCode: status, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return newAppError(http.StatusForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
