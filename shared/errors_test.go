package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewInternalError(cause, "Failed to load lesson")

	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, "Failed to load lesson: connection refused", appErr.Error())
	assert.ErrorIs(t, appErr, cause, "the cause should be reachable through Unwrap")
}

func TestAppErrorWithoutCause(t *testing.T) {
	appErr := NewNotFoundError(nil, "No such lesson")

	assert.Equal(t, "No such lesson", appErr.Error())
	assert.NoError(t, appErr.Unwrap())
}

func TestGetAppError(t *testing.T) {
	appErr := NewConflictError(ErrLessonCompleted, "Lesson already completed")
	wrapped := fmt.Errorf("handling request: %w", appErr)

	found, ok := GetAppError(wrapped)
	require.True(t, ok, "AppError should be found through wrapping")
	assert.Equal(t, http.StatusConflict, found.StatusCode)

	_, ok = GetAppError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("%w: ecg-lesson-9", ErrLessonNotFound)
	assert.ErrorIs(t, err, ErrLessonNotFound)
	assert.NotErrorIs(t, err, ErrProgressNotFound)
}
