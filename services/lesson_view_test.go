package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseprep/ecg_api/model"
)

// blockingLoader holds every Load until released, so tests control exactly
// when each in-flight request completes.
type blockingLoader struct {
	release chan struct{}
	err     error
}

func (l *blockingLoader) Load(ctx context.Context, lessonID string) (*model.Lesson, error) {
	<-l.release
	if l.err != nil {
		return nil, l.err
	}
	return &model.Lesson{ID: lessonID, Title: "Lesson " + lessonID}, nil
}

func waitForState(t *testing.T, view *LessonView, done func(LessonViewState) bool) LessonViewState {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state := view.State()
		if done(state) {
			return state
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for view state, last state: %+v", state)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestLessonViewInitialState(t *testing.T) {
	view := NewLessonView(&blockingLoader{release: make(chan struct{})})

	state := view.State()
	assert.Nil(t, state.Content)
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
}

func TestLessonViewLoads(t *testing.T) {
	loader := &blockingLoader{release: make(chan struct{})}
	view := NewLessonView(loader)

	view.Show(context.Background(), "ecg-lesson-1")
	assert.True(t, view.State().IsLoading, "state should flip to loading immediately")

	close(loader.release)

	state := waitForState(t, view, func(s LessonViewState) bool { return s.Content != nil })
	assert.Equal(t, "ecg-lesson-1", state.Content.ID)
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
}

func TestLessonViewError(t *testing.T) {
	loadErr := errors.New("content source unavailable")
	loader := &blockingLoader{release: make(chan struct{}), err: loadErr}
	view := NewLessonView(loader)

	view.Show(context.Background(), "ecg-lesson-1")
	close(loader.release)

	state := waitForState(t, view, func(s LessonViewState) bool { return s.Err != nil })
	assert.ErrorIs(t, state.Err, loadErr)
	assert.Nil(t, state.Content)
	assert.False(t, state.IsLoading)
}

func TestLessonViewDiscardsStaleResponse(t *testing.T) {
	first := &blockingLoader{release: make(chan struct{})}
	second := &blockingLoader{release: make(chan struct{})}

	view := NewLessonView(loaderFunc(func(ctx context.Context, lessonID string) (*model.Lesson, error) {
		if lessonID == "ecg-lesson-1" {
			return first.Load(ctx, lessonID)
		}
		return second.Load(ctx, lessonID)
	}))

	view.Show(context.Background(), "ecg-lesson-1")
	view.Show(context.Background(), "ecg-lesson-2")

	// Let the superseded request finish first: its result must be dropped.
	close(first.release)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, view.State().IsLoading, "the stale response must not replace the in-flight state")

	close(second.release)

	state := waitForState(t, view, func(s LessonViewState) bool { return s.Content != nil })
	require.NotNil(t, state.Content)
	assert.Equal(t, "ecg-lesson-2", state.Content.ID, "only the latest request may publish its result")
}

type loaderFunc func(ctx context.Context, lessonID string) (*model.Lesson, error)

func (f loaderFunc) Load(ctx context.Context, lessonID string) (*model.Lesson, error) {
	return f(ctx, lessonID)
}
