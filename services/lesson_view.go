package services

import (
	"context"
	"sync"

	"github.com/pulseprep/ecg_api/model"
)

// LessonLoader is the loading side of the content loader, narrowed for
// consumers that only resolve lessons.
type LessonLoader interface {
	Load(ctx context.Context, lessonID string) (*model.Lesson, error)
}

// LessonViewState is the poll-free snapshot the presentation layer consumes:
// exactly one of loading, loaded (Content set) or failed (Err set), after the
// initial idle state.
type LessonViewState struct {
	Content   *model.Lesson
	IsLoading bool
	Err       error
}

// LessonView adapts the asynchronous loader into a state cell. Showing a new
// lesson mid-flight discards the stale response: each request carries a
// generation number and only the generation current at completion may update
// the state. The underlying fetch itself is not aborted.
type LessonView struct {
	loader LessonLoader

	mu    sync.Mutex
	gen   uint64
	state LessonViewState
}

func NewLessonView(loader LessonLoader) *LessonView {
	return &LessonView{loader: loader}
}

// Show starts loading the given lesson and returns immediately.
func (v *LessonView) Show(ctx context.Context, lessonID string) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.state = LessonViewState{IsLoading: true}
	v.mu.Unlock()

	go func() {
		lesson, err := v.loader.Load(ctx, lessonID)

		v.mu.Lock()
		defer v.mu.Unlock()
		if v.gen != gen {
			// A newer Show superseded this request
			return
		}
		if err != nil {
			v.state = LessonViewState{Err: err}
			return
		}
		v.state = LessonViewState{Content: lesson}
	}()
}

func (v *LessonView) State() LessonViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
