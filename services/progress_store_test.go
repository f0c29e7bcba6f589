package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

func newTestStore(t *testing.T) (*GormProgressStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ProgressRecord{}))

	return NewProgressStore(db), db
}

func TestProgressKey(t *testing.T) {
	assert.Equal(t, "lesson_progress_user-1_ecg-lesson-1", ProgressKey("user-1", "ecg-lesson-1"))
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	now := time.Now()
	progress := &model.LessonProgress{
		LessonID:     "ecg-lesson-1",
		CurrentStep:  3,
		TotalSteps:   8,
		Answers:      map[string]interface{}{"step_1": "Sinus rhythm"},
		StepTimeMs:   map[string]int64{"step_1": 4200},
		SessionStart: now,
		LastActivity: now,
		Hearts:       4,
		MaxHearts:    5,
		Score:        25,
		Streak:       2,
		Mistakes:     1,
	}

	require.NoError(t, store.Save("user-1", progress))

	loaded, err := store.Load("user-1", "ecg-lesson-1")
	require.NoError(t, err)

	assert.Equal(t, progress.LessonID, loaded.LessonID)
	assert.Equal(t, progress.CurrentStep, loaded.CurrentStep)
	assert.Equal(t, progress.TotalSteps, loaded.TotalSteps)
	assert.Equal(t, "Sinus rhythm", loaded.Answers["step_1"])
	assert.Equal(t, int64(4200), loaded.StepTimeMs["step_1"])
	assert.Equal(t, progress.Hearts, loaded.Hearts)
	assert.Equal(t, progress.Score, loaded.Score)
	assert.Equal(t, progress.Streak, loaded.Streak)
	assert.Equal(t, progress.Mistakes, loaded.Mistakes)
	assert.True(t, loaded.SessionStart.Equal(progress.SessionStart), "session start should survive the round trip")
	assert.False(t, loaded.IsCompleted)
}

func TestStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load("user-1", "no-such-lesson")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

func TestStoreCorruptPayload(t *testing.T) {
	store, db := newTestStore(t)

	record := model.ProgressRecord{
		Key:      ProgressKey("user-1", "ecg-lesson-1"),
		UserID:   "user-1",
		LessonID: "ecg-lesson-1",
		Payload:  json.RawMessage(`{not valid json`),
	}
	require.NoError(t, db.Create(&record).Error)

	_, err := store.Load("user-1", "ecg-lesson-1")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound, "corrupt payload should read as not found")
}

func TestStoreStaleWrite(t *testing.T) {
	store, _ := newTestStore(t)

	current := &model.LessonProgress{
		LessonID:     "ecg-lesson-1",
		TotalSteps:   8,
		LastActivity: time.Now(),
	}
	require.NoError(t, store.Save("user-1", current))

	stale := &model.LessonProgress{
		LessonID:     "ecg-lesson-1",
		TotalSteps:   8,
		LastActivity: time.Now().Add(-time.Hour),
	}
	err := store.Save("user-1", stale)
	assert.ErrorIs(t, err, shared.ErrStaleWrite, "a write older than the stored row should be rejected")

	loaded, err := store.Load("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.True(t, loaded.LastActivity.Equal(current.LastActivity), "the stored row should be untouched")
}

func TestStoreUpsert(t *testing.T) {
	store, _ := newTestStore(t)

	progress := &model.LessonProgress{
		LessonID:     "ecg-lesson-1",
		TotalSteps:   8,
		Score:        10,
		LastActivity: time.Now(),
	}
	require.NoError(t, store.Save("user-1", progress))

	progress.Score = 30
	progress.CurrentStep = 2
	progress.LastActivity = time.Now()
	require.NoError(t, store.Save("user-1", progress))

	loaded, err := store.Load("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.Score)
	assert.Equal(t, 2, loaded.CurrentStep)
}

func TestStoreLoadAll(t *testing.T) {
	store, _ := newTestStore(t)

	for _, lessonID := range []string{"ecg-lesson-1", "ecg-lesson-2", "ecg-lesson-3"} {
		progress := &model.LessonProgress{
			LessonID:     lessonID,
			TotalSteps:   8,
			LastActivity: time.Now(),
		}
		require.NoError(t, store.Save("user-1", progress))
	}
	other := &model.LessonProgress{LessonID: "ecg-lesson-1", TotalSteps: 8, LastActivity: time.Now()}
	require.NoError(t, store.Save("user-2", other))

	all, err := store.LoadAll("user-1")
	require.NoError(t, err)

	assert.Len(t, all, 3)
	for _, lessonID := range []string{"ecg-lesson-1", "ecg-lesson-2", "ecg-lesson-3"} {
		assert.Contains(t, all, lessonID)
	}
}

func TestStoreLoadAllSkipsCorruptRows(t *testing.T) {
	store, db := newTestStore(t)

	good := &model.LessonProgress{LessonID: "ecg-lesson-1", TotalSteps: 8, LastActivity: time.Now()}
	require.NoError(t, store.Save("user-1", good))

	bad := model.ProgressRecord{
		Key:      ProgressKey("user-1", "ecg-lesson-2"),
		UserID:   "user-1",
		LessonID: "ecg-lesson-2",
		Payload:  json.RawMessage(`garbage`),
	}
	require.NoError(t, db.Create(&bad).Error)

	all, err := store.LoadAll("user-1")
	require.NoError(t, err)

	assert.Len(t, all, 1, "corrupt rows should be skipped, not fail the listing")
	assert.Contains(t, all, "ecg-lesson-1")
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)

	progress := &model.LessonProgress{LessonID: "ecg-lesson-1", TotalSteps: 8, LastActivity: time.Now()}
	require.NoError(t, store.Save("user-1", progress))

	require.NoError(t, store.Delete("user-1", "ecg-lesson-1"))
	_, err := store.Load("user-1", "ecg-lesson-1")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)

	assert.NoError(t, store.Delete("user-1", "ecg-lesson-1"), "deleting a missing record should be a no-op")
}
