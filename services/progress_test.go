package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

func newProgressService(t *testing.T) *ProgressService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "should open in-memory database")
	require.NoError(t, db.AutoMigrate(&model.ProgressRecord{}), "should migrate progress records")

	return &ProgressService{store: NewProgressStore(db)}
}

func TestInitialize(t *testing.T) {
	svc := newProgressService(t)

	progress, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err, "initialize should succeed")

	assert.Equal(t, "ecg-lesson-1", progress.LessonID)
	assert.Equal(t, 0, progress.CurrentStep, "cursor should start at step 0")
	assert.Equal(t, 8, progress.TotalSteps)
	assert.Equal(t, 5, progress.Hearts, "should start with full hearts")
	assert.Equal(t, 5, progress.MaxHearts)
	assert.Equal(t, 0, progress.Score)
	assert.Equal(t, 0, progress.Streak)
	assert.Equal(t, 0, progress.Mistakes)
	assert.False(t, progress.IsCompleted)
	assert.NotNil(t, progress.Answers)
	assert.NotNil(t, progress.StepTimeMs)
	assert.False(t, progress.SessionStart.IsZero(), "session start should be stamped")
}

func TestInitializeDefaultHearts(t *testing.T) {
	svc := newProgressService(t)

	progress, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 0)
	require.NoError(t, err)

	assert.Equal(t, shared.DefaultMaxHearts, progress.Hearts, "non-positive hearts should fall back to the default")
}

func TestInitializeOverwritesPriorAttempt(t *testing.T) {
	svc := newProgressService(t)

	_, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "Sinus rhythm", true, 1200)
	require.NoError(t, err)

	progress, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err, "re-initialize should succeed")

	assert.Equal(t, 0, progress.Score, "restart should discard the earlier score")
	assert.Empty(t, progress.Answers, "restart should discard recorded answers")
}

func TestSubmitAnswerCorrect(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err)

	progress, err := svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "Sinus rhythm", true, 1200)
	require.NoError(t, err)

	assert.Equal(t, shared.CorrectAnswerPoints, progress.Score)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, 1, progress.PerfectAnswers)
	assert.Equal(t, 5, progress.Hearts, "correct answer should not cost a heart")
	assert.Equal(t, "Sinus rhythm", progress.Answers["step_1"])
	assert.Equal(t, int64(1200), progress.StepTimeMs["step_1"])
}

func TestSubmitAnswerStreakBonus(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err)

	var progress *model.LessonProgress
	for i, answer := range []string{"Sinus rhythm", "Atrial fibrillation", "P wave"} {
		progress, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", stepID(i+1), answer, true, 1000)
		require.NoError(t, err)
	}

	// 3 x 10 base points plus the streak bonus at streak 3
	assert.Equal(t, 35, progress.Score)
	assert.Equal(t, 3, progress.Streak)
	assert.Equal(t, 3, progress.PerfectAnswers)
}

func TestSubmitAnswerMiss(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "Sinus rhythm", true, 1000)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_2", "P wave", true, 1000)
	require.NoError(t, err)

	progress, err := svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_3", "QRS complex", false, 2000)
	require.NoError(t, err)

	assert.Equal(t, 20, progress.Score, "a miss should not change the score")
	assert.Equal(t, 0, progress.Streak, "a miss should reset the streak")
	assert.Equal(t, 4, progress.Hearts, "a miss should cost one heart")
	assert.Equal(t, 1, progress.Mistakes)
	assert.Equal(t, 2, progress.PerfectAnswers, "earlier correct answers should remain counted")
}

func TestHeartsFloorAtZero(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 10, 3)
	require.NoError(t, err)

	var progress *model.LessonProgress
	for i := 0; i < 6; i++ {
		progress, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", stepID(i+1), "wrong", false, 500)
		require.NoError(t, err)
	}

	assert.Equal(t, 0, progress.Hearts, "hearts should floor at zero")
	assert.Equal(t, 6, progress.Mistakes, "mistakes should keep counting past zero hearts")
}

func TestAnswerTimeAccumulates(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 8, 5)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "first try", false, 1500)
	require.NoError(t, err)
	progress, err := svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "second try", true, 2500)
	require.NoError(t, err)

	assert.Equal(t, int64(4000), progress.StepTimeMs["step_1"], "retry time should accumulate per step")
	assert.Equal(t, "second try", progress.Answers["step_1"], "latest answer should replace the earlier one")
}

func TestNavigationClamping(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 3, 5)
	require.NoError(t, err)

	progress, err := svc.Retreat("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentStep, "retreat at the first step should clamp at 0")

	for i := 0; i < 5; i++ {
		progress, err = svc.Advance("user-1", "ecg-lesson-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, progress.CurrentStep, "advance past the end should clamp at the last step")

	progress, err = svc.Retreat("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CurrentStep)
}

func TestNavigationZeroStepLesson(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 0, 5)
	require.NoError(t, err)

	progress, err := svc.Advance("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentStep, "the cursor must never go negative, even with no steps")

	progress, err = svc.Retreat("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentStep)
}

func TestCompletePerfectLesson(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", stepID(i+1), "right", true, 1000)
		require.NoError(t, err)
	}

	progress, err := svc.Complete("user-1", "ecg-lesson-1")
	require.NoError(t, err)

	// 35 answer points + 50 completion + 100 perfect run
	assert.Equal(t, 185, progress.Score)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt, "completion timestamp should be set")
	require.NotNil(t, progress.FinalScore, "final score should be snapshotted")
	assert.Equal(t, 185, *progress.FinalScore)
}

func TestCompleteWithMistakes(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "right", true, 1000)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_2", "wrong", false, 1000)
	require.NoError(t, err)

	progress, err := svc.Complete("user-1", "ecg-lesson-1")
	require.NoError(t, err)

	// 10 answer points + 50 completion, no perfect bonus
	assert.Equal(t, 60, progress.Score)
}

func TestCompletedRecordIsFrozen(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)
	_, err = svc.Complete("user-1", "ecg-lesson-1")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", "ecg-lesson-1", "step_1", "late", true, 1000)
	assert.ErrorIs(t, err, shared.ErrLessonCompleted, "answers after completion should be rejected")

	_, err = svc.Advance("user-1", "ecg-lesson-1")
	assert.ErrorIs(t, err, shared.ErrLessonCompleted, "navigation after completion should be rejected")

	_, err = svc.Complete("user-1", "ecg-lesson-1")
	assert.ErrorIs(t, err, shared.ErrLessonCompleted, "double completion should be rejected")
}

func TestResetAllowsRestartAfterCompletion(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)
	_, err = svc.Complete("user-1", "ecg-lesson-1")
	require.NoError(t, err)

	require.NoError(t, svc.Reset("user-1", "ecg-lesson-1"), "reset should succeed on a completed record")

	_, err = svc.GetProgress("user-1", "ecg-lesson-1")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound, "reset should remove the record")

	progress, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err, "a fresh attempt should be possible after reset")
	assert.False(t, progress.IsCompleted)
}

func TestGetProgressMissing(t *testing.T) {
	svc := newProgressService(t)

	_, err := svc.GetProgress("user-1", "no-such-lesson")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

func TestCanResume(t *testing.T) {
	svc := newProgressService(t)

	assert.False(t, svc.CanResume("user-1", "ecg-lesson-1"), "no record means nothing to resume")

	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)
	assert.False(t, svc.CanResume("user-1", "ecg-lesson-1"), "a fresh record at step 0 is not resumable")

	_, err = svc.Advance("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.True(t, svc.CanResume("user-1", "ecg-lesson-1"), "a record past step 0 is resumable")

	_, err = svc.Complete("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.False(t, svc.CanResume("user-1", "ecg-lesson-1"), "a completed record is not resumable")
}

func TestCompletionPercentage(t *testing.T) {
	svc := newProgressService(t)

	assert.Equal(t, 0, svc.CompletionPercentage("user-1", "ecg-lesson-1"), "missing record should read as 0%")

	_, err := svc.Initialize("user-1", "ecg-lesson-1", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.CompletionPercentage("user-1", "ecg-lesson-1"))

	_, err = svc.Advance("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 33, svc.CompletionPercentage("user-1", "ecg-lesson-1"), "1 of 3 should round to 33")

	_, err = svc.Advance("user-1", "ecg-lesson-1")
	require.NoError(t, err)
	assert.Equal(t, 67, svc.CompletionPercentage("user-1", "ecg-lesson-1"), "2 of 3 should round to 67")
}

func TestCompletionPercentageZeroSteps(t *testing.T) {
	svc := newProgressService(t)

	_, err := svc.Initialize("user-1", "empty-lesson", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.CompletionPercentage("user-1", "empty-lesson"), "zero total steps should not divide by zero")
}

func TestListProgress(t *testing.T) {
	svc := newProgressService(t)

	_, err := svc.Initialize("user-1", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)
	_, err = svc.Initialize("user-1", "ecg-lesson-2", 8, 5)
	require.NoError(t, err)
	_, err = svc.Initialize("user-2", "ecg-lesson-1", 5, 5)
	require.NoError(t, err)

	records, err := svc.ListProgress("user-1")
	require.NoError(t, err)

	assert.Len(t, records, 2, "listing should only cover the requesting learner")
	assert.Contains(t, records, "ecg-lesson-1")
	assert.Contains(t, records, "ecg-lesson-2")
}

func TestScoreNeverDecreases(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Initialize("user-1", "ecg-lesson-1", 10, 5)
	require.NoError(t, err)

	previous := 0
	answers := []bool{true, false, true, true, false, true, true, true, false}
	for i, correct := range answers {
		progress, err := svc.SubmitAnswer("user-1", "ecg-lesson-1", stepID(i+1), "answer", correct, 500)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, progress.Score, previous, "score must be monotonically non-decreasing")
		previous = progress.Score
	}
}

func stepID(n int) string {
	return fmt.Sprintf("step_%d", n)
}
