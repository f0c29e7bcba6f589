package services

import (
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

// ProgressService enforces the sequencing and scoring rules of one lesson
// attempt. Each mutation is a load-mutate-save sequence guarded by a
// per-key lock so two callers on the same lesson cannot interleave.
type ProgressService struct {
	context.DefaultService

	store    ProgressStore
	eventSvc *EventService

	locks [progressLockStripes]sync.Mutex
}

const PROGRESS_SVC = "progress_svc"

const progressLockStripes = 64

func (svc *ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	sqlSvc := svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.store = NewProgressStore(sqlSvc.Db())
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	return nil
}

func (svc *ProgressService) lock(userID, lessonID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(ProgressKey(userID, lessonID)))
	return &svc.locks[h.Sum32()%progressLockStripes]
}

// Initialize produces a fresh record: cursor at 0, empty answer maps, full
// hearts, zero score/streak/mistakes. Overwrites any prior attempt.
func (svc *ProgressService) Initialize(userID, lessonID string, totalSteps, startingHearts int) (*model.LessonProgress, error) {
	if startingHearts <= 0 {
		startingHearts = shared.DefaultMaxHearts
	}

	now := time.Now()
	progress := &model.LessonProgress{
		LessonID:     lessonID,
		CurrentStep:  0,
		TotalSteps:   totalSteps,
		Answers:      map[string]interface{}{},
		StepTimeMs:   map[string]int64{},
		SessionStart: now,
		LastActivity: now,
		Hearts:       startingHearts,
		MaxHearts:    startingHearts,
	}

	mu := svc.lock(userID, lessonID)
	mu.Lock()
	defer mu.Unlock()

	if err := svc.store.Save(userID, progress); err != nil {
		return nil, err
	}

	return progress, nil
}

// SubmitAnswer records the answer and elapsed time, then applies the scoring
// rules: +10 and streak/perfect counters on a correct answer, streak reset,
// mistake count and one heart (floored at 0) on a miss, +5 each time the
// streak hits a multiple of three.
func (svc *ProgressService) SubmitAnswer(userID, lessonID, stepID string, answer interface{}, isCorrect bool, timeSpentMs int64) (*model.LessonProgress, error) {
	mu := svc.lock(userID, lessonID)
	mu.Lock()
	defer mu.Unlock()

	progress, err := svc.store.Load(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress.IsCompleted {
		return nil, shared.ErrLessonCompleted
	}

	if progress.Answers == nil {
		progress.Answers = map[string]interface{}{}
	}
	if progress.StepTimeMs == nil {
		progress.StepTimeMs = map[string]int64{}
	}
	progress.Answers[stepID] = answer
	progress.StepTimeMs[stepID] += timeSpentMs
	progress.LastActivity = time.Now()

	ObserveAnswer(isCorrect)

	if isCorrect {
		progress.Score += shared.CorrectAnswerPoints
		progress.Streak++
		progress.PerfectAnswers++
		if progress.Streak%shared.StreakBonusInterval == 0 {
			progress.Score += shared.StreakBonusPoints
		}
	} else {
		progress.Streak = 0
		progress.Mistakes++
		if progress.Hearts > 0 {
			progress.Hearts--
			if progress.Hearts == 0 {
				svc.publish(userID, progress, EventHeartsExhausted)
			}
		}
	}

	if err := svc.store.Save(userID, progress); err != nil {
		return nil, err
	}

	return progress, nil
}

// Advance moves the step cursor forward, clamped to totalSteps-1.
func (svc *ProgressService) Advance(userID, lessonID string) (*model.LessonProgress, error) {
	return svc.moveCursor(userID, lessonID, 1)
}

// Retreat moves the step cursor backward, clamped to 0.
func (svc *ProgressService) Retreat(userID, lessonID string) (*model.LessonProgress, error) {
	return svc.moveCursor(userID, lessonID, -1)
}

func (svc *ProgressService) moveCursor(userID, lessonID string, delta int) (*model.LessonProgress, error) {
	mu := svc.lock(userID, lessonID)
	mu.Lock()
	defer mu.Unlock()

	progress, err := svc.store.Load(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress.IsCompleted {
		return nil, shared.ErrLessonCompleted
	}

	// Upper bound first so a zero-step lesson clamps to 0, not -1
	next := progress.CurrentStep + delta
	if next > progress.TotalSteps-1 {
		next = progress.TotalSteps - 1
	}
	if next < 0 {
		next = 0
	}
	progress.CurrentStep = next
	progress.LastActivity = time.Now()

	if err := svc.store.Save(userID, progress); err != nil {
		return nil, err
	}

	return progress, nil
}

// Complete freezes the record: +50 completion bonus, +100 more for a
// mistake-free run, final score snapshot, completion timestamp.
func (svc *ProgressService) Complete(userID, lessonID string) (*model.LessonProgress, error) {
	mu := svc.lock(userID, lessonID)
	mu.Lock()
	defer mu.Unlock()

	progress, err := svc.store.Load(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress.IsCompleted {
		return nil, shared.ErrLessonCompleted
	}

	progress.Score += shared.CompletionBonus
	if progress.Mistakes == 0 {
		progress.Score += shared.PerfectLessonBonus
	}

	now := time.Now()
	finalScore := progress.Score
	progress.IsCompleted = true
	progress.CompletedAt = &now
	progress.FinalScore = &finalScore
	progress.LastActivity = now

	if err := svc.store.Save(userID, progress); err != nil {
		return nil, err
	}

	ObserveCompletion()
	svc.publish(userID, progress, EventLessonCompleted)

	return progress, nil
}

// Reset deletes the stored record entirely.
func (svc *ProgressService) Reset(userID, lessonID string) error {
	mu := svc.lock(userID, lessonID)
	mu.Lock()
	defer mu.Unlock()

	return svc.store.Delete(userID, lessonID)
}

// CanResume is true iff a record exists, is not completed, and the learner
// has moved past the first step.
func (svc *ProgressService) CanResume(userID, lessonID string) bool {
	progress, err := svc.store.Load(userID, lessonID)
	if err != nil {
		return false
	}
	return !progress.IsCompleted && progress.CurrentStep > 0
}

// CompletionPercentage is round(currentStep/totalSteps*100), 0 when no record
// exists.
func (svc *ProgressService) CompletionPercentage(userID, lessonID string) int {
	progress, err := svc.store.Load(userID, lessonID)
	if err != nil {
		return 0
	}
	return percentage(progress)
}

func percentage(progress *model.LessonProgress) int {
	if progress.TotalSteps == 0 {
		return 0
	}
	return int(math.Round(float64(progress.CurrentStep) / float64(progress.TotalSteps) * 100))
}

func (svc *ProgressService) GetProgress(userID, lessonID string) (*model.LessonProgress, error) {
	return svc.store.Load(userID, lessonID)
}

// ListProgress returns every record the learner has, for dashboard views.
func (svc *ProgressService) ListProgress(userID string) (map[string]*model.LessonProgress, error) {
	return svc.store.LoadAll(userID)
}

func (svc *ProgressService) publish(userID string, progress *model.LessonProgress, eventType string) {
	if svc.eventSvc == nil {
		return
	}
	if err := svc.eventSvc.PublishProgress(userID, progress, eventType); err != nil {
		log.WithFields(log.Fields{
			"user_id":   userID,
			"lesson_id": progress.LessonID,
			"event":     eventType,
		}).WithError(err).Warn("Failed to publish progress event")
	}
}
