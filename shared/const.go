package shared

import "time"

const (
	UserID = "user_id"

	StepKindIntroduction = "introduction"
	StepKindContent      = "content"
	StepKindQuiz         = "quiz"
	StepKindPractice     = "practice"
	StepKindSummary      = "summary"
	StepKindVideo        = "video"
	StepKindAudio        = "audio"

	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"

	// Scoring rules for a lesson attempt
	CorrectAnswerPoints = 10
	StreakBonusPoints   = 5
	StreakBonusInterval = 3
	CompletionBonus     = 50
	PerfectLessonBonus  = 100
	DefaultMaxHearts    = 5

	// Storage key prefix for persisted lesson progress
	ProgressKeyPrefix = "lesson_progress"

	ModuleSummaryTTL = time.Hour
)
