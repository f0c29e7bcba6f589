// model/progress.go
package model

import (
	"encoding/json"
	"time"
)

// LessonProgress is the mutable record of one learner's advancement through
// one lesson. Invariants: 0 <= CurrentStep < TotalSteps while not completed,
// Hearts >= 0, Score never decreases, Streak resets to 0 on any miss. Once
// IsCompleted is set the record is frozen except for a full reset.
type LessonProgress struct {
	LessonID       string                 `json:"lesson_id"`
	CurrentStep    int                    `json:"current_step"`
	TotalSteps     int                    `json:"total_steps"`
	Answers        map[string]interface{} `json:"answers"`       // step ID -> submitted answer
	StepTimeMs     map[string]int64       `json:"step_time_ms"`  // step ID -> time spent
	SessionStart   time.Time              `json:"session_start"`
	LastActivity   time.Time              `json:"last_activity"`
	Hearts         int                    `json:"hearts"`
	MaxHearts      int                    `json:"max_hearts"`
	Score          int                    `json:"score"`
	Streak         int                    `json:"streak"`
	Mistakes       int                    `json:"mistakes"`
	PerfectAnswers int                    `json:"perfect_answers"`
	IsCompleted    bool                   `json:"is_completed"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	FinalScore     *int                   `json:"final_score,omitempty"`
}

// ProgressRecord is the storage row for a LessonProgress. The composite key
// keeps the historical "<prefix>_<userID>_<lessonID>" format; the indexed
// UserID column serves bulk enumeration in place of an aggregate mirror key.
type ProgressRecord struct {
	Key       string          `json:"key" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"index;not null"`
	LessonID  string          `json:"lesson_id" gorm:"not null"`
	Payload   json.RawMessage `json:"payload" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
