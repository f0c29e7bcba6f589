package dto

import (
	"time"

	"github.com/pulseprep/ecg_api/model"
)

// ==================== PROGRESS REQUEST DTOs ====================

type StartLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required,lesson_id"`
}

func (r StartLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitAnswerRequest struct {
	LessonID    string      `json:"lesson_id" validate:"required,lesson_id"`
	StepID      string      `json:"step_id" validate:"required"`
	Answer      interface{} `json:"answer" validate:"required"`
	TimeSpentMs int64       `json:"time_spent_ms" validate:"gte=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type NavigateRequest struct {
	LessonID string `json:"lesson_id" validate:"required,lesson_id"`
}

func (r NavigateRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== PROGRESS RESPONSE DTOs ====================

type ProgressResponse struct {
	LessonID       string     `json:"lesson_id"`
	CurrentStep    int        `json:"current_step"`
	TotalSteps     int        `json:"total_steps"`
	Hearts         int        `json:"hearts"`
	MaxHearts      int        `json:"max_hearts"`
	Score          int        `json:"score"`
	Streak         int        `json:"streak"`
	Mistakes       int        `json:"mistakes"`
	PerfectAnswers int        `json:"perfect_answers"`
	IsCompleted    bool       `json:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	FinalScore     *int       `json:"final_score,omitempty"`
	Percentage     int        `json:"percentage"`
	CanResume      bool       `json:"can_resume"`
	LastActivity   time.Time  `json:"last_activity"`
}

type SubmitAnswerResponse struct {
	Correct  bool             `json:"correct"`
	Progress ProgressResponse `json:"progress"`
}

type ProgressListResponse struct {
	Progress []ProgressResponse `json:"progress"`
	Total    int                `json:"total"`
}

func MapProgressToResponse(p *model.LessonProgress, percentage int, canResume bool) ProgressResponse {
	return ProgressResponse{
		LessonID:       p.LessonID,
		CurrentStep:    p.CurrentStep,
		TotalSteps:     p.TotalSteps,
		Hearts:         p.Hearts,
		MaxHearts:      p.MaxHearts,
		Score:          p.Score,
		Streak:         p.Streak,
		Mistakes:       p.Mistakes,
		PerfectAnswers: p.PerfectAnswers,
		IsCompleted:    p.IsCompleted,
		CompletedAt:    p.CompletedAt,
		FinalScore:     p.FinalScore,
		Percentage:     percentage,
		CanResume:      canResume,
		LastActivity:   p.LastActivity,
	}
}
