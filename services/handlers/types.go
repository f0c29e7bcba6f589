package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
}

type ContentServiceInterface interface {
	GetModules() (*dto.ModuleCollectionResponse, error)
	GetModuleDetail(ctx context.Context, moduleID string) (*dto.ModuleDetailResponse, error)
	GetLesson(ctx context.Context, lessonID string) (*dto.LessonResponse, error)
	GradeAnswer(ctx context.Context, lessonID, stepID string, answer interface{}) (bool, error)
	StepCount(ctx context.Context, lessonID string) (int, error)
	Preload(lessonIDs []string)
}

type ProgressServiceInterface interface {
	Initialize(userID, lessonID string, totalSteps, startingHearts int) (*model.LessonProgress, error)
	SubmitAnswer(userID, lessonID, stepID string, answer interface{}, isCorrect bool, timeSpentMs int64) (*model.LessonProgress, error)
	Advance(userID, lessonID string) (*model.LessonProgress, error)
	Retreat(userID, lessonID string) (*model.LessonProgress, error)
	Complete(userID, lessonID string) (*model.LessonProgress, error)
	Reset(userID, lessonID string) error
	CanResume(userID, lessonID string) bool
	CompletionPercentage(userID, lessonID string) int
	GetProgress(userID, lessonID string) (*model.LessonProgress, error)
	ListProgress(userID string) (map[string]*model.LessonProgress, error)
}

type MediaServiceInterface interface {
	GetMediaURL(req dto.MediaURLRequest) (*dto.MediaURLResponse, error)
}
