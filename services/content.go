package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

// ContentService projects lessons into step sequences, grades submitted
// answers, and serves module listings with a short-lived summary cache.
type ContentService struct {
	appContext.DefaultService

	sqlSvc    *PostgresService
	redisSvc  *RedisService
	loaderSvc *ContentLoaderService
	mediaSvc  *MediaService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.loaderSvc = svc.Service(CONTENT_LOADER_SVC).(*ContentLoaderService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	return nil
}

// ==================== STEP PROJECTION ====================

// BuildSteps transforms a lesson into its uniform step sequence: an
// introduction, one step per authored item, and a summary. Steps are derived
// fresh on every call and never persisted.
func BuildSteps(lesson *model.Lesson) ([]model.LessonStep, error) {
	var items []model.LessonItem
	if lesson.Items != nil {
		if err := json.Unmarshal(lesson.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to parse items for lesson %s: %w", lesson.ID, err)
		}
	}

	steps := make([]model.LessonStep, 0, len(items)+2)

	steps = append(steps, model.LessonStep{
		ID:    "step_intro",
		Kind:  shared.StepKindIntroduction,
		Title: lesson.Title,
		Body:  lesson.Description,
	})

	for i, item := range items {
		interactive := item.Kind == shared.StepKindQuiz || item.Kind == shared.StepKindPractice
		steps = append(steps, model.LessonStep{
			ID:          fmt.Sprintf("step_%d", i+1),
			Kind:        item.Kind,
			Title:       item.Title,
			Body:        item.Body,
			Options:     item.Options,
			Answer:      item.Answer,
			Explanation: item.Explanation,
			MediaKey:    item.MediaKey,
			Interactive: interactive,
			Points:      item.Points,
			Difficulty:  item.Difficulty,
		})
	}

	steps = append(steps, model.LessonStep{
		ID:    "step_summary",
		Kind:  shared.StepKindSummary,
		Title: "Summary",
		Body:  fmt.Sprintf("You finished %s.", lesson.Title),
	})

	return steps, nil
}

func FindStep(steps []model.LessonStep, stepID string) (*model.LessonStep, bool) {
	for i := range steps {
		if steps[i].ID == stepID {
			return &steps[i], true
		}
	}
	return nil, false
}

// ==================== ANSWER CHECKING ====================

// CheckAnswer grades a submitted answer against a step's reference answer.
// Steps without a reference answer grade as incorrect.
func CheckAnswer(step *model.LessonStep, userAnswer interface{}) bool {
	if step.Answer == nil {
		return false
	}

	correctStr, ok1 := step.Answer.(string)
	userStr, ok2 := userAnswer.(string)
	if ok1 && ok2 {
		return strings.EqualFold(strings.TrimSpace(correctStr), strings.TrimSpace(userStr))
	}

	// Array or structured answers compare as canonical JSON
	correctJSON, _ := json.Marshal(step.Answer)
	userJSON, _ := json.Marshal(userAnswer)
	return string(correctJSON) == string(userJSON)
}

// ==================== LESSON METHODS ====================

func (svc *ContentService) GetLesson(ctx context.Context, lessonID string) (*dto.LessonResponse, error) {
	lesson, err := svc.loaderSvc.Load(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	response, err := svc.mapLessonToResponse(lesson, true)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetLessonSteps returns the full projection including reference answers, for
// internal grading use.
func (svc *ContentService) GetLessonSteps(ctx context.Context, lessonID string) ([]model.LessonStep, error) {
	lesson, err := svc.loaderSvc.Load(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return BuildSteps(lesson)
}

func (svc *ContentService) mapLessonToResponse(lesson *model.Lesson, includeSteps bool) (*dto.LessonResponse, error) {
	steps, err := BuildSteps(lesson)
	if err != nil {
		return nil, err
	}

	response := &dto.LessonResponse{
		ID:          lesson.ID,
		ModuleID:    lesson.ModuleID,
		Title:       lesson.Title,
		Order:       lesson.Order,
		Description: lesson.Description,
		Version:     lesson.Version,
		StepCount:   len(steps),
	}

	if includeSteps {
		response.Steps = make([]dto.LessonStepResponse, len(steps))
		for i, step := range steps {
			response.Steps[i] = svc.mapStepToResponse(&step)
		}
	}

	return response, nil
}

func (svc *ContentService) mapStepToResponse(step *model.LessonStep) dto.LessonStepResponse {
	mediaURL := ""
	if step.MediaKey != "" && svc.mediaSvc != nil {
		url, err := svc.mediaSvc.SignedURL(step.MediaKey)
		if err != nil {
			log.Printf("Failed to sign media URL for %s: %v", step.MediaKey, err)
		} else {
			mediaURL = url
		}
	}

	// Note: the reference answer is never included in the response
	return dto.LessonStepResponse{
		ID:          step.ID,
		Kind:        step.Kind,
		Title:       step.Title,
		Body:        step.Body,
		Options:     step.Options,
		Explanation: step.Explanation,
		MediaURL:    mediaURL,
		Interactive: step.Interactive,
		Points:      step.Points,
		Difficulty:  step.Difficulty,
	}
}

// GradeAnswer resolves the lesson, finds the step and grades the submitted
// answer against its reference.
func (svc *ContentService) GradeAnswer(ctx context.Context, lessonID, stepID string, answer interface{}) (bool, error) {
	steps, err := svc.GetLessonSteps(ctx, lessonID)
	if err != nil {
		return false, err
	}

	step, ok := FindStep(steps, stepID)
	if !ok {
		return false, shared.NewBadRequestError(fmt.Errorf("step not found: %s", stepID), "Unknown step")
	}

	return CheckAnswer(step, answer), nil
}

func (svc *ContentService) StepCount(ctx context.Context, lessonID string) (int, error) {
	steps, err := svc.GetLessonSteps(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	return len(steps), nil
}

// Preload warms the loader cache ahead of navigation. A single id goes
// through the fire-and-forget path; several are batch-loaded in the
// background with bounded concurrency.
func (svc *ContentService) Preload(lessonIDs []string) {
	if len(lessonIDs) == 1 {
		svc.loaderSvc.Preload(lessonIDs[0])
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := svc.loaderSvc.LoadBatch(ctx, lessonIDs); err != nil {
			log.Printf("Preload batch aborted: %v", err)
		}
	}()
}

// ==================== MODULE METHODS ====================

func (svc *ContentService) GetModules() (*dto.ModuleCollectionResponse, error) {
	modules, err := svc.sqlSvc.GetModules()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ModuleResponse, len(modules))
	for i, module := range modules {
		responses[i] = mapModuleToResponse(&module)
		lessons, err := svc.sqlSvc.GetLessonsByModule(module.ID)
		if err != nil {
			log.Printf("Failed to get lesson count for module %s: %v", module.ID, err)
		} else {
			responses[i].LessonCount = len(lessons)
		}
	}

	return &dto.ModuleCollectionResponse{
		Modules: responses,
		Total:   len(responses),
	}, nil
}

// GetModuleDetail serves the module summary from a one-hour Redis cache,
// rebuilding it from the database on a miss.
func (svc *ContentService) GetModuleDetail(ctx context.Context, moduleID string) (*dto.ModuleDetailResponse, error) {
	cacheKey := fmt.Sprintf("module_summary_%s", moduleID)

	var cached dto.ModuleDetailResponse
	if err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	module, err := svc.sqlSvc.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	lessons, err := svc.sqlSvc.GetLessonsByModule(moduleID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ModuleDetailResponse{
		Module:  mapModuleToResponse(module),
		Lessons: make([]dto.LessonResponse, 0, len(lessons)),
	}
	detail.Module.LessonCount = len(lessons)

	for i := range lessons {
		response, err := svc.mapLessonToResponse(&lessons[i], false)
		if err != nil {
			log.Printf("Skipping unparseable lesson %s: %v", lessons[i].ID, err)
			continue
		}
		detail.Lessons = append(detail.Lessons, *response)
	}

	if err := svc.redisSvc.SetJSON(ctx, cacheKey, detail, shared.ModuleSummaryTTL); err != nil {
		log.Printf("Failed to cache module summary %s: %v", moduleID, err)
	}

	return detail, nil
}

func mapModuleToResponse(module *model.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:          module.ID,
		Title:       module.Title,
		Order:       module.Order,
		Description: module.Description,
	}
}
