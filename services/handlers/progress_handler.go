package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
	contentSvc  ContentServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface, contentSvc ContentServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
		contentSvc:  contentSvc,
	}
}

func (h *ProgressHandler) userID(c *fiber.Ctx) string {
	return c.Locals(shared.UserID).(string)
}

func (h *ProgressHandler) toResponse(userID string, progress *model.LessonProgress) dto.ProgressResponse {
	return dto.MapProgressToResponse(progress,
		h.progressSvc.CompletionPercentage(userID, progress.LessonID),
		h.progressSvc.CanResume(userID, progress.LessonID))
}

// @Summary Start Lesson
// @Description Create a fresh progress record for a lesson
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param startRequest body dto.StartLessonRequest true "Start request"
// @Success 201 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/start [post]
func (h *ProgressHandler) StartLesson(c *fiber.Ctx) error {
	userID := h.userID(c)

	var req dto.StartLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	totalSteps, err := h.contentSvc.StepCount(c.UserContext(), req.LessonID)
	if err != nil {
		return err
	}

	progress, err := h.progressSvc.Initialize(userID, req.LessonID, totalSteps, shared.DefaultMaxHearts)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", h.toResponse(userID, progress))
}

// @Summary Submit Answer
// @Description Grade and record one step answer, applying scoring rules
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param submitRequest body dto.SubmitAnswerRequest true "Answer request"
// @Success 200 {object} shared.Response{data=dto.SubmitAnswerResponse}
// @Router /api/v1/progress/answer [post]
func (h *ProgressHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID := h.userID(c)

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	correct, err := h.contentSvc.GradeAnswer(c.UserContext(), req.LessonID, req.StepID, req.Answer)
	if err != nil {
		return err
	}

	progress, err := h.progressSvc.SubmitAnswer(userID, req.LessonID, req.StepID, req.Answer, correct, req.TimeSpentMs)
	if err != nil {
		return err
	}

	response := dto.SubmitAnswerResponse{
		Correct:  correct,
		Progress: h.toResponse(userID, progress),
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Answer submitted", response)
}

// @Summary Advance
// @Description Move the step cursor forward
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param navigateRequest body dto.NavigateRequest true "Navigation request"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/advance [post]
func (h *ProgressHandler) Advance(c *fiber.Ctx) error {
	return h.navigate(c, h.progressSvc.Advance)
}

// @Summary Retreat
// @Description Move the step cursor backward
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param navigateRequest body dto.NavigateRequest true "Navigation request"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/retreat [post]
func (h *ProgressHandler) Retreat(c *fiber.Ctx) error {
	return h.navigate(c, h.progressSvc.Retreat)
}

func (h *ProgressHandler) navigate(c *fiber.Ctx, move func(userID, lessonID string) (*model.LessonProgress, error)) error {
	userID := h.userID(c)

	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	progress, err := move(userID, req.LessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.toResponse(userID, progress))
}

// @Summary Complete Lesson
// @Description Finalize a lesson, applying completion bonuses and freezing the record
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param navigateRequest body dto.NavigateRequest true "Completion request"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/complete [post]
func (h *ProgressHandler) Complete(c *fiber.Ctx) error {
	userID := h.userID(c)

	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	progress, err := h.progressSvc.Complete(userID, req.LessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson completed", h.toResponse(userID, progress))
}

// @Summary Reset Progress
// @Description Delete the progress record for a lesson
// @Tags progress
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/progress/{lessonId} [delete]
func (h *ProgressHandler) Reset(c *fiber.Ctx) error {
	userID := h.userID(c)
	lessonID := c.Params("lessonId")

	if err := h.progressSvc.Reset(userID, lessonID); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}

// @Summary Get Progress
// @Description Fetch the progress record for one lesson
// @Tags progress
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/{lessonId} [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID := h.userID(c)
	lessonID := c.Params("lessonId")

	progress, err := h.progressSvc.GetProgress(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.toResponse(userID, progress))
}

// @Summary List Progress
// @Description Fetch every progress record belonging to the authenticated user
// @Tags progress
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ProgressListResponse}
// @Router /api/v1/progress [get]
func (h *ProgressHandler) ListProgress(c *fiber.Ctx) error {
	userID := h.userID(c)

	records, err := h.progressSvc.ListProgress(userID)
	if err != nil {
		return err
	}

	response := dto.ProgressListResponse{
		Progress: make([]dto.ProgressResponse, 0, len(records)),
		Total:    len(records),
	}
	for _, progress := range records {
		response.Progress = append(response.Progress, h.toResponse(userID, progress))
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", response)
}
