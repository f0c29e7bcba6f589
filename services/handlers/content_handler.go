package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulseprep/ecg_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get Modules
// @Description Get the ordered list of course modules
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.ModuleCollectionResponse}
// @Router /api/v1/content/modules [get]
func (h *ContentHandler) GetModules(c *fiber.Ctx) error {
	modules, err := h.contentSvc.GetModules()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", modules)
}

// @Summary Get Module Detail
// @Description Get a module summary with its lessons (served from a 1h cache)
// @Tags content
// @Accept json
// @Produce json
// @Param moduleId path string true "Module ID"
// @Success 200 {object} shared.Response{data=dto.ModuleDetailResponse}
// @Router /api/v1/content/modules/{moduleId} [get]
func (h *ContentHandler) GetModuleDetail(c *fiber.Ctx) error {
	moduleID := c.Params("moduleId")

	detail, err := h.contentSvc.GetModuleDetail(c.UserContext(), moduleID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", detail)
}

// @Summary Get Lesson
// @Description Get full lesson content projected into steps (answers omitted)
// @Tags content
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/content/lessons/{lessonId} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	lesson, err := h.contentSvc.GetLesson(c.UserContext(), lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

type preloadRequest struct {
	LessonIDs []string `json:"lesson_ids"`
}

// @Summary Preload Lessons
// @Description Warm the content cache ahead of navigation
// @Tags content
// @Accept json
// @Produce json
// @Param preloadRequest body preloadRequest true "Lesson IDs to warm"
// @Success 202 {object} shared.Response
// @Router /api/v1/content/lessons/preload [post]
func (h *ContentHandler) PreloadLessons(c *fiber.Ctx) error {
	var req preloadRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if len(req.LessonIDs) == 0 {
		return shared.NewBadRequestError(nil, "No lesson IDs supplied")
	}

	h.contentSvc.Preload(req.LessonIDs)

	return shared.ResponseJSON(c, fiber.StatusAccepted, "Preload scheduled", nil)
}
