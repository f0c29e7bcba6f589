package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/shared"
)

type stubContentService struct {
	modules   *dto.ModuleCollectionResponse
	detail    *dto.ModuleDetailResponse
	lesson    *dto.LessonResponse
	lessonErr error
	preloaded []string
}

func (s *stubContentService) GetModules() (*dto.ModuleCollectionResponse, error) {
	return s.modules, nil
}

func (s *stubContentService) GetModuleDetail(_ context.Context, moduleID string) (*dto.ModuleDetailResponse, error) {
	return s.detail, nil
}

func (s *stubContentService) GetLesson(_ context.Context, lessonID string) (*dto.LessonResponse, error) {
	if s.lessonErr != nil {
		return nil, s.lessonErr
	}
	return s.lesson, nil
}

func (s *stubContentService) GradeAnswer(_ context.Context, lessonID, stepID string, answer interface{}) (bool, error) {
	return false, nil
}

func (s *stubContentService) StepCount(_ context.Context, lessonID string) (int, error) {
	return 0, nil
}

func (s *stubContentService) Preload(lessonIDs []string) {
	s.preloaded = lessonIDs
}

func newContentApp(svc ContentServiceInterface) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			if errors.Is(err, shared.ErrLessonNotFound) {
				return shared.ResponseNotFound(c)
			}
			return shared.ResponseInternalError(c, err)
		},
	})

	h := NewContentHandler(svc)
	content := app.Group("/api/v1/content")
	content.Get("/modules", h.GetModules)
	content.Get("/modules/:moduleId", h.GetModuleDetail)
	content.Get("/lessons/:lessonId", h.GetLesson)
	content.Post("/lessons/preload", h.PreloadLessons)
	return app
}

func TestGetModules(t *testing.T) {
	svc := &stubContentService{
		modules: &dto.ModuleCollectionResponse{
			Modules: []dto.ModuleResponse{
				{ID: "basics", Title: "ECG Basics", Order: 1, LessonCount: 4},
			},
			Total: 1,
		},
	}
	app := newContentApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/content/modules", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.ModuleCollectionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Data.Total)
	require.Len(t, body.Data.Modules, 1)
	assert.Equal(t, "basics", body.Data.Modules[0].ID)
}

func TestGetLesson(t *testing.T) {
	svc := &stubContentService{
		lesson: &dto.LessonResponse{ID: "ecg-lesson-1", Title: "Reading the Rhythm Strip", StepCount: 5},
	}
	app := newContentApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/content/lessons/ecg-lesson-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.LessonResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ecg-lesson-1", body.Data.ID)
	assert.Equal(t, 5, body.Data.StepCount)
}

func TestGetLessonNotFound(t *testing.T) {
	svc := &stubContentService{lessonErr: shared.ErrLessonNotFound}
	app := newContentApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/content/lessons/no-such-lesson", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPreloadLessons(t *testing.T) {
	svc := &stubContentService{}
	app := newContentApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/lessons/preload",
		strings.NewReader(`{"lesson_ids":["ecg-lesson-1","ecg-lesson-2"]}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{"ecg-lesson-1", "ecg-lesson-2"}, svc.preloaded)
}

func TestPreloadLessonsEmpty(t *testing.T) {
	svc := &stubContentService{}
	app := newContentApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/lessons/preload",
		strings.NewReader(`{"lesson_ids":[]}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.preloaded)
}
