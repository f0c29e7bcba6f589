package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/pulseprep/ecg_api/docs"
	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/services/handlers"
	"github.com/pulseprep/ecg_api/shared"
)

const APP_VERSION = "1.0.0"

type HttpService struct {
	context.DefaultService

	authSvc      *AuthService
	contentSvc   *ContentService
	progressSvc  *ProgressService
	mediaSvc     *MediaService
	rateLimitSvc *RateLimitService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(svc.requestMetrics)

	app.Get("/ping", svc.ping)
	app.Get("/health", svc.health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc, svc.contentSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Limit("register"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Limit("login"), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)

	content := v1.Group("/content", svc.rateLimitSvc.Limit("content"))
	content.Get("/modules", contentHandler.GetModules)
	content.Get("/modules/:moduleId", contentHandler.GetModuleDetail)
	content.Get("/lessons/:lessonId", contentHandler.GetLesson)
	content.Post("/lessons/preload", contentHandler.PreloadLessons)

	progress := v1.Group("/progress", svc.authSvc.RequiredAuth())
	progress.Get("/", progressHandler.ListProgress)
	progress.Post("/start", progressHandler.StartLesson)
	progress.Post("/answer", progressHandler.SubmitAnswer)
	progress.Post("/advance", progressHandler.Advance)
	progress.Post("/retreat", progressHandler.Retreat)
	progress.Post("/complete", progressHandler.Complete)
	progress.Delete("/:lessonId", progressHandler.Reset)
	progress.Get("/:lessonId", progressHandler.GetProgress)

	media := v1.Group("/media", svc.authSvc.RequiredAuth())
	media.Post("/url", mediaHandler.GetMediaURL)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(errors.New("page not found"), "Not Found")
	})

	svc.server = app

	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	switch {
	case errors.Is(err, shared.ErrLessonNotFound),
		errors.Is(err, shared.ErrProgressNotFound):
		return shared.ResponseJSON(c, fiber.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrLessonCompleted):
		return shared.ResponseJSON(c, fiber.StatusConflict, "Lesson already completed", nil)
	case errors.Is(err, shared.ErrStaleWrite):
		return shared.ResponseJSON(c, fiber.StatusConflict, "Progress was updated elsewhere", nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}

func (svc *HttpService) requestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	ObserveRequest(c.Route().Path, c.Method(), c.Response().StatusCode(), time.Since(start))
	return err
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

// @Summary Health
// @Description Service health, version and timestamp
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.HealthResponse}
// @Router /health [get]
func (svc *HttpService) health(c *fiber.Ctx) error {
	return shared.ResponseOK(c, dto.HealthResponse{
		Status:    "healthy",
		Message:   "Service is running",
		Timestamp: time.Now().Unix(),
		Version:   APP_VERSION,
	})
}
