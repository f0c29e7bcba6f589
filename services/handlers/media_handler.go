package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// @Summary Get Media URL
// @Description Resolve a lesson media reference to a presigned URL
// @Tags media
// @Accept json
// @Produce json
// @Security Bearer
// @Param mediaRequest body dto.MediaURLRequest true "Media request"
// @Success 200 {object} shared.Response{data=dto.MediaURLResponse}
// @Router /api/v1/media/url [post]
func (h *MediaHandler) GetMediaURL(c *fiber.Ctx) error {
	var req dto.MediaURLRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	response, err := h.mediaSvc.GetMediaURL(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", response)
}
