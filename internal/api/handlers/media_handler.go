package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type MediaHandler struct {
	s      service.MediaService
	logger logging.Logger
}

func NewMediaHandler(s service.MediaService, logger logging.Logger) *MediaHandler {
	return &MediaHandler{s: s, logger: logger}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, h.logger, &apperrors.ValidationError{Field: "form", Message: "unable to parse form"})
	}

	uploads, err := h.s.Upload(c.Context(), GetUserID(c), form.File["files"])
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploads)
}
