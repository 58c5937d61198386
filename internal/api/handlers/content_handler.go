package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type ContentHandler struct {
	s      service.ContentService
	logger logging.Logger
}

func NewContentHandler(s service.ContentService, logger logging.Logger) *ContentHandler {
	return &ContentHandler{s: s, logger: logger}
}

func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req transfer.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	content, err := h.s.Create(c.Context(), GetUserID(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	contents, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(contents)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	content, err := h.s.Get(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(content)
}

func (h *ContentHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) Publications(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	pubs, err := h.s.Publications(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(pubs)
}

func (h *ContentHandler) Publish(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	pub, err := h.s.Publish(c.Context(), GetUserID(c), id, req.AccountID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pub)
}

func (h *ContentHandler) Schedule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	if req.ScheduledTime.IsZero() {
		return writeError(c, h.logger, &apperrors.ValidationError{Field: "scheduled_time", Message: "is required"})
	}
	pub, err := h.s.Schedule(c.Context(), GetUserID(c), id, req.AccountID, req.ScheduledTime)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(pub)
}

func (h *ContentHandler) DeletePublication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.s.DeleteRemote(c.Context(), GetUserID(c), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) PublicationAnalytics(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	a, err := h.s.PublicationAnalytics(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(a)
}

func (h *ContentHandler) Comments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	comments, err := h.s.Comments(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(comments)
}

func (h *ContentHandler) Reply(c *fiber.Ctx) error {
	var req transfer.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	comment, err := h.s.Reply(c.Context(), GetUserID(c), c.Params("commentId"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
