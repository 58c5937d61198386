package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type AccountHandler struct {
	s      service.AccountService
	cs     service.ContentService
	logger logging.Logger
}

func NewAccountHandler(s service.AccountService, cs service.ContentService, logger logging.Logger) *AccountHandler {
	return &AccountHandler{s: s, cs: cs, logger: logger}
}

func (h *AccountHandler) Link(c *fiber.Ctx) error {
	var req transfer.LinkAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}

	acc, err := h.s.Link(c.Context(), GetUserID(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(acc)
}

func (h *AccountHandler) List(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	acc, err := h.s.Get(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(acc)
}

func (h *AccountHandler) Verify(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	acc, err := h.s.Verify(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(acc)
}

func (h *AccountHandler) Refresh(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	acc, err := h.s.Refresh(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(acc)
}

func (h *AccountHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AccountHandler) Analytics(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	a, err := h.cs.AccountAnalytics(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(a)
}
