package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type CampaignHandler struct {
	s      service.CampaignService
	logger logging.Logger
}

func NewCampaignHandler(s service.CampaignService, logger logging.Logger) *CampaignHandler {
	return &CampaignHandler{s: s, logger: logger}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req transfer.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	campaign, err := h.s.Create(c.Context(), GetUserID(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(campaign)
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(campaigns)
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	campaign, err := h.s.Get(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(campaign)
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var req transfer.CampaignUpdate
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	campaign, err := h.s.Update(c.Context(), GetUserID(c), id, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(campaign)
}

func (h *CampaignHandler) Pause(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	campaign, err := h.s.Pause(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(campaign)
}

func (h *CampaignHandler) Resume(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	campaign, err := h.s.Resume(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(campaign)
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.s.Delete(c.Context(), GetUserID(c), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampaignHandler) Analytics(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	a, err := h.s.Analytics(c.Context(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(a)
}

func (h *CampaignHandler) CreateAd(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var spec transfer.AdSpec
	if err := c.BodyParser(&spec); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	bundle, err := h.s.CreateAd(c.Context(), GetUserID(c), id, spec)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bundle)
}

func (h *CampaignHandler) UpdateAd(c *fiber.Ctx) error {
	var req transfer.AdUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	res, err := h.s.UpdateAd(c.Context(), GetUserID(c), c.Params("adId"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}

func (h *CampaignHandler) PauseAd(c *fiber.Ctx) error {
	var req transfer.AdStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	res, err := h.s.PauseAd(c.Context(), GetUserID(c), c.Params("adId"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}

func (h *CampaignHandler) ResumeAd(c *fiber.Ctx) error {
	var req transfer.AdStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	res, err := h.s.ResumeAd(c.Context(), GetUserID(c), c.Params("adId"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}

// DeleteAd takes the account id and the owning ad account as query
// parameters.
func (h *CampaignHandler) DeleteAd(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Query("account_id"), 10, 64)
	if err != nil {
		return writeError(c, h.logger, &apperrors.ValidationError{Field: "account_id", Message: "is required"})
	}
	req := transfer.AdStatusRequest{AccountID: accountID, AdAccountID: c.Query("ad_account_id")}
	if err := h.s.DeleteAd(c.Context(), GetUserID(c), c.Params("adId"), req); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CampaignHandler) AdAnalytics(c *fiber.Ctx) error {
	var req transfer.AdAnalyticsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, bodyError(err))
	}
	a, err := h.s.AdAnalytics(c.Context(), GetUserID(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(a)
}
