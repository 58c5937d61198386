package handlers

import "github.com/gofiber/fiber/v2"

// Handlers groups every handler mounted under /api.
type Handlers struct {
	Accounts  *AccountHandler
	Contents  *ContentHandler
	Campaigns *CampaignHandler
	Media     *MediaHandler
}

func (h Handlers) Register(api fiber.Router) {
	api.Post("/accounts", h.Accounts.Link)
	api.Get("/accounts", h.Accounts.List)
	api.Get("/accounts/:id", h.Accounts.Get)
	api.Post("/accounts/:id/verify", h.Accounts.Verify)
	api.Post("/accounts/:id/refresh", h.Accounts.Refresh)
	api.Get("/accounts/:id/analytics", h.Accounts.Analytics)
	api.Delete("/accounts/:id", h.Accounts.Remove)

	api.Post("/contents", h.Contents.Create)
	api.Get("/contents", h.Contents.List)
	api.Get("/contents/:id", h.Contents.Get)
	api.Delete("/contents/:id", h.Contents.Remove)
	api.Get("/contents/:id/publications", h.Contents.Publications)
	api.Post("/contents/:id/publish", h.Contents.Publish)
	api.Post("/contents/:id/schedule", h.Contents.Schedule)

	api.Delete("/publications/:id", h.Contents.DeletePublication)
	api.Get("/publications/:id/analytics", h.Contents.PublicationAnalytics)
	api.Get("/publications/:id/comments", h.Contents.Comments)
	api.Post("/comments/:commentId/replies", h.Contents.Reply)

	api.Post("/campaigns", h.Campaigns.Create)
	api.Get("/campaigns", h.Campaigns.List)
	api.Get("/campaigns/:id", h.Campaigns.Get)
	api.Put("/campaigns/:id", h.Campaigns.Update)
	api.Post("/campaigns/:id/pause", h.Campaigns.Pause)
	api.Post("/campaigns/:id/resume", h.Campaigns.Resume)
	api.Delete("/campaigns/:id", h.Campaigns.Delete)
	api.Get("/campaigns/:id/analytics", h.Campaigns.Analytics)
	api.Post("/campaigns/:id/ads", h.Campaigns.CreateAd)

	api.Post("/ads/analytics", h.Campaigns.AdAnalytics)
	api.Put("/ads/:adId", h.Campaigns.UpdateAd)
	api.Post("/ads/:adId/pause", h.Campaigns.PauseAd)
	api.Post("/ads/:adId/resume", h.Campaigns.ResumeAd)
	api.Delete("/ads/:adId", h.Campaigns.DeleteAd)

	api.Post("/media", h.Media.Upload)
}
