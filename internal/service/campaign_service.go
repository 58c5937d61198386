package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type CampaignService interface {
	Create(ctx context.Context, userID int64, req transfer.CampaignRequest) (*models.Campaign, error)
	Get(ctx context.Context, userID, campaignID int64) (*models.Campaign, error)
	List(ctx context.Context, userID int64) ([]*models.Campaign, error)
	Update(ctx context.Context, userID, campaignID int64, update transfer.CampaignUpdate) (*models.Campaign, error)
	Pause(ctx context.Context, userID, campaignID int64) (*models.Campaign, error)
	Resume(ctx context.Context, userID, campaignID int64) (*models.Campaign, error)
	Delete(ctx context.Context, userID, campaignID int64) error
	Analytics(ctx context.Context, userID, campaignID int64) (*transfer.Analytics, error)

	CreateAd(ctx context.Context, userID, campaignID int64, spec transfer.AdSpec) (*transfer.AdBundle, error)
	UpdateAd(ctx context.Context, userID int64, adID string, req transfer.AdUpdateRequest) (*transfer.AdResult, error)
	PauseAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) (*transfer.AdResult, error)
	ResumeAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) (*transfer.AdResult, error)
	DeleteAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) error
	AdAnalytics(ctx context.Context, userID int64, req transfer.AdAnalyticsRequest) (*transfer.Analytics, error)
}

type campaignService struct {
	cr       repository.CampaignRepository
	ar       repository.SocialAccountRepository
	adapters Adapters
	coord    RefreshCoordinator
	logger   logging.Logger
}

func NewCampaignService(
	cr repository.CampaignRepository,
	ar repository.SocialAccountRepository,
	adapters Adapters,
	coord RefreshCoordinator,
	logger logging.Logger) CampaignService {
	return &campaignService{
		cr:       cr,
		ar:       ar,
		adapters: adapters,
		coord:    coord,
		logger:   logger,
	}
}

func (s *campaignService) adAccount(ctx context.Context, userID, accountID int64) (*models.SocialAccount, platform.AdAdapter, error) {
	acc, err := ownedAccount(ctx, s.ar, userID, accountID)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := s.adapters.Ads(acc.Platform)
	if err != nil {
		return nil, nil, err
	}
	return acc, adapter, nil
}

// campaign loads a stored campaign with the account and adapter that manage it.
func (s *campaignService) campaign(ctx context.Context, userID, campaignID int64) (*models.Campaign, *models.SocialAccount, platform.AdAdapter, error) {
	c, err := s.Get(ctx, userID, campaignID)
	if err != nil {
		return nil, nil, nil, err
	}
	if c.ExternalID == "" {
		return nil, nil, nil, &apperrors.ValidationError{Field: "campaign", Message: "has no remote campaign"}
	}
	acc, adapter, err := s.adAccount(ctx, userID, c.AccountID)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, acc, adapter, nil
}

func (s *campaignService) Create(ctx context.Context, userID int64, req transfer.CampaignRequest) (*models.Campaign, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &apperrors.ValidationError{Field: "name", Message: "is required"}
	}
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	spec := req.CampaignSpec
	res, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.CampaignResult, error) {
		return adapter.CreateCampaign(ctx, acc, spec)
	})
	if err != nil {
		return nil, err
	}

	c := &models.Campaign{
		UserID:      userID,
		AccountID:   acc.ID,
		Platform:    acc.Platform,
		ExternalID:  res.ID,
		AdAccountID: spec.AdAccountID,
		Name:        spec.Name,
		Objective:   spec.Objective,
		Budget:      budgetOf(spec.DailyBudget, spec.LifetimeBudget),
		Currency:    spec.Currency,
		StartDate:   spec.StartTime,
		EndDate:     spec.EndTime,
		Status:      campaignStatusOf(res.Status, spec.Status),
	}
	if c.AdAccountID == "" {
		c.AdAccountID = acc.AccountID
	}

	id, err := s.cr.Create(ctx, c)
	if err != nil {
		// The platform campaign exists; log its id so it can be reconciled.
		s.logger.WithFields(logging.Fields{
			"platform":    acc.Platform,
			"external_id": res.ID,
		}).WithError(err).Error("campaign created but not stored")
		return nil, err
	}
	c.ID = id
	return c, nil
}

func (s *campaignService) Get(ctx context.Context, userID, campaignID int64) (*models.Campaign, error) {
	c, err := s.cr.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign %d: %w", campaignID, err)
	}
	if c == nil || c.UserID != userID {
		return nil, &apperrors.NotFoundError{Resource: "campaign", ID: campaignID}
	}
	return c, nil
}

func (s *campaignService) List(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	campaigns, err := s.cr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, nil
}

func (s *campaignService) Update(ctx context.Context, userID, campaignID int64, update transfer.CampaignUpdate) (*models.Campaign, error) {
	c, acc, adapter, err := s.campaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	if update.AdAccountID == "" {
		update.AdAccountID = c.AdAccountID
	}

	res, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.CampaignResult, error) {
		return adapter.UpdateCampaign(ctx, acc, c.ExternalID, update)
	})
	if err != nil {
		return nil, err
	}

	var diff models.CampaignUpdate
	if update.Name != "" {
		c.Name = update.Name
		diff.Name = &c.Name
	}
	if b := budgetOf(update.DailyBudget, update.LifetimeBudget); b > 0 {
		c.Budget = b
		diff.Budget = &c.Budget
	}
	if update.StartTime != nil {
		c.StartDate = update.StartTime
		diff.StartDate = update.StartTime
	}
	if update.EndTime != nil {
		c.EndDate = update.EndTime
		diff.EndDate = update.EndTime
	}
	if res.Status != "" || update.Status != "" {
		c.Status = campaignStatusOf(res.Status, update.Status)
		diff.Status = &c.Status
	}

	if err := s.cr.Update(ctx, c.ID, diff); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *campaignService) Pause(ctx context.Context, userID, campaignID int64) (*models.Campaign, error) {
	return s.setStatus(ctx, userID, campaignID, models.CampaignStatusPaused, func(a platform.AdAdapter) func(context.Context, models.SocialAccount, string, string) (*transfer.CampaignResult, error) {
		return a.PauseCampaign
	})
}

func (s *campaignService) Resume(ctx context.Context, userID, campaignID int64) (*models.Campaign, error) {
	return s.setStatus(ctx, userID, campaignID, models.CampaignStatusActive, func(a platform.AdAdapter) func(context.Context, models.SocialAccount, string, string) (*transfer.CampaignResult, error) {
		return a.ResumeCampaign
	})
}

func (s *campaignService) setStatus(
	ctx context.Context,
	userID, campaignID int64,
	status models.CampaignStatus,
	op func(platform.AdAdapter) func(context.Context, models.SocialAccount, string, string) (*transfer.CampaignResult, error),
) (*models.Campaign, error) {
	c, acc, adapter, err := s.campaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	call := op(adapter)
	if _, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.CampaignResult, error) {
		return call(ctx, acc, c.AdAccountID, c.ExternalID)
	}); err != nil {
		return nil, err
	}

	c.Status = status
	if err := s.cr.Update(ctx, c.ID, models.CampaignUpdate{Status: &status}); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete archives the stored campaign once the platform accepted the delete.
func (s *campaignService) Delete(ctx context.Context, userID, campaignID int64) error {
	c, acc, adapter, err := s.campaign(ctx, userID, campaignID)
	if err != nil {
		return err
	}

	deleted, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (bool, error) {
		return adapter.DeleteCampaign(ctx, acc, c.AdAccountID, c.ExternalID)
	})
	if err != nil {
		return err
	}
	if !deleted {
		return &apperrors.PlatformError{Platform: string(acc.Platform), Err: fmt.Errorf("campaign %s was not deleted", c.ExternalID)}
	}

	status := models.CampaignStatusArchived
	return s.cr.Update(ctx, c.ID, models.CampaignUpdate{Status: &status})
}

func (s *campaignService) Analytics(ctx context.Context, userID, campaignID int64) (*transfer.Analytics, error) {
	c, acc, adapter, err := s.campaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	query := transfer.AdAnalyticsQuery{
		AdAccountID: c.AdAccountID,
		EntityType:  transfer.AnalyticsEntityCampaign,
		EntityID:    c.ExternalID,
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.Analytics, error) {
		return adapter.GetAnalytics(ctx, acc, query)
	})
}

// CreateAd runs the platform's ad creation chain under the stored campaign.
// A partially created bundle is reported through the error only.
func (s *campaignService) CreateAd(ctx context.Context, userID, campaignID int64, spec transfer.AdSpec) (*transfer.AdBundle, error) {
	c, acc, adapter, err := s.campaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	if spec.AdAccountID == "" {
		spec.AdAccountID = c.AdAccountID
	}

	bundle, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.AdBundle, error) {
		return adapter.CreateAd(ctx, acc, c.ExternalID, spec)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logging.Fields{
		"platform":    acc.Platform,
		"campaign_id": c.ID,
		"ad_id":       bundle.AdID,
	}).Info("ad created")
	return bundle, nil
}

func (s *campaignService) UpdateAd(ctx context.Context, userID int64, adID string, req transfer.AdUpdateRequest) (*transfer.AdResult, error) {
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	update := req.AdUpdate
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.AdResult, error) {
		return adapter.UpdateAd(ctx, acc, adID, update)
	})
}

func (s *campaignService) PauseAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) (*transfer.AdResult, error) {
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.AdResult, error) {
		return adapter.PauseAd(ctx, acc, req.AdAccountID, adID)
	})
}

func (s *campaignService) ResumeAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) (*transfer.AdResult, error) {
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.AdResult, error) {
		return adapter.ResumeAd(ctx, acc, req.AdAccountID, adID)
	})
}

func (s *campaignService) DeleteAd(ctx context.Context, userID int64, adID string, req transfer.AdStatusRequest) error {
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return err
	}
	deleted, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (bool, error) {
		return adapter.DeleteAd(ctx, acc, req.AdAccountID, adID)
	})
	if err != nil {
		return err
	}
	if !deleted {
		return &apperrors.PlatformError{Platform: string(acc.Platform), Err: fmt.Errorf("ad %s was not deleted", adID)}
	}
	return nil
}

func (s *campaignService) AdAnalytics(ctx context.Context, userID int64, req transfer.AdAnalyticsRequest) (*transfer.Analytics, error) {
	if req.EntityID == "" {
		return nil, &apperrors.ValidationError{Field: "entity_id", Message: "is required"}
	}
	acc, adapter, err := s.adAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	query := req.AdAnalyticsQuery
	if query.EntityType == "" {
		query.EntityType = transfer.AnalyticsEntityAd
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.Analytics, error) {
		return adapter.GetAnalytics(ctx, acc, query)
	})
}

func budgetOf(daily, lifetime float64) float64 {
	if daily > 0 {
		return daily
	}
	return lifetime
}

// campaignStatusOf maps a platform status onto the stored vocabulary,
// falling back to the requested status. Platforms create paused campaigns
// unless told otherwise.
func campaignStatusOf(platformStatus, requested string) models.CampaignStatus {
	s := platformStatus
	if s == "" {
		s = requested
	}
	switch strings.ToLower(s) {
	case "active":
		return models.CampaignStatusActive
	case "archived", "deleted", "canceled", "completed":
		return models.CampaignStatusArchived
	case "draft":
		return models.CampaignStatusDraft
	default:
		return models.CampaignStatusPaused
	}
}
