package service

import (
	"context"
	"time"

	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Fakes embed the interface they stand in for; calling a method without a
// function set panics, which flags an unexpected call.

type fakeAccounts struct {
	repository.SocialAccountRepository
	create  func(sa *models.SocialAccount) (int64, error)
	get     func(id int64) (*models.SocialAccount, error)
	list    func(userID int64) ([]*models.SocialAccount, error)
	update  func(id int64, u models.SocialAccountUpdate) error
	remove  func(id int64) error
	updates []models.SocialAccountUpdate
}

func (f *fakeAccounts) Create(_ context.Context, sa *models.SocialAccount) (int64, error) {
	return f.create(sa)
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.SocialAccount, error) {
	return f.get(id)
}

func (f *fakeAccounts) ListByUserID(_ context.Context, userID int64) ([]*models.SocialAccount, error) {
	return f.list(userID)
}

func (f *fakeAccounts) Update(_ context.Context, id int64, u models.SocialAccountUpdate) error {
	f.updates = append(f.updates, u)
	if f.update == nil {
		return nil
	}
	return f.update(id, u)
}

func (f *fakeAccounts) Remove(_ context.Context, id int64) error {
	return f.remove(id)
}

func accountsWith(accs ...models.SocialAccount) *fakeAccounts {
	return &fakeAccounts{
		get: func(id int64) (*models.SocialAccount, error) {
			for _, a := range accs {
				if a.ID == id {
					a := a
					return &a, nil
				}
			}
			return nil, nil
		},
	}
}

type fakeContents struct {
	repository.ContentRepository
	get     func(id int64) (*models.Content, error)
	create  func(c *models.Content) (int64, error)
	updates []models.ContentUpdate
}

func (f *fakeContents) Create(_ context.Context, c *models.Content) (int64, error) {
	return f.create(c)
}

func (f *fakeContents) GetByID(_ context.Context, id int64) (*models.Content, error) {
	return f.get(id)
}

func (f *fakeContents) Update(_ context.Context, _ int64, u models.ContentUpdate) error {
	f.updates = append(f.updates, u)
	return nil
}

func contentsWith(cs ...models.Content) *fakeContents {
	return &fakeContents{
		get: func(id int64) (*models.Content, error) {
			for _, c := range cs {
				if c.ID == id {
					c := c
					return &c, nil
				}
			}
			return nil, nil
		},
	}
}

type resultUpdate struct {
	id                          int64
	status, externalID, message string
}

type fakePublications struct {
	repository.PublicationRepository
	get     func(id int64) (*models.Publication, error)
	created []models.Publication
	results []resultUpdate
}

func (f *fakePublications) Create(_ context.Context, p *models.Publication) (int64, error) {
	f.created = append(f.created, *p)
	return int64(len(f.created)), nil
}

func (f *fakePublications) GetByID(_ context.Context, id int64) (*models.Publication, error) {
	return f.get(id)
}

func (f *fakePublications) UpdateResult(_ context.Context, id int64, status, externalID, message string) error {
	f.results = append(f.results, resultUpdate{id, status, externalID, message})
	return nil
}

type fakeCampaigns struct {
	repository.CampaignRepository
	get     func(id int64) (*models.Campaign, error)
	created []models.Campaign
	updates []models.CampaignUpdate
}

func (f *fakeCampaigns) Create(_ context.Context, c *models.Campaign) (int64, error) {
	f.created = append(f.created, *c)
	return int64(len(f.created)), nil
}

func (f *fakeCampaigns) GetByID(_ context.Context, id int64) (*models.Campaign, error) {
	return f.get(id)
}

func (f *fakeCampaigns) Update(_ context.Context, _ int64, u models.CampaignUpdate) error {
	f.updates = append(f.updates, u)
	return nil
}

type fakeContentAdapter struct {
	platform.ContentAdapter
	authenticate func(acc models.SocialAccount) models.SocialAccount
	publish      func(acc models.SocialAccount, c models.Content) (*transfer.PublishResult, error)
	schedule     func(acc models.SocialAccount, c models.Content, at time.Time) (*transfer.PublishResult, error)
	deleteFn     func(acc models.SocialAccount, id string) (bool, error)
	analytics    func(acc models.SocialAccount, id string) (*transfer.Analytics, error)
	comments     func(acc models.SocialAccount, id string) []transfer.Comment
}

func (f *fakeContentAdapter) Authenticate(_ context.Context, acc models.SocialAccount) models.SocialAccount {
	return f.authenticate(acc)
}

func (f *fakeContentAdapter) PublishContent(_ context.Context, acc models.SocialAccount, c models.Content) (*transfer.PublishResult, error) {
	return f.publish(acc, c)
}

func (f *fakeContentAdapter) ScheduleContent(_ context.Context, acc models.SocialAccount, c models.Content, at time.Time) (*transfer.PublishResult, error) {
	return f.schedule(acc, c, at)
}

func (f *fakeContentAdapter) DeleteContent(_ context.Context, acc models.SocialAccount, id string) (bool, error) {
	return f.deleteFn(acc, id)
}

func (f *fakeContentAdapter) GetAnalytics(_ context.Context, acc models.SocialAccount, id string) (*transfer.Analytics, error) {
	return f.analytics(acc, id)
}

func (f *fakeContentAdapter) GetComments(_ context.Context, acc models.SocialAccount, id string) []transfer.Comment {
	return f.comments(acc, id)
}

type fakeAdAdapter struct {
	platform.AdAdapter
	createCampaign func(acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error)
	updateCampaign func(acc models.SocialAccount, id string, u transfer.CampaignUpdate) (*transfer.CampaignResult, error)
	pauseCampaign  func(acc models.SocialAccount, adAccountID, id string) (*transfer.CampaignResult, error)
	deleteCampaign func(acc models.SocialAccount, adAccountID, id string) (bool, error)
	createAd       func(acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error)
	pauseAd        func(acc models.SocialAccount, adAccountID, id string) (*transfer.AdResult, error)
	analytics      func(acc models.SocialAccount, q transfer.AdAnalyticsQuery) (*transfer.Analytics, error)
}

func (f *fakeAdAdapter) CreateCampaign(_ context.Context, acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error) {
	return f.createCampaign(acc, spec)
}

func (f *fakeAdAdapter) UpdateCampaign(_ context.Context, acc models.SocialAccount, id string, u transfer.CampaignUpdate) (*transfer.CampaignResult, error) {
	return f.updateCampaign(acc, id, u)
}

func (f *fakeAdAdapter) PauseCampaign(_ context.Context, acc models.SocialAccount, adAccountID, id string) (*transfer.CampaignResult, error) {
	return f.pauseCampaign(acc, adAccountID, id)
}

func (f *fakeAdAdapter) DeleteCampaign(_ context.Context, acc models.SocialAccount, adAccountID, id string) (bool, error) {
	return f.deleteCampaign(acc, adAccountID, id)
}

func (f *fakeAdAdapter) CreateAd(_ context.Context, acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error) {
	return f.createAd(acc, campaignID, spec)
}

func (f *fakeAdAdapter) PauseAd(_ context.Context, acc models.SocialAccount, adAccountID, id string) (*transfer.AdResult, error) {
	return f.pauseAd(acc, adAccountID, id)
}

func (f *fakeAdAdapter) GetAnalytics(_ context.Context, acc models.SocialAccount, q transfer.AdAnalyticsQuery) (*transfer.Analytics, error) {
	return f.analytics(acc, q)
}

type fakeAdapters struct {
	content platform.ContentAdapter
	ads     platform.AdAdapter
}

func (f fakeAdapters) Content(models.Platform) (platform.ContentAdapter, error) { return f.content, nil }

func (f fakeAdapters) Ads(models.Platform) (platform.AdAdapter, error) { return f.ads, nil }

type fakeCoordinator struct {
	refresh func(acc models.SocialAccount) (models.SocialAccount, error)
	calls   int
}

func (f *fakeCoordinator) Refresh(_ context.Context, _ lifecycle.Refresher, acc models.SocialAccount) (models.SocialAccount, error) {
	f.calls++
	return f.refresh(acc)
}

type fakeScheduler struct {
	enqueue func(publicationID int64, at time.Time) (string, error)
}

func (f fakeScheduler) EnqueuePublish(_ context.Context, publicationID int64, at time.Time) (string, error) {
	return f.enqueue(publicationID, at)
}

func testLogger() logging.Logger {
	return logging.NewDiscardLogger()
}

func activeAccount(id, userID int64) models.SocialAccount {
	return models.SocialAccount{
		ID:           id,
		UserID:       userID,
		Platform:     models.PlatformFacebook,
		AccountID:    "page-1",
		AccessToken:  "token-1",
		RefreshToken: "refresh-1",
		Status:       models.AccountStatusActive,
	}
}
