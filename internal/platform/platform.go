package platform

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/executor"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Authenticator is the credential half shared by both capability contracts.
//
// Authenticate never fails: a rejected or unreachable credential yields the
// account with status expired. RefreshToken only fails for a missing refresh
// credential or a revoked account; an unsuccessful exchange yields expired.
// Neither persists anything.
type Authenticator interface {
	Platform() models.Platform
	Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount
	RefreshToken(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error)
}

type ContentAdapter interface {
	Authenticator
	PublishContent(ctx context.Context, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error)
	ScheduleContent(ctx context.Context, acc models.SocialAccount, content models.Content, at time.Time) (*transfer.PublishResult, error)
	DeleteContent(ctx context.Context, acc models.SocialAccount, contentID string) (bool, error)
	// GetAnalytics returns post metrics, or account metrics when contentID is empty.
	GetAnalytics(ctx context.Context, acc models.SocialAccount, contentID string) (*transfer.Analytics, error)
	// GetComments is best effort and returns an empty list on failure.
	GetComments(ctx context.Context, acc models.SocialAccount, contentID string) []transfer.Comment
	ReplyToComment(ctx context.Context, acc models.SocialAccount, commentID, reply string) (*transfer.Comment, error)
}

// AdAdapter manages paid campaigns. CreateAd runs a strict sequence of
// platform calls; when a step fails the ids created by earlier steps are left
// in place on the platform and the step's error is returned.
//
// adAccountID names the ad account that owns the entity. Platforms whose
// entity ids are global ignore it; an empty value falls back to the
// account's AccountID.
type AdAdapter interface {
	Authenticator
	CreateCampaign(ctx context.Context, acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error)
	UpdateCampaign(ctx context.Context, acc models.SocialAccount, campaignID string, update transfer.CampaignUpdate) (*transfer.CampaignResult, error)
	PauseCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error)
	ResumeCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error)
	DeleteCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (bool, error)
	CreateAd(ctx context.Context, acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error)
	UpdateAd(ctx context.Context, acc models.SocialAccount, adID string, update transfer.AdUpdate) (*transfer.AdResult, error)
	PauseAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error)
	ResumeAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error)
	DeleteAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (bool, error)
	GetAnalytics(ctx context.Context, acc models.SocialAccount, query transfer.AdAnalyticsQuery) (*transfer.Analytics, error)
}

// Endpoints holds the base URLs of every platform API. Tests point them at
// local servers.
type Endpoints struct {
	Graph         string
	LinkedIn      string
	LinkedInAuth  string
	Twitter       string
	TwitterAuth   string
	TwitterAds    string
	TwitterUpload string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Graph:         "https://graph.facebook.com/v18.0",
		LinkedIn:      "https://api.linkedin.com/v2",
		LinkedInAuth:  "https://www.linkedin.com/oauth/v2/accessToken",
		Twitter:       "https://api.twitter.com/2",
		TwitterAuth:   "https://api.twitter.com/2/oauth2/token",
		TwitterAds:    "https://ads-api.twitter.com/11",
		TwitterUpload: "https://upload.twitter.com/1.1/media/upload.json",
	}
}

type Options struct {
	Executor  *executor.Executor
	Platforms config.Platforms
	Endpoints Endpoints
	// Quirks defaults to DefaultQuirks(Platforms).
	Quirks QuirkTable
	// Media loads bytes for platforms that need a binary upload.
	Media  media.Fetcher
	Logger logging.Logger
	Now    func() time.Time
	IDs    func() (string, error)
}

func (o Options) withDefaults() Options {
	if o.Executor == nil {
		o.Executor = executor.New(executor.DefaultConfig(), o.Logger)
	}
	defaults := DefaultEndpoints()
	if o.Endpoints.Graph == "" {
		o.Endpoints.Graph = defaults.Graph
	}
	if o.Endpoints.LinkedIn == "" {
		o.Endpoints.LinkedIn = defaults.LinkedIn
	}
	if o.Endpoints.LinkedInAuth == "" {
		o.Endpoints.LinkedInAuth = defaults.LinkedInAuth
	}
	if o.Endpoints.Twitter == "" {
		o.Endpoints.Twitter = defaults.Twitter
	}
	if o.Endpoints.TwitterAuth == "" {
		o.Endpoints.TwitterAuth = defaults.TwitterAuth
	}
	if o.Endpoints.TwitterAds == "" {
		o.Endpoints.TwitterAds = defaults.TwitterAds
	}
	if o.Endpoints.TwitterUpload == "" {
		o.Endpoints.TwitterUpload = defaults.TwitterUpload
	}
	if o.Quirks == nil {
		o.Quirks = DefaultQuirks(o.Platforms)
	}
	if o.Media == nil {
		o.Media = media.NewHTTPFetcher(o.Executor)
	}
	if o.Logger == nil {
		o.Logger = logging.NewDiscardLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.IDs == nil {
		o.IDs = func() (string, error) { return gonanoid.New() }
	}
	return o
}

func (o Options) credentials(p models.Platform) config.Credentials {
	switch p {
	case models.PlatformFacebook:
		return o.Platforms.Facebook
	case models.PlatformInstagram:
		return o.Platforms.Instagram
	case models.PlatformLinkedIn:
		return o.Platforms.LinkedIn
	case models.PlatformTwitter:
		return o.Platforms.Twitter
	}
	return config.Credentials{}
}
