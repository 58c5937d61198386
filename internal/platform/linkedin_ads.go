package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/executor"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

// linkedInAds drives the LinkedIn Marketing API. A LinkedIn campaign plays
// the ad set role, so an ad is a creative plus the sponsored content that
// binds it to the campaign.
type linkedInAds struct {
	base
}

func newLinkedInAds(o Options) *linkedInAds {
	return &linkedInAds{base: newBase(models.PlatformLinkedIn, o)}
}

func adAccountOr(id string, acc models.SocialAccount) string {
	if id != "" {
		return id
	}
	return acc.AccountID
}

func sponsoredAccountURN(id string) string  { return "urn:li:sponsoredAccount:" + id }
func sponsoredCampaignURN(id string) string { return "urn:li:sponsoredCampaign:" + id }
func sponsoredCreativeURN(id string) string { return "urn:li:sponsoredCreative:" + id }

func (a *linkedInAds) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.restli(acc, "authenticate", http.MethodGet, a.endpoints.LinkedIn+"/adAccountsV2")
		req.Query.Set("q", "search")
		req.Query.Set("search.status.values[0]", "ACTIVE")

		var out transfer.LinkedInElements[transfer.LinkedInAdAccount]
		if _, err := a.do(ctx, req, &out); err != nil {
			return acc, err
		}
		if len(out.Elements) == 0 {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("no active ad accounts")}
		}
		return acc, nil
	})
}

func (a *linkedInAds) CreateCampaign(ctx context.Context, acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	start := a.now()
	if spec.StartTime != nil {
		start = *spec.StartTime
	}
	schedule := &transfer.LinkedInRunSchedule{Start: start.UnixMilli()}
	if spec.EndTime != nil {
		schedule.End = spec.EndTime.UnixMilli()
	}

	body := transfer.LinkedInCampaignRequest{
		Account:     sponsoredAccountURN(adAccountOr(spec.AdAccountID, acc)),
		Name:        spec.Name,
		Status:      a.quirks.Ads.Status(spec.Status),
		Type:        "SPONSORED_UPDATES",
		CostType:    "CPC",
		DailyBudget: a.quirks.Ads.Money(spec.DailyBudget, spec.Currency),
		TotalBudget: a.quirks.Ads.Money(spec.LifetimeBudget, spec.Currency),
		UnitCost:    a.quirks.Ads.Money(spec.UnitCost, spec.Currency),
		Locale:      locale(spec.Country, spec.Language),
		RunSchedule: schedule,
	}

	req := a.restli(acc, "create_campaign", http.MethodPost, a.endpoints.LinkedIn+"/adCampaignsV2")
	req.JSON = body
	id, err := a.created(ctx, req)
	if err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: id, Status: body.Status}, nil
}

func locale(country, language string) transfer.LinkedInLocale {
	l := transfer.LinkedInLocale{Country: country, Language: language}
	if l.Country == "" {
		l.Country = "US"
	}
	if l.Language == "" {
		l.Language = "en"
	}
	return l
}

// created posts req and returns the id LinkedIn assigned.
func (a *linkedInAds) created(ctx context.Context, req *executor.Request) (string, error) {
	resp, err := a.do(ctx, req, nil)
	if err != nil {
		return "", err
	}
	id := restliID(resp)
	if id == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: fmt.Errorf("%s returned no id", req.Operation)}
	}
	return id, nil
}

func patchOf[T any](set T) transfer.LinkedInPatch[T] {
	var p transfer.LinkedInPatch[T]
	p.Patch.Set = set
	return p
}

// patch sends a Rest.li partial update of the entity at path.
func (a *linkedInAds) patch(ctx context.Context, acc models.SocialAccount, op, path string, body any) error {
	req := a.restli(acc, op, http.MethodPost, a.endpoints.LinkedIn+path)
	req.Headers["X-Restli-Method"] = "PARTIAL_UPDATE"
	req.JSON = body
	_, err := a.do(ctx, req, nil)
	return err
}

func (a *linkedInAds) UpdateCampaign(ctx context.Context, acc models.SocialAccount, campaignID string, update transfer.CampaignUpdate) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	set := transfer.LinkedInCampaignPatch{Name: update.Name}
	if update.Status != "" {
		set.Status = a.quirks.Ads.Status(update.Status)
	}
	set.DailyBudget = a.quirks.Ads.Money(update.DailyBudget, update.Currency)
	set.TotalBudget = a.quirks.Ads.Money(update.LifetimeBudget, update.Currency)
	set.UnitCost = a.quirks.Ads.Money(update.UnitCost, update.Currency)
	if update.StartTime != nil {
		set.RunSchedule = &transfer.LinkedInRunSchedule{Start: update.StartTime.UnixMilli()}
		if update.EndTime != nil {
			set.RunSchedule.End = update.EndTime.UnixMilli()
		}
	}

	if err := a.patch(ctx, acc, "update_campaign", "/adCampaignsV2/"+campaignID, patchOf(set)); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: campaignID, Status: set.Status}, nil
}

func (a *linkedInAds) PauseCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "pause_campaign", campaignID, a.quirks.Ads.PausedStatus)
}

func (a *linkedInAds) ResumeCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "resume_campaign", campaignID, a.quirks.Ads.ActiveStatus)
}

// DeleteCampaign archives the campaign; LinkedIn has no hard delete.
func (a *linkedInAds) DeleteCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (bool, error) {
	if _, err := a.setCampaignStatus(ctx, acc, "delete_campaign", campaignID, a.quirks.Ads.ArchivedStatus); err != nil {
		return false, err
	}
	return true, nil
}

func (a *linkedInAds) setCampaignStatus(ctx context.Context, acc models.SocialAccount, op, id, status string) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.patch(ctx, acc, op, "/adCampaignsV2/"+id, patchOf(transfer.LinkedInStatusPatch{Status: status})); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: id, Status: status}, nil
}

// CreateAd sponsors an existing share: a creative referencing the share,
// then the sponsored content binding the creative to the campaign.
func (a *linkedInAds) CreateAd(ctx context.Context, acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if spec.ShareID == "" {
		return nil, &apperrors.ValidationError{Field: "share_id", Message: "is required"}
	}
	account := sponsoredAccountURN(adAccountOr(spec.AdAccountID, acc))
	campaign := sponsoredCampaignURN(campaignID)
	status := a.quirks.Ads.Status(spec.Status)

	creativeReq := a.restli(acc, "create_creative", http.MethodPost, a.endpoints.LinkedIn+"/adCreativesV2")
	creativeReq.JSON = transfer.LinkedInCreativeRequest{
		Account:   account,
		Campaign:  campaign,
		Reference: "urn:li:share:" + spec.ShareID,
		Status:    status,
		Type:      "SPONSORED_STATUS_UPDATE",
	}
	creativeID, err := a.created(ctx, creativeReq)
	if err != nil {
		return nil, fmt.Errorf("create creative: %w", err)
	}

	adReq := a.restli(acc, "create_ad", http.MethodPost, a.endpoints.LinkedIn+"/adDirectSponsoredContentsV2")
	adReq.JSON = transfer.LinkedInSponsoredContentRequest{
		Account:  account,
		Campaign: campaign,
		Creative: sponsoredCreativeURN(creativeID),
		Name:     spec.Name,
		Status:   status,
		Locale:   locale(spec.Country, spec.Language),
	}
	adID, err := a.created(ctx, adReq)
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}

	return &transfer.AdBundle{AdSetID: campaignID, CreativeID: creativeID, AdID: adID}, nil
}

func (a *linkedInAds) UpdateAd(ctx context.Context, acc models.SocialAccount, adID string, update transfer.AdUpdate) (*transfer.AdResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	set := transfer.LinkedInStatusPatch{Name: update.Name}
	if update.Status != "" {
		set.Status = a.quirks.Ads.Status(update.Status)
	}
	if err := a.patch(ctx, acc, "update_ad", "/adDirectSponsoredContentsV2/"+adID, patchOf(set)); err != nil {
		return nil, err
	}
	return &transfer.AdResult{ID: adID, Status: set.Status}, nil
}

func (a *linkedInAds) PauseAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.setAdStatus(ctx, acc, "pause_ad", adID, a.quirks.Ads.PausedStatus)
}

func (a *linkedInAds) ResumeAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.setAdStatus(ctx, acc, "resume_ad", adID, a.quirks.Ads.ActiveStatus)
}

func (a *linkedInAds) DeleteAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (bool, error) {
	if _, err := a.setAdStatus(ctx, acc, "delete_ad", adID, a.quirks.Ads.ArchivedStatus); err != nil {
		return false, err
	}
	return true, nil
}

func (a *linkedInAds) setAdStatus(ctx context.Context, acc models.SocialAccount, op, id, status string) (*transfer.AdResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.patch(ctx, acc, op, "/adDirectSponsoredContentsV2/"+id, patchOf(transfer.LinkedInStatusPatch{Status: status})); err != nil {
		return nil, err
	}
	return &transfer.AdResult{ID: id, Status: status}, nil
}

func (a *linkedInAds) GetAnalytics(ctx context.Context, acc models.SocialAccount, query transfer.AdAnalyticsQuery) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if query.EntityID == "" {
		return nil, &apperrors.ValidationError{Field: "entity_id", Message: "is required"}
	}

	req := a.restli(acc, "get_analytics", http.MethodGet, a.endpoints.LinkedIn+"/adAnalyticsV2")
	req.Query.Set("q", "analytics")
	req.Query.Set("timeGranularity", "ALL")
	if query.EntityType == transfer.AnalyticsEntityAd {
		req.Query.Set("pivot", "CREATIVE")
		req.Query.Set("creatives[0]", sponsoredCreativeURN(query.EntityID))
	} else {
		req.Query.Set("pivot", "CAMPAIGN")
		req.Query.Set("campaigns[0]", sponsoredCampaignURN(query.EntityID))
	}
	start := a.now().AddDate(0, -1, 0)
	if query.Start != nil {
		start = *query.Start
	}
	req.Query.Set("dateRange.start.day", fmt.Sprint(start.Day()))
	req.Query.Set("dateRange.start.month", fmt.Sprint(int(start.Month())))
	req.Query.Set("dateRange.start.year", fmt.Sprint(start.Year()))
	if query.End != nil {
		req.Query.Set("dateRange.end.day", fmt.Sprint(query.End.Day()))
		req.Query.Set("dateRange.end.month", fmt.Sprint(int(query.End.Month())))
		req.Query.Set("dateRange.end.year", fmt.Sprint(query.End.Year()))
	}

	var out transfer.LinkedInElements[transfer.LinkedInAdAnalytics]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]float64)
	for _, el := range out.Elements {
		metrics["impressions"] += el.Impressions
		metrics["clicks"] += el.Clicks
		metrics["spend"] += decimal(el.CostInLocalCurrency)
		metrics["likes"] += el.Likes
		metrics["shares"] += el.Shares
		metrics["comments"] += el.Comments
		metrics["conversions"] += el.ExternalWebsiteConversions
	}
	return &transfer.Analytics{EntityID: query.EntityID, Metrics: metrics, Raw: resp.Body}, nil
}
