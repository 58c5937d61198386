package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

// metaAds drives the Marketing API shared by Facebook and Instagram. The
// Instagram variant places ads through an Instagram actor.
type metaAds struct {
	base
}

func newMetaAds(p models.Platform, o Options) *metaAds {
	return &metaAds{base: newBase(p, o)}
}

func (a *metaAds) instagramActor(id string, acc models.SocialAccount) string {
	if a.platform != models.PlatformInstagram {
		return ""
	}
	if id != "" {
		return id
	}
	return acc.AccountID
}

func adAccountPath(id string) string {
	return "act_" + strings.TrimPrefix(id, "act_")
}

func requireAdAccount(id string) error {
	if id == "" {
		return &apperrors.ValidationError{Field: "ad_account_id", Message: "is required"}
	}
	return nil
}

func (a *metaAds) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.request(acc, "authenticate", http.MethodGet, a.endpoints.Graph+"/me/adaccounts")

		var out transfer.GraphList[transfer.GraphObject]
		if _, err := a.do(ctx, req, &out); err != nil {
			return acc, err
		}
		if len(out.Data) == 0 {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("no ad accounts")}
		}
		return acc, nil
	})
}

func (a *metaAds) CreateCampaign(ctx context.Context, acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := requireAdAccount(spec.AdAccountID); err != nil {
		return nil, err
	}

	objective := spec.Objective
	if objective == "" {
		objective = "REACH"
	}
	body := transfer.MetaCampaignRequest{
		Name:                spec.Name,
		Objective:           objective,
		Status:              a.quirks.Ads.Status(spec.Status),
		SpecialAdCategories: []string{},
		StartTime:           formatTime(spec.StartTime),
		StopTime:            formatTime(spec.EndTime),
	}
	if spec.DailyBudget > 0 {
		body.DailyBudget = a.quirks.Ads.Amount(spec.DailyBudget)
	}
	if spec.LifetimeBudget > 0 {
		body.LifetimeBudget = a.quirks.Ads.Amount(spec.LifetimeBudget)
	}
	if actor := a.instagramActor(spec.InstagramAccountID, acc); actor != "" {
		body.PromotedObject = &transfer.MetaPromotedObject{ApplicationID: actor}
	}

	req := a.request(acc, "create_campaign", http.MethodPost, a.endpoints.Graph+"/"+adAccountPath(spec.AdAccountID)+"/campaigns")
	req.JSON = body

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: out.ID, Status: body.Status}, nil
}

func (a *metaAds) UpdateCampaign(ctx context.Context, acc models.SocialAccount, campaignID string, update transfer.CampaignUpdate) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	body := transfer.MetaCampaignUpdateRequest{
		Name:      update.Name,
		StartTime: formatTime(update.StartTime),
		StopTime:  formatTime(update.EndTime),
	}
	if update.Status != "" {
		body.Status = a.quirks.Ads.Status(update.Status)
	}
	if update.DailyBudget > 0 {
		body.DailyBudget = a.quirks.Ads.Amount(update.DailyBudget)
	}
	if update.LifetimeBudget > 0 {
		body.LifetimeBudget = a.quirks.Ads.Amount(update.LifetimeBudget)
	}
	if err := a.post(ctx, acc, "update_campaign", campaignID, body); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: campaignID, Status: body.Status}, nil
}

func (a *metaAds) PauseCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "pause_campaign", campaignID, a.quirks.Ads.PausedStatus)
}

func (a *metaAds) ResumeCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "resume_campaign", campaignID, a.quirks.Ads.ActiveStatus)
}

func (a *metaAds) DeleteCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (bool, error) {
	if _, err := a.setCampaignStatus(ctx, acc, "delete_campaign", campaignID, a.quirks.Ads.ArchivedStatus); err != nil {
		return false, err
	}
	return true, nil
}

func (a *metaAds) setCampaignStatus(ctx context.Context, acc models.SocialAccount, op, id, status string) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.post(ctx, acc, op, id, transfer.MetaStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: id, Status: status}, nil
}

// post updates a Graph object in place.
func (a *metaAds) post(ctx context.Context, acc models.SocialAccount, op, id string, body any) error {
	req := a.request(acc, op, http.MethodPost, a.endpoints.Graph+"/"+id)
	req.JSON = body
	_, err := a.do(ctx, req, nil)
	return err
}

// CreateAd creates the ad set, then the creative, then the ad binding both.
func (a *metaAds) CreateAd(ctx context.Context, acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := requireAdAccount(spec.AdAccountID); err != nil {
		return nil, err
	}
	account := a.endpoints.Graph + "/" + adAccountPath(spec.AdAccountID)
	status := a.quirks.Ads.Status(spec.Status)
	actor := a.instagramActor(spec.InstagramAccountID, acc)

	bid := spec.BidAmount
	if bid <= 0 {
		bid = 0.02
	}
	optimization := spec.Objective
	if optimization == "" {
		optimization = "REACH"
	}
	adSet := transfer.MetaAdSetRequest{
		Name:             nameOr(spec.AdSetName, spec.Name+" Ad Set"),
		CampaignID:       campaignID,
		OptimizationGoal: optimization,
		BillingEvent:     "IMPRESSIONS",
		BidAmount:        a.quirks.Ads.Amount(bid),
		Status:           status,
		Targeting:        spec.Targeting,
		StartTime:        formatTime(spec.StartTime),
		EndTime:          formatTime(spec.EndTime),
		InstagramActorID: actor,
	}
	if spec.DailyBudget > 0 {
		adSet.DailyBudget = a.quirks.Ads.Amount(spec.DailyBudget)
	}
	adSetID, err := a.create(ctx, acc, "create_adset", account+"/adsets", adSet)
	if err != nil {
		return nil, fmt.Errorf("create ad set: %w", err)
	}

	creativeID, err := a.create(ctx, acc, "create_creative", account+"/adcreatives", transfer.MetaCreativeRequest{
		Name: nameOr(spec.CreativeName, spec.Name+" Creative"),
		ObjectStorySpec: transfer.MetaObjectStorySpec{
			PageID:           spec.PageID,
			InstagramActorID: actor,
			LinkData: transfer.MetaLinkData{
				Message:     spec.Message,
				Link:        spec.Link,
				Caption:     spec.Caption,
				Description: spec.Description,
				ImageURL:    spec.ImageURL,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create creative: %w", err)
	}

	adID, err := a.create(ctx, acc, "create_ad", account+"/ads", transfer.MetaAdRequest{
		Name:     spec.Name,
		AdSetID:  adSetID,
		Creative: transfer.MetaCreativeRef{CreativeID: creativeID},
		Status:   status,
	})
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}

	return &transfer.AdBundle{AdSetID: adSetID, CreativeID: creativeID, AdID: adID}, nil
}

func (a *metaAds) create(ctx context.Context, acc models.SocialAccount, op, endpoint string, body any) (string, error) {
	req := a.request(acc, op, http.MethodPost, endpoint)
	req.JSON = body

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("created object without id")}
	}
	return out.ID, nil
}

func (a *metaAds) UpdateAd(ctx context.Context, acc models.SocialAccount, adID string, update transfer.AdUpdate) (*transfer.AdResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	body := transfer.MetaAdUpdateRequest{Name: update.Name}
	if update.Status != "" {
		body.Status = a.quirks.Ads.Status(update.Status)
	}
	if update.BidAmount > 0 {
		body.BidAmount = a.quirks.Ads.Amount(update.BidAmount)
	}
	if err := a.post(ctx, acc, "update_ad", adID, body); err != nil {
		return nil, err
	}
	return &transfer.AdResult{ID: adID, Status: body.Status}, nil
}

func (a *metaAds) PauseAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.setAdStatus(ctx, acc, "pause_ad", adID, a.quirks.Ads.PausedStatus)
}

func (a *metaAds) ResumeAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.setAdStatus(ctx, acc, "resume_ad", adID, a.quirks.Ads.ActiveStatus)
}

func (a *metaAds) DeleteAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (bool, error) {
	if _, err := a.setAdStatus(ctx, acc, "delete_ad", adID, a.quirks.Ads.ArchivedStatus); err != nil {
		return false, err
	}
	return true, nil
}

func (a *metaAds) setAdStatus(ctx context.Context, acc models.SocialAccount, op, id, status string) (*transfer.AdResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.post(ctx, acc, op, id, transfer.MetaStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	return &transfer.AdResult{ID: id, Status: status}, nil
}

func (a *metaAds) GetAnalytics(ctx context.Context, acc models.SocialAccount, query transfer.AdAnalyticsQuery) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	entity := query.EntityID
	if entity == "" {
		if err := requireAdAccount(query.AdAccountID); err != nil {
			return nil, err
		}
		entity = adAccountPath(query.AdAccountID)
	}

	req := a.request(acc, "get_analytics", http.MethodGet, a.endpoints.Graph+"/"+entity+"/insights")
	req.Query.Set("fields", "impressions,clicks,spend,cpc,ctr,reach")
	if query.Start != nil && query.End != nil {
		req.Query.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`, query.Start.Format("2006-01-02"), query.End.Format("2006-01-02")))
	}

	var out transfer.GraphList[transfer.MetaInsight]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]float64)
	for _, in := range out.Data {
		metrics["impressions"] += decimal(in.Impressions)
		metrics["clicks"] += decimal(in.Clicks)
		metrics["spend"] += decimal(in.Spend)
		metrics["reach"] += decimal(in.Reach)
		metrics["cpc"] = decimal(in.CPC)
		metrics["ctr"] = decimal(in.CTR)
	}
	return &transfer.Analytics{EntityID: entity, Metrics: metrics, Raw: resp.Body}, nil
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
