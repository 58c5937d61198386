package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

// twitterAds drives the Twitter Ads API. An ad is a promoted tweet; its
// delivery status lives on the line item it belongs to, so pausing or
// resuming an ad resolves the promoted tweet to its line item first.
//
// An empty ad account id falls back to the account's AccountID.
type twitterAds struct {
	base
}

func newTwitterAds(o Options) *twitterAds {
	return &twitterAds{base: newBase(models.PlatformTwitter, o)}
}

func (a *twitterAds) accountURL(adAccountID string, acc models.SocialAccount, path string) string {
	return a.endpoints.TwitterAds + "/accounts/" + adAccountOr(adAccountID, acc) + path
}

func (a *twitterAds) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.request(acc, "authenticate", http.MethodGet, a.endpoints.TwitterAds+"/accounts")

		var out transfer.TwitterData[[]transfer.TwitterAdsEntity]
		if _, err := a.do(ctx, req, &out); err != nil {
			return acc, err
		}
		if len(out.Data) == 0 {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("no ad accounts")}
		}
		return acc, nil
	})
}

// entity sends req and returns the single entity in the response.
func (a *twitterAds) entity(ctx context.Context, method, op, endpoint string, acc models.SocialAccount, body any) (*transfer.TwitterAdsEntity, error) {
	req := a.request(acc, op, method, endpoint)
	req.JSON = body

	var out transfer.TwitterData[transfer.TwitterAdsEntity]
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (a *twitterAds) CreateCampaign(ctx context.Context, acc models.SocialAccount, spec transfer.CampaignSpec) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if spec.FundingInstrumentID == "" {
		return nil, &apperrors.ValidationError{Field: "funding_instrument_id", Message: "is required"}
	}

	body := transfer.TwitterCampaignRequest{
		Name:                spec.Name,
		FundingInstrumentID: spec.FundingInstrumentID,
		EntityStatus:        a.quirks.Ads.Status(spec.Status),
		StartTime:           formatTime(spec.StartTime),
		EndTime:             formatTime(spec.EndTime),
	}
	if spec.DailyBudget > 0 {
		body.DailyBudgetAmountLocalMicro = a.quirks.Ads.Amount(spec.DailyBudget)
	}
	if spec.LifetimeBudget > 0 {
		body.TotalBudgetAmountLocalMicro = a.quirks.Ads.Amount(spec.LifetimeBudget)
	}

	out, err := a.entity(ctx, http.MethodPost, "create_campaign", a.accountURL(spec.AdAccountID, acc, "/campaigns"), acc, body)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("campaign without id")}
	}
	return &transfer.CampaignResult{ID: out.ID, Status: body.EntityStatus}, nil
}

func (a *twitterAds) UpdateCampaign(ctx context.Context, acc models.SocialAccount, campaignID string, update transfer.CampaignUpdate) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	body := transfer.TwitterCampaignUpdateRequest{
		Name:      update.Name,
		StartTime: formatTime(update.StartTime),
		EndTime:   formatTime(update.EndTime),
	}
	if update.Status != "" {
		body.EntityStatus = a.quirks.Ads.Status(update.Status)
	}
	if update.DailyBudget > 0 {
		body.DailyBudgetAmountLocalMicro = a.quirks.Ads.Amount(update.DailyBudget)
	}
	if update.LifetimeBudget > 0 {
		body.TotalBudgetAmountLocalMicro = a.quirks.Ads.Amount(update.LifetimeBudget)
	}

	if _, err := a.entity(ctx, http.MethodPut, "update_campaign", a.accountURL(update.AdAccountID, acc, "/campaigns/"+campaignID), acc, body); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: campaignID, Status: body.EntityStatus}, nil
}

func (a *twitterAds) PauseCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "pause_campaign", adAccountID, campaignID, a.quirks.Ads.PausedStatus)
}

func (a *twitterAds) ResumeCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (*transfer.CampaignResult, error) {
	return a.setCampaignStatus(ctx, acc, "resume_campaign", adAccountID, campaignID, a.quirks.Ads.ActiveStatus)
}

func (a *twitterAds) setCampaignStatus(ctx context.Context, acc models.SocialAccount, op, adAccountID, id, status string) (*transfer.CampaignResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	body := transfer.TwitterCampaignUpdateRequest{EntityStatus: status}
	if _, err := a.entity(ctx, http.MethodPut, op, a.accountURL(adAccountID, acc, "/campaigns/"+id), acc, body); err != nil {
		return nil, err
	}
	return &transfer.CampaignResult{ID: id, Status: status}, nil
}

func (a *twitterAds) DeleteCampaign(ctx context.Context, acc models.SocialAccount, adAccountID, campaignID string) (bool, error) {
	if !a.quirks.Ads.HardDelete {
		if _, err := a.setCampaignStatus(ctx, acc, "delete_campaign", adAccountID, campaignID, a.quirks.Ads.ArchivedStatus); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	if _, err := a.entity(ctx, http.MethodDelete, "delete_campaign", a.accountURL(adAccountID, acc, "/campaigns/"+campaignID), acc, nil); err != nil {
		return false, err
	}
	return true, nil
}

// CreateAd creates a line item, then the tweet to promote unless spec names
// an existing one, then the promoted tweet tying them together.
func (a *twitterAds) CreateAd(ctx context.Context, acc models.SocialAccount, campaignID string, spec transfer.AdSpec) (*transfer.AdBundle, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	text := nameOr(spec.Text, spec.Message)
	if spec.TweetID == "" && text == "" {
		return nil, &apperrors.ValidationError{Field: "text", Message: "tweet_id or text is required"}
	}

	bid := spec.BidAmount
	if bid <= 0 {
		bid = 10
	}
	objective := spec.Objective
	if objective == "" {
		objective = "TWEET_ENGAGEMENTS"
	}
	lineItem, err := a.entity(ctx, http.MethodPost, "create_line_item", a.accountURL(spec.AdAccountID, acc, "/line_items"), acc, transfer.TwitterLineItemRequest{
		CampaignID:          campaignID,
		Name:                nameOr(spec.AdSetName, spec.Name),
		BidAmountLocalMicro: a.quirks.Ads.Amount(bid),
		ProductType:         "PROMOTED_TWEETS",
		Objective:           objective,
		Placements:          []string{"ALL_ON_TWITTER"},
		EntityStatus:        a.quirks.Ads.Status(spec.Status),
		StartTime:           formatTime(spec.StartTime),
		EndTime:             formatTime(spec.EndTime),
	})
	if err != nil {
		return nil, fmt.Errorf("create line item: %w", err)
	}
	if lineItem.ID == "" {
		return nil, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("line item without id")}
	}

	tweetID := spec.TweetID
	if tweetID == "" {
		req := a.request(acc, "create_tweet", http.MethodPost, a.endpoints.Twitter+"/tweets")
		req.JSON = transfer.TwitterTweetRequest{Text: text}

		var out transfer.TwitterData[transfer.TwitterTweet]
		if _, err := a.do(ctx, req, &out); err != nil {
			return nil, fmt.Errorf("create tweet: %w", err)
		}
		if out.Data.ID == "" {
			return nil, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("tweet without id")}
		}
		tweetID = out.Data.ID
	}

	req := a.request(acc, "create_promoted_tweet", http.MethodPost, a.accountURL(spec.AdAccountID, acc, "/promoted_tweets"))
	req.JSON = transfer.TwitterPromotedTweetRequest{LineItemID: lineItem.ID, TweetIDs: []string{tweetID}}

	var promoted transfer.TwitterData[[]transfer.TwitterAdsEntity]
	if _, err := a.do(ctx, req, &promoted); err != nil {
		return nil, fmt.Errorf("create promoted tweet: %w", err)
	}
	if len(promoted.Data) == 0 || promoted.Data[0].ID == "" {
		return nil, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("promoted tweet without id")}
	}

	return &transfer.AdBundle{AdSetID: lineItem.ID, CreativeID: tweetID, AdID: promoted.Data[0].ID}, nil
}

// lineItemOf resolves a promoted tweet to the line item that carries it.
func (a *twitterAds) lineItemOf(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (string, error) {
	out, err := a.entity(ctx, http.MethodGet, "resolve_line_item", a.accountURL(adAccountID, acc, "/promoted_tweets/"+adID), acc, nil)
	if err != nil {
		return "", err
	}
	if out.LineItemID == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: fmt.Errorf("promoted tweet %s has no line item", adID)}
	}
	return out.LineItemID, nil
}

func (a *twitterAds) updateLineItem(ctx context.Context, acc models.SocialAccount, op, adAccountID, adID string, body transfer.TwitterLineItemUpdateRequest) (*transfer.AdResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	lineItemID, err := a.lineItemOf(ctx, acc, adAccountID, adID)
	if err != nil {
		return nil, err
	}
	if _, err := a.entity(ctx, http.MethodPut, op, a.accountURL(adAccountID, acc, "/line_items/"+lineItemID), acc, body); err != nil {
		return nil, err
	}
	return &transfer.AdResult{ID: adID, Status: body.EntityStatus}, nil
}

func (a *twitterAds) UpdateAd(ctx context.Context, acc models.SocialAccount, adID string, update transfer.AdUpdate) (*transfer.AdResult, error) {
	body := transfer.TwitterLineItemUpdateRequest{Name: update.Name}
	if update.Status != "" {
		body.EntityStatus = a.quirks.Ads.Status(update.Status)
	}
	if update.BidAmount > 0 {
		body.BidAmountLocalMicro = a.quirks.Ads.Amount(update.BidAmount)
	}
	return a.updateLineItem(ctx, acc, "update_ad", update.AdAccountID, adID, body)
}

func (a *twitterAds) PauseAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.updateLineItem(ctx, acc, "pause_ad", adAccountID, adID, transfer.TwitterLineItemUpdateRequest{EntityStatus: a.quirks.Ads.PausedStatus})
}

func (a *twitterAds) ResumeAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (*transfer.AdResult, error) {
	return a.updateLineItem(ctx, acc, "resume_ad", adAccountID, adID, transfer.TwitterLineItemUpdateRequest{EntityStatus: a.quirks.Ads.ActiveStatus})
}

// DeleteAd removes the promoted tweet only; the line item and the tweet stay.
func (a *twitterAds) DeleteAd(ctx context.Context, acc models.SocialAccount, adAccountID, adID string) (bool, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	if _, err := a.entity(ctx, http.MethodDelete, "delete_ad", a.accountURL(adAccountID, acc, "/promoted_tweets/"+adID), acc, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *twitterAds) GetAnalytics(ctx context.Context, acc models.SocialAccount, query transfer.AdAnalyticsQuery) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if query.EntityID == "" {
		return nil, &apperrors.ValidationError{Field: "entity_id", Message: "is required"}
	}

	end := a.now().UTC().Truncate(time.Hour)
	if query.End != nil {
		end = *query.End
	}
	start := end.AddDate(0, 0, -7)
	if query.Start != nil {
		start = *query.Start
	}
	entity := "CAMPAIGN"
	if query.EntityType == transfer.AnalyticsEntityAd {
		entity = "PROMOTED_TWEET"
	}

	req := a.request(acc, "get_analytics", http.MethodGet, a.endpoints.TwitterAds+"/stats/accounts/"+adAccountOr(query.AdAccountID, acc))
	req.Query.Set("entity", entity)
	req.Query.Set("entity_ids", query.EntityID)
	req.Query.Set("metric_groups", "ENGAGEMENT,BILLING")
	req.Query.Set("granularity", "TOTAL")
	req.Query.Set("placement", "ALL_ON_TWITTER")
	req.Query.Set("start_time", start.UTC().Format(time.RFC3339))
	req.Query.Set("end_time", end.UTC().Format(time.RFC3339))

	var out transfer.TwitterData[[]transfer.TwitterStats]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]float64)
	for _, stat := range out.Data {
		for _, data := range stat.IDData {
			for name, values := range data.Metrics {
				for _, v := range values {
					metrics[strings.ToLower(name)] += v
				}
			}
		}
	}
	return &transfer.Analytics{EntityID: query.EntityID, Metrics: metrics, Raw: resp.Body}, nil
}
