package transfer

import (
	"encoding/json"
	"time"
)

const (
	PublishStatusPublished = "published"
	PublishStatusScheduled = "scheduled"
)

// PublishResult is the normalized representation of a created (or scheduled) post.
type PublishResult struct {
	ID            string     `json:"id"`
	PostID        string     `json:"post_id,omitempty"`
	Status        string     `json:"status"`
	Simulated     bool       `json:"simulated,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	MediaIDs      []string   `json:"media_ids,omitempty"`
	Message       string     `json:"message,omitempty"`
}

type Comment struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	AuthorID   string `json:"author_id,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Analytics flattens platform metrics into name/value pairs; Raw keeps the
// original payload for callers that need platform-specific detail.
type Analytics struct {
	EntityID string             `json:"entity_id"`
	Metrics  map[string]float64 `json:"metrics"`
	Raw      json.RawMessage    `json:"raw,omitempty"`
}

type CampaignSpec struct {
	AdAccountID         string     `json:"ad_account_id"`
	Name                string     `json:"name"`
	Objective           string     `json:"objective,omitempty"`
	Status              string     `json:"status,omitempty"`
	DailyBudget         float64    `json:"daily_budget,omitempty"`
	LifetimeBudget      float64    `json:"lifetime_budget,omitempty"`
	UnitCost            float64    `json:"unit_cost,omitempty"`
	Currency            string     `json:"currency,omitempty"`
	Country             string     `json:"country,omitempty"`
	Language            string     `json:"language,omitempty"`
	FundingInstrumentID string     `json:"funding_instrument_id,omitempty"`
	InstagramAccountID  string     `json:"instagram_account_id,omitempty"`
	StartTime           *time.Time `json:"start_time,omitempty"`
	EndTime             *time.Time `json:"end_time,omitempty"`
}

// CampaignUpdate only sends non-zero fields.
type CampaignUpdate struct {
	AdAccountID    string     `json:"ad_account_id,omitempty"`
	Name           string     `json:"name,omitempty"`
	Status         string     `json:"status,omitempty"`
	DailyBudget    float64    `json:"daily_budget,omitempty"`
	LifetimeBudget float64    `json:"lifetime_budget,omitempty"`
	UnitCost       float64    `json:"unit_cost,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
}

type CampaignResult struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

type AdSpec struct {
	AdAccountID  string `json:"ad_account_id"`
	Name         string `json:"name"`
	AdSetName    string `json:"adset_name,omitempty"`
	CreativeName string `json:"creative_name,omitempty"`
	Status       string `json:"status,omitempty"`

	DailyBudget float64         `json:"daily_budget,omitempty"`
	BidAmount   float64         `json:"bid_amount,omitempty"`
	Objective   string          `json:"objective,omitempty"`
	Targeting   json.RawMessage `json:"targeting,omitempty"`
	StartTime   *time.Time      `json:"start_time,omitempty"`
	EndTime     *time.Time      `json:"end_time,omitempty"`

	PageID             string `json:"page_id,omitempty"`
	InstagramAccountID string `json:"instagram_account_id,omitempty"`
	Message            string `json:"message,omitempty"`
	Link               string `json:"link,omitempty"`
	Caption            string `json:"caption,omitempty"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`

	// Twitter promotes an existing tweet or creates one from Text.
	TweetID string `json:"tweet_id,omitempty"`
	Text    string `json:"text,omitempty"`

	// LinkedIn sponsors an existing share.
	ShareID  string `json:"share_id,omitempty"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
}

type AdUpdate struct {
	AdAccountID string  `json:"ad_account_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Status      string  `json:"status,omitempty"`
	BidAmount   float64 `json:"bid_amount,omitempty"`
}

type AdResult struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// AdBundle holds the ids produced by the ad creation chain, in creation order.
type AdBundle struct {
	AdSetID    string `json:"adset_id"`
	CreativeID string `json:"creative_id"`
	AdID       string `json:"ad_id"`
}

const (
	AnalyticsEntityCampaign = "campaign"
	AnalyticsEntityAd       = "ad"
)

type AdAnalyticsQuery struct {
	AdAccountID string     `json:"ad_account_id,omitempty"`
	EntityType  string     `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
}
