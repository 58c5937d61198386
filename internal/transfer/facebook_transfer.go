package transfer

import "encoding/json"

// GraphObject covers the id-bearing responses of the Graph API.
type GraphObject struct {
	ID       string `json:"id"`
	PostID   string `json:"post_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Success  bool   `json:"success,omitempty"`
}

type GraphList[T any] struct {
	Data   []T          `json:"data"`
	Paging *GraphPaging `json:"paging,omitempty"`
}

type GraphPaging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next,omitempty"`
}

type GraphInsight struct {
	Name   string `json:"name"`
	Period string `json:"period"`
	Title  string `json:"title,omitempty"`
	Values []struct {
		Value   json.RawMessage `json:"value"`
		EndTime string          `json:"end_time,omitempty"`
	} `json:"values"`
}

type GraphComment struct {
	ID          string `json:"id"`
	Message     string `json:"message,omitempty"`
	Text        string `json:"text,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Username    string `json:"username,omitempty"`
	From        *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"from,omitempty"`
}

type GraphTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type GraphMessageRequest struct {
	Message string `json:"message"`
}

type FacebookFeedRequest struct {
	Message              string `json:"message"`
	Published            *bool  `json:"published,omitempty"`
	ScheduledPublishTime int64  `json:"scheduled_publish_time,omitempty"`
}

type FacebookPhotoRequest struct {
	URL                  string `json:"url"`
	Message              string `json:"message,omitempty"`
	Published            *bool  `json:"published,omitempty"`
	ScheduledPublishTime int64  `json:"scheduled_publish_time,omitempty"`
}

type FacebookVideoRequest struct {
	FileURL              string `json:"file_url"`
	Description          string `json:"description,omitempty"`
	Published            *bool  `json:"published,omitempty"`
	ScheduledPublishTime int64  `json:"scheduled_publish_time,omitempty"`
}

type MetaCampaignRequest struct {
	Name                string              `json:"name"`
	Objective           string              `json:"objective"`
	Status              string              `json:"status"`
	SpecialAdCategories []string            `json:"special_ad_categories"`
	DailyBudget         int64               `json:"daily_budget,omitempty"`
	LifetimeBudget      int64               `json:"lifetime_budget,omitempty"`
	StartTime           string              `json:"start_time,omitempty"`
	StopTime            string              `json:"stop_time,omitempty"`
	PromotedObject      *MetaPromotedObject `json:"promoted_object,omitempty"`
}

type MetaPromotedObject struct {
	ApplicationID string `json:"application_id,omitempty"`
	PageID        string `json:"page_id,omitempty"`
}

type MetaCampaignUpdateRequest struct {
	Name           string `json:"name,omitempty"`
	Status         string `json:"status,omitempty"`
	DailyBudget    int64  `json:"daily_budget,omitempty"`
	LifetimeBudget int64  `json:"lifetime_budget,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	StopTime       string `json:"stop_time,omitempty"`
}

type MetaStatusRequest struct {
	Status string `json:"status"`
}

type MetaAdSetRequest struct {
	Name             string          `json:"name"`
	CampaignID       string          `json:"campaign_id"`
	OptimizationGoal string          `json:"optimization_goal"`
	BillingEvent     string          `json:"billing_event"`
	BidAmount        int64           `json:"bid_amount"`
	Status           string          `json:"status"`
	DailyBudget      int64           `json:"daily_budget,omitempty"`
	Targeting        json.RawMessage `json:"targeting,omitempty"`
	StartTime        string          `json:"start_time,omitempty"`
	EndTime          string          `json:"end_time,omitempty"`
	InstagramActorID string          `json:"instagram_actor_id,omitempty"`
}

type MetaCreativeRequest struct {
	Name            string              `json:"name"`
	ObjectStorySpec MetaObjectStorySpec `json:"object_story_spec"`
}

type MetaObjectStorySpec struct {
	PageID           string       `json:"page_id,omitempty"`
	InstagramActorID string       `json:"instagram_actor_id,omitempty"`
	LinkData         MetaLinkData `json:"link_data"`
}

type MetaLinkData struct {
	Message     string `json:"message,omitempty"`
	Link        string `json:"link,omitempty"`
	Caption     string `json:"caption,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type MetaAdRequest struct {
	Name     string          `json:"name"`
	AdSetID  string          `json:"adset_id"`
	Creative MetaCreativeRef `json:"creative"`
	Status   string          `json:"status"`
}

type MetaCreativeRef struct {
	CreativeID string `json:"creative_id"`
}

type MetaAdUpdateRequest struct {
	Name      string `json:"name,omitempty"`
	Status    string `json:"status,omitempty"`
	BidAmount int64  `json:"bid_amount,omitempty"`
}

// MetaInsight values arrive as decimal strings.
type MetaInsight struct {
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	Spend       string `json:"spend"`
	CPC         string `json:"cpc"`
	CTR         string `json:"ctr"`
	Reach       string `json:"reach"`
	DateStart   string `json:"date_start,omitempty"`
	DateStop    string `json:"date_stop,omitempty"`
}
