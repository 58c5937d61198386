package transfer

type TwitterData[T any] struct {
	Data   T              `json:"data"`
	Errors []TwitterError `json:"errors,omitempty"`
	Meta   *TwitterMeta   `json:"meta,omitempty"`
}

type TwitterError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

type TwitterMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

type TwitterUser struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Username      string           `json:"username"`
	PublicMetrics map[string]int64 `json:"public_metrics,omitempty"`
}

type TwitterTweetRequest struct {
	Text  string             `json:"text"`
	Media *TwitterTweetMedia `json:"media,omitempty"`
	Reply *TwitterTweetReply `json:"reply,omitempty"`
}

type TwitterTweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type TwitterTweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type TwitterTweet struct {
	ID               string           `json:"id"`
	Text             string           `json:"text"`
	AuthorID         string           `json:"author_id,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	ConversationID   string           `json:"conversation_id,omitempty"`
	PublicMetrics    map[string]int64 `json:"public_metrics,omitempty"`
	NonPublicMetrics map[string]int64 `json:"non_public_metrics,omitempty"`
}

type TwitterDeleted struct {
	Deleted bool `json:"deleted"`
}

type TwitterMediaUpload struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
}

// TwitterAdsEntity covers campaigns, line items and promoted tweets.
type TwitterAdsEntity struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	EntityStatus string `json:"entity_status,omitempty"`
	LineItemID   string `json:"line_item_id,omitempty"`
	TweetID      string `json:"tweet_id,omitempty"`
	Deleted      bool   `json:"deleted,omitempty"`
}

type TwitterCampaignRequest struct {
	Name                        string `json:"name"`
	FundingInstrumentID         string `json:"funding_instrument_id"`
	DailyBudgetAmountLocalMicro int64  `json:"daily_budget_amount_local_micro,omitempty"`
	TotalBudgetAmountLocalMicro int64  `json:"total_budget_amount_local_micro,omitempty"`
	EntityStatus                string `json:"entity_status"`
	StartTime                   string `json:"start_time,omitempty"`
	EndTime                     string `json:"end_time,omitempty"`
}

type TwitterCampaignUpdateRequest struct {
	Name                        string `json:"name,omitempty"`
	DailyBudgetAmountLocalMicro int64  `json:"daily_budget_amount_local_micro,omitempty"`
	TotalBudgetAmountLocalMicro int64  `json:"total_budget_amount_local_micro,omitempty"`
	EntityStatus                string `json:"entity_status,omitempty"`
	StartTime                   string `json:"start_time,omitempty"`
	EndTime                     string `json:"end_time,omitempty"`
}

type TwitterLineItemRequest struct {
	CampaignID          string   `json:"campaign_id"`
	Name                string   `json:"name"`
	BidAmountLocalMicro int64    `json:"bid_amount_local_micro"`
	ProductType         string   `json:"product_type"`
	Objective           string   `json:"objective"`
	Placements          []string `json:"placements"`
	EntityStatus        string   `json:"entity_status"`
	StartTime           string   `json:"start_time,omitempty"`
	EndTime             string   `json:"end_time,omitempty"`
}

type TwitterLineItemUpdateRequest struct {
	Name                string `json:"name,omitempty"`
	BidAmountLocalMicro int64  `json:"bid_amount_local_micro,omitempty"`
	EntityStatus        string `json:"entity_status,omitempty"`
}

type TwitterPromotedTweetRequest struct {
	LineItemID string   `json:"line_item_id"`
	TweetIDs   []string `json:"tweet_ids"`
}

type TwitterStats struct {
	ID     string `json:"id"`
	IDData []struct {
		Metrics map[string][]float64 `json:"metrics"`
	} `json:"id_data"`
}
