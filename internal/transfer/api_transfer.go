package transfer

import "time"

type LinkAccountRequest struct {
	Platform     string `json:"platform"`
	AccountID    string `json:"account_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresIn is the credential lifetime in seconds; zero means unknown.
	ExpiresIn int64 `json:"expires_in,omitempty"`
}

type ContentRequest struct {
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls"`
	Tags      []string `json:"tags"`
}

type PublishRequest struct {
	AccountID int64 `json:"account_id"`
}

type ScheduleRequest struct {
	AccountID     int64     `json:"account_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

type ReplyRequest struct {
	AccountID int64  `json:"account_id"`
	Message   string `json:"message"`
}

type CampaignRequest struct {
	AccountID int64 `json:"account_id"`
	CampaignSpec
}

type AdStatusRequest struct {
	AccountID   int64  `json:"account_id"`
	AdAccountID string `json:"ad_account_id,omitempty"`
}

type AdUpdateRequest struct {
	AccountID int64 `json:"account_id"`
	AdUpdate
}

type AdAnalyticsRequest struct {
	AccountID int64 `json:"account_id"`
	AdAnalyticsQuery
}

type MediaUpload struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
