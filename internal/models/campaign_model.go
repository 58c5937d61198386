package models

import "time"

type Campaign struct {
	ID          int64          `db:"id" json:"id"`
	UserID      int64          `db:"user_id" json:"user_id"`
	AccountID   int64          `db:"account_id" json:"account_id"`
	Platform    Platform       `db:"platform" json:"platform"`
	ExternalID  string         `db:"external_id" json:"external_id"`
	AdAccountID string         `db:"ad_account_id" json:"ad_account_id"`
	Name        string         `db:"name" json:"name"`
	Objective   string         `db:"objective" json:"objective"`
	Budget      float64        `db:"budget" json:"budget"`
	Currency    string         `db:"currency" json:"currency"`
	StartDate   *time.Time     `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time     `db:"end_date" json:"end_date,omitempty"`
	Status      CampaignStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
)

// CampaignUpdate is a partial update; nil fields are left unchanged.
type CampaignUpdate struct {
	ExternalID *string
	Name       *string
	Budget     *float64
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *CampaignStatus
}
