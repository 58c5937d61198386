package models

import "time"

type Content struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Title     string        `db:"title" json:"title"`
	Text      string        `db:"text" json:"text"`
	MediaURLs []string      `db:"media_urls" json:"media_urls"`
	Tags      []string      `db:"tags" json:"tags"`
	Status    ContentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusFailed    ContentStatus = "failed"
)

// Publication links a content item to the object a platform created for it.
type Publication struct {
	ID            int64      `db:"id" json:"id"`
	ContentID     int64      `db:"content_id" json:"content_id"`
	AccountID     int64      `db:"account_id" json:"account_id"`
	ExternalID    string     `db:"external_id" json:"external_id"`
	Status        string     `db:"status" json:"status"`
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`
	ErrorMessage  string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// ContentUpdate is a partial update; nil fields are left unchanged.
type ContentUpdate struct {
	Title     *string
	Text      *string
	MediaURLs []string
	Tags      []string
	Status    *ContentStatus
}

const (
	PublicationStatusPublished = "published"
	PublicationStatusScheduled = "scheduled"
	PublicationStatusFailed    = "failed"
	PublicationStatusDeleted   = "deleted"
)
