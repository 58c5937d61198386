package models

import (
	"time"
)

type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

// Platforms is the closed set of supported platforms.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTwitter}

func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusExpired AccountStatus = "expired"
	AccountStatusRevoked AccountStatus = "revoked"
)

type SocialAccount struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"user_id"`
	Platform     Platform      `db:"platform" json:"platform"`
	AccountID    string        `db:"account_id" json:"account_id"`
	AccountName  string        `db:"account_name" json:"account_name"`
	AccessToken  string        `db:"access_token" json:"-"`
	RefreshToken string        `db:"refresh_token" json:"-"`
	TokenExpiry  *time.Time    `db:"token_expiry" json:"token_expiry,omitempty"`
	Status       AccountStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// HasRefreshToken reports whether a refresh credential is stored.
func (a SocialAccount) HasRefreshToken() bool {
	return a.RefreshToken != ""
}

// SocialAccountUpdate is a partial update; nil fields are left unchanged.
type SocialAccountUpdate struct {
	AccountID    *string
	AccountName  *string
	AccessToken  *string
	RefreshToken *string
	TokenExpiry  *time.Time
	Status       *AccountStatus
}

// Diff builds the partial update that turns a into updated.
func (a SocialAccount) Diff(updated SocialAccount) SocialAccountUpdate {
	var u SocialAccountUpdate
	if updated.AccountID != a.AccountID {
		u.AccountID = &updated.AccountID
	}
	if updated.AccountName != a.AccountName {
		u.AccountName = &updated.AccountName
	}
	if updated.AccessToken != a.AccessToken {
		u.AccessToken = &updated.AccessToken
	}
	if updated.RefreshToken != a.RefreshToken {
		u.RefreshToken = &updated.RefreshToken
	}
	if updated.TokenExpiry != nil && (a.TokenExpiry == nil || !updated.TokenExpiry.Equal(*a.TokenExpiry)) {
		u.TokenExpiry = updated.TokenExpiry
	}
	if updated.Status != a.Status {
		u.Status = &updated.Status
	}
	return u
}

func (u SocialAccountUpdate) Empty() bool {
	return u.AccountID == nil && u.AccountName == nil && u.AccessToken == nil &&
		u.RefreshToken == nil && u.TokenExpiry == nil && u.Status == nil
}
