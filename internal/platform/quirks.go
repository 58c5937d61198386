package platform

import (
	"math"
	"strconv"
	"strings"
	"time"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

type AuthStyle int

const (
	// AuthQuery sends the credential as the access_token query parameter.
	AuthQuery AuthStyle = iota
	// AuthBearer sends it as an Authorization: Bearer header.
	AuthBearer
)

type TokenGrant int

const (
	// GrantExchange swaps a long-lived token through the Graph oauth endpoint.
	GrantExchange TokenGrant = iota
	// GrantRefreshToken is the OAuth2 refresh_token grant.
	GrantRefreshToken
)

type BudgetUnit int

const (
	BudgetUnitNone BudgetUnit = iota
	BudgetUnitCents
	BudgetUnitMicros
	// BudgetUnitMoney sends an amount plus currency object.
	BudgetUnitMoney
)

type ContentQuirks struct {
	NativeScheduling bool
	RequiresMedia    bool
}

type AdQuirks struct {
	BudgetUnit     BudgetUnit
	ActiveStatus   string
	PausedStatus   string
	ArchivedStatus string
	// HardDelete is false where deleting only moves the entity to ArchivedStatus.
	HardDelete bool
}

type Quirks struct {
	Auth          AuthStyle
	Grant         TokenGrant
	TokenLifetime time.Duration
	Content       ContentQuirks
	Ads           AdQuirks
}

type QuirkTable map[models.Platform]Quirks

const sixtyDays = 5184000 * time.Second

func DefaultQuirks(cfg config.Platforms) QuirkTable {
	metaAds := AdQuirks{
		BudgetUnit:     BudgetUnitCents,
		ActiveStatus:   "ACTIVE",
		PausedStatus:   "PAUSED",
		ArchivedStatus: "DELETED",
	}
	return QuirkTable{
		models.PlatformFacebook: {
			Auth:          AuthQuery,
			Grant:         GrantExchange,
			TokenLifetime: sixtyDays,
			Content:       ContentQuirks{NativeScheduling: cfg.FacebookNativeScheduling},
			Ads:           metaAds,
		},
		models.PlatformInstagram: {
			Auth:          AuthQuery,
			Grant:         GrantExchange,
			TokenLifetime: sixtyDays,
			Content:       ContentQuirks{RequiresMedia: true},
			Ads:           metaAds,
		},
		models.PlatformLinkedIn: {
			Auth:          AuthBearer,
			Grant:         GrantRefreshToken,
			TokenLifetime: sixtyDays,
			Ads: AdQuirks{
				BudgetUnit:     BudgetUnitMoney,
				ActiveStatus:   "ACTIVE",
				PausedStatus:   "PAUSED",
				ArchivedStatus: "ARCHIVED",
			},
		},
		models.PlatformTwitter: {
			Auth:          AuthBearer,
			Grant:         GrantRefreshToken,
			TokenLifetime: 2 * time.Hour,
			Ads: AdQuirks{
				BudgetUnit:     BudgetUnitMicros,
				ActiveStatus:   "ACTIVE",
				PausedStatus:   "PAUSED",
				ArchivedStatus: "DELETED",
				HardDelete:     true,
			},
		},
	}
}

// Amount converts a currency amount into the platform's integer unit.
// Money and None units pass the whole amount through, rounded.
func (q AdQuirks) Amount(v float64) int64 {
	switch q.BudgetUnit {
	case BudgetUnitCents:
		return int64(math.Round(v * 100))
	case BudgetUnitMicros:
		return int64(math.Round(v * 1_000_000))
	default:
		return int64(math.Round(v))
	}
}

// Money builds the amount object used by BudgetUnitMoney platforms. A zero
// amount yields nil so the field is omitted.
func (q AdQuirks) Money(v float64, currency string) *transfer.LinkedInMoney {
	if v == 0 {
		return nil
	}
	if currency == "" {
		currency = "USD"
	}
	return &transfer.LinkedInMoney{
		Amount:       strconv.FormatFloat(v, 'f', 2, 64),
		CurrencyCode: currency,
	}
}

// Status maps a normalized status (active, paused, archived) to the platform
// value. Empty means paused; anything unrecognized is sent as given.
func (q AdQuirks) Status(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return q.PausedStatus
	case "active":
		return q.ActiveStatus
	case "paused":
		return q.PausedStatus
	case "archived", "deleted":
		return q.ArchivedStatus
	default:
		return s
	}
}
