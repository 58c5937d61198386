package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

func TestAdQuirksAmount(t *testing.T) {
	tests := []struct {
		name string
		unit BudgetUnit
		in   float64
		want int64
	}{
		{"cents", BudgetUnitCents, 100, 10000},
		{"cents rounding", BudgetUnitCents, 19.999, 2000},
		{"micros", BudgetUnitMicros, 50, 50_000_000},
		{"micros fraction", BudgetUnitMicros, 0.25, 250_000},
		{"none", BudgetUnitNone, 12.6, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdQuirks{BudgetUnit: tt.unit}.Amount(tt.in))
		})
	}
}

func TestAdQuirksMoney(t *testing.T) {
	q := AdQuirks{BudgetUnit: BudgetUnitMoney}

	assert.Nil(t, q.Money(0, "USD"))
	assert.Equal(t, &transfer.LinkedInMoney{Amount: "12.50", CurrencyCode: "USD"}, q.Money(12.5, ""))
	assert.Equal(t, &transfer.LinkedInMoney{Amount: "100.00", CurrencyCode: "GBP"}, q.Money(100, "GBP"))
}

func TestAdQuirksStatus(t *testing.T) {
	q := DefaultQuirks(config.Platforms{})[models.PlatformLinkedIn].Ads

	assert.Equal(t, "PAUSED", q.Status(""))
	assert.Equal(t, "ACTIVE", q.Status("Active"))
	assert.Equal(t, "PAUSED", q.Status("paused"))
	assert.Equal(t, "ARCHIVED", q.Status("deleted"))
	assert.Equal(t, "DRAFT", q.Status("DRAFT"))
}

func TestDefaultQuirks(t *testing.T) {
	table := DefaultQuirks(config.Platforms{FacebookNativeScheduling: true})

	for _, p := range models.Platforms {
		assert.Contains(t, table, p)
	}

	assert.Equal(t, AuthQuery, table[models.PlatformFacebook].Auth)
	assert.True(t, table[models.PlatformFacebook].Content.NativeScheduling)
	assert.True(t, table[models.PlatformInstagram].Content.RequiresMedia)
	assert.Equal(t, BudgetUnitCents, table[models.PlatformInstagram].Ads.BudgetUnit)

	assert.Equal(t, AuthBearer, table[models.PlatformLinkedIn].Auth)
	assert.Equal(t, GrantRefreshToken, table[models.PlatformLinkedIn].Grant)
	assert.Equal(t, BudgetUnitMoney, table[models.PlatformLinkedIn].Ads.BudgetUnit)

	assert.Equal(t, 2*time.Hour, table[models.PlatformTwitter].TokenLifetime)
	assert.Equal(t, BudgetUnitMicros, table[models.PlatformTwitter].Ads.BudgetUnit)
	assert.True(t, table[models.PlatformTwitter].Ads.HardDelete)
	assert.False(t, table[models.PlatformLinkedIn].Ads.HardDelete)
}
