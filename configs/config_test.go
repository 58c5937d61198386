package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HTTP_MAX_RETRIES", "")
	t.Setenv("HTTP_RETRY_AFTER_DEFAULT", "")

	cfg := LoadConfig()

	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.HTTP.DefaultRetryAfter)
	assert.Equal(t, 10*time.Minute, cfg.TokenRefreshInterval)
	assert.False(t, cfg.Platforms.FacebookNativeScheduling)
}

func TestLoadConfigReadsPlatformCredentials(t *testing.T) {
	t.Setenv("LINKEDIN_CLIENT_ID", "li-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "li-secret")
	t.Setenv("HTTP_MAX_RETRIES", "5")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "2.5")
	t.Setenv("FACEBOOK_NATIVE_SCHEDULING", "true")
	t.Setenv("TOKEN_REFRESH_WINDOW", "1h")

	cfg := LoadConfig()

	assert.Equal(t, Credentials{ClientID: "li-id", ClientSecret: "li-secret"}, cfg.Platforms.LinkedIn)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimitRPS)
	assert.True(t, cfg.Platforms.FacebookNativeScheduling)
	assert.Equal(t, time.Hour, cfg.TokenRefreshWindow)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HTTP_MAX_RETRIES", "many")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := LoadConfig()

	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
}
