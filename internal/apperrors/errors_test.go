package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, IsAuthentication},
		{"forbidden", http.StatusForbidden, IsAuthentication},
		{"too many requests", http.StatusTooManyRequests, IsRateLimit},
		{"bad gateway", http.StatusBadGateway, IsTransient},
		{"service unavailable", http.StatusServiceUnavailable, IsTransient},
		{"bad request", http.StatusBadRequest, IsPlatform},
		{"not found", http.StatusNotFound, IsPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqErr := &RequestError{StatusCode: tt.status, StatusText: http.StatusText(tt.status)}
			err := Classify("twitter", reqErr)

			assert.True(t, tt.check(err))
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestClassifyKeepsRetryAfter(t *testing.T) {
	err := Classify("facebook", &RequestError{StatusCode: http.StatusTooManyRequests, RetryAfter: 7 * time.Second})

	var rl *RateLimitError
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(errors.New("boom")))
	assert.True(t, Retryable(&TransientError{Err: errors.New("reset")}))
	assert.True(t, Retryable(&RateLimitError{}))
	assert.True(t, Retryable(&PlatformError{Err: errors.New("bad")}))

	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(&AuthenticationError{Platform: "linkedin", Err: errors.New("expired")}))
	assert.False(t, Retryable(fmt.Errorf("step 1: %w", &ValidationError{Field: "media_urls"})))
	assert.False(t, Retryable(&MissingCredentialError{Platform: "twitter", Credential: "refresh token"}))
	assert.False(t, Retryable(context.Canceled))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error on field 'media_urls': required", (&ValidationError{Field: "media_urls", Message: "required"}).Error())
	assert.Equal(t, "twitter account has no refresh token", (&MissingCredentialError{Platform: "twitter", Credential: "refresh token"}).Error())
	assert.Equal(t, "account not found: 4", (&NotFoundError{Resource: "account", ID: 4}).Error())
}
