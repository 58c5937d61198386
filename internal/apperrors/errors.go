package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RequestError is raised by the executor for any non-2xx response.
type RequestError struct {
	StatusCode int
	StatusText string
	Endpoint   string
	Body       []byte
	RetryAfter time.Duration
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: %d %s", e.Endpoint, e.StatusCode, e.StatusText)
}

// AuthenticationError means the platform rejected or expired the credential.
// Resolved by refreshing the token, never retried automatically.
type AuthenticationError struct {
	Platform string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Platform, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RateLimitError carries the delay the platform asked for.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// TransientError wraps 5xx responses and transport failures.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ValidationError represents missing or malformed input detected before any call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// PlatformError is any other non-2xx response or an unreadable body.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("platform error: %v", e.Err)
	}
	return fmt.Sprintf("%s platform error: %v", e.Platform, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// MissingCredentialError is returned by refresh when no refresh token is stored.
type MissingCredentialError struct {
	Platform   string
	Credential string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s account has no %s", e.Platform, e.Credential)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// Classify maps a RequestError onto the taxonomy.
func Classify(platform string, reqErr *RequestError) error {
	switch {
	case reqErr.StatusCode == http.StatusUnauthorized || reqErr.StatusCode == http.StatusForbidden:
		return &AuthenticationError{Platform: platform, Err: reqErr}
	case reqErr.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: reqErr.RetryAfter, Err: reqErr}
	case reqErr.StatusCode >= 500:
		return &TransientError{Err: reqErr}
	default:
		return &PlatformError{Platform: platform, Err: reqErr}
	}
}

// Retryable reports whether the executor may attempt the call again.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !IsAuthentication(err) && !IsValidation(err) && !IsMissingCredential(err)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsRateLimit checks if an error is a RateLimitError
func IsRateLimit(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

// IsTransient checks if an error is a TransientError
func IsTransient(err error) bool {
	var target *TransientError
	return errors.As(err, &target)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsPlatform checks if an error is a PlatformError
func IsPlatform(err error) bool {
	var target *PlatformError
	return errors.As(err, &target)
}

// IsMissingCredential checks if an error is a MissingCredentialError
func IsMissingCredential(err error) bool {
	var target *MissingCredentialError
	return errors.As(err, &target)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
