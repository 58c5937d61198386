package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
)

type Event string

const (
	EventAuthenticated        Event = "authenticated"
	EventAuthenticationFailed Event = "authentication_failed"
	EventRefreshed            Event = "refreshed"
	EventRefreshFailed        Event = "refresh_failed"
	EventExpiryElapsed        Event = "expiry_elapsed"
)

var ErrRevoked = errors.New("account has been revoked")

// Transition returns the status reached from `from` on ev. Revoked is
// terminal: every event on a revoked account fails and no event leads to it.
func Transition(from models.AccountStatus, ev Event) (models.AccountStatus, error) {
	if from == models.AccountStatusRevoked {
		return from, &apperrors.AuthenticationError{Err: ErrRevoked}
	}
	switch ev {
	case EventAuthenticated, EventRefreshed:
		return models.AccountStatusActive, nil
	case EventAuthenticationFailed, EventRefreshFailed, EventExpiryElapsed:
		return models.AccountStatusExpired, nil
	default:
		return from, fmt.Errorf("unknown lifecycle event %q", ev)
	}
}

// Apply returns a copy of acc moved along ev. A revoked account is returned unchanged.
func Apply(acc models.SocialAccount, ev Event) models.SocialAccount {
	status, err := Transition(acc.Status, ev)
	if err != nil {
		return acc
	}
	acc.Status = status
	return acc
}

// Guard fails with an AuthenticationError when acc is revoked.
func Guard(acc models.SocialAccount) error {
	if acc.Status == models.AccountStatusRevoked {
		return &apperrors.AuthenticationError{Platform: string(acc.Platform), Err: ErrRevoked}
	}
	return nil
}

// CheckExpiry moves an active account whose credential expiry has passed to expired.
func CheckExpiry(acc models.SocialAccount, now time.Time) (models.SocialAccount, bool) {
	if acc.Status != models.AccountStatusActive || acc.TokenExpiry == nil {
		return acc, false
	}
	if now.Before(*acc.TokenExpiry) {
		return acc, false
	}
	return Apply(acc, EventExpiryElapsed), true
}

// NeedsRefresh reports whether acc should be refreshed now: it holds a refresh
// credential, is not revoked, and is expired or expires within window.
func NeedsRefresh(acc models.SocialAccount, now time.Time, window time.Duration) bool {
	if acc.Status == models.AccountStatusRevoked || !acc.HasRefreshToken() {
		return false
	}
	if acc.Status == models.AccountStatusExpired {
		return true
	}
	return acc.TokenExpiry != nil && acc.TokenExpiry.Before(now.Add(window))
}
