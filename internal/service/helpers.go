package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/repository"
)

// Adapters resolves the adapter for a platform tag. *platform.Registry
// implements it.
type Adapters interface {
	Content(p models.Platform) (platform.ContentAdapter, error)
	Ads(p models.Platform) (platform.AdAdapter, error)
}

// RefreshCoordinator is implemented by *lifecycle.Coordinator.
type RefreshCoordinator interface {
	Refresh(ctx context.Context, r lifecycle.Refresher, acc models.SocialAccount) (models.SocialAccount, error)
}

func expiresAt(now time.Time, expiresIn int64) *time.Time {
	if expiresIn <= 0 {
		return nil
	}
	t := now.Add(time.Duration(expiresIn) * time.Second)
	return &t
}

// ownedAccount loads an account and hides accounts of other users behind
// the same not found error.
func ownedAccount(ctx context.Context, repo repository.SocialAccountRepository, userID, id int64) (*models.SocialAccount, error) {
	acc, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", id, err)
	}
	if acc == nil || acc.UserID != userID {
		return nil, &apperrors.NotFoundError{Resource: "social_account", ID: id}
	}
	return acc, nil
}

// withRefresh runs op and, when the platform rejects the credential of an
// account that holds a refresh token, refreshes once and runs op again.
func withRefresh[T any](ctx context.Context, coord RefreshCoordinator, r lifecycle.Refresher, acc models.SocialAccount, op func(acc models.SocialAccount) (T, error)) (T, error) {
	out, err := op(acc)
	if err == nil || !apperrors.IsAuthentication(err) {
		return out, err
	}
	if acc.Status == models.AccountStatusRevoked || !acc.HasRefreshToken() {
		return out, err
	}

	refreshed, rerr := coord.Refresh(ctx, r, acc)
	if rerr != nil || refreshed.Status != models.AccountStatusActive {
		return out, err
	}
	return op(refreshed)
}
