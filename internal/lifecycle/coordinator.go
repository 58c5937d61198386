package lifecycle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Refresher is implemented by every content and ad adapter.
type Refresher interface {
	RefreshToken(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error)
}

type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	Update(ctx context.Context, id int64, u models.SocialAccountUpdate) error
}

// refreshTimeout bounds a shared refresh once it no longer follows any
// caller's context.
const refreshTimeout = 30 * time.Second

// Coordinator serializes refreshes of the same account. Concurrent callers in
// this process share one refresh; callers in other processes wait on the lock
// and then pick up the credential the winner stored.
//
// The shared refresh runs detached from the caller that started it, so a
// caller giving up only ends its own wait.
type Coordinator struct {
	locker  Locker
	store   AccountStore
	group   singleflight.Group
	logger  logging.Logger
	timeout time.Duration
}

// NewCoordinator builds a Coordinator. With a store, the account is re-read
// and the refreshed credential saved while the lock is held; with a nil store
// persisting the result is left to the caller.
func NewCoordinator(locker Locker, store AccountStore, logger logging.Logger) *Coordinator {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Coordinator{locker: locker, store: store, logger: logger, timeout: refreshTimeout}
}

func (c *Coordinator) Refresh(ctx context.Context, r Refresher, acc models.SocialAccount) (models.SocialAccount, error) {
	key := lockKey(acc)

	ch := c.group.DoChan(key, func() (any, error) {
		work, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.refresh(work, r, acc, key)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return acc, ctx.Err()
	case res = <-ch:
	}

	if res.Shared {
		c.logger.WithFields(logging.Fields{
			"platform":   acc.Platform,
			"account_id": acc.ID,
		}).Debug("joined in-flight refresh")
	}

	if res.Err != nil {
		return acc, res.Err
	}
	refreshed, _ := res.Val.(models.SocialAccount)
	return refreshed, nil
}

func (c *Coordinator) refresh(ctx context.Context, r Refresher, acc models.SocialAccount, key string) (models.SocialAccount, error) {
	unlock, err := c.locker.Lock(ctx, key)
	if err != nil {
		return acc, fmt.Errorf("acquire refresh lock: %w", err)
	}
	defer unlock()

	current := acc
	if c.store != nil && acc.ID != 0 {
		stored, err := c.store.GetByID(ctx, acc.ID)
		if err != nil {
			return acc, fmt.Errorf("reload account: %w", err)
		}
		if stored != nil {
			if refreshedElsewhere(acc, *stored) {
				c.logger.WithFields(logging.Fields{
					"platform":   acc.Platform,
					"account_id": acc.ID,
				}).Debug("credential already refreshed")
				return *stored, nil
			}
			current = *stored
		}
	}

	updated, err := r.RefreshToken(ctx, current)
	if err != nil {
		return current, err
	}
	if c.store != nil && current.ID != 0 {
		if diff := current.Diff(updated); !diff.Empty() {
			if err := c.store.Update(ctx, current.ID, diff); err != nil {
				return updated, fmt.Errorf("save refreshed account: %w", err)
			}
		}
	}
	return updated, nil
}

func lockKey(acc models.SocialAccount) string {
	if acc.ID != 0 {
		return fmt.Sprintf("refresh:%d", acc.ID)
	}
	return fmt.Sprintf("refresh:%s:%s", acc.Platform, acc.AccountID)
}

func refreshedElsewhere(seen, stored models.SocialAccount) bool {
	if stored.Status != models.AccountStatusActive || stored.AccessToken == seen.AccessToken {
		return false
	}
	if stored.TokenExpiry == nil {
		return false
	}
	return seen.TokenExpiry == nil || stored.TokenExpiry.After(*seen.TokenExpiry)
}
