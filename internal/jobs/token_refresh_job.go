package job

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

const concurrencyLimit = 10

// TokenRefreshJob keeps stored credentials usable: accounts whose expiry has
// passed are marked expired, and accounts close to expiry that hold a
// refresh credential are refreshed.
type TokenRefreshJob struct {
	sr       repository.SocialAccountRepository
	adapters service.Adapters
	coord    service.RefreshCoordinator
	window   time.Duration
	timeout  time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewTokenRefreshJob(
	sr repository.SocialAccountRepository,
	adapters service.Adapters,
	coord service.RefreshCoordinator,
	window time.Duration,
	logger logging.Logger) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr:       sr,
		adapters: adapters,
		coord:    coord,
		window:   window,
		timeout:  5 * time.Minute,
		logger:   logger,
		now:      time.Now,
	}
}

// RunResult counts what one run did.
type RunResult struct {
	Expired   int
	Refreshed int
	Failed    int
}

// RefreshTokens is the cron entry point.
func (j *TokenRefreshJob) RefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	res, err := j.Run(ctx)
	if err != nil {
		j.logger.WithError(err).Error("token refresh run failed")
		return
	}
	j.logger.WithFields(logging.Fields{
		"expired":   res.Expired,
		"refreshed": res.Refreshed,
		"failed":    res.Failed,
	}).Info("token refresh run finished")
}

func (j *TokenRefreshJob) Run(ctx context.Context) (RunResult, error) {
	now := j.now()

	accounts, err := j.sr.ListExpiring(ctx, now.Add(j.window))
	if err != nil {
		return RunResult{}, err
	}

	var expired, refreshed, failed atomic.Int64
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		if updated, changed := lifecycle.CheckExpiry(*acc, now); changed {
			if err := j.sr.Update(ctx, acc.ID, acc.Diff(updated)); err != nil {
				j.log(acc).WithError(err).Error("failed to mark account expired")
				failed.Add(1)
				continue
			}
			expired.Add(1)
			*acc = updated
		}

		if !lifecycle.NeedsRefresh(*acc, now, j.window) {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if j.refresh(ctx, acc) {
				refreshed.Add(1)
			} else {
				failed.Add(1)
			}
		}(*acc)
	}

	wg.Wait()

	return RunResult{
		Expired:   int(expired.Load()),
		Refreshed: int(refreshed.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

func (j *TokenRefreshJob) refresh(ctx context.Context, acc models.SocialAccount) bool {
	adapter, err := j.adapters.Content(acc.Platform)
	if err != nil {
		j.log(&acc).WithError(err).Warn("no adapter for account")
		return false
	}

	updated, err := j.coord.Refresh(ctx, adapter, acc)
	if err != nil {
		j.log(&acc).WithError(err).Warn("unable to refresh token")
		return false
	}
	if updated.Status != models.AccountStatusActive {
		j.log(&acc).Info("refresh credential rejected, account expired")
		return false
	}
	return true
}

func (j *TokenRefreshJob) log(acc *models.SocialAccount) *logging.Entry {
	return j.logger.WithFields(logging.Fields{
		"platform":   acc.Platform,
		"account_id": acc.ID,
	})
}
