package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type fakeAccounts struct {
	repository.SocialAccountRepository
	accounts []*models.SocialAccount
	before   time.Time

	mu      sync.Mutex
	updates map[int64]models.SocialAccountUpdate
}

func (f *fakeAccounts) ListExpiring(_ context.Context, before time.Time) ([]*models.SocialAccount, error) {
	f.before = before
	return f.accounts, nil
}

func (f *fakeAccounts) Update(_ context.Context, id int64, u models.SocialAccountUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[int64]models.SocialAccountUpdate{}
	}
	f.updates[id] = u
	return nil
}

type fakeAdapters struct{}

func (fakeAdapters) Content(models.Platform) (platform.ContentAdapter, error) { return nil, nil }

func (fakeAdapters) Ads(models.Platform) (platform.AdAdapter, error) { return nil, nil }

type fakeCoordinator struct {
	mu      sync.Mutex
	seen    []int64
	refresh func(acc models.SocialAccount) (models.SocialAccount, error)
}

func (f *fakeCoordinator) Refresh(_ context.Context, _ lifecycle.Refresher, acc models.SocialAccount) (models.SocialAccount, error) {
	f.mu.Lock()
	f.seen = append(f.seen, acc.ID)
	f.mu.Unlock()
	return f.refresh(acc)
}

func at(t time.Time) *time.Time { return &t }

func TestTokenRefreshJobRun(t *testing.T) {
	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeAccounts{accounts: []*models.SocialAccount{
		// elapsed, no refresh credential: only marked expired
		{ID: 1, Platform: models.PlatformFacebook, Status: models.AccountStatusActive, TokenExpiry: at(now.Add(-time.Minute))},
		// close to expiry with refresh credential
		{ID: 2, Platform: models.PlatformLinkedIn, Status: models.AccountStatusActive, RefreshToken: "r2", TokenExpiry: at(now.Add(10 * time.Minute))},
		// elapsed with refresh credential, refresh rejected
		{ID: 3, Platform: models.PlatformTwitter, Status: models.AccountStatusActive, RefreshToken: "r3", TokenExpiry: at(now.Add(-time.Hour))},
		// coordinator error
		{ID: 4, Platform: models.PlatformTwitter, Status: models.AccountStatusExpired, RefreshToken: "r4"},
	}}
	coord := &fakeCoordinator{refresh: func(acc models.SocialAccount) (models.SocialAccount, error) {
		switch acc.ID {
		case 2:
			acc.Status = models.AccountStatusActive
		case 3:
			acc.Status = models.AccountStatusExpired
		case 4:
			return acc, errors.New("lock timeout")
		}
		return acc, nil
	}}

	j := NewTokenRefreshJob(repo, fakeAdapters{}, coord, 30*time.Minute, logging.NewDiscardLogger())
	j.now = func() time.Time { return now }

	res, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, repo.before.Equal(now.Add(30*time.Minute)))
	assert.Equal(t, RunResult{Expired: 2, Refreshed: 1, Failed: 2}, res)
	assert.ElementsMatch(t, []int64{2, 3, 4}, coord.seen)

	require.Contains(t, repo.updates, int64(1))
	assert.Equal(t, models.AccountStatusExpired, *repo.updates[1].Status)
	assert.Contains(t, repo.updates, int64(3))
}

func TestTokenRefreshJobNothingToDo(t *testing.T) {
	coord := &fakeCoordinator{}
	j := NewTokenRefreshJob(&fakeAccounts{}, fakeAdapters{}, coord, time.Minute, logging.NewDiscardLogger())

	res, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, RunResult{}, res)
	assert.Empty(t, coord.seen)
}
