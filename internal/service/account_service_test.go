package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

func TestAccountServiceLink(t *testing.T) {
	var stored models.SocialAccount
	ar := &fakeAccounts{
		create: func(sa *models.SocialAccount) (int64, error) {
			stored = *sa
			return 7, nil
		},
	}
	adapter := &fakeContentAdapter{
		authenticate: func(acc models.SocialAccount) models.SocialAccount {
			acc.Status = models.AccountStatusActive
			acc.AccountID = "page-1"
			acc.AccountName = "My Page"
			return acc
		},
	}
	svc := NewAccountService(ar, fakeAdapters{content: adapter}, nil, testLogger())

	acc, err := svc.Link(context.Background(), 3, transfer.LinkAccountRequest{
		Platform:    "facebook",
		AccessToken: "token-1",
		ExpiresIn:   3600,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), acc.ID)
	assert.Equal(t, int64(3), stored.UserID)
	assert.Equal(t, "My Page", stored.AccountName)
	assert.Equal(t, models.AccountStatusActive, stored.Status)
	require.NotNil(t, stored.TokenExpiry)
}

func TestAccountServiceLinkRejectsUnknownPlatform(t *testing.T) {
	svc := NewAccountService(&fakeAccounts{}, fakeAdapters{}, nil, testLogger())

	_, err := svc.Link(context.Background(), 1, transfer.LinkAccountRequest{Platform: "myspace", AccessToken: "x"})

	assert.True(t, apperrors.IsValidation(err))
}

func TestAccountServiceLinkRejectsBadCredential(t *testing.T) {
	adapter := &fakeContentAdapter{
		authenticate: func(acc models.SocialAccount) models.SocialAccount {
			acc.Status = models.AccountStatusExpired
			return acc
		},
	}
	svc := NewAccountService(&fakeAccounts{}, fakeAdapters{content: adapter}, nil, testLogger())

	_, err := svc.Link(context.Background(), 1, transfer.LinkAccountRequest{Platform: "twitter", AccessToken: "bad"})

	assert.True(t, apperrors.IsAuthentication(err))
}

func TestAccountServiceLinkDuplicate(t *testing.T) {
	ar := &fakeAccounts{
		create: func(*models.SocialAccount) (int64, error) { return 0, repository.ErrDuplicateAccount },
	}
	adapter := &fakeContentAdapter{
		authenticate: func(acc models.SocialAccount) models.SocialAccount {
			acc.Status = models.AccountStatusActive
			return acc
		},
	}
	svc := NewAccountService(ar, fakeAdapters{content: adapter}, nil, testLogger())

	_, err := svc.Link(context.Background(), 1, transfer.LinkAccountRequest{Platform: "linkedin", AccessToken: "x"})

	assert.ErrorIs(t, err, repository.ErrDuplicateAccount)
}

func TestAccountServiceGetHidesOtherUsers(t *testing.T) {
	svc := NewAccountService(accountsWith(activeAccount(1, 2)), fakeAdapters{}, nil, testLogger())

	_, err := svc.Get(context.Background(), 99, 1)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountServiceVerifyPersistsStatus(t *testing.T) {
	ar := accountsWith(activeAccount(1, 2))
	adapter := &fakeContentAdapter{
		authenticate: func(acc models.SocialAccount) models.SocialAccount {
			acc.Status = models.AccountStatusExpired
			return acc
		},
	}
	svc := NewAccountService(ar, fakeAdapters{content: adapter}, nil, testLogger())

	acc, err := svc.Verify(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusExpired, acc.Status)
	require.Len(t, ar.updates, 1)
	require.NotNil(t, ar.updates[0].Status)
	assert.Equal(t, models.AccountStatusExpired, *ar.updates[0].Status)
}

func TestAccountServiceVerifyUnchangedSkipsUpdate(t *testing.T) {
	ar := accountsWith(activeAccount(1, 2))
	adapter := &fakeContentAdapter{
		authenticate: func(acc models.SocialAccount) models.SocialAccount { return acc },
	}
	svc := NewAccountService(ar, fakeAdapters{content: adapter}, nil, testLogger())

	_, err := svc.Verify(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Empty(t, ar.updates)
}

func TestAccountServiceRefreshUsesCoordinator(t *testing.T) {
	coord := &fakeCoordinator{
		refresh: func(acc models.SocialAccount) (models.SocialAccount, error) {
			acc.AccessToken = "token-2"
			return acc, nil
		},
	}
	svc := NewAccountService(accountsWith(activeAccount(1, 2)), fakeAdapters{content: &fakeContentAdapter{}}, coord, testLogger())

	acc, err := svc.Refresh(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Equal(t, "token-2", acc.AccessToken)
	assert.Equal(t, 1, coord.calls)
}

func TestAccountServiceRemove(t *testing.T) {
	ar := accountsWith(activeAccount(1, 2))
	var removed int64
	ar.remove = func(id int64) error {
		removed = id
		return nil
	}
	svc := NewAccountService(ar, fakeAdapters{}, nil, testLogger())

	require.NoError(t, svc.Remove(context.Background(), 2, 1))
	assert.Equal(t, int64(1), removed)

	assert.True(t, apperrors.IsNotFound(svc.Remove(context.Background(), 3, 1)))
}
