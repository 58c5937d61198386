package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
)

// prefixCipher marks values instead of encrypting them.
type prefixCipher struct{}

func (prefixCipher) Encrypt(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	return "enc:" + s, nil
}

func (prefixCipher) Decrypt(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !strings.HasPrefix(s, "enc:") {
		return "", errors.New("not encrypted")
	}
	return strings.TrimPrefix(s, "enc:"), nil
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var accountColumns = []string{"id", "user_id", "platform", "account_id", "account_name", "access_token",
	"refresh_token", "token_expiry", "status", "created_at", "updated_at"}

func TestSocialAccountCreateEncryptsTokens(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})
	expiry := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO social_accounts(")).
		WithArgs(int64(1), "twitter", "tw-1", "Acme", "enc:access", "enc:refresh", expiry, "active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), &models.SocialAccount{
		UserID:       1,
		Platform:     models.PlatformTwitter,
		AccountID:    "tw-1",
		AccountName:  "Acme",
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenExpiry:  &expiry,
		Status:       models.AccountStatusActive,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestSocialAccountCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO social_accounts(")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err := repo.Create(context.Background(), &models.SocialAccount{UserID: 1, Platform: models.PlatformFacebook})

	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestSocialAccountGetByIDDecrypts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM social_accounts WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(int64(11), int64(1), "linkedin", "li-1", "Ana", "enc:access", "", now, "expired", now, now))

	sa, err := repo.GetByID(context.Background(), 11)

	require.NoError(t, err)
	require.NotNil(t, sa)
	assert.Equal(t, models.PlatformLinkedIn, sa.Platform)
	assert.Equal(t, "access", sa.AccessToken)
	assert.Empty(t, sa.RefreshToken)
	assert.Equal(t, models.AccountStatusExpired, sa.Status)
	require.NotNil(t, sa.TokenExpiry)
}

func TestSocialAccountGetByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM social_accounts WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	sa, err := repo.GetByID(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, sa)
}

func TestSocialAccountListExpiring(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})
	before := time.Now().Add(30 * time.Minute)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status <> $1 AND (token_expiry < $2 OR status = $3)")).
		WithArgs("revoked", before, "expired").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(int64(1), int64(1), "facebook", "fb-1", "Page", "enc:a", "enc:r", now, "active", now, now).
			AddRow(int64(2), int64(1), "twitter", "tw-1", "Acme", "enc:b", "enc:s", nil, "expired", now, now))

	accounts, err := repo.ListExpiring(context.Background(), before)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "r", accounts[0].RefreshToken)
	assert.Nil(t, accounts[1].TokenExpiry)
}

func TestSocialAccountUpdateOnlySetsGivenFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})
	token := "fresh"
	status := models.AccountStatusActive
	expiry := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE social_accounts SET access_token = $1, token_expiry = $2, status = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4")).
		WithArgs("enc:fresh", expiry, "active", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 11, models.SocialAccountUpdate{
		AccessToken: &token,
		TokenExpiry: &expiry,
		Status:      &status,
	})

	require.NoError(t, err)
}

func TestSocialAccountUpdateEmptyIsNoop(t *testing.T) {
	db, _ := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})

	assert.NoError(t, repo.Update(context.Background(), 11, models.SocialAccountUpdate{}))
}

func TestSocialAccountRemoveMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSocialAccountRepository(db, prefixCipher{})

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM social_accounts WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), 5)

	assert.True(t, apperrors.IsNotFound(err))
}
