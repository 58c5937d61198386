package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
)

func TestCampaignCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO campaigns")).
		WithArgs(int64(1), int64(7), "facebook", "camp-1", "123", "Launch", "REACH", 100.0, "USD", nil, nil, "paused").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	id, err := repo.Create(context.Background(), &models.Campaign{
		UserID:      1,
		AccountID:   7,
		Platform:    models.PlatformFacebook,
		ExternalID:  "camp-1",
		AdAccountID: "123",
		Name:        "Launch",
		Objective:   "REACH",
		Budget:      100,
		Currency:    "USD",
		Status:      models.CampaignStatusPaused,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestCampaignGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM campaigns WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "account_id", "platform", "external_id", "ad_account_id", "name",
			"objective", "budget", "currency", "start_date", "end_date", "status", "created_at", "updated_at"}).
			AddRow(int64(4), int64(1), int64(7), "twitter", "c-1", "18ce54", "Promo", "", 50.0, "USD", now, nil, "active", now, now))

	c, err := repo.GetByID(context.Background(), 4)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, models.PlatformTwitter, c.Platform)
	assert.Equal(t, models.CampaignStatusActive, c.Status)
	assert.NotNil(t, c.StartDate)
	assert.Nil(t, c.EndDate)
}

func TestCampaignUpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCampaignRepository(db)
	status := models.CampaignStatusArchived

	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns SET status = $1")).
		WithArgs("archived", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 4, models.CampaignUpdate{Status: &status})

	assert.True(t, apperrors.IsNotFound(err))
}
