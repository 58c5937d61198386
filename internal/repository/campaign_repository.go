package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maheshrc27/socialbridge/internal/models"
)

type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error)
	Update(ctx context.Context, id int64, u models.CampaignUpdate) error
	Remove(ctx context.Context, id int64) error
}

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

const campaignColumns = `id, user_id, account_id, platform, external_id, ad_account_id, name, objective,
	budget, currency, start_date, end_date, status, created_at, updated_at`

func (r *campaignRepository) Create(ctx context.Context, c *models.Campaign) (int64, error) {
	query := `
		INSERT INTO campaigns (
			user_id,
			account_id,
			platform,
			external_id,
			ad_account_id,
			name,
			objective,
			budget,
			currency,
			start_date,
			end_date,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		c.UserID,
		c.AccountID,
		c.Platform,
		c.ExternalID,
		c.AdAccountID,
		c.Name,
		c.Objective,
		c.Budget,
		c.Currency,
		c.StartDate,
		c.EndDate,
		c.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert campaign: %w", err)
	}
	return id, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *campaignRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func scanCampaign(row scanner) (*models.Campaign, error) {
	var c models.Campaign
	var start, end sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.AccountID, &c.Platform, &c.ExternalID, &c.AdAccountID, &c.Name,
		&c.Objective, &c.Budget, &c.Currency, &start, &end, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan campaign: %w", err)
	}
	if start.Valid {
		c.StartDate = &start.Time
	}
	if end.Valid {
		c.EndDate = &end.Time
	}
	return &c, nil
}

func (r *campaignRepository) Update(ctx context.Context, id int64, u models.CampaignUpdate) error {
	var b updateBuilder
	if u.ExternalID != nil {
		b.set("external_id", *u.ExternalID)
	}
	if u.Name != nil {
		b.set("name", *u.Name)
	}
	if u.Budget != nil {
		b.set("budget", *u.Budget)
	}
	if u.StartDate != nil {
		b.set("start_date", *u.StartDate)
	}
	if u.EndDate != nil {
		b.set("end_date", *u.EndDate)
	}
	if u.Status != nil {
		b.set("status", *u.Status)
	}
	if b.empty() {
		return nil
	}

	query, args := b.query("campaigns", id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update campaign %d: %w", id, err)
	}
	return requireAffected(result, "campaign", id)
}

func (r *campaignRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign %d: %w", id, err)
	}
	return requireAffected(result, "campaign", id)
}
