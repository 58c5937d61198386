package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maheshrc27/socialbridge/internal/models"
)

// PublicationRepository records what each publish or schedule produced on a
// platform, including failures.
type PublicationRepository interface {
	Create(ctx context.Context, p *models.Publication) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Publication, error)
	ListByContentID(ctx context.Context, contentID int64) ([]*models.Publication, error)
	UpdateResult(ctx context.Context, id int64, status, externalID, errorMessage string) error
}

type publicationRepository struct {
	db *sql.DB
}

func NewPublicationRepository(db *sql.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

const publicationColumns = `id, content_id, account_id, external_id, status, scheduled_time, error_message, created_at`

func (r *publicationRepository) Create(ctx context.Context, p *models.Publication) (int64, error) {
	query := `
		INSERT INTO publications (content_id, account_id, external_id, status, scheduled_time, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, p.ContentID, p.AccountID, p.ExternalID, p.Status, p.ScheduledTime, p.ErrorMessage).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert publication: %w", err)
	}
	return id, nil
}

func (r *publicationRepository) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE id = $1`

	p, err := scanPublication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *publicationRepository) ListByContentID(ctx context.Context, contentID int64) ([]*models.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications WHERE content_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("query publications: %w", err)
	}
	defer rows.Close()

	var pubs []*models.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publications: %w", err)
	}
	return pubs, nil
}

func scanPublication(row scanner) (*models.Publication, error) {
	var p models.Publication
	var scheduled sql.NullTime
	err := row.Scan(&p.ID, &p.ContentID, &p.AccountID, &p.ExternalID, &p.Status, &scheduled, &p.ErrorMessage, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan publication: %w", err)
	}
	if scheduled.Valid {
		p.ScheduledTime = &scheduled.Time
	}
	return &p, nil
}

func (r *publicationRepository) UpdateResult(ctx context.Context, id int64, status, externalID, errorMessage string) error {
	query := `
		UPDATE publications
		SET
			status = $2,
			external_id = COALESCE(NULLIF($3, ''), external_id),
			error_message = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, externalID, errorMessage)
	if err != nil {
		return fmt.Errorf("update publication %d: %w", id, err)
	}
	return requireAffected(result, "publication", id)
}
