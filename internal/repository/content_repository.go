package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/maheshrc27/socialbridge/internal/models"
)

type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Content, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Content, error)
	Update(ctx context.Context, id int64, u models.ContentUpdate) error
	Remove(ctx context.Context, id int64) error
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, user_id, title, text, media_urls, tags, status, created_at, updated_at`

func (r *contentRepository) Create(ctx context.Context, content *models.Content) (int64, error) {
	query := `
		INSERT INTO contents (user_id, title, text, media_urls, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		content.UserID,
		content.Title,
		content.Text,
		pq.Array(content.MediaURLs),
		pq.Array(content.Tags),
		content.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}
	return id, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	content, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return content, nil
}

func (r *contentRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contents: %w", err)
	}
	return contents, nil
}

func scanContent(row scanner) (*models.Content, error) {
	var c models.Content
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Text, pq.Array(&c.MediaURLs), pq.Array(&c.Tags),
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan content: %w", err)
	}
	return &c, nil
}

func (r *contentRepository) Update(ctx context.Context, id int64, u models.ContentUpdate) error {
	var b updateBuilder
	if u.Title != nil {
		b.set("title", *u.Title)
	}
	if u.Text != nil {
		b.set("text", *u.Text)
	}
	if u.MediaURLs != nil {
		b.set("media_urls", pq.Array(u.MediaURLs))
	}
	if u.Tags != nil {
		b.set("tags", pq.Array(u.Tags))
	}
	if u.Status != nil {
		b.set("status", *u.Status)
	}
	if b.empty() {
		return nil
	}

	query, args := b.query("contents", id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update content %d: %w", id, err)
	}
	return requireAffected(result, "content", id)
}

func (r *contentRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content %d: %w", id, err)
	}
	return requireAffected(result, "content", id)
}
