package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
)

var ErrDuplicateAccount = errors.New("account already linked")

// Cipher protects credentials at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

type SocialAccountRepository interface {
	Create(ctx context.Context, sa *models.SocialAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	// ListExpiring returns accounts that are not revoked and either expire
	// before the given time or are already expired.
	ListExpiring(ctx context.Context, before time.Time) ([]*models.SocialAccount, error)
	Update(ctx context.Context, id int64, u models.SocialAccountUpdate) error
	Remove(ctx context.Context, id int64) error
}

type socialAccountRepository struct {
	db     *sql.DB
	cipher Cipher
}

func NewSocialAccountRepository(db *sql.DB, cipher Cipher) SocialAccountRepository {
	return &socialAccountRepository{db: db, cipher: cipher}
}

const socialAccountColumns = `id, user_id, platform, account_id, account_name, access_token,
	refresh_token, token_expiry, status, created_at, updated_at`

func (r *socialAccountRepository) Create(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	accessToken, err := r.cipher.Encrypt(sa.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("encrypt access token: %w", err)
	}
	refreshToken, err := r.cipher.Encrypt(sa.RefreshToken)
	if err != nil {
		return 0, fmt.Errorf("encrypt refresh token: %w", err)
	}

	query := `
		INSERT INTO social_accounts(
			user_id,
			platform,
			account_id,
			account_name,
			access_token,
			refresh_token,
			token_expiry,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		sa.UserID,
		sa.Platform,
		sa.AccountID,
		sa.AccountName,
		accessToken,
		refreshToken,
		sa.TokenExpiry,
		sa.Status,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateAccount
		}
		return 0, fmt.Errorf("insert social account: %w", err)
	}
	return id, nil
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts WHERE id = $1`

	sa, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sa, nil
}

func (r *socialAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts WHERE user_id = $1 ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *socialAccountRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts
		WHERE status <> $1 AND (token_expiry < $2 OR status = $3)
		ORDER BY token_expiry`
	return r.list(ctx, query, models.AccountStatusRevoked, before, models.AccountStatusExpired)
}

func (r *socialAccountRepository) list(ctx context.Context, query string, args ...any) ([]*models.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query social accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		sa, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate social accounts: %w", err)
	}
	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *socialAccountRepository) scan(row scanner) (*models.SocialAccount, error) {
	var sa models.SocialAccount
	var expiry sql.NullTime
	err := row.Scan(&sa.ID, &sa.UserID, &sa.Platform, &sa.AccountID, &sa.AccountName,
		&sa.AccessToken, &sa.RefreshToken, &expiry, &sa.Status, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan social account: %w", err)
	}
	if expiry.Valid {
		sa.TokenExpiry = &expiry.Time
	}

	if sa.AccessToken, err = r.cipher.Decrypt(sa.AccessToken); err != nil {
		return nil, fmt.Errorf("decrypt access token of account %d: %w", sa.ID, err)
	}
	if sa.RefreshToken, err = r.cipher.Decrypt(sa.RefreshToken); err != nil {
		return nil, fmt.Errorf("decrypt refresh token of account %d: %w", sa.ID, err)
	}
	return &sa, nil
}

func (r *socialAccountRepository) Update(ctx context.Context, id int64, u models.SocialAccountUpdate) error {
	var b updateBuilder
	if u.AccountID != nil {
		b.set("account_id", *u.AccountID)
	}
	if u.AccountName != nil {
		b.set("account_name", *u.AccountName)
	}
	if u.AccessToken != nil {
		sealed, err := r.cipher.Encrypt(*u.AccessToken)
		if err != nil {
			return fmt.Errorf("encrypt access token: %w", err)
		}
		b.set("access_token", sealed)
	}
	if u.RefreshToken != nil {
		sealed, err := r.cipher.Encrypt(*u.RefreshToken)
		if err != nil {
			return fmt.Errorf("encrypt refresh token: %w", err)
		}
		b.set("refresh_token", sealed)
	}
	if u.TokenExpiry != nil {
		b.set("token_expiry", *u.TokenExpiry)
	}
	if u.Status != nil {
		b.set("status", *u.Status)
	}
	if b.empty() {
		return nil
	}

	query, args := b.query("social_accounts", id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("update social account %d: %w", id, err)
	}
	return requireAffected(result, "social_account", id)
}

func (r *socialAccountRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM social_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete social account %d: %w", id, err)
	}
	return requireAffected(result, "social_account", id)
}

func requireAffected(result sql.Result, resource string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return &apperrors.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
