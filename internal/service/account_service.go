package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type AccountService interface {
	Link(ctx context.Context, userID int64, req transfer.LinkAccountRequest) (*models.SocialAccount, error)
	Get(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Verify(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error)
	Refresh(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error)
	Remove(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	ar       repository.SocialAccountRepository
	adapters Adapters
	coord    RefreshCoordinator
	logger   logging.Logger
	now      func() time.Time
}

func NewAccountService(ar repository.SocialAccountRepository, adapters Adapters, coord RefreshCoordinator, logger logging.Logger) AccountService {
	return &accountService{
		ar:       ar,
		adapters: adapters,
		coord:    coord,
		logger:   logger,
		now:      time.Now,
	}
}

// Link checks the credential against the platform before storing it, so the
// stored account id and name come from the platform.
func (s *accountService) Link(ctx context.Context, userID int64, req transfer.LinkAccountRequest) (*models.SocialAccount, error) {
	p := models.Platform(req.Platform)
	if !p.Valid() {
		return nil, &apperrors.ValidationError{Field: "platform", Message: fmt.Sprintf("unsupported platform %q", req.Platform)}
	}
	if req.AccessToken == "" {
		return nil, &apperrors.ValidationError{Field: "access_token", Message: "is required"}
	}

	adapter, err := s.adapters.Content(p)
	if err != nil {
		return nil, err
	}

	acc := adapter.Authenticate(ctx, models.SocialAccount{
		UserID:       userID,
		Platform:     p,
		AccountID:    req.AccountID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  expiresAt(s.now(), req.ExpiresIn),
		Status:       models.AccountStatusExpired,
	})
	if acc.Status != models.AccountStatusActive {
		return nil, &apperrors.AuthenticationError{Platform: string(p), Err: fmt.Errorf("credential rejected")}
	}

	id, err := s.ar.Create(ctx, &acc)
	if err != nil {
		return nil, err
	}
	acc.ID = id

	s.logger.WithFields(logging.Fields{
		"platform":   p,
		"account_id": id,
		"user_id":    userID,
	}).Info("account linked")
	return &acc, nil
}

func (s *accountService) Get(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error) {
	return ownedAccount(ctx, s.ar, userID, accountID)
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	accounts, err := s.ar.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []*models.SocialAccount{}
	}
	return accounts, nil
}

// Verify re-checks the stored credential and persists the resulting status.
func (s *accountService) Verify(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error) {
	acc, err := ownedAccount(ctx, s.ar, userID, accountID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, err
	}

	updated := adapter.Authenticate(ctx, *acc)
	if diff := acc.Diff(updated); !diff.Empty() {
		if err := s.ar.Update(ctx, acc.ID, diff); err != nil {
			return nil, fmt.Errorf("save verified account: %w", err)
		}
	}
	return &updated, nil
}

// Refresh goes through the coordinator, which persists the new credential.
func (s *accountService) Refresh(ctx context.Context, userID, accountID int64) (*models.SocialAccount, error) {
	acc, err := ownedAccount(ctx, s.ar, userID, accountID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, err
	}

	updated, err := s.coord.Refresh(ctx, adapter, *acc)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *accountService) Remove(ctx context.Context, userID, accountID int64) error {
	if _, err := ownedAccount(ctx, s.ar, userID, accountID); err != nil {
		return err
	}
	return s.ar.Remove(ctx, accountID)
}
