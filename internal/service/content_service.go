package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/platform"
	"github.com/maheshrc27/socialbridge/internal/repository"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Scheduler delivers a publication at a later time for platforms that only
// acknowledge a schedule request. The queue package implements it.
type Scheduler interface {
	EnqueuePublish(ctx context.Context, publicationID int64, at time.Time) (string, error)
}

type ContentService interface {
	Create(ctx context.Context, userID int64, req transfer.ContentRequest) (*models.Content, error)
	Get(ctx context.Context, userID, contentID int64) (*models.Content, error)
	List(ctx context.Context, userID int64) ([]*models.Content, error)
	Remove(ctx context.Context, userID, contentID int64) error
	Publications(ctx context.Context, userID, contentID int64) ([]*models.Publication, error)

	Publish(ctx context.Context, userID, contentID, accountID int64) (*models.Publication, error)
	Schedule(ctx context.Context, userID, contentID, accountID int64, at time.Time) (*models.Publication, error)
	// PublishScheduled delivers a publication created by Schedule. It is
	// called by the queue worker and performs no ownership check.
	PublishScheduled(ctx context.Context, publicationID int64) error
	DeleteRemote(ctx context.Context, userID, publicationID int64) error

	PublicationAnalytics(ctx context.Context, userID, publicationID int64) (*transfer.Analytics, error)
	AccountAnalytics(ctx context.Context, userID, accountID int64) (*transfer.Analytics, error)
	Comments(ctx context.Context, userID, publicationID int64) ([]transfer.Comment, error)
	Reply(ctx context.Context, userID int64, commentID string, req transfer.ReplyRequest) (*transfer.Comment, error)
}

type contentService struct {
	cr        repository.ContentRepository
	pr        repository.PublicationRepository
	ar        repository.SocialAccountRepository
	adapters  Adapters
	coord     RefreshCoordinator
	scheduler Scheduler
	logger    logging.Logger
}

func NewContentService(
	cr repository.ContentRepository,
	pr repository.PublicationRepository,
	ar repository.SocialAccountRepository,
	adapters Adapters,
	coord RefreshCoordinator,
	scheduler Scheduler,
	logger logging.Logger) ContentService {
	return &contentService{
		cr:        cr,
		pr:        pr,
		ar:        ar,
		adapters:  adapters,
		coord:     coord,
		scheduler: scheduler,
		logger:    logger,
	}
}

func (s *contentService) Create(ctx context.Context, userID int64, req transfer.ContentRequest) (*models.Content, error) {
	if strings.TrimSpace(req.Text) == "" && len(req.MediaURLs) == 0 {
		return nil, &apperrors.ValidationError{Field: "text", Message: "text or media is required"}
	}

	content := &models.Content{
		UserID:    userID,
		Title:     req.Title,
		Text:      req.Text,
		MediaURLs: req.MediaURLs,
		Tags:      req.Tags,
		Status:    models.ContentStatusDraft,
	}
	id, err := s.cr.Create(ctx, content)
	if err != nil {
		return nil, err
	}
	content.ID = id
	return content, nil
}

func (s *contentService) Get(ctx context.Context, userID, contentID int64) (*models.Content, error) {
	content, err := s.cr.GetByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("load content %d: %w", contentID, err)
	}
	if content == nil || content.UserID != userID {
		return nil, &apperrors.NotFoundError{Resource: "content", ID: contentID}
	}
	return content, nil
}

func (s *contentService) List(ctx context.Context, userID int64) ([]*models.Content, error) {
	contents, err := s.cr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	if contents == nil {
		contents = []*models.Content{}
	}
	return contents, nil
}

func (s *contentService) Remove(ctx context.Context, userID, contentID int64) error {
	if _, err := s.Get(ctx, userID, contentID); err != nil {
		return err
	}
	return s.cr.Remove(ctx, contentID)
}

func (s *contentService) Publications(ctx context.Context, userID, contentID int64) ([]*models.Publication, error) {
	if _, err := s.Get(ctx, userID, contentID); err != nil {
		return nil, err
	}
	pubs, err := s.pr.ListByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	if pubs == nil {
		pubs = []*models.Publication{}
	}
	return pubs, nil
}

// target loads a content item and an account of the same user together with
// the content adapter for the account's platform.
func (s *contentService) target(ctx context.Context, userID, contentID, accountID int64) (*models.Content, *models.SocialAccount, platform.ContentAdapter, error) {
	content, err := s.Get(ctx, userID, contentID)
	if err != nil {
		return nil, nil, nil, err
	}
	acc, err := ownedAccount(ctx, s.ar, userID, accountID)
	if err != nil {
		return nil, nil, nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, nil, nil, err
	}
	return content, acc, adapter, nil
}

func (s *contentService) Publish(ctx context.Context, userID, contentID, accountID int64) (*models.Publication, error) {
	content, acc, adapter, err := s.target(ctx, userID, contentID, accountID)
	if err != nil {
		return nil, err
	}

	pub := &models.Publication{ContentID: content.ID, AccountID: acc.ID}
	res, perr := s.publish(ctx, adapter, *acc, *content)
	s.applyResult(pub, res, perr)

	id, err := s.pr.Create(ctx, pub)
	if err != nil {
		return nil, err
	}
	pub.ID = id

	if err := s.markContent(ctx, content, perr); err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, perr
	}
	return pub, nil
}

func (s *contentService) publish(ctx context.Context, adapter platform.ContentAdapter, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error) {
	return withRefresh(ctx, s.coord, adapter, acc, func(acc models.SocialAccount) (*transfer.PublishResult, error) {
		return adapter.PublishContent(ctx, acc, content)
	})
}

func (s *contentService) applyResult(pub *models.Publication, res *transfer.PublishResult, err error) {
	if err != nil {
		pub.Status = models.PublicationStatusFailed
		pub.ErrorMessage = err.Error()
		return
	}
	pub.Status = models.PublicationStatusPublished
	pub.ExternalID = res.ID
}

// markContent keeps a published content item published when a later
// delivery to another account fails.
func (s *contentService) markContent(ctx context.Context, content *models.Content, publishErr error) error {
	status := models.ContentStatusPublished
	if publishErr != nil {
		if content.Status == models.ContentStatusPublished {
			return nil
		}
		status = models.ContentStatusFailed
	}
	if content.Status == status {
		return nil
	}
	if err := s.cr.Update(ctx, content.ID, models.ContentUpdate{Status: &status}); err != nil {
		return fmt.Errorf("update content status: %w", err)
	}
	content.Status = status
	return nil
}

// Schedule asks the platform to schedule the content. When the platform only
// acknowledges the request, delivery is handed to the Scheduler.
func (s *contentService) Schedule(ctx context.Context, userID, contentID, accountID int64, at time.Time) (*models.Publication, error) {
	content, acc, adapter, err := s.target(ctx, userID, contentID, accountID)
	if err != nil {
		return nil, err
	}

	res, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.PublishResult, error) {
		return adapter.ScheduleContent(ctx, acc, *content, at)
	})
	if err != nil {
		return nil, err
	}

	scheduled := at
	pub := &models.Publication{
		ContentID:     content.ID,
		AccountID:     acc.ID,
		Status:        models.PublicationStatusScheduled,
		ScheduledTime: &scheduled,
	}
	if !res.Simulated {
		pub.ExternalID = res.ID
	}

	id, err := s.pr.Create(ctx, pub)
	if err != nil {
		return nil, err
	}
	pub.ID = id

	if res.Simulated {
		taskID, err := s.scheduler.EnqueuePublish(ctx, pub.ID, at)
		if err != nil {
			msg := fmt.Sprintf("enqueue publish: %v", err)
			if uerr := s.pr.UpdateResult(ctx, pub.ID, models.PublicationStatusFailed, "", msg); uerr != nil {
				s.logger.WithError(uerr).Error("failed to record schedule failure")
			}
			return nil, fmt.Errorf("enqueue publish: %w", err)
		}
		s.logger.WithFields(logging.Fields{
			"publication_id": pub.ID,
			"task_id":        taskID,
			"platform":       acc.Platform,
		}).Info("publish scheduled")
	}

	if content.Status != models.ContentStatusPublished {
		status := models.ContentStatusScheduled
		if err := s.cr.Update(ctx, content.ID, models.ContentUpdate{Status: &status}); err != nil {
			return nil, fmt.Errorf("update content status: %w", err)
		}
	}
	return pub, nil
}

func (s *contentService) PublishScheduled(ctx context.Context, publicationID int64) error {
	pub, err := s.pr.GetByID(ctx, publicationID)
	if err != nil {
		return fmt.Errorf("load publication %d: %w", publicationID, err)
	}
	if pub == nil {
		return &apperrors.NotFoundError{Resource: "publication", ID: publicationID}
	}
	if pub.Status != models.PublicationStatusScheduled {
		s.logger.WithFields(logging.Fields{
			"publication_id": pub.ID,
			"status":         pub.Status,
		}).Info("skipping publication that is no longer scheduled")
		return nil
	}

	content, err := s.cr.GetByID(ctx, pub.ContentID)
	if err != nil {
		return fmt.Errorf("load content %d: %w", pub.ContentID, err)
	}
	acc, err := s.ar.GetByID(ctx, pub.AccountID)
	if err != nil {
		return fmt.Errorf("load account %d: %w", pub.AccountID, err)
	}
	if content == nil || acc == nil {
		msg := "content or account no longer exists"
		return s.pr.UpdateResult(ctx, pub.ID, models.PublicationStatusFailed, "", msg)
	}

	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return err
	}

	res, perr := s.publish(ctx, adapter, *acc, *content)
	s.applyResult(pub, res, perr)
	if err := s.pr.UpdateResult(ctx, pub.ID, pub.Status, pub.ExternalID, pub.ErrorMessage); err != nil {
		return err
	}
	if err := s.markContent(ctx, content, perr); err != nil {
		return err
	}

	log := s.logger.WithFields(logging.Fields{
		"publication_id": pub.ID,
		"platform":       acc.Platform,
		"account_id":     acc.ID,
	})
	if perr != nil {
		log.WithError(perr).Warn("scheduled publish failed")
		return nil
	}
	log.Info("scheduled publish delivered")
	return nil
}

// publication loads a publication together with its account and adapter,
// checking that the content belongs to userID.
func (s *contentService) publication(ctx context.Context, userID, publicationID int64) (*models.Publication, *models.SocialAccount, platform.ContentAdapter, error) {
	pub, err := s.pr.GetByID(ctx, publicationID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load publication %d: %w", publicationID, err)
	}
	if pub == nil {
		return nil, nil, nil, &apperrors.NotFoundError{Resource: "publication", ID: publicationID}
	}
	if _, err := s.Get(ctx, userID, pub.ContentID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, nil, &apperrors.NotFoundError{Resource: "publication", ID: publicationID}
		}
		return nil, nil, nil, err
	}
	if pub.ExternalID == "" {
		return nil, nil, nil, &apperrors.ValidationError{Field: "publication", Message: "has no remote post"}
	}
	acc, err := ownedAccount(ctx, s.ar, userID, pub.AccountID)
	if err != nil {
		return nil, nil, nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, nil, nil, err
	}
	return pub, acc, adapter, nil
}

func (s *contentService) DeleteRemote(ctx context.Context, userID, publicationID int64) error {
	pub, acc, adapter, err := s.publication(ctx, userID, publicationID)
	if err != nil {
		return err
	}

	deleted, err := withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (bool, error) {
		return adapter.DeleteContent(ctx, acc, pub.ExternalID)
	})
	if err != nil {
		return err
	}
	if !deleted {
		return &apperrors.PlatformError{Platform: string(acc.Platform), Err: fmt.Errorf("post %s was not deleted", pub.ExternalID)}
	}
	return s.pr.UpdateResult(ctx, pub.ID, models.PublicationStatusDeleted, pub.ExternalID, "")
}

func (s *contentService) PublicationAnalytics(ctx context.Context, userID, publicationID int64) (*transfer.Analytics, error) {
	pub, acc, adapter, err := s.publication(ctx, userID, publicationID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.Analytics, error) {
		return adapter.GetAnalytics(ctx, acc, pub.ExternalID)
	})
}

func (s *contentService) AccountAnalytics(ctx context.Context, userID, accountID int64) (*transfer.Analytics, error) {
	acc, err := ownedAccount(ctx, s.ar, userID, accountID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.Analytics, error) {
		return adapter.GetAnalytics(ctx, acc, "")
	})
}

func (s *contentService) Comments(ctx context.Context, userID, publicationID int64) ([]transfer.Comment, error) {
	pub, acc, adapter, err := s.publication(ctx, userID, publicationID)
	if err != nil {
		return nil, err
	}
	return adapter.GetComments(ctx, *acc, pub.ExternalID), nil
}

func (s *contentService) Reply(ctx context.Context, userID int64, commentID string, req transfer.ReplyRequest) (*transfer.Comment, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &apperrors.ValidationError{Field: "message", Message: "is required"}
	}
	acc, err := ownedAccount(ctx, s.ar, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Content(acc.Platform)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s.coord, adapter, *acc, func(acc models.SocialAccount) (*transfer.Comment, error) {
		return adapter.ReplyToComment(ctx, acc, commentID, req.Message)
	})
}
