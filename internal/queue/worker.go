package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// HandlePublishContentTask delivers a scheduled publication. Platform
// failures are recorded on the publication by the content service; only
// storage failures are returned so asynq retries the task.
func (j *Queue) HandlePublishContentTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishContentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	err := j.cs.PublishScheduled(ctx, payload.PublicationID)
	if apperrors.IsNotFound(err) {
		j.logger.WithField("publication_id", payload.PublicationID).Warn("publication removed before delivery")
		return nil
	}
	if err != nil {
		j.logger.WithFields(logging.Fields{
			"publication_id": payload.PublicationID,
		}).WithError(err).Error("scheduled publish failed")
		return err
	}
	return nil
}
