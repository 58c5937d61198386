package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer turns simulated schedule acknowledgments into delayed publish
// tasks. It implements service.Scheduler.
type Enqueuer struct {
	client TaskEnqueuer
	logger logging.Logger
}

func NewEnqueuer(client TaskEnqueuer, logger logging.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

func (e *Enqueuer) EnqueuePublish(ctx context.Context, publicationID int64, at time.Time) (string, error) {
	taskPayload, err := json.Marshal(PublishContentPayload{PublicationID: publicationID})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TaskTypePublishContent, taskPayload)

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(5),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskTypePublishContent, err)
	}

	e.logger.WithFields(logging.Fields{
		"task_id":        info.ID,
		"publication_id": publicationID,
		"process_at":     at,
	}).Info("task scheduled")
	return info.ID, nil
}
