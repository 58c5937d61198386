package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

type fakeClient struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeContentService struct {
	service.ContentService
	publishScheduled func(id int64) error
}

func (f fakeContentService) PublishScheduled(_ context.Context, id int64) error {
	return f.publishScheduled(id)
}

func TestEnqueuePublish(t *testing.T) {
	client := &fakeClient{}
	e := NewEnqueuer(client, logging.NewDiscardLogger())
	at := time.Date(2030, 1, 2, 3, 4, 0, 0, time.UTC)

	id, err := e.EnqueuePublish(context.Background(), 42, at)

	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
	assert.Equal(t, TaskTypePublishContent, client.task.Type())

	var payload PublishContentPayload
	require.NoError(t, json.Unmarshal(client.task.Payload(), &payload))
	assert.Equal(t, int64(42), payload.PublicationID)

	var processAt time.Time
	for _, opt := range client.opts {
		if opt.Type() == asynq.ProcessAtOpt {
			processAt = opt.Value().(time.Time)
		}
	}
	assert.True(t, processAt.Equal(at))
}

func TestEnqueuePublishError(t *testing.T) {
	e := NewEnqueuer(&fakeClient{err: errors.New("redis down")}, logging.NewDiscardLogger())

	_, err := e.EnqueuePublish(context.Background(), 1, time.Now())

	assert.ErrorContains(t, err, "redis down")
}

func TestHandlePublishContentTask(t *testing.T) {
	var got int64
	q := NewQueue(fakeContentService{publishScheduled: func(id int64) error {
		got = id
		return nil
	}}, logging.NewDiscardLogger())

	err := q.HandlePublishContentTask(context.Background(), asynq.NewTask(TaskTypePublishContent, []byte(`{"publication_id":7}`)))

	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestHandlePublishContentTaskErrors(t *testing.T) {
	q := NewQueue(fakeContentService{publishScheduled: func(id int64) error {
		if id == 1 {
			return &apperrors.NotFoundError{Resource: "publication", ID: id}
		}
		return errors.New("db down")
	}}, logging.NewDiscardLogger())

	err := q.HandlePublishContentTask(context.Background(), asynq.NewTask(TaskTypePublishContent, []byte(`not json`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = q.HandlePublishContentTask(context.Background(), asynq.NewTask(TaskTypePublishContent, []byte(`{"publication_id":1}`)))
	assert.NoError(t, err)

	err = q.HandlePublishContentTask(context.Background(), asynq.NewTask(TaskTypePublishContent, []byte(`{"publication_id":2}`)))
	assert.ErrorContains(t, err, "db down")
}
