package queue

import (
	"github.com/maheshrc27/socialbridge/internal/service"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// Queue holds the services the task handlers delegate to.
type Queue struct {
	cs     service.ContentService
	logger logging.Logger
}

func NewQueue(cs service.ContentService, logger logging.Logger) *Queue {
	return &Queue{
		cs:     cs,
		logger: logger,
	}
}

const TaskTypePublishContent = "content:publish"

type PublishContentPayload struct {
	PublicationID int64 `json:"publication_id"`
}
