// Package events publishes blog lifecycle notifications after a write commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-backend/models"
)

type Type string

const (
	BlogCreated Type = "blog.created"
	BlogUpdated Type = "blog.updated"
	BlogDeleted Type = "blog.deleted"
)

type Event struct {
	ID         uuid.UUID    `json:"id"`
	Type       Type         `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Blog       *models.Blog `json:"blog"`
}

func NewBlogEvent(t Type, blog *models.Blog) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Blog:       blog,
	}
}

// Bus delivers events to subscribers. Delivery is fire and forget.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}
