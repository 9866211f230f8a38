package events

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogBus writes every event to the global logger.
type LogBus struct{}

func (LogBus) Publish(_ context.Context, event Event) error {
	l := log.Info().
		Str("eventID", event.ID.String()).
		Str("eventType", string(event.Type)).
		Time("occurredAt", event.OccurredAt)
	if event.Blog != nil {
		l = l.Uint("blogID", event.Blog.ID).Str("slug", event.Blog.Slug)
	}
	l.Msg("blog event")
	return nil
}
