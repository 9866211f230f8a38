package events

import (
	"context"
	"errors"
	"io"

	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MultiBus publishes each event to every bus concurrently.
type MultiBus struct {
	buses []Bus
}

func NewMultiBus(buses ...Bus) *MultiBus {
	return &MultiBus{buses: buses}
}

// Publish waits for every bus and returns the first error.
func (m *MultiBus) Publish(ctx context.Context, event Event) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, bus := range m.buses {
		bus := bus
		g.Go(func() error {
			return bus.Publish(ctx, event)
		})
	}
	return g.Wait()
}

// Close closes every bus that holds a connection.
func (m *MultiBus) Close() error {
	var errList []error
	for _, bus := range m.buses {
		if c, ok := bus.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errList = append(errList, err)
			}
		}
	}
	return errors.Join(errList...)
}

// New always logs events and also publishes them to redis when REDIS_URL is set.
func New(cfg map[string]string) (*MultiBus, error) {
	buses := []Bus{LogBus{}}

	if url := config.GetString(cfg, "REDIS_URL", ""); url != "" {
		redisBus, err := NewRedisBus(url, config.GetString(cfg, "BLOG_EVENTS_CHANNEL", DefaultChannel))
		if err != nil {
			return nil, err
		}
		buses = append(buses, redisBus)
		log.Info().Str("channel", redisBus.channel).Msg("publishing blog events to redis")
	}

	return NewMultiBus(buses...), nil
}
