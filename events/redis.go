package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "blog-events"

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisBus publishes events as JSON on a pub/sub channel.
type RedisBus struct {
	rdb     publisher
	channel string
	closer  func() error
}

// NewRedisBus connects to a redis:// URL.
func NewRedisBus(url, channel string) (*RedisBus, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBus{rdb: rdb, channel: channel, closer: rdb.Close}, nil
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, b.channel, err)
	}
	return nil
}

func (b *RedisBus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
