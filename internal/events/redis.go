package events

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisPublisher publishes events on a redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultTopic
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event LedgerPosted) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (p *RedisPublisher) Close() error {
	return nil
}

var _ Publisher = (*RedisPublisher)(nil)
