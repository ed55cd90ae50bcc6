// Package notify publishes docver events on Redis pub/sub channels named
// "<prefix>:<event type>", e.g. "docver:version:upload".
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher sends JSON payloads to Redis.
type Publisher struct {
	rdb    *redis.Client
	prefix string
}

// Connect parses redisURL (redis://host:port/db), pings the server and
// returns a publisher using prefix for channel names.
func Connect(ctx context.Context, redisURL, prefix string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis not available: %w", err)
	}
	return &Publisher{rdb: rdb, prefix: prefix}, nil
}

// Channel returns the channel an event type is published on.
func (p *Publisher) Channel(eventType string) string {
	return p.prefix + ":" + eventType
}

// Publish marshals payload and publishes it for eventType. It returns the
// number of subscribers that received it.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) (int64, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	n, err := p.rdb.Publish(ctx, p.Channel(eventType), data).Result()
	if err != nil {
		return 0, fmt.Errorf("publish %s: %w", eventType, err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
