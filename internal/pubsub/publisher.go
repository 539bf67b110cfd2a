// Package pubsub publishes critical alerts to an external dashboard over
// Redis PUBLISH, grounded on the original implementation's redis_client
// and the dashboard config's RedisHost/RedisPort settings.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Publisher wraps a lazily-reconnecting Redis client. The connection is
// guarded by a mutex; a failed publish marks the connection disconnected
// and a fresh client is created on the next publish attempt.
type Publisher struct {
	mu       sync.Mutex
	url      string
	channel  string
	client   *redis.Client
	connected bool
}

// New creates a Publisher for the given Redis URL and channel. The
// connection is established lazily on first Publish.
func New(url, channel string) *Publisher {
	return &Publisher{url: url, channel: channel}
}

// Publish marshals payload as JSON and issues PUBLISH <channel> <json>.
// On failure the message is dropped, the connection is marked
// disconnected, and the next Publish call reconnects lazily.
func (p *Publisher) Publish(ctx context.Context, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		if err := p.connect(); err != nil {
			return fmt.Errorf("pubsub: connect failed: %w", err)
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("pubsub: marshal failed: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.connected = false
		return fmt.Errorf("pubsub: publish failed: %w", err)
	}

	return nil
}

func (p *Publisher) connect() error {
	opt, err := redis.ParseURL(p.url)
	if err != nil {
		return err
	}
	p.client = redis.NewClient(opt)
	p.connected = true
	return nil
}

// Close releases the underlying Redis connection, if any.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
