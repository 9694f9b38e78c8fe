package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

const defaultSubmitTTL = 15 * time.Second

// SubmitGuard rejects duplicate login-flow submissions backed by Redis, so
// two gateway requests for the same account cannot hold a submit in flight
// simultaneously. Key format: submit:<mode>:<role>:<email>
type SubmitGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client. The
// ttl bounds how long a marker can outlive a crashed submit; <= 0 applies the
// default.
func NewSubmitGuard(client *redis.Client, ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = defaultSubmitTTL
	}
	return &SubmitGuard{client: client, ttl: ttl}
}

// Acquire marks the key in flight. SET NX makes the check-and-mark atomic
// across gateway replicas sharing the Redis instance.
func (g *SubmitGuard) Acquire(ctx context.Context, key string) (func(), error) {
	set, err := g.client.SetNX(ctx, g.key(key), "1", g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("submit guard: %w", err)
	}
	if !set {
		return nil, domain.ErrSubmitInFlight
	}
	return func() {
		g.client.Del(context.Background(), g.key(key))
	}, nil
}

func (g *SubmitGuard) key(key string) string {
	return "submit:" + key
}
