package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

// SubmitGuard is the in-process duplicate-submission guard used when no Redis
// is configured. Semantics mirror the Redis guard: one marker per key, expiry
// bounds a crashed submit.
type SubmitGuard struct {
	mu    sync.Mutex
	marks map[string]time.Time
	ttl   time.Duration
	now   func() time.Time
}

func NewSubmitGuard(ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &SubmitGuard{
		marks: make(map[string]time.Time),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (g *SubmitGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, ok := g.marks[key]; ok && g.now().Before(expiry) {
		return nil, domain.ErrSubmitInFlight
	}
	g.marks[key] = g.now().Add(g.ttl)

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.marks, key)
	}, nil
}
