package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/api/metrics"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

const defaultRenewInterval = 30 * time.Minute

// Renewer runs one background goroutine per live session that periodically
// exchanges the stored bearer token for a fresh one. The task is tied to the
// session lifetime: Track starts it, Release cancels it deterministically,
// and a renewal tick that finds the session gone stops on its own. A failed
// renewal is logged and left for the next tick; it never logs the user out.
type Renewer struct {
	store    ports.TokenStore
	upstream ports.UpstreamAuth
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	root    context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewRenewer creates a Renewer ticking every interval. If interval <= 0,
// defaultRenewInterval is used.
func NewRenewer(store ports.TokenStore, upstream ports.UpstreamAuth, interval time.Duration, log zerolog.Logger) *Renewer {
	if interval <= 0 {
		interval = defaultRenewInterval
	}
	root, stop := context.WithCancel(context.Background())
	return &Renewer{
		store:    store,
		upstream: upstream,
		interval: interval,
		log:      log,
		cancels:  make(map[string]context.CancelFunc),
		root:     root,
		stop:     stop,
	}
}

// Track starts the renewal task for a session. Tracking an already tracked
// session is a no-op, so login and restore can both call it safely.
func (r *Renewer) Track(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, running := r.cancels[sessionID]; running {
		return
	}
	if r.root.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.root)
	r.cancels[sessionID] = cancel
	metrics.ActiveSessions.Inc()

	r.wg.Add(1)
	go r.run(ctx, sessionID)
}

// Release cancels the renewal task for a session. Safe to call when no task
// is running.
func (r *Renewer) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release(sessionID)
}

func (r *Renewer) release(sessionID string) {
	cancel, ok := r.cancels[sessionID]
	if !ok {
		return
	}
	cancel()
	delete(r.cancels, sessionID)
	metrics.ActiveSessions.Dec()
}

// Stop cancels every task and waits for the goroutines to drain.
func (r *Renewer) Stop() {
	r.stop()
	r.mu.Lock()
	for id := range r.cancels {
		r.release(id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Renewer) run(ctx context.Context, sessionID string) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.renewOnce(ctx, sessionID) {
				r.Release(sessionID)
				return
			}
		}
	}
}

// renewOnce performs a single renewal attempt. It returns false when the
// session no longer exists and the task should end.
func (r *Renewer) renewOnce(ctx context.Context, sessionID string) bool {
	session, err := r.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			metrics.RenewalsTotal.WithLabelValues("session_gone").Inc()
			return false
		}
		r.log.Error().Err(err).Str("session_id", sessionID).Msg("token renewal: store read failed")
		metrics.RenewalsTotal.WithLabelValues("failure").Inc()
		return true
	}

	newToken, err := r.upstream.RenewToken(ctx, session.Token)
	if err != nil {
		// Recoverable by the next tick; never escalated to logout.
		r.log.Error().Err(err).Str("session_id", sessionID).Msg("token renewal failed")
		metrics.RenewalsTotal.WithLabelValues("failure").Inc()
		return true
	}

	if err := r.store.Replace(ctx, sessionID, newToken); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Logout won the race; discard the renewed token.
			metrics.RenewalsTotal.WithLabelValues("session_gone").Inc()
			return false
		}
		r.log.Error().Err(err).Str("session_id", sessionID).Msg("token renewal: store write failed")
		metrics.RenewalsTotal.WithLabelValues("failure").Inc()
		return true
	}

	metrics.RenewalsTotal.WithLabelValues("success").Inc()
	r.log.Debug().Str("session_id", sessionID).Msg("token renewed")
	return true
}
