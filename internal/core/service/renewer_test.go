package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/infrastructure/memory"
)

type countingAuth struct {
	stubAuth
	mu    sync.Mutex
	seen  []string
	fail  bool
	calls int
}

func (s *countingAuth) RenewToken(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, token)
	if s.fail {
		return "", fmt.Errorf("renewal endpoint unavailable")
	}
	return fmt.Sprintf("tok-%d", s.calls), nil
}

func (s *countingAuth) renewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestRenewer_RenewsWhileSessionLives(t *testing.T) {
	store := memory.NewTokenStore(time.Hour, time.Hour)
	upstream := &countingAuth{}
	renewer := NewRenewer(store, upstream, 10*time.Millisecond, zerolog.Nop())
	defer renewer.Stop()

	_ = store.Put(context.Background(), &domain.Session{ID: "s1", Token: "tok-0", User: &domain.User{Role: domain.RoleAdmin}})
	renewer.Track("s1")

	waitFor(t, time.Second, func() bool { return upstream.renewCount() >= 2 })

	session, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session gone: %v", err)
	}
	if session.Token == "tok-0" {
		t.Fatalf("token was never replaced")
	}
}

func TestRenewer_StopsOnceSessionGone(t *testing.T) {
	store := memory.NewTokenStore(time.Hour, time.Hour)
	upstream := &countingAuth{}
	renewer := NewRenewer(store, upstream, 10*time.Millisecond, zerolog.Nop())
	defer renewer.Stop()

	_ = store.Put(context.Background(), &domain.Session{ID: "s1", Token: "tok-0"})
	renewer.Track("s1")
	waitFor(t, time.Second, func() bool { return upstream.renewCount() >= 1 })

	// Logout: entry removed, task discovers it on the next tick and ends.
	_ = store.Delete(context.Background(), "s1")
	waitFor(t, time.Second, func() bool {
		before := upstream.renewCount()
		time.Sleep(50 * time.Millisecond)
		return upstream.renewCount() == before
	})

	settled := upstream.renewCount()
	time.Sleep(50 * time.Millisecond)
	if got := upstream.renewCount(); got != settled {
		t.Fatalf("renewals continued after session removal: %d → %d", settled, got)
	}
	if _, err := store.Get(context.Background(), "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("session resurrected: %v", err)
	}
}

func TestRenewer_FailureDoesNotLogout(t *testing.T) {
	store := memory.NewTokenStore(time.Hour, time.Hour)
	upstream := &countingAuth{fail: true}
	renewer := NewRenewer(store, upstream, 10*time.Millisecond, zerolog.Nop())
	defer renewer.Stop()

	_ = store.Put(context.Background(), &domain.Session{ID: "s1", Token: "tok-0", User: &domain.User{Role: domain.RolePatient}})
	renewer.Track("s1")

	// Several failed ticks: the session must survive with its old token.
	waitFor(t, time.Second, func() bool { return upstream.renewCount() >= 3 })

	session, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session destroyed by failed renewal: %v", err)
	}
	if session.Token != "tok-0" {
		t.Fatalf("token unexpectedly replaced: %s", session.Token)
	}
}

func TestRenewer_ReleaseCancelsTask(t *testing.T) {
	store := memory.NewTokenStore(time.Hour, time.Hour)
	upstream := &countingAuth{}
	renewer := NewRenewer(store, upstream, 10*time.Millisecond, zerolog.Nop())
	defer renewer.Stop()

	_ = store.Put(context.Background(), &domain.Session{ID: "s1", Token: "tok-0"})
	renewer.Track("s1")
	renewer.Track("s1") // double Track must not start a second task
	waitFor(t, time.Second, func() bool { return upstream.renewCount() >= 1 })

	renewer.Release("s1")
	time.Sleep(30 * time.Millisecond) // let any in-flight tick settle
	settled := upstream.renewCount()
	time.Sleep(60 * time.Millisecond)
	if got := upstream.renewCount(); got != settled {
		t.Fatalf("renewals continued after release: %d → %d", settled, got)
	}

	// Releasing again is a no-op.
	renewer.Release("s1")
}
