package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

func storedSession(remember bool) *domain.Session {
	return &domain.Session{
		ID:       "s1",
		Token:    "tok-1",
		Remember: remember,
		User:     &domain.User{ID: "u1", Role: domain.RoleDoctor},
	}
}

func TestTokenStore_PutGet(t *testing.T) {
	store := NewTokenStore(time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, storedSession(false)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok-1" || got.User == nil || got.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// The store hands out copies; mutating one must not leak back.
	got.Token = "mutated"
	got.User.ID = "mutated"
	again, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Token != "tok-1" || again.User.ID != "u1" {
		t.Fatalf("stored entry was mutated: %+v", again)
	}
}

func TestTokenStore_TTLTiers(t *testing.T) {
	now := time.Now()
	store := NewTokenStore(time.Hour, 24*time.Hour)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	plain := storedSession(false)
	durable := storedSession(true)
	durable.ID = "s2"
	if err := store.Put(ctx, plain); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, durable); err != nil {
		t.Fatalf("Put: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session-tier entry must have expired, got %v", err)
	}
	if _, err := store.Get(ctx, "s2"); err != nil {
		t.Fatalf("remember-tier entry must survive: %v", err)
	}

	now = now.Add(23 * time.Hour)
	if _, err := store.Get(ctx, "s2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("remember-tier entry must eventually expire, got %v", err)
	}
}

func TestTokenStore_Replace(t *testing.T) {
	store := NewTokenStore(time.Hour, 24*time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, storedSession(false)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Replace(ctx, "s1", "tok-2"); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok-2" {
		t.Fatalf("token not replaced, got %q", got.Token)
	}
}

func TestTokenStore_ReplaceAfterDelete(t *testing.T) {
	store := NewTokenStore(time.Hour, 24*time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, storedSession(false)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// A renewal racing a logout must not resurrect the session.
	if err := store.Replace(ctx, "s1", "tok-2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session resurrected after delete: %v", err)
	}
}

func TestTokenStore_DeleteIdempotent(t *testing.T) {
	store := NewTokenStore(time.Hour, 24*time.Hour)
	ctx := context.Background()

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of unknown id must be a no-op: %v", err)
	}
}
