package ports

import (
	"context"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

// TokenStore persists the one piece of client state the gateway is allowed to
// keep: the upstream bearer token (plus the cached user), keyed by session ID.
// Two TTL tiers exist, selected by the session's remember flag. Writes are
// last-write-wins.
type TokenStore interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	// Replace swaps the stored token iff the session still exists, so a
	// renewal that resolves after logout cannot resurrect the entry.
	Replace(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionService owns the session lifecycle: establishing it at login,
// restoring it from a stored token, and tearing it down.
type SessionService interface {
	// Establish stores the upstream token under a fresh session ID and
	// returns the session together with a signed transport token for it.
	Establish(ctx context.Context, token string, user *domain.User, remember bool) (*domain.Session, string, error)
	// Current resolves a session ID to its session, revalidating against the
	// upstream API when the cached user is missing. An unauthenticated
	// outcome is an expected path and is reported as (nil, nil).
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
	// Destroy tears the session down. Idempotent.
	Destroy(ctx context.Context, sessionID string) error
}

// SessionRenewer runs the background token renewal task for live sessions.
type SessionRenewer interface {
	Track(sessionID string)
	Release(sessionID string)
	Stop()
}

// SubmitGuard serializes login-flow submissions that target the same account.
// Acquire marks the key in flight and returns the release func that clears
// it; a second Acquire before release fails with domain.ErrSubmitInFlight.
// Markers expire on their own so a crash mid-submit cannot wedge an account.
type SubmitGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
