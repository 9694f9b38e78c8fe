package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
)

// Sessions implements the session lifecycle: it persists the upstream bearer
// token in the token store, mints the signed transport token handed to the
// browser, restores users from stored tokens, and tears sessions down.
type Sessions struct {
	store       ports.TokenStore
	upstream    ports.UpstreamAuth
	renewer     ports.SessionRenewer
	secret      string
	ttl         time.Duration
	rememberTTL time.Duration
	log         zerolog.Logger
}

func NewSessions(store ports.TokenStore, upstream ports.UpstreamAuth, renewer ports.SessionRenewer, secret string, ttl, rememberTTL time.Duration, log zerolog.Logger) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	return &Sessions{
		store:       store,
		upstream:    upstream,
		renewer:     renewer,
		secret:      secret,
		ttl:         ttl,
		rememberTTL: rememberTTL,
		log:         log,
	}
}

// Establish stores the upstream token under a fresh session ID, starts the
// renewal task, and returns the session plus its signed transport token.
func (s *Sessions) Establish(ctx context.Context, token string, user *domain.User, remember bool) (*domain.Session, string, error) {
	if token == "" || user == nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !user.Role.Valid() {
		return nil, "", domain.ErrInvalidRole
	}

	session := &domain.Session{
		ID:       uuid.NewString(),
		Token:    token,
		Remember: remember,
		User:     user,
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, "", err
	}

	signed, err := s.signTransport(session)
	if err != nil {
		_ = s.store.Delete(ctx, session.ID)
		return nil, "", err
	}

	if s.renewer != nil {
		s.renewer.Track(session.ID)
	}

	s.log.Info().
		Str("session_id", session.ID).
		Str("role", string(user.Role)).
		Bool("remember", remember).
		Msg("session established")

	return session, signed, nil
}

// Current resolves a session ID. When the stored entry lacks a cached user it
// revalidates the token against /users/me. An unauthenticated outcome is the
// expected failure path here and is reported as (nil, nil), never an error.
func (s *Sessions) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if session.User != nil {
		return session, nil
	}

	user, err := s.upstream.CurrentUser(ctx, session.Token)
	if err != nil {
		s.log.Debug().Err(err).Str("session_id", sessionID).Msg("session revalidation failed")
		_ = s.Destroy(ctx, sessionID)
		return nil, nil
	}

	session.User = user
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	if s.renewer != nil {
		s.renewer.Track(sessionID)
	}
	return session, nil
}

// Destroy tears the session down: renewal task stopped first, then the token
// entry removed. Calling it for an absent session is a no-op.
func (s *Sessions) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if s.renewer != nil {
		s.renewer.Release(sessionID)
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sessionID).Msg("session destroyed")
	return nil
}

// TTLFor returns the lifetime of a session's transport credential by tier.
func (s *Sessions) TTLFor(remember bool) time.Duration {
	if remember {
		return s.rememberTTL
	}
	return s.ttl
}

func (s *Sessions) signTransport(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":      session.ID,
		"role":     string(session.User.Role),
		"remember": session.Remember,
		"exp":      time.Now().Add(s.TTLFor(session.Remember)).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}
