// Package memory provides an in-process TokenStore used in development when
// no Redis address is configured, and by tests. Semantics mirror the Redis
// store, including the two TTL tiers and the replace-only-if-present guard.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

type TokenStore struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func NewTokenStore(ttl, rememberTTL time.Duration) *TokenStore {
	return &TokenStore{
		entries:     make(map[string]*entry),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

func (s *TokenStore) Put(_ context.Context, session *domain.Session) error {
	ttl := s.ttl
	if session.Remember {
		ttl = s.rememberTTL
	}

	clone := *session
	if session.User != nil {
		user := *session.User
		clone.User = &user
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.ID] = &entry{session: clone, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *TokenStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	clone := e.session
	if e.session.User != nil {
		user := *e.session.User
		clone.User = &user
	}
	return &clone, nil
}

func (s *TokenStore) Replace(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return domain.ErrSessionNotFound
	}
	e.session.Token = token
	return nil
}

func (s *TokenStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
