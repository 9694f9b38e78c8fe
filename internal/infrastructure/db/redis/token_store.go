package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
)

const pingTimeout = 5 * time.Second

// Connect dials the Redis instance backing the session state (token store and
// submit guard) and validates connectivity with a ping before anything is
// allowed to depend on it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// TokenStore persists the upstream bearer token (and the cached user) per
// session, in two TTL tiers: a short session-scoped tier and a durable
// "remember me" tier. Key format: session:<session_id>
type TokenStore struct {
	client      *redis.Client
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client, ttl, rememberTTL time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl, rememberTTL: rememberTTL}
}

type record struct {
	Token    string       `json:"token"`
	Remember bool         `json:"remember"`
	User     *domain.User `json:"user,omitempty"`
}

// Put writes the session under its TTL tier, replacing any previous record.
func (s *TokenStore) Put(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(record{
		Token:    session.Token,
		Remember: session.Remember,
		User:     session.User,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := s.ttl
	if session.Remember {
		ttl = s.rememberTTL
	}
	return s.client.Set(ctx, s.key(session.ID), payload, ttl).Err()
}

// Get loads a session by ID. A missing key maps to domain.ErrSessionNotFound.
func (s *TokenStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &domain.Session{
		ID:       sessionID,
		Token:    rec.Token,
		Remember: rec.Remember,
		User:     rec.User,
	}, nil
}

// Replace swaps the stored token without extending the entry's lifetime.
// The SET XX guard means a renewal racing a logout cannot recreate the key.
func (s *TokenStore) Replace(ctx context.Context, sessionID, token string) error {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(record{
		Token:    token,
		Remember: current.Remember,
		User:     current.User,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	set, err := s.client.SetXX(ctx, s.key(sessionID), payload, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("replace token: %w", err)
	}
	if !set {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session. Deleting an absent key is a no-op.
func (s *TokenStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *TokenStore) key(sessionID string) string {
	return "session:" + sessionID
}
