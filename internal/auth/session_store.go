package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realestate/internal/cache"
	"realestate/internal/model"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when a session id has no stored record.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-held record of a login.
type Session struct {
	UserID      uint       `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"role"`
}

// SessionStore persists session records by id.
type SessionStore interface {
	Save(ctx context.Context, id string, session Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL.
type RedisSessionStore struct {
	cache *cache.Client
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new session store.
func NewRedisSessionStore(cache *cache.Client) *RedisSessionStore {
	return &RedisSessionStore{cache: cache}
}

// Save stores a session record. Unlike cache writes, failures are reported.
func (s *RedisSessionStore) Save(ctx context.Context, id string, session Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Put(ctx, sessionKeyPrefix+id, payload, ttl)
}

// Load retrieves a session record.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil || data == nil {
		return Session{}, ErrSessionNotFound
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.UserID == 0 {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session record.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}
