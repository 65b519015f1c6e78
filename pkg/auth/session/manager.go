package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
	redisclient "github.com/skburgers/backend/pkg/redis"
)

// ErrSessionNotFound signals a revoked or expired session identifier.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Record is the session payload stored in Redis for the token lifetime.
type Record struct {
	Role     enums.ActorRole `json:"role"`
	DriverID *uuid.UUID      `json:"driver_id,omitempty"`
	IssuedAt time.Time       `json:"issued_at"`
}

// Manager handles creation, lookup, and revocation of staff/driver sessions.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by auth middleware.
type Checker interface {
	Lookup(ctx context.Context, sessionID string) (*Record, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.AccessConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.SessionTTL,
	}, nil
}

// Create stores a new session record and returns its identifier (the JWT jti).
func (m *Manager) Create(ctx context.Context, record Record) (string, error) {
	if !record.Role.IsValid() {
		return "", fmt.Errorf("invalid actor role %q", record.Role)
	}
	if record.IssuedAt.IsZero() {
		record.IssuedAt = time.Now().UTC()
	}

	sessionID := NewSessionID()
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(raw), m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// Lookup returns the session record, or ErrSessionNotFound when revoked/expired.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Record, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &record, nil
}

// Revoke deletes the session, logging the actor out everywhere the token is used.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// NewSessionID produces a stable identifier used as the JWT jti/Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
