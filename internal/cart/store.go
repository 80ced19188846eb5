package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brightcart/storefront-backend/pkg/logger"
	pkgredis "github.com/brightcart/storefront-backend/pkg/redis"
)

// schemaVersion tags the persisted cart layout. Payloads carrying any other
// version reset to an empty cart on load.
const schemaVersion = 1

// Store persists full cart state keyed by session identity.
type Store interface {
	// Load restores the last persisted cart. Missing or unparseable state
	// degrades to an empty cart and is never surfaced as an error.
	Load(ctx context.Context, sessionID string) (Snapshot, error)
	// Save durably writes the full cart state.
	Save(ctx context.Context, sessionID string, snapshot Snapshot) error
	// Delete drops the persisted cart entirely.
	Delete(ctx context.Context, sessionID string) error
}

type persistedCart struct {
	Version int    `json:"v"`
	Items   []Line `json:"items"`
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps session carts in Redis with a rolling TTL.
type RedisStore struct {
	kv   kvStore
	ttl  time.Duration
	logg *logger.Logger
}

// NewRedisStore builds the Redis-backed cart store.
func NewRedisStore(kv kvStore, ttl time.Duration, logg *logger.Logger) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{kv: kv, ttl: ttl, logg: logg}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) {
			s.warn(ctx, sessionID, "cart.load_failed", err)
		}
		return Snapshot{}, nil
	}

	var payload persistedCart
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.warn(ctx, sessionID, "cart.corrupt_state", err)
		return Snapshot{}, nil
	}
	if payload.Version != schemaVersion {
		s.warn(ctx, sessionID, "cart.unknown_schema_version", nil)
		return Snapshot{}, nil
	}

	lines := make(Snapshot, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Qty <= 0 {
			continue
		}
		lines = append(lines, item)
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, snapshot Snapshot) error {
	payload := persistedCart{Version: schemaVersion, Items: snapshot}
	if payload.Items == nil {
		payload.Items = []Line{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Set(ctx, s.kv.CartKey(sessionID), string(encoded), s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(sessionID))
}

func (s *RedisStore) warn(ctx context.Context, sessionID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
	}
	s.logg.Warn(ctx, msg)
}
