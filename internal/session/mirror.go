// internal/session/mirror.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-intent/internal/common/config"
)

// RedisMirror write-throughs session state to Redis as JSON with the store
// TTL as key expiry. It exists for inspection and warm handover only; reads
// never come back through it.
type RedisMirror struct {
	client *redis.Client
	prefix string
}

// NewRedisMirror connects to Redis and verifies the connection.
func NewRedisMirror(ctx context.Context, cfg config.SessionRedisConfig) (*RedisMirror, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisMirror{client: rdb, prefix: cfg.KeyPrefix}, nil
}

// NewRedisMirrorWithClient wraps an existing client, used by tests.
func NewRedisMirrorWithClient(client *redis.Client, prefix string) *RedisMirror {
	return &RedisMirror{client: client, prefix: prefix}
}

func (m *RedisMirror) key(sessionID string) string {
	return m.prefix + sessionID
}

func (m *RedisMirror) Save(state *State, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.SessionID, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.client.Set(ctx, m.key(state.SessionID), data, ttl).Err()
}

func (m *RedisMirror) Delete(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.client.Del(ctx, m.key(sessionID)).Err()
}

// Close releases the Redis connection.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}
