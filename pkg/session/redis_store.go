package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces history records in a shared Redis instance.
const defaultKeyPrefix = "chat_history:"

// RedisStore persists history records in Redis. A TTL, when configured,
// is applied on every save so active conversations stay alive and idle
// ones expire on their own.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*History, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return &History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history for session %s: %w", sessionID, err)
	}
	return decodeHistory([]byte(val))
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, history *History) error {
	val, err := encodeHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history for session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save history for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete history for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}
