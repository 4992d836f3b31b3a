package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps history records in process memory. Used for tests and
// single-instance development runs; records share the versioned encoding
// with RedisStore so both drivers accept the same data.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &MemoryStore{
		cache: c,
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*History, error) {
	if x, found := s.cache.Get(sessionID); found {
		return decodeHistory(x.([]byte))
	}
	return &History{}, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, history *History) error {
	val, err := encodeHistory(history)
	if err != nil {
		return err
	}
	s.cache.Set(sessionID, val, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}
