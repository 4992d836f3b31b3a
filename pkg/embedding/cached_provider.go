package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider wraps another EmbeddingProvider with an in-memory TTL cache.
// Reformulated queries repeat often within a study session, so a hit saves a
// full round trip to the embeddings API.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *cache.Cache
	model string
}

var _ EmbeddingProvider = &CachedProvider{}

func NewCachedProvider(inner EmbeddingProvider, model string) *CachedProvider {
	// Default expiration 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CachedProvider{
		inner: inner,
		cache: c,
		model: model,
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	key := p.cacheKey(text)
	if v, found := p.cache.Get(key); found {
		return v.([]float32), nil
	}

	values, err := p.inner.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, values, cache.DefaultExpiration)
	return values, nil
}

func (p *CachedProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%x", p.model, sum)
}
