package cache

import (
	"context"
	"time"

	"news_feed/internal/domain"
)

// MemoryFeedCache keeps normalized feeds in process memory.
type MemoryFeedCache struct {
	cache *Cache[*domain.Feed]
}

func NewMemoryFeedCache(ttl time.Duration, opts ...Option) *MemoryFeedCache {
	return &MemoryFeedCache{cache: New[*domain.Feed](ttl, opts...)}
}

func (m *MemoryFeedCache) Get(_ context.Context, key any) (*domain.Feed, bool, error) {
	feed, ok := m.cache.Get(key)
	return feed, ok, nil
}

func (m *MemoryFeedCache) Set(_ context.Context, key any, feed *domain.Feed) error {
	m.cache.Set(key, feed)
	return nil
}
