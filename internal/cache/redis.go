package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"news_feed/internal/domain"
)

// RedisFeedCache shares normalized feeds between processes. Redis expires
// the keys itself, so a stale entry is never returned.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewRedisFeedCache(client *redis.Client, ttl time.Duration, prefix string) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl, prefix: prefix}
}

func (r *RedisFeedCache) Get(ctx context.Context, key any) (*domain.Feed, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get feed: %w", err)
	}

	var feed domain.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, false, fmt.Errorf("decode feed: %w", err)
	}

	return &feed, true, nil
}

func (r *RedisFeedCache) Set(ctx context.Context, key any, feed *domain.Feed) error {
	data, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+Key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set feed: %w", err)
	}
	return nil
}

func (r *RedisFeedCache) Close() error {
	return r.client.Close()
}
