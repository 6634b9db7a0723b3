package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/metrics"
)

// Cache stores live reports by key.
type Cache interface {
	Get(ctx context.Context, key string) (*Report, bool, error)
	Set(ctx context.Context, key string, r *Report, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server named by a redis:// URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Report, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, r *Report, ttl time.Duration) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

// CachedProvider serves recent live reports from a cache. Cache failures are
// logged and the lookup falls through to the wrapped provider.
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCached(next Provider, cache Cache, ttl time.Duration, log *logrus.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl, log: log}
}

func CacheKey(location string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(location))
}

func (p *CachedProvider) Lookup(ctx context.Context, location string) (*Report, error) {
	key := CacheKey(location)
	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("weather cache read failed")
	}
	if ok {
		metrics.RecordWeatherLookup("cache", "ok")
		cached.Location = location
		return cached, nil
	}

	report, err := p.next.Lookup(ctx, location)
	if err != nil {
		return nil, err
	}
	if !report.Mock {
		if err := p.cache.Set(ctx, key, report, p.ttl); err != nil {
			p.log.WithError(err).WithField("key", key).Warn("weather cache write failed")
		}
	}
	return report, nil
}
