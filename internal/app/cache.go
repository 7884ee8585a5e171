package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "svoz:lookup"

// Cache holds encoded lookup responses. It is nil when caching is disabled.
var Cache *ResultCache

// ResultCache stores encoded lookup responses in Redis. Keys include the
// ruleset fingerprint and the evaluation date, so a reload or a new day never
// serves stale dates.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultCache wraps an existing Redis client.
func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// InitCache connects to Redis when an address is configured.
func InitCache(ctx context.Context) error {
	if Settings.RedisAddr == "" {
		Cache = nil
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: Settings.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", Settings.RedisAddr, err)
	}

	Cache = NewResultCache(rdb, Settings.CacheTTL)
	log.Printf("✅ Lookup cache enabled (redis %s, ttl %s)", Settings.RedisAddr, Settings.CacheTTL)
	return nil
}

// LookupKey builds the cache key of a query evaluated on date against the
// ruleset with the given fingerprint.
func LookupKey(fingerprint, date, query string) string {
	return fmt.Sprintf("%s:%s:%s:%s", cacheKeyPrefix, fingerprint, date, query)
}

// Get returns the cached value and whether it was found.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key for the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, key, value, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *ResultCache) Close() error {
	return c.rdb.Close()
}
