package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort byte cache. Misses and backend failures are both
// reported as "not found"; callers always recompute on a miss, so a broken
// cache degrades to direct reads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, keys ...string)
}

// NewRedisClient creates a Redis client for the given address.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Cache backed by Redis with a fixed TTL per entry.
func NewRedis(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) {
	c.client.Set(ctx, key, value, c.ttl)
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

type noop struct{}

// NewNoop returns a Cache that stores nothing, used when caching is disabled.
func NewNoop() Cache {
	return noop{}
}

func (noop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (noop) Set(ctx context.Context, key string, value []byte)  {}
func (noop) Delete(ctx context.Context, keys ...string)         {}
