package render

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alnah/go-render/internal/cache"
)

// CacheStore is the key-value store used for render and template caching.
// A TTL of CacheForever never expires.
type CacheStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheForever is the TTL of entries that never expire.
const CacheForever = cache.Forever

var _ cache.Store = CacheStore(nil)

// NewMemoryCache returns an in-process store.
func NewMemoryCache() CacheStore {
	return cache.NewMemory()
}

// NewRedisCache returns a store over an existing Redis client. Keys are
// prefixed with prefix, or "go-render:" when empty.
func NewRedisCache(client redis.Cmdable, prefix string) CacheStore {
	return cache.NewRedis(client, prefix)
}

// DialRedisCache connects to the Redis server at redisURL and checks it
// with a PING. The returned close function releases the connection pool.
func DialRedisCache(ctx context.Context, redisURL, prefix string) (CacheStore, func() error, error) {
	store, client, err := cache.DialRedis(ctx, cache.RedisOptions{URL: redisURL, Prefix: prefix})
	if err != nil {
		return nil, nil, err
	}
	return store, client.Close, nil
}
