// Package cache wraps redis behind a fail-safe byte cache: connectivity
// problems degrade to misses, so the request path never depends on redis
// being up.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a redis-backed byte cache. A nil Client is valid and behaves
// as an always-empty cache, which keeps redis optional in tests.
type Client struct {
	rdb *redis.Client
}

// New connects to redis at addr.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns the cached value and whether it was present. Missing keys
// and redis errors both read as absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores value under key for ttl. Write failures are dropped; the
// entry just never lands.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Set(ctx, key, value, ttl)
}

// Delete removes key. Failures are dropped; a stale entry ages out via
// its ttl.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, key)
}
