package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// cacheKeyPrefix namespaces cached reports away from idempotency keys and events.
const cacheKeyPrefix = "splitter:cache:"

// scanBatch is the COUNT hint passed to SCAN when dropping a trip's reports.
const scanBatch = 100

// Cache implements usecase.Cache and usecase.PrefixInvalidator using Redis.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: cacheKeyPrefix,
	}
}

// Get retrieves a value by key. Absent keys return usecase.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	return val, err
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// DeletePrefix removes every key starting with prefix and reports how many
// were dropped. Reports for one trip share a prefix, so this clears the
// revisions a newer report has superseded.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, c.prefix+escapeGlob(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := c.client.Del(ctx, keys...).Result()
	return int(n), err
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes MATCH metacharacters so trip ids are matched literally.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
