package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// VersionKey holds the process-wide cache version token.
const VersionKey = "cache_version"

// Cache is the promotion cache on redis. Values are JSON strings; the version
// token lives in a single key shared by every engine instance.
type Cache struct {
	rdb    *redis.Client
	prefix string
}

func NewCache(rdb *redis.Client, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, c.key(key), b, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, c.key(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Version reads the token, seeding it with SETNX when absent so concurrent first
// readers agree on one value.
func (c *Cache) Version(ctx context.Context) (string, error) {
	v, err := c.rdb.Get(ctx, c.key(VersionKey)).Result()
	if err == nil && v != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}

	if err := c.rdb.SetNX(ctx, c.key(VersionKey), newToken(), 0).Err(); err != nil {
		return "", fmt.Errorf("failed to seed cache version: %w", err)
	}
	v, err = c.rdb.Get(ctx, c.key(VersionKey)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	return v, nil
}

func (c *Cache) Bump(ctx context.Context) (string, error) {
	token := newToken()
	if err := c.rdb.Set(ctx, c.key(VersionKey), token, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to bump cache version: %w", err)
	}
	return token, nil
}
