package memcache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired entries are swept, including the
// ones orphaned by a version bump that are never read again.
const DefaultCleanupInterval = time.Minute

// Cache is an in-process promotion cache. Values are stored JSON-encoded so a hit
// hands back a fresh copy, the same as the redis cache does.
type Cache struct {
	items *gocache.Cache

	mu      sync.RWMutex
	version string
}

func New() *Cache {
	return NewWithCleanup(DefaultCleanupInterval)
}

// NewWithCleanup sweeps expired entries every interval.
func NewWithCleanup(interval time.Duration) *Cache {
	return &Cache{
		items: gocache.New(gocache.NoExpiration, interval),
	}
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, b, ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Delete(k)
	}
	return nil
}

// Version returns the current token, creating it on first use.
func (c *Cache) Version(_ context.Context) (string, error) {
	c.mu.RLock()
	v := c.version
	c.mu.RUnlock()
	if v != "" {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version == "" {
		c.version = newToken()
	}
	return c.version, nil
}

// Bump replaces the token, orphaning every key issued under the old one. The
// orphans are dropped by the cleanup sweep once their TTL passes.
func (c *Cache) Bump(_ context.Context) (string, error) {
	token := newToken()
	c.mu.Lock()
	c.version = token
	c.mu.Unlock()
	return token, nil
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
