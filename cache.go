package odatagen

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/syssam/odatagen/compiler/load"
)

// Cache stores encoded schema snapshots between runs.
// Users may implement it with their preferred store (e.g., Redis, disk).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}

// CacheKey identifies the metadata document of one service.
type CacheKey struct {
	Service string
	URL     string
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return "metadata:" + k.Service + ":" + k.URL
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now, entries: make(map[string]cacheEntry)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, nil
	}
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// CachedSource serves the schema of src from c while the entry is fresh.
// Entries are stored as schema snapshots. A cache entry that fails to
// decode is dropped and src is loaded again.
func CachedSource(src load.Source, c Cache, key CacheKey, ttl time.Duration) load.Source {
	return load.SourceFunc(func(ctx context.Context) (*load.Schema, error) {
		k := key.String()
		if b, err := c.Get(ctx, k); err != nil {
			return nil, err
		} else if b != nil {
			if s, err := load.ReadSnapshot(bytes.NewReader(b)); err == nil {
				return s, nil
			}
			if err := c.Delete(ctx, k); err != nil {
				return nil, err
			}
		}
		s, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := load.WriteSnapshot(&buf, s); err != nil {
			return nil, err
		}
		if err := c.Set(ctx, k, buf.Bytes(), ttl); err != nil {
			return nil, err
		}
		return s, nil
	})
}
