package menu

import (
	"context"
	"errors"
	"sync"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (*Menu, error)
	Set(ctx context.Context, key string, menu *Menu) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

type memoryEntry struct {
	menu      *Menu
	expiresAt time.Time
}

// MemoryCache is the default process-local cache. A ttl of zero or less
// disables it.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Menu, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}
	return e.menu, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, menu *Menu) error {
	if c.ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{menu: menu, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
