package cache

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fetch loads a value for a key. found=false means a clean not-found, which is
// returned to the caller but never cached, so the next lookup retries the
// network. Errors are likewise never cached.
type Fetch[T any] func(ctx context.Context) (value T, found bool, err error)

// InflightCache is a process-lifetime get-or-fetch cache with request
// coalescing: concurrent lookups for the same key share one in-flight fetch
// instead of issuing duplicate network calls. It provides no cross-session
// consistency guarantee; writers invalidate explicitly.
type InflightCache[T any] struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]T
}

func New[T any]() *InflightCache[T] {
	return &InflightCache[T]{entries: make(map[string]T)}
}

func (c *InflightCache[T]) GetOrFetch(ctx context.Context, key string, fetch Fetch[T]) (T, bool, error) {
	c.mu.RLock()
	if value, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return value, true, nil
	}
	c.mu.RUnlock()

	type result struct {
		value T
		found bool
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, found, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			c.mu.Lock()
			c.entries[key] = value
			c.mu.Unlock()
		}
		return result{value: value, found: found}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	res := v.(result)
	return res.value, res.found, nil
}

// Put seeds an entry directly, used when a write already has the fresh value.
func (c *InflightCache[T]) Put(key string, value T) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

func (c *InflightCache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops every entry whose key starts with prefix; used to
// flush all cached events of one AllergyIntolerance resource after a write.
func (c *InflightCache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
