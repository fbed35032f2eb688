package leaderboard

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL cache bounded by entry count. When full, the oldest
// inserted entry is evicted (FIFO, not LRU). Expired entries are dropped
// lazily on lookup. Safe for concurrent use.
//
// Every Clear bumps a generation. A value computed from reads taken before
// a Clear must be stored with SetIfGen so it cannot outlive the clear.
type Cache[V any] struct {
	mu         sync.Mutex
	gen        uint64
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry[V]
	order      []string
	now        func() time.Time
}

func NewCache[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry[V]),
		now:        time.Now,
	}
}

// Get returns the cached value for key if it is younger than the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.remove(key)
		return zero, false
	}
	return e.value, true
}

// Gen returns the current generation.
func (c *Cache[V]) Gen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set stores value under key. Re-setting a key counts as a fresh insert.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// SetIfGen stores value only if no Clear happened since gen was read.
// It reports whether the value was stored.
func (c *Cache[V]) SetIfGen(key string, value V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.set(key, value)
	return true
}

// set expects c.mu held.
func (c *Cache[V]) set(key string, value V) {
	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.now()}
	c.order = append(c.order, key)

	for len(c.order) > c.maxEntries {
		c.remove(c.order[0])
	}
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
	c.order = nil
	c.gen++
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove expects c.mu held.
func (c *Cache[V]) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
