package cache

import (
	"sort"
	"sync"
	"time"
)

// Caches values in memory for a fixed TTL.
//
// Expired entries are evicted lazily, when read. There is no
// background sweep and no capacity bound.
type Cache[V any] struct {
	TTL     time.Duration
	TimeNow func() time.Time

	mutex   sync.Mutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value      V
	expiration time.Time
}

// Snapshot of what's currently stored, expired or not.
type Info struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		TTL:     ttl,
		TimeNow: time.Now,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Returns the value for key, unless missing or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.TimeNow().After(entry.expiration) {
		delete(c.entries, key)
		return zero, false
	}

	return entry.value, true
}

// Stores value under key, replacing any previous entry. It expires TTL
// from now.
func (c *Cache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry[V]{
		value:      value,
		expiration: c.TimeNow().Add(c.TTL),
	}
}

func (c *Cache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

func (c *Cache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry[V])
}

func (c *Cache[V]) Info() Info {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Info{
		Size: len(keys),
		Keys: keys,
	}
}
