package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	c := New[string](ttl)
	c.TimeNow = clock.Now
	return c, clock
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, found := c.Get("k")
	assert.False(t, found)

	c.Set("k", "v")
	v, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestCacheExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("k", "v")

	clock.now = clock.now.Add(time.Minute)
	v, found := c.Get("k")
	assert.True(t, found, "entry is still valid at exactly TTL")
	assert.Equal(t, "v", v)

	clock.now = clock.now.Add(time.Second)
	_, found = c.Get("k")
	assert.False(t, found)

	// Expired entry was evicted by the read.
	assert.Equal(t, Info{Size: 0, Keys: []string{}}, c.Info())
}

func TestCacheExpiryRealClock(t *testing.T) {
	c := New[int](20 * time.Millisecond)

	c.Set("k", 1)
	v, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, 1, v)

	time.Sleep(40 * time.Millisecond)
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestCacheOverwriteRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("k", "old")
	clock.now = clock.now.Add(50 * time.Second)
	c.Set("k", "new")
	clock.now = clock.now.Add(50 * time.Second)

	v, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, "new", v)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("b", "2")
	c.Set("a", "1")
	c.Set("c", "3")
	assert.Equal(t, Info{Size: 3, Keys: []string{"a", "b", "c"}}, c.Info())

	c.Delete("b")
	assert.Equal(t, Info{Size: 2, Keys: []string{"a", "c"}}, c.Info())

	c.Clear()
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, c.Info().Size)
}

func TestCacheInfoIncludesUnreadExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("k", "v")
	clock.now = clock.now.Add(time.Hour)

	assert.Equal(t, []string{"k"}, c.Info().Keys)
}
