package enrich

import (
	"sync"
	"time"
)

// cacheEntry holds a resolved profile with a timestamp for TTL expiry.
type cacheEntry struct {
	profile   *Profile
	fetchedAt time.Time
}

// cache is a thread-safe in-memory profile cache with TTL expiration.
// Expired entries are cleaned up lazily on get, no background goroutine.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

func (c *cache) get(url string) (*Profile, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(entry.fetchedAt) > c.ttl {
		// Re-check under the write lock: a concurrent set may have
		// replaced the entry with a fresh one.
		c.mu.Lock()
		if current, ok := c.entries[url]; ok && time.Since(current.fetchedAt) > c.ttl {
			delete(c.entries, url)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.profile, true
}

func (c *cache) set(url string, profile *Profile) {
	c.mu.Lock()
	c.entries[url] = &cacheEntry{
		profile:   profile,
		fetchedAt: time.Now(),
	}
	c.mu.Unlock()
}
