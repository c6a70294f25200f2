// Package httpcache implements the process-wide response cache of
// spec.md §4.2/§8: entries keyed by httpx.Request.ToCacheKey(), expiring
// on a TTL, swept in the background so a long-running reader doesn't
// leak memory across thousands of page fetches.
//
// Grounded on the teacher's internal/observability.DBTimeAccumulator for
// the mutex-guarded-struct-plus-context shape; the sweeper goroutine
// follows the same "single mutex, cooperative shutdown channel" pattern
// the teacher uses for its async job registry (internal/async, not
// carried forward — see DESIGN.md).
package httpcache

import (
	"sync"
	"time"

	"github.com/erpl-go/erpl/internal/httpx"
)

// Entry is one cached response with its expiry.
type Entry struct {
	Response  *httpx.Response
	ExpiresAt time.Time
}

// HttpCache is a process-wide, TTL-based response cache. The zero value
// is not usable; construct with New.
type HttpCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	hits   int64
	misses int64
}

// New creates an HttpCache with the given TTL and starts its background
// sweeper, running every sweepInterval until Close is called.
func New(ttl time.Duration, sweepInterval time.Duration) *HttpCache {
	c := &HttpCache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

// Get returns the cached response for key, if present and unexpired.
func (c *HttpCache) Get(key string) (*httpx.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.ExpiresAt) {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.Response, true
}

// Put stores resp under key with the cache's configured TTL.
func (c *HttpCache) Put(key string, resp *httpx.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Response: resp, ExpiresAt: time.Now().Add(c.ttl)}
}

// Evict removes key unconditionally.
func (c *HttpCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Stats returns cumulative hit/miss counts, for the tracing façade's
// cache-hit-ratio meter.
func (c *HttpCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len reports the current number of live (possibly expired-but-not-yet-
// swept) entries.
func (c *HttpCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweeper and blocks until it exits.
func (c *HttpCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	<-c.doneCh
}

func (c *HttpCache) sweepLoop(interval time.Duration) {
	defer close(c.doneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *HttpCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}
