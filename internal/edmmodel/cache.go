package edmmodel

import (
	"net/url"
	"strings"
	"sync"
)

// Cache is the process-wide EDM cache keyed by metadata URL without
// fragment (spec.md §3 "EDM cache", §4.1 "Cache"). Concurrent access is
// guarded by a single mutex, matching the "read-mostly, writers
// overwrite" discipline in spec.md §5.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Edmx
}

// NewCache constructs an empty EDM cache. Callers typically hold one
// process-wide instance and pass it by reference (spec.md §9: "model as
// explicit process-wide registries passed by reference... rather than
// true globals").
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Edmx)}
}

func normalizeCacheKey(metadataURL string) string {
	if u, err := url.Parse(metadataURL); err == nil {
		u.Fragment = ""
		return u.String()
	}
	if idx := strings.IndexByte(metadataURL, '#'); idx >= 0 {
		return metadataURL[:idx]
	}
	return metadataURL
}

// Get returns the cached Edmx for a metadata URL, if present.
func (c *Cache) Get(metadataURL string) (*Edmx, bool) {
	key := normalizeCacheKey(metadataURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	edmx, ok := c.entries[key]
	return edmx, ok
}

// Set inserts or overwrites the cached Edmx for a metadata URL.
func (c *Cache) Set(metadataURL string, edmx *Edmx) {
	key := normalizeCacheKey(metadataURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = edmx
}

// Evict removes a cached entry, if any (explicit eviction per spec.md §3
// lifecycle summary).
func (c *Cache) Evict(metadataURL string) {
	key := normalizeCacheKey(metadataURL)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
