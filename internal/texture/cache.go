package texture

import "sync"

// SizeCache memoizes probed texture sizes. Safe for concurrent batch
// workers sharing one cache.
type SizeCache struct {
	mu    sync.RWMutex
	items map[string]sizeEntry
}

type sizeEntry struct {
	w, h int
	ok   bool
}

// NewSizeCache returns an empty cache.
func NewSizeCache() *SizeCache {
	return &SizeCache{items: make(map[string]sizeEntry)}
}

// Probe returns the cached size for path, probing the file on first use.
// A failed probe is cached as a miss.
func (c *SizeCache) Probe(path string) (w, h int, ok bool) {
	c.mu.RLock()
	if e, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return e.w, e.h, e.ok
	}
	c.mu.RUnlock()

	pw, ph, err := ProbeSize(path)
	e := sizeEntry{w: pw, h: ph, ok: err == nil && pw > 0 && ph > 0}

	c.mu.Lock()
	c.items[path] = e
	c.mu.Unlock()
	return e.w, e.h, e.ok
}
