package geocode

import (
	"sync"

	"github.com/couchcryptid/geodata-client/internal/domain"
)

// SessionCache maps coordinate keys to resolved place names for the lifetime
// of a browsing session. Entries are never evicted or invalidated.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{entries: make(map[string]string)}
}

// Get returns the cached name for a pair.
func (c *SessionCache) Get(p domain.CoordinatePair) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.entries[p.Key()]
	return name, ok
}

// Put stores a resolved name. Two lookups racing on a first-time key both
// write the same value; the later write wins.
func (c *SessionCache) Put(p domain.CoordinatePair, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.Key()] = name
}

// Len reports the number of cached pairs.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
