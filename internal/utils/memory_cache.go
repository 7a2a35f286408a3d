package utils

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process key/value store behind the onboarding
// cache and the MSP drafts. Entries expire after the default TTL.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, cleanupInterval)}
}

func (m *MemoryCache) Get(key string) (any, bool) {
	return m.c.Get(key)
}

func (m *MemoryCache) Set(key string, value any) {
	m.c.SetDefault(key, value)
}

func (m *MemoryCache) Clear(key string) {
	m.c.Delete(key)
}

// ClearPrefix drops every key starting with prefix.
func (m *MemoryCache) ClearPrefix(prefix string) int {
	n := 0
	for k := range m.c.Items() {
		if strings.HasPrefix(k, prefix) {
			m.c.Delete(k)
			n++
		}
	}
	return n
}

// Sweep removes expired entries and reports how many remain.
func (m *MemoryCache) Sweep() int {
	m.c.DeleteExpired()
	return m.c.ItemCount()
}
