package dates

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the parse cache when no size is configured.
const DefaultCacheSize = 1024

// Cache is a bounded, concurrency-safe LRU of parsed dates keyed by the
// literal input string. Eviction order only affects performance.
type Cache struct {
	store *lru.Cache[string, time.Time]
}

// NewCache creates a cache holding at most size entries.
// A non-positive size falls back to DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes
	store, _ := lru.New[string, time.Time](size)
	return &Cache{store: store}
}

// Get retrieves a parsed date from cache
func (c *Cache) Get(key string) (time.Time, bool) {
	return c.store.Get(key)
}

// Set stores a parsed date in cache
func (c *Cache) Set(key string, value time.Time) {
	c.store.Add(key, value)
}

// Clear removes all entries from cache
func (c *Cache) Clear() {
	c.store.Purge()
}

// Size returns the number of cached entries
func (c *Cache) Size() int {
	return c.store.Len()
}
