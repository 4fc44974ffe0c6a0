package suggestion

import (
	"sync"
	"time"

	"cantina/internal/models"
)

// AdjustmentCache is an explicit, caller-owned cache for per-recipe
// adjustment records. Entries expire after a TTL and the cache never grows
// beyond its size bound (oldest entry evicted first). A nil cache is valid
// and disables caching.
type AdjustmentCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	adjustment models.SuggestionAdjustment
	storedAt   time.Time
}

// NewAdjustmentCache creates a cache with the given TTL and size bound.
func NewAdjustmentCache(ttl time.Duration, maxSize int) *AdjustmentCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &AdjustmentCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached adjustment for a recipe, if present and fresh.
func (c *AdjustmentCache) Get(recipeID string) (models.SuggestionAdjustment, bool) {
	if c == nil {
		return models.SuggestionAdjustment{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[recipeID]
	if !ok {
		return models.SuggestionAdjustment{}, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, recipeID)
		return models.SuggestionAdjustment{}, false
	}
	return entry.adjustment, true
}

// Set stores an adjustment, evicting the oldest entry when the cache is full.
func (c *AdjustmentCache) Set(recipeID string, adj models.SuggestionAdjustment) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[recipeID]; !exists && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[recipeID] = cacheEntry{adjustment: adj, storedAt: c.now()}
}

// Invalidate drops a recipe's cached adjustment, if any.
func (c *AdjustmentCache) Invalidate(recipeID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, recipeID)
}

// Len returns the number of cached entries.
func (c *AdjustmentCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
