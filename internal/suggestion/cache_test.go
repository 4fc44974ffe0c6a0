package suggestion

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cantina/internal/models"
)

func TestAdjustmentCacheTTL(t *testing.T) {
	current := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	cache := NewAdjustmentCache(time.Minute, 10)
	cache.now = func() time.Time { return current }

	cache.Set("r1", models.SuggestionAdjustment{RuptureMultiplier: 2, WasteMultiplier: 1})

	adj, ok := cache.Get("r1")
	assert.True(t, ok)
	assert.InDelta(t, 2.0, adj.RuptureMultiplier, 1e-9)

	current = current.Add(2 * time.Minute)
	_, ok = cache.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestAdjustmentCacheSizeBound(t *testing.T) {
	current := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	cache := NewAdjustmentCache(time.Hour, 3)
	cache.now = func() time.Time { return current }

	for i := 0; i < 4; i++ {
		cache.Set(fmt.Sprintf("r%d", i), models.DefaultAdjustment())
		current = current.Add(time.Second)
	}

	assert.Equal(t, 3, cache.Len())
	// The oldest entry was evicted to make room.
	_, ok := cache.Get("r0")
	assert.False(t, ok)
	_, ok = cache.Get("r3")
	assert.True(t, ok)
}

func TestAdjustmentCacheNilIsSafe(t *testing.T) {
	var cache *AdjustmentCache

	cache.Set("r1", models.DefaultAdjustment())
	_, ok := cache.Get("r1")
	assert.False(t, ok)
	cache.Invalidate("r1")
	assert.Equal(t, 0, cache.Len())
}
