package datasource

import (
	"strings"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/bet-outlier/internal/metrics"
)

// ResponseCache provides in-memory caching of provider responses
type ResponseCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResponseCache creates a new response cache
func NewResponseCache(ttl time.Duration, maxSize int) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// CacheKey builds the key of a provider lookup
func CacheKey(provider, query string) string {
	return provider + ":" + strings.ToLower(strings.TrimSpace(query))
}

// Get retrieves a cached value
func (rc *ResponseCache) Get(key string) (interface{}, bool) {
	if rc == nil {
		return nil, false
	}
	value, found := rc.cache.Get(key)
	if found {
		rc.hitCount.Add(1)
	} else {
		rc.missCount.Add(1)
	}
	rc.updateMetrics()
	return value, found
}

// Set stores a value in cache
func (rc *ResponseCache) Set(key string, value interface{}) {
	if rc == nil {
		return
	}
	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}
	rc.cache.Set(key, value, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	rc.cache.Flush()
	rc.hitCount.Store(0)
	rc.missCount.Store(0)
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount.Load()
	misses = rc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func (rc *ResponseCache) updateMetrics() {
	_, _, ratio := rc.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}
