package ohlcv

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/avrail/solwatch/internal/marketdata"
)

// DefaultHotCacheMaxTokens is the default LRU bound (§4.7 Tier 1).
const DefaultHotCacheMaxTokens = 100

// DefaultHotCacheRetention is the default expiry window for hot entries.
const DefaultHotCacheRetention = 24 * time.Hour

// CacheKey identifies one candle series. Pool is optional: an empty
// string means "no specific pool", per §4.7.
type CacheKey struct {
	Mint      string
	Pool      string
	Timeframe marketdata.Timeframe
}

type cacheEntry struct {
	candles    []marketdata.Candle
	createdAt  time.Time
	lastAccess time.Time
}

// HotCache is the Tier 1 in-memory candle cache: an LRU map bounded at
// maxTokens entries, each expiring after retention (§4.7). Eviction and
// expiry both run under the same exclusive guard; no I/O ever happens
// while it is held (§5).
type HotCache struct {
	mu        sync.Mutex
	lru       *lru.Cache[CacheKey, *cacheEntry]
	retention time.Duration

	hits   uint64
	misses uint64
}

// NewHotCache builds a HotCache bounded at maxTokens entries.
func NewHotCache(maxTokens int, retention time.Duration) *HotCache {
	if maxTokens <= 0 {
		maxTokens = DefaultHotCacheMaxTokens
	}
	if retention <= 0 {
		retention = DefaultHotCacheRetention
	}
	cache, _ := lru.New[CacheKey, *cacheEntry](maxTokens)
	return &HotCache{lru: cache, retention: retention}
}

// Get returns the cached candle sequence for key, or nil if absent or
// expired. An expired entry is evicted as a side effect.
func (h *HotCache) Get(key CacheKey) ([]marketdata.Candle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.lru.Get(key)
	if !ok {
		h.misses++
		return nil, false
	}
	if time.Since(e.createdAt) > h.retention {
		h.lru.Remove(key)
		h.misses++
		return nil, false
	}
	e.lastAccess = time.Now()
	h.hits++
	return e.candles, true
}

// Put stores candles for key, overwriting any prior series (§5: "put
// after put for the same key is last-writer-wins"). Candles must already
// be in ascending timestamp order; Put does not sort them.
func (h *HotCache) Put(key CacheKey, candles []marketdata.Candle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	h.lru.Add(key, &cacheEntry{candles: candles, createdAt: now, lastAccess: now})
}

// Invalidate drops entries matching mint and, if non-empty, pool and
// timeframe.
func (h *HotCache) Invalidate(mint, pool string, timeframe marketdata.Timeframe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range h.lru.Keys() {
		if key.Mint != mint {
			continue
		}
		if pool != "" && key.Pool != pool {
			continue
		}
		if timeframe != "" && key.Timeframe != timeframe {
			continue
		}
		h.lru.Remove(key)
	}
}

// Clear drops every entry.
func (h *HotCache) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lru.Purge()
}

// CleanupExpired removes every entry older than retention and returns the
// count removed.
func (h *HotCache) CleanupExpired() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	for _, key := range h.lru.Keys() {
		e, ok := h.lru.Peek(key)
		if !ok {
			continue
		}
		if time.Since(e.createdAt) > h.retention {
			h.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Stats reports hit/miss counters and the hit rate.
type Stats struct {
	HitCount  uint64
	MissCount uint64
	HitRate   float64
	Entries   int
}

// Stats returns the current cache statistics.
func (h *HotCache) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := h.hits + h.misses
	rate := 0.0
	if total > 0 {
		rate = float64(h.hits) / float64(total)
	}
	return Stats{
		HitCount:  h.hits,
		MissCount: h.misses,
		HitRate:   rate,
		Entries:   h.lru.Len(),
	}
}
