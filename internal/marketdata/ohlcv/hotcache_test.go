package ohlcv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrail/solwatch/internal/marketdata"
)

func candleSeries(n int) []marketdata.Candle {
	out := make([]marketdata.Candle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, marketdata.Candle{Timestamp: int64(i * 60), Open: 1, High: 1, Low: 1, Close: 1})
	}
	return out
}

func TestHotCacheGetMiss(t *testing.T) {
	h := NewHotCache(10, time.Hour)
	_, ok := h.Get(CacheKey{Mint: "m1", Timeframe: marketdata.Timeframe1m})
	assert.False(t, ok)
	assert.Equal(t, uint64(1), h.Stats().MissCount)
}

func TestHotCachePutThenGet(t *testing.T) {
	h := NewHotCache(10, time.Hour)
	key := CacheKey{Mint: "m1", Timeframe: marketdata.Timeframe1m}
	h.Put(key, candleSeries(3))

	got, ok := h.Get(key)
	require.True(t, ok)
	assert.Len(t, got, 3)
	assert.Equal(t, uint64(1), h.Stats().HitCount)
}

func TestHotCacheExpiresAfterRetention(t *testing.T) {
	h := NewHotCache(10, time.Millisecond)
	key := CacheKey{Mint: "m1", Timeframe: marketdata.Timeframe1m}
	h.Put(key, candleSeries(1))
	time.Sleep(5 * time.Millisecond)

	_, ok := h.Get(key)
	assert.False(t, ok)
}

func TestHotCacheEvictsLeastRecentlyUsedOnOverflow(t *testing.T) {
	h := NewHotCache(2, time.Hour)
	keyA := CacheKey{Mint: "a", Timeframe: marketdata.Timeframe1m}
	keyB := CacheKey{Mint: "b", Timeframe: marketdata.Timeframe1m}
	keyC := CacheKey{Mint: "c", Timeframe: marketdata.Timeframe1m}

	h.Put(keyA, candleSeries(1))
	h.Put(keyB, candleSeries(1))
	h.Get(keyA) // touch A so B becomes the LRU entry
	h.Put(keyC, candleSeries(1))

	_, okA := h.Get(keyA)
	_, okB := h.Get(keyB)
	_, okC := h.Get(keyC)
	assert.True(t, okA)
	assert.False(t, okB, "B was least-recently-used and should have been evicted")
	assert.True(t, okC)
}

func TestHotCachePutIsLastWriterWins(t *testing.T) {
	h := NewHotCache(10, time.Hour)
	key := CacheKey{Mint: "m1", Timeframe: marketdata.Timeframe1m}
	h.Put(key, candleSeries(1))
	h.Put(key, candleSeries(5))

	got, ok := h.Get(key)
	require.True(t, ok)
	assert.Len(t, got, 5)
}

func TestHotCacheInvalidateScopesByMintPoolTimeframe(t *testing.T) {
	h := NewHotCache(10, time.Hour)
	k1 := CacheKey{Mint: "m1", Pool: "p1", Timeframe: marketdata.Timeframe1m}
	k2 := CacheKey{Mint: "m1", Pool: "p2", Timeframe: marketdata.Timeframe1m}
	h.Put(k1, candleSeries(1))
	h.Put(k2, candleSeries(1))

	h.Invalidate("m1", "p1", marketdata.Timeframe1m)

	_, ok1 := h.Get(k1)
	_, ok2 := h.Get(k2)
	assert.False(t, ok1)
	assert.True(t, ok2)
}

func TestHotCacheCleanupExpiredReturnsCount(t *testing.T) {
	h := NewHotCache(10, time.Millisecond)
	h.Put(CacheKey{Mint: "a"}, candleSeries(1))
	h.Put(CacheKey{Mint: "b"}, candleSeries(1))
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 2, h.CleanupExpired())
	assert.Equal(t, 0, h.Stats().Entries)
}
