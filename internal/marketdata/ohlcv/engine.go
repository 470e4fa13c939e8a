package ohlcv

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
)

// Gap is a missing interval detected between two adjacent persisted
// candles (§4.7).
type Gap struct {
	FromTS int64
	ToTS   int64
}

// Engine composes the three OHLCV tiers: hot in-memory, persistent store
// and remote fetch, plus gap detection and fill (§4.7).
type Engine struct {
	hot    *HotCache
	store  Store
	remote *RemoteProvider
	logger *zap.Logger

	writeMu sync.Map // (mint,pool,timeframe) -> *sync.Mutex, serialises persistent writes per key (§5)
}

// NewEngine wires the three tiers together.
func NewEngine(hot *HotCache, store Store, remote *RemoteProvider, logger *zap.Logger) *Engine {
	return &Engine{
		hot:    hot,
		store:  store,
		remote: remote,
		logger: logger.Named("ohlcv-engine"),
	}
}

func writeKey(mint, pool string, timeframe marketdata.Timeframe) string {
	return fmt.Sprintf("%s|%s|%s", mint, pool, timeframe)
}

func (e *Engine) lockFor(mint, pool string, timeframe marketdata.Timeframe) *sync.Mutex {
	v, _ := e.writeMu.LoadOrStore(writeKey(mint, pool, timeframe), &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Get returns up to n candles for (mint, pool, timeframe), checking the
// hot tier first, then the persistent store, filling any detected gap
// from the remote provider before returning (§4.7, scenario S6).
func (e *Engine) Get(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, n int, priority marketdata.Priority) ([]marketdata.Candle, error) {
	key := CacheKey{Mint: mint, Pool: pool, Timeframe: timeframe}
	if cached, ok := e.hot.Get(key); ok {
		if len(cached) > n {
			return cached[len(cached)-n:], nil
		}
		return cached, nil
	}

	candles, err := e.store.Tail(ctx, mint, pool, timeframe, n)
	if err != nil {
		return nil, fmt.Errorf("ohlcv engine: read store: %w", err)
	}

	if gaps := DetectGaps(candles, timeframe); len(gaps) > 0 {
		filled, err := e.fillGaps(ctx, mint, pool, timeframe, gaps, n, priority)
		if err != nil {
			e.logger.Warn("gap fill failed, serving persisted candles as-is",
				zap.String("mint", mint), zap.String("pool", pool), zap.Error(err))
		} else {
			candles = filled
		}
	}

	e.hot.Put(key, candles)
	return candles, nil
}

// DetectGaps reports every interval between adjacent candles whose gap
// exceeds timeframe.Seconds() (§4.7). candles must be ascending.
func DetectGaps(candles []marketdata.Candle, timeframe marketdata.Timeframe) []Gap {
	step := timeframe.Seconds()
	if step <= 0 || len(candles) < 2 {
		return nil
	}
	var gaps []Gap
	for i := 1; i < len(candles); i++ {
		prev, cur := candles[i-1].Timestamp, candles[i].Timestamp
		if cur-prev > step {
			gaps = append(gaps, Gap{FromTS: prev, ToTS: cur})
		}
	}
	return gaps
}

// fillGaps fetches each gap's missing range from the remote tier,
// persists it, then re-reads the tail so the caller sees the merged,
// contiguous sequence the store now holds (scenario S6).
func (e *Engine) fillGaps(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, gaps []Gap, n int, priority marketdata.Priority) ([]marketdata.Candle, error) {
	ctx, cancel := context.WithTimeout(ctx, priority.FetchTimeout())
	defer cancel()

	lock := e.lockFor(mint, pool, timeframe)
	lock.Lock()
	defer lock.Unlock()

	batchSize := priority.BatchSize()
	for _, g := range gaps {
		fetched, err := e.remote.Fetch(ctx, pool, timeframe, batchSize, g.ToTS)
		if err != nil {
			return nil, err
		}
		if len(fetched) == 0 {
			continue
		}
		if err := e.store.Upsert(ctx, mint, pool, timeframe, fetched); err != nil {
			return nil, fmt.Errorf("ohlcv engine: persist gap fill: %w", err)
		}
	}

	return e.store.Tail(ctx, mint, pool, timeframe, n)
}

// Invalidate drops the hot-tier entry for (mint, pool, timeframe).
func (e *Engine) Invalidate(mint, pool string, timeframe marketdata.Timeframe) {
	e.hot.Invalidate(mint, pool, timeframe)
}
