package ohlcv

import (
	"context"

	"github.com/avrail/solwatch/internal/marketdata"
)

// Store is the Tier 2 durable, append-only candle store (§4.7), keyed by
// (mint, pool, timeframe, timestamp). Inserts of an already-present
// timestamp overwrite in place (idempotent upsert).
type Store interface {
	// Range returns candles with fromTS <= timestamp <= toTS, ascending.
	Range(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, fromTS, toTS int64) ([]marketdata.Candle, error)
	// Tail returns the last n candles, ascending.
	Tail(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, n int) ([]marketdata.Candle, error)
	// Upsert idempotently writes candles, keyed by timestamp.
	Upsert(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, candles []marketdata.Candle) error
}
