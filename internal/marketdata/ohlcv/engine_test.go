package ohlcv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrail/solwatch/internal/marketdata"
)

func cdl(ts int64) marketdata.Candle {
	return marketdata.Candle{Timestamp: ts, Open: 1, High: 1, Low: 1, Close: 1}
}

func TestDetectGapsNoneOnContiguousSeries(t *testing.T) {
	candles := []marketdata.Candle{cdl(0), cdl(60), cdl(120), cdl(180)}
	gaps := DetectGaps(candles, marketdata.Timeframe1m)
	assert.Empty(t, gaps)
}

func TestDetectGapsFindsMissingInterval(t *testing.T) {
	// Scenario S6: persisted [T, T+60, T+120, T+300] for a 1m timeframe.
	const T = int64(1_700_000_000)
	candles := []marketdata.Candle{cdl(T), cdl(T + 60), cdl(T + 120), cdl(T + 300)}
	gaps := DetectGaps(candles, marketdata.Timeframe1m)

	if assert.Len(t, gaps, 1) {
		assert.Equal(t, Gap{FromTS: T + 120, ToTS: T + 300}, gaps[0])
	}
}

func TestDetectGapsIgnoresShortSeries(t *testing.T) {
	assert.Empty(t, DetectGaps(nil, marketdata.Timeframe1m))
	assert.Empty(t, DetectGaps([]marketdata.Candle{cdl(0)}, marketdata.Timeframe1m))
}

func TestDetectGapsInvalidTimeframeIsNoop(t *testing.T) {
	candles := []marketdata.Candle{cdl(0), cdl(1000)}
	assert.Empty(t, DetectGaps(candles, marketdata.Timeframe("bogus")))
}
