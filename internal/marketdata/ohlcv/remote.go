package ohlcv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/ratelimit"
)

// RemoteProvider is the Tier 3 out-of-process candle source (§4.7, §6):
// HTTP JSON, returning `[timestamp, open, high, low, close, volume]`
// rows for `(pool_address, timeframe, limit, before_ts?)`. A 200 with an
// empty array is a valid "no data" response.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Coordinator
	logger  *zap.Logger
}

// NewRemoteProvider builds a RemoteProvider backed by an HTTP JSON API.
func NewRemoteProvider(baseURL string, limiter *ratelimit.Coordinator, logger *zap.Logger) *RemoteProvider {
	return &RemoteProvider{
		baseURL: baseURL,
		client:  &http.Client{},
		limiter: limiter,
		logger:  logger.Named("ohlcv-remote"),
	}
}

// Fetch retrieves up to limit candles for poolAddress/timeframe, ending
// at beforeTS (0 means "most recent"). timeout is the caller's priority-
// scaled per-call deadline (§4.7).
func (p *RemoteProvider) Fetch(ctx context.Context, poolAddress string, timeframe marketdata.Timeframe, limit int, beforeTS int64) ([]marketdata.Candle, error) {
	if _, err := p.limiter.Acquire(ctx, "ohlcv-remote"); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/candles?pool=%s&timeframe=%s&limit=%d", p.baseURL, poolAddress, timeframe, limit)
	if beforeTS > 0 {
		url = fmt.Sprintf("%s&before=%d", url, beforeTS)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ohlcv remote: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", marketdata.ErrRPC, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ohlcv remote: status %d: %s", resp.StatusCode, string(body))
	}

	var rows [][6]float64
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("ohlcv remote: decode response: %w", err)
	}

	candles := make([]marketdata.Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, marketdata.Candle{
			Timestamp: int64(r[0]),
			Open:      r[1],
			High:      r[2],
			Low:       r[3],
			Close:     r[4],
			Volume:    r[5],
		})
	}
	return candles, nil
}
