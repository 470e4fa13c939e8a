package ohlcv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/ratelimit"
)

func TestRemoteProviderParsesRowsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "pool=pool1")
		assert.Contains(t, r.URL.RawQuery, "timeframe=1m")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[1700000000,1,2,0.5,1.5,1000],[1700000060,1.5,2.5,1,2,500]]`))
	}))
	defer server.Close()

	limiter := ratelimit.New(1_000_000, nil, zap.NewNop())
	p := NewRemoteProvider(server.URL, limiter, zap.NewNop())

	candles, err := p.Fetch(context.Background(), "pool1", marketdata.Timeframe1m, 100, 0)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000), candles[0].Timestamp)
	assert.Equal(t, 1.5, candles[1].Open)
}

func TestRemoteProviderReturnsEmptySliceOnEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	limiter := ratelimit.New(1_000_000, nil, zap.NewNop())
	p := NewRemoteProvider(server.URL, limiter, zap.NewNop())

	candles, err := p.Fetch(context.Background(), "pool1", marketdata.Timeframe1m, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestRemoteProviderErrorsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	limiter := ratelimit.New(1_000_000, nil, zap.NewNop())
	p := NewRemoteProvider(server.URL, limiter, zap.NewNop())

	_, err := p.Fetch(context.Background(), "pool1", marketdata.Timeframe1m, 100, 0)
	assert.Error(t, err)
}

func TestRemoteProviderIncludesBeforeTSWhenSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "before=1700000000")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	limiter := ratelimit.New(1_000_000, nil, zap.NewNop())
	p := NewRemoteProvider(server.URL, limiter, zap.NewNop())

	_, err := p.Fetch(context.Background(), "pool1", marketdata.Timeframe1m, 100, 1700000000)
	require.NoError(t, err)
}
