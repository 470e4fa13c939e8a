package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/ratelimit"
	"github.com/avrail/solwatch/internal/marketdata/tokeninfo"
)

func newUnlimitedCoordinator(t *testing.T) *ratelimit.Coordinator {
	t.Helper()
	return ratelimit.New(1_000_000, nil, zap.NewNop())
}

func TestHTTPSourceParsesDexscreenerShapedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := dexscreenerResponse{
			Pairs: []dexscreenerPair{
				{
					DexID:       "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C",
					PairAddress: "7EYnhQoR9YM3N7UoaKRoA44Uy8JeaZV3qyouov87awMs",
					BaseToken:   dexscreenerTokenInfo{Address: marketdata.WrappedSOLMint},
					QuoteToken:  dexscreenerTokenInfo{Address: "TokenMintAddressXXXXXXXXXXXXXXXXXXXXXXXXXX"},
					Liquidity:   dexscreenerLiquidity{USD: 12345.67},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	src := NewHTTPSource("dexscreener", server.URL, newUnlimitedCoordinator(t), zap.NewNop())
	descriptors, err := src.Discover(context.Background(), "mint1")
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "7EYnhQoR9YM3N7UoaKRoA44Uy8JeaZV3qyouov87awMs", descriptors[0].PoolID)
	assert.Equal(t, "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C", descriptors[0].OwnerProgramIDHint)
	assert.Equal(t, 12345.67, descriptors[0].LiquidityUSD)
}

func TestHTTPSourceErrorsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	src := NewHTTPSource("dexscreener", server.URL, newUnlimitedCoordinator(t), zap.NewNop())
	_, err := src.Discover(context.Background(), "mint1")
	assert.Error(t, err)
}

func stableMint() string { return "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v" }

func TestPolicyApplyDropsPoolsWithoutSOLSide(t *testing.T) {
	p := Policy{}
	descriptors := []PoolDescriptor{
		{BaseMint: "mintA", QuoteMint: "mintB", LiquidityUSD: 1000},
	}
	assert.Empty(t, p.Apply(descriptors))
}

func TestPolicyApplyDropsPoolsWithBothSidesSOL(t *testing.T) {
	p := Policy{}
	descriptors := []PoolDescriptor{
		{BaseMint: marketdata.WrappedSOLMint, QuoteMint: marketdata.WrappedSOLMint, LiquidityUSD: 1000},
	}
	assert.Empty(t, p.Apply(descriptors))
}

func TestPolicyApplyDropsStablecoinPairedPools(t *testing.T) {
	tokens := tokeninfo.New(nil, []string{stableMint()}, zap.NewNop())
	p := Policy{Tokens: tokens}
	descriptors := []PoolDescriptor{
		{BaseMint: marketdata.WrappedSOLMint, QuoteMint: stableMint(), LiquidityUSD: 1_000_000},
	}
	assert.Empty(t, p.Apply(descriptors))
}

func TestPolicyApplyDropsBelowMinLiquidity(t *testing.T) {
	p := Policy{MinLiquidityUSD: 5000}
	descriptors := []PoolDescriptor{
		{BaseMint: marketdata.WrappedSOLMint, QuoteMint: "tokenMint", LiquidityUSD: 100},
	}
	assert.Empty(t, p.Apply(descriptors))
}

func TestPolicyApplyKeepsEligiblePool(t *testing.T) {
	p := Policy{MinLiquidityUSD: 1000}
	descriptors := []PoolDescriptor{
		{BaseMint: marketdata.WrappedSOLMint, QuoteMint: "tokenMint", LiquidityUSD: 5000},
	}
	kept := p.Apply(descriptors)
	require.Len(t, kept, 1)
	assert.Equal(t, "tokenMint", kept[0].QuoteMint)
}

type stubSource struct {
	descriptors []PoolDescriptor
	err         error
}

func (s stubSource) Discover(ctx context.Context, mint string) ([]PoolDescriptor, error) {
	return s.descriptors, s.err
}

func TestFilteredSourceAppliesPolicyToUnderlyingResults(t *testing.T) {
	underlying := stubSource{descriptors: []PoolDescriptor{
		{BaseMint: marketdata.WrappedSOLMint, QuoteMint: "tokenMint", LiquidityUSD: 5000},
		{BaseMint: "mintA", QuoteMint: "mintB", LiquidityUSD: 5000},
	}}
	fs := FilteredSource{Source: underlying, Policy: Policy{MinLiquidityUSD: 1000}}

	out, err := fs.Discover(context.Background(), "mint1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "tokenMint", out[0].QuoteMint)
}

func TestFilteredSourcePropagatesUnderlyingError(t *testing.T) {
	underlying := stubSource{err: assert.AnError}
	fs := FilteredSource{Source: underlying}
	_, err := fs.Discover(context.Background(), "mint1")
	assert.ErrorIs(t, err, assert.AnError)
}
