// Package discovery implements Pool Discovery (§4.4): proposing candidate
// pool addresses for a mint from an external HTTP JSON indexer, with the
// filter policy applied at the boundary before descriptors ever reach
// the core.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/ratelimit"
	"github.com/avrail/solwatch/internal/marketdata/tokeninfo"
)

// PoolDescriptor is what a discovery source proposes for a mint. The
// core never trusts LiquidityUSD for pricing, only for ranking (§4.4).
type PoolDescriptor struct {
	PoolID             string
	OwnerProgramIDHint string
	BaseMint           string
	QuoteMint          string
	LiquidityUSD       float64
}

// Source is anything that can propose pools for a mint.
type Source interface {
	Discover(ctx context.Context, mint string) ([]PoolDescriptor, error)
}

// dexscreenerPairResponse mirrors the subset of the DexScreener pairs
// response the teacher's ds_api.go already parsed.
type dexscreenerResponse struct {
	Pairs []dexscreenerPair `json:"pairs"`
}

type dexscreenerPair struct {
	DexID       string                `json:"dexId"`
	PairAddress string                `json:"pairAddress"`
	BaseToken   dexscreenerTokenInfo  `json:"baseToken"`
	QuoteToken  dexscreenerTokenInfo  `json:"quoteToken"`
	Liquidity   dexscreenerLiquidity  `json:"liquidity"`
}

type dexscreenerTokenInfo struct {
	Address string `json:"address"`
}

type dexscreenerLiquidity struct {
	USD float64 `json:"usd"`
}

// HTTPSource is a generalised HTTP JSON discovery client, following the
// teacher's DexScreener Service shape (doRequest + typed response) but
// abstracted behind the Source interface rather than hard-wired to one
// call site.
type HTTPSource struct {
	name       string
	baseURL    string
	client     *http.Client
	limiter    *ratelimit.Coordinator
	limitName  string
	logger     *zap.Logger
}

// NewHTTPSource builds a Source backed by a DexScreener-shaped HTTP API.
func NewHTTPSource(name, baseURL string, limiter *ratelimit.Coordinator, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		name:    name,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:   limiter,
		limitName: "discovery:" + name,
		logger:    logger.Named("discovery." + name),
	}
}

// Discover queries the indexer for pools pairing the given mint.
func (s *HTTPSource) Discover(ctx context.Context, mint string) ([]PoolDescriptor, error) {
	if _, err := s.limiter.Acquire(ctx, s.limitName); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/tokens/%s", s.baseURL, mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", marketdata.ErrRPC, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discovery: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed dexscreenerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("discovery: decode response: %w", err)
	}

	descriptors := make([]PoolDescriptor, 0, len(parsed.Pairs))
	for _, p := range parsed.Pairs {
		descriptors = append(descriptors, PoolDescriptor{
			PoolID:             p.PairAddress,
			OwnerProgramIDHint: p.DexID,
			BaseMint:           p.BaseToken.Address,
			QuoteMint:          p.QuoteToken.Address,
			LiquidityUSD:       p.Liquidity.USD,
		})
	}
	return descriptors, nil
}

// Policy applies the discovery-boundary filters (§4.4): drop pools with
// no SOL side, drop pools whose non-SOL side is a configured stablecoin,
// drop pools below a minimum advisory liquidity.
type Policy struct {
	Tokens           *tokeninfo.Cache
	MinLiquidityUSD  float64
}

// Apply filters descriptors in place, returning only the ones eligible
// to enter the core.
func (p Policy) Apply(descriptors []PoolDescriptor) []PoolDescriptor {
	out := make([]PoolDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		baseSOL := d.BaseMint == marketdata.WrappedSOLMint
		quoteSOL := d.QuoteMint == marketdata.WrappedSOLMint
		if baseSOL == quoteSOL {
			continue
		}
		nonSOL := d.BaseMint
		if baseSOL {
			nonSOL = d.QuoteMint
		}
		if p.Tokens != nil {
			if mint, err := solanaPublicKey(nonSOL); err == nil && p.Tokens.IsStablecoin(mint) {
				continue
			}
		}
		if p.MinLiquidityUSD > 0 && d.LiquidityUSD < p.MinLiquidityUSD {
			continue
		}
		out = append(out, d)
	}
	return out
}

func solanaPublicKey(s string) (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(s)
}

// FilteredSource wraps a Source and applies Policy to whatever it
// proposes, so the boundary filters run regardless of which concrete
// Source produced the candidates.
type FilteredSource struct {
	Source Source
	Policy Policy
}

// Discover delegates to the wrapped Source and filters the result.
func (f FilteredSource) Discover(ctx context.Context, mint string) ([]PoolDescriptor, error) {
	descriptors, err := f.Source.Discover(ctx, mint)
	if err != nil {
		return nil, err
	}
	return f.Policy.Apply(descriptors), nil
}
