// Package marketdata holds the shared types for the market-data core:
// pool decoding, snapshot caching, price composition and OHLCV candles.
package marketdata

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// WrappedSOLMint is the native wrapped-SOL mint address.
const WrappedSOLMint = "So11111111111111111111111111111111111111112"

// PoolKind identifies the AMM program variant a Pool was decoded from.
type PoolKind string

const (
	PoolKindRaydiumCPMM      PoolKind = "RaydiumCpmm"
	PoolKindRaydiumCLMM      PoolKind = "RaydiumClmm"
	PoolKindRaydiumLegacyAMM PoolKind = "RaydiumLegacyAmm"
	PoolKindMeteoraDLMM      PoolKind = "MeteoraDlmm"
	PoolKindMeteoraDAMMv2    PoolKind = "MeteoraDammV2"
	PoolKindMeteoraDBC       PoolKind = "MeteoraDbc"
	PoolKindFluxbeamAMM      PoolKind = "FluxbeamAmm"
	PoolKindPumpFunAMM       PoolKind = "PumpFunAmm"
	PoolKindUnknown          PoolKind = "Unknown"
)

// Token carries the attributes the core needs to price a mint.
type Token struct {
	Mint        solana.PublicKey
	Decimals    uint8
	HasDecimals bool
	Stablecoin  bool
	Blacklisted bool
}

// Pool is an on-chain AMM pool account tracked by the core.
type Pool struct {
	Address        solana.PublicKey
	OwnerProgramID solana.PublicKey
	Kind           PoolKind

	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey

	BaseVault  solana.PublicKey
	QuoteVault solana.PublicKey

	// Concentrated-liquidity fields (Raydium CLMM, Meteora DBC).
	SqrtPriceX64 uint128.Uint128
	TickSpacing  uint16
	TickCurrent  int32
	Liquidity    uint128.Uint128

	// Bonding-curve fields (Pump.fun).
	VirtualSOLReserves   uint64
	VirtualTokenReserves uint64
	RealSOLReserves      uint64
	RealTokenReserves    uint64

	// Advisory, from discovery; never trusted for pricing directly.
	LiquidityUSD float64

	FailureCount     int
	LastSuccessfulUse time.Time
}

// IsHealthy reports whether the pool has not hit the unhealthy threshold.
func (p *Pool) IsHealthy() bool {
	return p.FailureCount < 3
}

// HasSOLSide reports whether exactly one of base/quote is wrapped SOL.
// Pools where neither or both sides are SOL never enter the core (§3).
func (p *Pool) HasSOLSide() bool {
	baseSOL := p.BaseMint.String() == WrappedSOLMint
	quoteSOL := p.QuoteMint.String() == WrappedSOLMint
	return baseSOL != quoteSOL
}

// TokenPoolsSnapshot is the authoritative set of pools known for a mint
// at a moment in time (§3, §4.5).
type TokenPoolsSnapshot struct {
	Mint                string
	Pools               []*Pool
	CanonicalPoolAddress string // empty string means "none"
	FetchedAt            time.Time
}

// Canonical returns the highest-scoring pool, or nil if the snapshot is
// empty.
func (s *TokenPoolsSnapshot) Canonical() *Pool {
	if len(s.Pools) == 0 {
		return nil
	}
	return s.Pools[0]
}

// PriceResult is the outcome of pricing a mint against one of its pools.
type PriceResult struct {
	Mint          string
	PriceSOL      float64
	SOLReserves   float64
	TokenReserves float64
	Confidence    float64
	SourcePool    string
	PoolAddress   string
	Slot          uint64
	Timestamp     time.Time
}

// Valid reports whether a PriceResult satisfies the sanity bounds of §8.8:
// positive, finite, and no larger than 10^6 SOL.
func (r *PriceResult) Valid() bool {
	if r == nil {
		return false
	}
	if r.PriceSOL <= 0 || r.PriceSOL > 1_000_000 {
		return false
	}
	return !isNaNOrInf(r.PriceSOL)
}

func isNaNOrInf(f float64) bool {
	return f != f || f > 1e308 || f < -1e308
}

// AccountData is the raw result of fetching one on-chain account (§4.1).
type AccountData struct {
	Pubkey    solana.PublicKey
	Data      []byte
	Owner     solana.PublicKey
	Lamports  uint64
	Slot      uint64
	FetchedAt time.Time
}

// Timeframe is one of the closed set of candle intervals the OHLCV
// engine supports (§3).
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe12h Timeframe = "12h"
	Timeframe1d  Timeframe = "1d"
)

// Seconds returns the canonical duration of the timeframe in seconds.
func (tf Timeframe) Seconds() int64 {
	switch tf {
	case Timeframe1m:
		return 60
	case Timeframe5m:
		return 5 * 60
	case Timeframe15m:
		return 15 * 60
	case Timeframe1h:
		return 60 * 60
	case Timeframe4h:
		return 4 * 60 * 60
	case Timeframe12h:
		return 12 * 60 * 60
	case Timeframe1d:
		return 24 * 60 * 60
	default:
		return 0
	}
}

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	return tf.Seconds() > 0
}

// Candle is one OHLCV bar.
type Candle struct {
	Timestamp int64 // unix seconds, aligned to the timeframe boundary
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Valid checks the OHLC bounds invariant of §8.2.
func (c Candle) Valid() bool {
	if c.Volume < 0 {
		return false
	}
	hi := max3(c.Open, c.Close, c.High)
	lo := min3(c.Open, c.Close, c.Low)
	return c.High >= hi-1e-12 && c.Low <= lo+1e-12
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Priority is the scheduling band assigned to a monitored token (§4.8).
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String renders the priority name for logging.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// BaseInterval returns the un-adjusted fetch cadence for the priority.
func (p Priority) BaseInterval() time.Duration {
	switch p {
	case PriorityCritical:
		return 30 * time.Second
	case PriorityHigh:
		return 60 * time.Second
	case PriorityMedium:
		return 300 * time.Second
	default:
		return 900 * time.Second
	}
}

// MaxRetryAttempts is the retry budget per priority band (§4.8).
func (p Priority) MaxRetryAttempts() int {
	switch p {
	case PriorityCritical:
		return 5
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// BatchSize is the max candles a single remote fetch may return (§4.7).
func (p Priority) BatchSize() int {
	switch p {
	case PriorityCritical:
		return 1000
	case PriorityHigh:
		return 500
	case PriorityMedium:
		return 200
	default:
		return 100
	}
}

// FetchTimeout is the per-call timeout for a remote OHLCV fetch (§4.7).
func (p Priority) FetchTimeout() time.Duration {
	switch p {
	case PriorityCritical:
		return 60 * time.Second
	case PriorityHigh:
		return 45 * time.Second
	case PriorityMedium:
		return 30 * time.Second
	default:
		return 15 * time.Second
	}
}

// TokenOhlcvConfig tracks a monitored mint's scheduling state (§3, §4.8).
type TokenOhlcvConfig struct {
	Mint                    string
	Pools                   []string
	Priority                Priority
	LastActivity            time.Time
	FetchFrequency          time.Duration
	ConsecutiveEmptyFetches int
	IsActive                bool
	IsOpenPosition          bool
	RecentViews             int
	RecentTrades            int
}
