// Package ratelimit implements the Rate Coordinator external
// collaborator (§6): an abstract acquire(source) -> permit operation the
// core must never bypass when calling out to RPC, discovery or remote
// OHLCV providers.
package ratelimit

import (
	"context"
	"sync"

	uberratelimit "go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Permit is an opaque proof of having waited for a slot. It carries no
// data; its existence is the contract.
type Permit struct{}

// Coordinator enforces a per-source requests-per-second budget, built on
// top of a leaky-bucket limiter per source (generalised from the
// teacher's single DexScreener ticker to one bucket per external
// collaborator).
type Coordinator struct {
	mu         sync.Mutex
	limiters   map[string]uberratelimit.Limiter
	overrides  map[string]int
	defaultRPS int
	logger     *zap.Logger
}

// New builds a Coordinator. overrides maps a source name (e.g. "solana-rpc",
// "dexscreener", "ohlcv-remote") to its own requests-per-second budget;
// sources absent from overrides fall back to defaultRPS.
func New(defaultRPS int, overrides map[string]int, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		limiters:   make(map[string]uberratelimit.Limiter),
		overrides:  overrides,
		defaultRPS: defaultRPS,
		logger:     logger.Named("ratelimit"),
	}
}

// Acquire blocks until a permit for source is available or ctx is done.
func (c *Coordinator) Acquire(ctx context.Context, source string) (Permit, error) {
	limiter := c.limiterFor(source)

	taken := make(chan struct{})
	go func() {
		limiter.Take()
		close(taken)
	}()

	select {
	case <-ctx.Done():
		return Permit{}, ctx.Err()
	case <-taken:
		return Permit{}, nil
	}
}

func (c *Coordinator) limiterFor(source string) uberratelimit.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[source]; ok {
		return l
	}
	rps := c.defaultRPS
	if override, ok := c.overrides[source]; ok {
		rps = override
	}
	if rps <= 0 {
		rps = 1
	}
	l := uberratelimit.New(rps)
	c.limiters[source] = l
	c.logger.Debug("registered rate limiter", zap.String("source", source), zap.Int("rps", rps))
	return l
}
