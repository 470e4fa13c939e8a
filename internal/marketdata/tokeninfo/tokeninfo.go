// Package tokeninfo holds the shared, read-mostly token metadata the
// decoders consult: decimals, stablecoin membership and blacklist status
// (§5 "Shared-resource policy": read-mostly with infrequent writes under
// an exclusive guard).
package tokeninfo

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/blockchain/solbc"
)

// DefaultStablecoins is the authoritative default list (§6, Open
// Question 1): USDC and USDT, extensible via configuration.
var DefaultStablecoins = []string{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", // USDT
}

// Cache is the process-wide token metadata cache. It is safe for
// concurrent use: reads take a shared lock, writes (decimal warm-up,
// blacklisting) take an exclusive one, and no lock is ever held across
// an I/O suspension point (§5).
type Cache struct {
	mu          sync.RWMutex
	decimals    map[solana.PublicKey]uint8
	stablecoins map[solana.PublicKey]bool
	blacklist   map[solana.PublicKey]bool

	client *solbc.Client
	logger *zap.Logger
}

// New builds a Cache seeded with the given stablecoin mint list.
func New(client *solbc.Client, stablecoinMints []string, logger *zap.Logger) *Cache {
	stables := make(map[solana.PublicKey]bool, len(stablecoinMints))
	for _, m := range stablecoinMints {
		stables[solana.MustPublicKeyFromBase58(m)] = true
	}
	return &Cache{
		decimals:    make(map[solana.PublicKey]uint8),
		stablecoins: stables,
		blacklist:   make(map[solana.PublicKey]bool),
		client:      client,
		logger:      logger.Named("tokeninfo"),
	}
}

// Decimals is the pure, in-memory lookup decoders use (implements
// decoders.DecimalsLookup). A miss returns ok=false; it never fetches.
func (c *Cache) Decimals(mint solana.PublicKey) (uint8, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.decimals[mint]
	return d, ok
}

// Warm fetches a mint's decimals from chain and populates the cache,
// following the teacher's DetermineTokenPrecision pattern of reading the
// SPL token mint account directly rather than trusting a side channel.
func (c *Cache) Warm(ctx context.Context, mint solana.PublicKey) error {
	var mintInfo token.Mint
	if err := c.client.GetAccountDataInto(ctx, mint, &mintInfo); err != nil {
		c.logger.Debug("decimals warm-up failed", zap.String("mint", mint.String()), zap.Error(err))
		return fmt.Errorf("tokeninfo: fetch mint %s: %w", mint, err)
	}
	c.mu.Lock()
	c.decimals[mint] = mintInfo.Decimals
	c.mu.Unlock()
	return nil
}

// IsStablecoin reports whether mint is on the configured stablecoin list.
func (c *Cache) IsStablecoin(mint solana.PublicKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stablecoins[mint]
}

// IsBlacklisted reports whether mint has been excluded from pricing.
func (c *Cache) IsBlacklisted(mint solana.PublicKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blacklist[mint]
}

// Blacklist excludes a mint from future pricing attempts.
func (c *Cache) Blacklist(mint solana.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blacklist[mint] = true
}
