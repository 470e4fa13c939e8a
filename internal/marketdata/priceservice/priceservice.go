// Package priceservice implements the Price Service (§4.6): producing a
// current SOL-denominated price for a mint by composing the snapshot
// cache, account fetcher and decoder registry.
package priceservice

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/accounts"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
	"github.com/avrail/solwatch/internal/marketdata/registry"
	"github.com/avrail/solwatch/internal/marketdata/snapshot"
)

var zeroPublicKey solana.PublicKey

// Service is pure per call (§4.6): it relies on the snapshot cache for
// amortisation and keeps no price cache of its own.
type Service struct {
	snapshots *snapshot.Cache
	fetcher   *accounts.Fetcher
	registry  *registry.Registry
	logger    *zap.Logger
}

// New builds a Price Service over the given snapshot cache, account
// fetcher and decoder registry.
func New(snapshots *snapshot.Cache, fetcher *accounts.Fetcher, reg *registry.Registry, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		fetcher:   fetcher,
		registry:  reg,
		logger:    logger.Named("price-service"),
	}
}

// GetPrice produces a current SOL price for mint, or nil if no pool in
// the snapshot yields a valid price (§4.6 step 3, "Ok(None)").
func (s *Service) GetPrice(ctx context.Context, mint string) (*marketdata.PriceResult, error) {
	snap, ok := s.snapshots.Get(mint)
	if !ok {
		var err error
		snap, err = s.snapshots.Refresh(ctx, mint, true)
		if err != nil {
			return nil, err
		}
	}
	if snap == nil {
		return nil, nil
	}

	for _, pool := range snap.Pools {
		result := s.priceOne(ctx, pool)
		if result == nil || !result.Valid() {
			continue
		}
		result.PoolAddress = pool.Address.String()
		return result, nil
	}
	return nil, nil
}

func (s *Service) priceOne(ctx context.Context, pool *marketdata.Pool) *marketdata.PriceResult {
	poolOnly, err := s.fetcher.Fetch(ctx, []solana.PublicKey{pool.Address})
	if err != nil {
		pool.FailureCount++
		return nil
	}
	poolAcc, ok := poolOnly[pool.Address]
	if !ok {
		pool.FailureCount++
		return nil
	}

	keys := []solana.PublicKey{pool.Address}
	keys = append(keys, vaultHints(pool.Kind, poolAcc.Data)...)
	if pool.BaseVault != zeroPublicKey {
		keys = append(keys, pool.BaseVault)
	}
	if pool.QuoteVault != zeroPublicKey {
		keys = append(keys, pool.QuoteVault)
	}

	accMap, err := s.fetcher.Fetch(ctx, keys)
	if err != nil {
		pool.FailureCount++
		return nil
	}

	result := s.registry.Decode(accMap, pool.BaseMint, pool.QuoteMint)
	if result == nil {
		pool.FailureCount++
		return nil
	}

	pool.FailureCount = 0
	pool.LastSuccessfulUse = time.Now()
	return result
}

// vaultHints extracts vault addresses stored at a fixed offset within the
// pool account itself, for the program families where that offset is
// known (§4.3 table); other families discover their vaults by mint match
// within the decoder, which requires the vaults already be present in
// the fetched account map via pool.BaseVault/QuoteVault.
func vaultHints(kind marketdata.PoolKind, data []byte) []solana.PublicKey {
	switch kind {
	case marketdata.PoolKindFluxbeamAMM:
		if len(data) < layouts.FluxBeamPoolSize {
			return nil
		}
		return []solana.PublicKey{
			readPublicKey(data, layouts.FluxBeamTokenAVaultOff),
			readPublicKey(data, layouts.FluxBeamTokenBVaultOff),
		}
	case marketdata.PoolKindMeteoraDBC:
		if len(data) < layouts.MeteoraDBCMinSize {
			return nil
		}
		return []solana.PublicKey{
			readPublicKey(data, layouts.MeteoraDBCTokenAVaultOff),
			readPublicKey(data, layouts.MeteoraDBCTokenBVaultOff),
		}
	default:
		return nil
	}
}

func readPublicKey(data []byte, off int) solana.PublicKey {
	var pk solana.PublicKey
	if len(data) < off+32 {
		return pk
	}
	copy(pk[:], data[off:off+32])
	return pk
}
