// Package accounts implements the market-data core's Account Fetcher
// (spec §4.1): batched retrieval of raw account bytes plus owner program
// id, slot and lamport balance, with a bounded retry schedule for
// transport failures.
package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/blockchain/solbc"
	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/utils/metrics"
)

// Fetcher retrieves account bytes for one or many public keys. It is
// safe for concurrent use; it holds no mutable state of its own beyond
// the wrapped RPC client and logger.
type Fetcher struct {
	client   *solbc.Client
	logger   *zap.Logger
	metrics  *metrics.Collector
	retryFor time.Duration
}

// New builds a Fetcher around an existing solbc.Client, the way
// internal/dex/pumpfun wraps the same client for bonding-curve reads.
// collector may be nil, in which case latency is not recorded.
func New(client *solbc.Client, collector *metrics.Collector, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		logger:   logger.Named("account-fetcher"),
		metrics:  collector,
		retryFor: 10 * time.Second,
	}
}

// Fetch retrieves the given public keys in a single batched RPC call and
// returns only the accounts that exist (§4.1: missing accounts are
// simply absent from the result, "not found" and "no data" are not
// distinguished).
func (f *Fetcher) Fetch(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey]*marketdata.AccountData, error) {
	if len(keys) == 0 {
		return map[solana.PublicKey]*marketdata.AccountData{}, nil
	}

	start := time.Now()
	res, err := backoff.Retry(ctx, func() (*solrpc.GetMultipleAccountsResult, error) {
		r, err := f.client.GetMultipleAccounts(ctx, keys)
		if err != nil {
			f.logger.Debug("GetMultipleAccounts attempt failed", zap.Error(err))
			return nil, err
		}
		return r, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(f.retryFor))
	if f.metrics != nil {
		f.metrics.RecordRPCLatency("GetMultipleAccounts", "account-fetcher", time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", marketdata.ErrRPC, err)
	}

	out := make(map[solana.PublicKey]*marketdata.AccountData, len(keys))
	now := time.Now()
	var slot uint64
	if res != nil {
		slot = res.RPCContext.Context.Slot
	}
	for i, key := range keys {
		if i >= len(res.Value) || res.Value[i] == nil {
			continue
		}
		acc := res.Value[i]
		out[key] = &marketdata.AccountData{
			Pubkey:    key,
			Data:      acc.Data.GetBinary(),
			Owner:     acc.Owner,
			Lamports:  acc.Lamports,
			Slot:      slot,
			FetchedAt: now,
		}
	}
	return out, nil
}

// FetchOne is a convenience wrapper around Fetch for a single key.
func (f *Fetcher) FetchOne(ctx context.Context, key solana.PublicKey) (*marketdata.AccountData, error) {
	res, err := f.Fetch(ctx, []solana.PublicKey{key})
	if err != nil {
		return nil, err
	}
	acc, ok := res[key]
	if !ok {
		return nil, nil
	}
	return acc, nil
}
