// Package snapshot implements the Pool Snapshot Cache (§4.5): the
// authoritative, TTL-bounded set of pools known for a mint, refreshed
// with single-flight coalescing and debounced prefetch.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/discovery"
	"github.com/avrail/solwatch/internal/marketdata/registry"
	"github.com/avrail/solwatch/internal/utils/metrics"
)

// Store is the abstract persistence interface for snapshots (§4.5):
// load(mint) -> Option<snapshot>; store(snapshot) -> Result<()>.
type Store interface {
	Load(ctx context.Context, mint string) (*marketdata.TokenPoolsSnapshot, error)
	Store(ctx context.Context, snap *marketdata.TokenPoolsSnapshot) error
}

type entry struct {
	snapshot    *marketdata.TokenPoolsSnapshot
	refreshedAt time.Time
}

// Metrics is the snapshot returned by Cache.Metrics.
type Metrics struct {
	Entries      int
	FreshEntries int
	StaleEntries int
}

// Cache is the Pool Snapshot Cache. Reads take a shared lock, writes an
// exclusive one (§5 "Shared-resource policy"); no lock is held across an
// I/O suspension point.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry

	prefetchMu   sync.Mutex
	lastPrefetch map[string]time.Time

	sf singleflight.Group

	ttl              time.Duration
	prefetchDebounce time.Duration

	sources []discovery.Source
	store   Store
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Config carries the tunables for a Cache (spec defaults: TTL 60s,
// prefetch debounce 20s).
type Config struct {
	TTL              time.Duration
	PrefetchDebounce time.Duration
}

// New builds a Cache over the given discovery sources and persistence
// store (store may be nil, in which case persistence is skipped).
func New(cfg Config, sources []discovery.Source, store Store, logger *zap.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	if cfg.PrefetchDebounce <= 0 {
		cfg.PrefetchDebounce = 20 * time.Second
	}
	return &Cache{
		entries:          make(map[string]*entry),
		lastPrefetch:     make(map[string]time.Time),
		ttl:              cfg.TTL,
		prefetchDebounce: cfg.PrefetchDebounce,
		sources:          sources,
		store:            store,
		logger:           logger.Named("snapshot-cache"),
	}
}

// WithMetrics attaches a metrics collector; pool liquidity gauges are
// updated as snapshots refresh. Optional — a Cache with no collector
// attached simply skips the reporting.
func (c *Cache) WithMetrics(collector *metrics.Collector) *Cache {
	c.metrics = collector
	return c
}

func normalizeMint(mint string) string {
	return strings.ToLower(strings.TrimSpace(mint))
}

// Get returns the cached snapshot for mint iff it is still fresh.
func (c *Cache) Get(mint string) (*marketdata.TokenPoolsSnapshot, bool) {
	key := normalizeMint(mint)
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.isFresh(e) {
		return nil, false
	}
	return e.snapshot, true
}

// GetAllowStale returns the last known snapshot regardless of freshness.
func (c *Cache) GetAllowStale(mint string) (*marketdata.TokenPoolsSnapshot, bool) {
	key := normalizeMint(mint)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.snapshot, true
}

func (c *Cache) isFresh(e *entry) bool {
	if e == nil {
		return false
	}
	now := time.Now()
	return now.Sub(e.refreshedAt) <= c.ttl && now.Sub(e.snapshot.FetchedAt) <= c.ttl
}

// Refresh coalesces concurrent refreshes for the same mint into a single
// upstream fetch (testable property 4). allowStale controls whether a
// total source failure falls back to the last persisted/cached snapshot.
func (c *Cache) Refresh(ctx context.Context, mint string, allowStale bool) (*marketdata.TokenPoolsSnapshot, error) {
	key := normalizeMint(mint)
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		return c.doRefresh(ctx, key, allowStale)
	})
	if err != nil {
		return nil, err
	}
	return v.(*marketdata.TokenPoolsSnapshot), nil
}

func (c *Cache) doRefresh(ctx context.Context, mint string, allowStale bool) (*marketdata.TokenPoolsSnapshot, error) {
	if c.store != nil {
		if persisted, err := c.store.Load(ctx, mint); err == nil && persisted != nil {
			if time.Since(persisted.FetchedAt) <= c.ttl {
				c.hydrate(mint, persisted)
				return persisted, nil
			}
		}
	}

	pools := make(map[string]*marketdata.Pool)
	sourcesOK := 0
	for _, src := range c.sources {
		descriptors, err := src.Discover(ctx, mint)
		if err != nil {
			c.logger.Warn("discovery source failed", zap.String("mint", mint), zap.Error(err))
			continue
		}
		sourcesOK++
		for _, d := range descriptors {
			pool := descriptorToPool(d)
			if pool == nil {
				continue
			}
			pools[pool.Address.String()] = pool
		}
	}

	if sourcesOK == 0 {
		if allowStale {
			if stale, ok := c.GetAllowStale(mint); ok {
				c.logger.Warn("all discovery sources failed, returning stale snapshot", zap.String("mint", mint))
				return stale, nil
			}
			if c.store != nil {
				if persisted, err := c.store.Load(ctx, mint); err == nil && persisted != nil {
					return persisted, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: all discovery sources failed for %s", marketdata.ErrRPC, mint)
	}

	list := make([]*marketdata.Pool, 0, len(pools))
	for _, p := range pools {
		list = append(list, p)
		if c.metrics != nil {
			c.metrics.UpdatePoolLiquidity(p.Address.String(), mint, p.LiquidityUSD)
		}
	}
	sortByMetric(list)

	canonical := ""
	if len(list) > 0 {
		canonical = list[0].Address.String()
	}

	snap := &marketdata.TokenPoolsSnapshot{
		Mint:                 mint,
		Pools:                list,
		CanonicalPoolAddress: canonical,
		FetchedAt:            time.Now(),
	}

	if c.store != nil {
		if err := c.store.Store(ctx, snap); err != nil {
			return nil, fmt.Errorf("%w: persist snapshot for %s: %v", marketdata.ErrCache, mint, err)
		}
	}

	c.hydrate(mint, snap)
	c.logger.Info("snapshot updated",
		zap.String("mint", mint),
		zap.Int("sources_ok", sourcesOK),
		zap.Int("pool_count", len(list)),
		zap.String("canonical", canonical))
	return snap, nil
}

func (c *Cache) hydrate(mint string, snap *marketdata.TokenPoolsSnapshot) {
	c.mu.Lock()
	c.entries[mint] = &entry{snapshot: snap, refreshedAt: time.Now()}
	c.mu.Unlock()
}

// Prefetch refreshes mints in the background, debounced per mint
// (testable property 5). Errors are swallowed to the log; callers never
// block on a prefetch.
func (c *Cache) Prefetch(ctx context.Context, mints []string) {
	for _, raw := range mints {
		mint := normalizeMint(raw)
		if _, fresh := c.Get(mint); fresh {
			continue
		}

		c.prefetchMu.Lock()
		last, seen := c.lastPrefetch[mint]
		if seen && time.Since(last) < c.prefetchDebounce {
			c.prefetchMu.Unlock()
			continue
		}
		c.lastPrefetch[mint] = time.Now()
		c.prefetchMu.Unlock()

		go func(mint string) {
			if _, err := c.Refresh(ctx, mint, true); err != nil {
				c.logger.Warn("prefetch failed", zap.String("mint", mint), zap.Error(err))
			}
		}(mint)
	}
}

// Clear is a testing/reset hook.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
	c.prefetchMu.Lock()
	c.lastPrefetch = make(map[string]time.Time)
	c.prefetchMu.Unlock()
}

// Metrics reports cache occupancy.
func (c *Cache) Metrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := Metrics{Entries: len(c.entries)}
	for _, e := range c.entries {
		if c.isFresh(e) {
			m.FreshEntries++
		} else {
			m.StaleEntries++
		}
	}
	return m
}

func descriptorToPool(d discovery.PoolDescriptor) *marketdata.Pool {
	addr, err := solana.PublicKeyFromBase58(d.PoolID)
	if err != nil {
		return nil
	}
	baseMint, err := solana.PublicKeyFromBase58(d.BaseMint)
	if err != nil {
		return nil
	}
	quoteMint, err := solana.PublicKeyFromBase58(d.QuoteMint)
	if err != nil {
		return nil
	}

	kind := marketdata.PoolKindUnknown
	owner := solana.PublicKey{}
	if ownerID, err := solana.PublicKeyFromBase58(d.OwnerProgramIDHint); err == nil {
		owner = ownerID
		kind = classifyKind(registry.Classify(ownerID))
	}

	return &marketdata.Pool{
		Address:        addr,
		OwnerProgramID: owner,
		Kind:           kind,
		BaseMint:       baseMint,
		QuoteMint:      quoteMint,
		LiquidityUSD:   d.LiquidityUSD,
	}
}

func classifyKind(k registry.ProgramKind) marketdata.PoolKind {
	switch k {
	case registry.KindRaydiumCPMM:
		return marketdata.PoolKindRaydiumCPMM
	case registry.KindRaydiumCLMM:
		return marketdata.PoolKindRaydiumCLMM
	case registry.KindRaydiumLegacyAMM:
		return marketdata.PoolKindRaydiumLegacyAMM
	case registry.KindMeteoraDAMMv2:
		return marketdata.PoolKindMeteoraDAMMv2
	case registry.KindMeteoraDLMM:
		return marketdata.PoolKindMeteoraDLMM
	case registry.KindMeteoraDBC:
		return marketdata.PoolKindMeteoraDBC
	case registry.KindFluxBeamAMM:
		return marketdata.PoolKindFluxbeamAMM
	case registry.KindPumpFunAMM:
		return marketdata.PoolKindPumpFunAMM
	default:
		return marketdata.PoolKindUnknown
	}
}

// sortByMetric ranks pools by advisory liquidity descending, tie-broken
// by decoder availability (§4.5 step 5).
func sortByMetric(pools []*marketdata.Pool) {
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].LiquidityUSD != pools[j].LiquidityUSD {
			return pools[i].LiquidityUSD > pools[j].LiquidityUSD
		}
		iKnown := pools[i].Kind != marketdata.PoolKindUnknown
		jKnown := pools[j].Kind != marketdata.PoolKindUnknown
		return iKnown && !jKnown
	})
}
