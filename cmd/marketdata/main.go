// Command marketdata runs the standalone pool-pricing and OHLCV
// service: discovery, pool decoding, price composition and candle
// caching for a set of tracked mints, without any trading execution.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avrail/solwatch/internal/blockchain/solbc"
	"github.com/avrail/solwatch/internal/logger"
	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/accounts"
	"github.com/avrail/solwatch/internal/marketdata/discovery"
	"github.com/avrail/solwatch/internal/marketdata/ohlcv"
	"github.com/avrail/solwatch/internal/marketdata/priceservice"
	"github.com/avrail/solwatch/internal/marketdata/ratelimit"
	"github.com/avrail/solwatch/internal/marketdata/registry"
	"github.com/avrail/solwatch/internal/marketdata/snapshot"
	"github.com/avrail/solwatch/internal/marketdata/tokeninfo"
	"github.com/avrail/solwatch/internal/storage/postgres"
	"github.com/avrail/solwatch/internal/utils/metrics"
)

func main() {
	configPath := flag.String("config", "configs/marketdata.json", "Path to market-data config file")
	rpcURL := flag.String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC endpoint")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger, err := logger.CreatePrettyLogger(*debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	cfg, err := marketdata.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load market-data config: %v", err)
	}

	svc, err := build(rootCtx, cfg, *rpcURL, appLogger)
	if err != nil {
		log.Fatalf("failed to build market-data service: %v", err)
	}

	appLogger.Info("marketdata service started")
	svc.Run(rootCtx)
	appLogger.Info("marketdata service stopped")
}

// service bundles every wired component so main stays a thin composition
// root; Run drives the background prefetch/scheduler loop.
type service struct {
	snapshots *snapshot.Cache
	prices    *priceservice.Service
	ohlcv     *ohlcv.Engine
	hot       *ohlcv.HotCache
	scheduler *ohlcv.Scheduler
	logger    *zap.Logger
}

func build(ctx context.Context, cfg *marketdata.Config, rpcURL string, zlog *zap.Logger) (*service, error) {
	collector := metrics.NewCollector()

	solClient := solbc.NewClient(rpcURL, zlog)
	fetcher := accounts.New(solClient, collector, zlog)
	tokens := tokeninfo.New(solClient, cfg.StablecoinMints, zlog)
	reg := registry.New(tokens)

	limiter := ratelimit.New(cfg.DefaultRPS, cfg.SourceRPS, zlog)
	rawSource := discovery.NewHTTPSource("dexscreener", cfg.DiscoveryBaseURL, limiter, zlog)
	discoverySource := discovery.FilteredSource{
		Source: rawSource,
		Policy: discovery.Policy{Tokens: tokens, MinLiquidityUSD: cfg.MinLiquidityUSD},
	}

	var store snapshot.Store
	var candleStore ohlcv.Store
	if cfg.PostgresURL != "" {
		db, err := postgres.Open(cfg.PostgresURL, zlog)
		if err != nil {
			return nil, err
		}
		store = postgres.NewSnapshotStore(db, zlog)
		candleStore = postgres.NewCandleStore(db, zlog)
	}

	snapCache := snapshot.New(snapshot.Config{
		TTL:              time.Duration(cfg.SnapshotTTLSeconds) * time.Second,
		PrefetchDebounce: time.Duration(cfg.PrefetchDebounceSeconds) * time.Second,
	}, []discovery.Source{discoverySource}, store, zlog).WithMetrics(collector)

	priceSvc := priceservice.New(snapCache, fetcher, reg, zlog)

	hot := ohlcv.NewHotCache(cfg.HotCacheMaxTokens, time.Duration(cfg.HotCacheRetentionHours)*time.Hour)
	remote := ohlcv.NewRemoteProvider(cfg.RemoteOHLCVURL, limiter, zlog)
	engine := ohlcv.NewEngine(hot, candleStore, remote, zlog)
	scheduler := ohlcv.NewScheduler(zlog)

	return &service{
		snapshots: snapCache,
		prices:    priceSvc,
		ohlcv:     engine,
		hot:       hot,
		scheduler: scheduler,
		logger:    zlog.Named("marketdata-service"),
	}, nil
}

// Run blocks until ctx is cancelled, periodically sweeping the hot cache
// for expired entries (§4.7's cleanup_expired, driven on an interval
// rather than on every read).
func (s *service) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.hot.CleanupExpired(); removed > 0 {
				s.logger.Debug("hot cache sweep", zap.Int("expired", removed))
			}
		}
	}
}
