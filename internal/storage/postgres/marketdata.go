package postgres

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/storage/models"
)

// SnapshotStore is a gorm-backed implementation of snapshot.Store
// (§4.5), persisting the pool set behind each TokenPoolsSnapshot.
type SnapshotStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSnapshotStore builds a SnapshotStore over an already-opened gorm.DB.
func NewSnapshotStore(db *gorm.DB, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger.Named("snapshot-store")}
}

// Load returns the most recently stored snapshot for mint.
func (s *SnapshotStore) Load(ctx context.Context, mint string) (*marketdata.TokenPoolsSnapshot, error) {
	var rows []models.PoolSnapshot
	if err := s.db.WithContext(ctx).
		Where("mint = ?", mint).
		Order("liquidity_usd desc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("snapshot store: load: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	snap := &marketdata.TokenPoolsSnapshot{Mint: mint, FetchedAt: rows[0].FetchedAt}
	for _, r := range rows {
		pool := &marketdata.Pool{
			Kind:         marketdata.PoolKind(r.Kind),
			LiquidityUSD: r.LiquidityUSD,
		}
		if pk, err := solana.PublicKeyFromBase58(r.PoolAddress); err == nil {
			pool.Address = pk
		}
		if pk, err := solana.PublicKeyFromBase58(r.OwnerProgramID); err == nil {
			pool.OwnerProgramID = pk
		}
		if pk, err := solana.PublicKeyFromBase58(r.BaseMint); err == nil {
			pool.BaseMint = pk
		}
		if pk, err := solana.PublicKeyFromBase58(r.QuoteMint); err == nil {
			pool.QuoteMint = pk
		}
		snap.Pools = append(snap.Pools, pool)
		if r.IsCanonical {
			snap.CanonicalPoolAddress = r.PoolAddress
		}
	}
	return snap, nil
}

// Store replaces the persisted pool set for snap.Mint with snap.Pools.
func (s *SnapshotStore) Store(ctx context.Context, snap *marketdata.TokenPoolsSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mint = ?", snap.Mint).Delete(&models.PoolSnapshot{}).Error; err != nil {
			return fmt.Errorf("snapshot store: clear prior rows: %w", err)
		}
		rows := make([]models.PoolSnapshot, 0, len(snap.Pools))
		for _, p := range snap.Pools {
			rows = append(rows, models.PoolSnapshot{
				Mint:           snap.Mint,
				PoolAddress:    p.Address.String(),
				OwnerProgramID: p.OwnerProgramID.String(),
				Kind:           string(p.Kind),
				BaseMint:       p.BaseMint.String(),
				QuoteMint:      p.QuoteMint.String(),
				LiquidityUSD:   p.LiquidityUSD,
				IsCanonical:    p.Address.String() == snap.CanonicalPoolAddress,
				FetchedAt:      snap.FetchedAt,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("snapshot store: insert rows: %w", err)
		}
		return nil
	})
}

// CandleStore is a gorm-backed implementation of ohlcv.Store (§4.7
// Tier 2), an append-only table keyed by (mint, pool, timeframe, ts).
type CandleStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCandleStore builds a CandleStore over an already-opened gorm.DB.
func NewCandleStore(db *gorm.DB, logger *zap.Logger) *CandleStore {
	return &CandleStore{db: db, logger: logger.Named("candle-store")}
}

func (c *CandleStore) Range(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, fromTS, toTS int64) ([]marketdata.Candle, error) {
	var rows []models.Candle
	err := c.db.WithContext(ctx).
		Where("mint = ? AND pool = ? AND timeframe = ? AND timestamp BETWEEN ? AND ?", mint, pool, string(timeframe), fromTS, toTS).
		Order("timestamp asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("candle store: range: %w", err)
	}
	return toCandles(rows), nil
}

func (c *CandleStore) Tail(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, n int) ([]marketdata.Candle, error) {
	var rows []models.Candle
	err := c.db.WithContext(ctx).
		Where("mint = ? AND pool = ? AND timeframe = ?", mint, pool, string(timeframe)).
		Order("timestamp desc").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("candle store: tail: %w", err)
	}
	candles := toCandles(rows)
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// Upsert idempotently writes candles, overwriting any existing row at
// the same (mint, pool, timeframe, timestamp) (§4.7 Tier 2).
func (c *CandleStore) Upsert(ctx context.Context, mint, pool string, timeframe marketdata.Timeframe, candles []marketdata.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	rows := make([]models.Candle, 0, len(candles))
	for _, cd := range candles {
		rows = append(rows, models.Candle{
			Mint: mint, Pool: pool, Timeframe: string(timeframe), Timestamp: cd.Timestamp,
			Open: cd.Open, High: cd.High, Low: cd.Low, Close: cd.Close, Volume: cd.Volume,
		})
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mint"}, {Name: "pool"}, {Name: "timeframe"}, {Name: "timestamp"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("candle store: upsert: %w", err)
	}
	return nil
}

func toCandles(rows []models.Candle) []marketdata.Candle {
	candles := make([]marketdata.Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, marketdata.Candle{
			Timestamp: r.Timestamp, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume,
		})
	}
	return candles
}

