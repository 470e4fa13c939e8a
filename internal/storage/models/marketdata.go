package models

import "time"

// PoolSnapshot persists one pool entry of a TokenPoolsSnapshot (§4.5),
// one row per pool belonging to a mint's most recently stored snapshot.
type PoolSnapshot struct {
	BaseModel
	Mint           string `gorm:"index:idx_pool_snapshot_mint;not null;type:varchar(44)"`
	PoolAddress    string `gorm:"not null;type:varchar(44)"`
	OwnerProgramID string `gorm:"type:varchar(44)"`
	Kind           string `gorm:"type:varchar(32)"`
	BaseMint       string `gorm:"type:varchar(44)"`
	QuoteMint      string `gorm:"type:varchar(44)"`
	LiquidityUSD   float64 `gorm:"type:decimal(24,4)"`
	IsCanonical    bool    `gorm:"index"`
	FetchedAt      time.Time `gorm:"index"`
}

// Candle persists one OHLCV bar for the Tier 2 store (§4.7), keyed by
// (mint, pool, timeframe, timestamp).
type Candle struct {
	Mint      string  `gorm:"primaryKey;type:varchar(44)"`
	Pool      string  `gorm:"primaryKey;type:varchar(44)"`
	Timeframe string  `gorm:"primaryKey;type:varchar(8)"`
	Timestamp int64   `gorm:"primaryKey"`
	Open      float64 `gorm:"type:decimal(24,9)"`
	High      float64 `gorm:"type:decimal(24,9)"`
	Low       float64 `gorm:"type:decimal(24,9)"`
	Close     float64 `gorm:"type:decimal(24,9)"`
	Volume    float64 `gorm:"type:decimal(24,9)"`
}

func (Candle) TableName() string { return "ohlcv_candles" }
