package marketdata

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the tunables for the market-data core: snapshot TTLs, the
// OHLCV tiers and scheduler base intervals, and the stablecoin allowlist.
type Config struct {
	SnapshotTTLSeconds       int      `mapstructure:"snapshot_ttl_seconds"`
	PrefetchDebounceSeconds  int      `mapstructure:"prefetch_debounce_seconds"`
	MinLiquidityUSD          float64  `mapstructure:"min_liquidity_usd"`
	StablecoinMints          []string `mapstructure:"stablecoin_mints"`

	HotCacheMaxTokens        int `mapstructure:"hot_cache_max_tokens"`
	HotCacheRetentionHours   int `mapstructure:"hot_cache_retention_hours"`

	DefaultRPS      int            `mapstructure:"default_rps"`
	SourceRPS       map[string]int `mapstructure:"source_rps"`

	DiscoveryBaseURL string `mapstructure:"discovery_base_url"`
	RemoteOHLCVURL   string `mapstructure:"remote_ohlcv_url"`

	PostgresURL string `mapstructure:"postgres_url"`
}

const (
	DefaultSnapshotTTLSeconds      = 60
	DefaultPrefetchDebounceSeconds = 20
	DefaultMinLiquidityUSD         = 1000.0
	DefaultHotCacheMaxTokens       = 100
	DefaultHotCacheRetentionHours  = 24
	DefaultRPS                     = 10
)

// LoadConfig reads a market-data config file at path, applying defaults
// and an environment override pass, the way internal/config.LoadConfig
// does for the bot's primary configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"snapshot_ttl_seconds":       DefaultSnapshotTTLSeconds,
		"prefetch_debounce_seconds":  DefaultPrefetchDebounceSeconds,
		"min_liquidity_usd":          DefaultMinLiquidityUSD,
		"hot_cache_max_tokens":       DefaultHotCacheMaxTokens,
		"hot_cache_retention_hours":  DefaultHotCacheRetentionHours,
		"default_rps":                DefaultRPS,
		"stablecoin_mints": []string{
			"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // USDC
			"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", // USDT
		},
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentOverrides(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func loadEnvironmentOverrides(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if url := v.GetString("DISCOVERY_BASE_URL"); url != "" {
		cfg.DiscoveryBaseURL = url
	}
	if url := v.GetString("REMOTE_OHLCV_URL"); url != "" {
		cfg.RemoteOHLCVURL = url
	}
	if url := v.GetString("POSTGRES_URL"); url != "" {
		cfg.PostgresURL = url
	}
}

func validateConfig(cfg *Config) error {
	if cfg.SnapshotTTLSeconds <= 0 {
		return errors.New("marketdata: invalid snapshot_ttl_seconds")
	}
	if cfg.HotCacheMaxTokens <= 0 {
		return errors.New("marketdata: invalid hot_cache_max_tokens")
	}
	if cfg.HotCacheRetentionHours <= 0 {
		return errors.New("marketdata: invalid hot_cache_retention_hours")
	}
	if cfg.DiscoveryBaseURL == "" {
		return errors.New("marketdata: discovery_base_url is required")
	}
	if cfg.RemoteOHLCVURL == "" {
		return errors.New("marketdata: remote_ohlcv_url is required")
	}
	return nil
}
