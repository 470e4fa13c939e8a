package marketdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "marketdata.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"discovery_base_url":"https://discover.example","remote_ohlcv_url":"https://ohlcv.example"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshotTTLSeconds, cfg.SnapshotTTLSeconds)
	assert.Equal(t, DefaultHotCacheMaxTokens, cfg.HotCacheMaxTokens)
	assert.Equal(t, DefaultRPS, cfg.DefaultRPS)
	assert.Contains(t, cfg.StablecoinMints, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"snapshot_ttl_seconds": 120,
		"discovery_base_url": "https://discover.example",
		"remote_ohlcv_url": "https://ohlcv.example"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.SnapshotTTLSeconds)
}

func TestLoadConfigFailsValidationWithoutDiscoveryURL(t *testing.T) {
	path := writeConfigFile(t, `{"remote_ohlcv_url":"https://ohlcv.example"}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigFailsValidationWithoutRemoteURL(t *testing.T) {
	path := writeConfigFile(t, `{"discovery_base_url":"https://discover.example"}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverridesWinOverFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"discovery_base_url": "https://file-value.example",
		"remote_ohlcv_url": "https://ohlcv.example"
	}`)

	t.Setenv("SOLWATCH_DISCOVERY_BASE_URL", "https://env-value.example")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env-value.example", cfg.DiscoveryBaseURL)
}

func TestLoadConfigErrorsOnMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}
