package tokeninfo

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const usdc = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func TestNewSeedsConfiguredStablecoins(t *testing.T) {
	c := New(nil, []string{usdc}, zap.NewNop())
	assert.True(t, c.IsStablecoin(solana.MustPublicKeyFromBase58(usdc)))
	assert.False(t, c.IsStablecoin(solana.NewWallet().PublicKey()))
}

func TestDecimalsMissesWithoutWarm(t *testing.T) {
	c := New(nil, nil, zap.NewNop())
	_, ok := c.Decimals(solana.NewWallet().PublicKey())
	assert.False(t, ok)
}

func TestBlacklistExcludesMintGoingForward(t *testing.T) {
	c := New(nil, nil, zap.NewNop())
	mint := solana.NewWallet().PublicKey()
	assert.False(t, c.IsBlacklisted(mint))
	c.Blacklist(mint)
	assert.True(t, c.IsBlacklisted(mint))
}

func TestDefaultStablecoinsListsUSDCAndUSDT(t *testing.T) {
	assert.Contains(t, DefaultStablecoins, usdc)
	assert.Len(t, DefaultStablecoins, 2)
}
