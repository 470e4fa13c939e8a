package priceservice

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

func TestVaultHintsFluxBeamExtractsBothVaults(t *testing.T) {
	data := make([]byte, layouts.FluxBeamPoolSize)
	vaultA := solana.NewWallet().PublicKey()
	vaultB := solana.NewWallet().PublicKey()
	copy(data[layouts.FluxBeamTokenAVaultOff:], vaultA[:])
	copy(data[layouts.FluxBeamTokenBVaultOff:], vaultB[:])

	hints := vaultHints(marketdata.PoolKindFluxbeamAMM, data)
	assert.ElementsMatch(t, []solana.PublicKey{vaultA, vaultB}, hints)
}

func TestVaultHintsMeteoraDBCExtractsBothVaults(t *testing.T) {
	data := make([]byte, layouts.MeteoraDBCMinSize)
	vaultA := solana.NewWallet().PublicKey()
	vaultB := solana.NewWallet().PublicKey()
	copy(data[layouts.MeteoraDBCTokenAVaultOff:], vaultA[:])
	copy(data[layouts.MeteoraDBCTokenBVaultOff:], vaultB[:])

	hints := vaultHints(marketdata.PoolKindMeteoraDBC, data)
	assert.ElementsMatch(t, []solana.PublicKey{vaultA, vaultB}, hints)
}

func TestVaultHintsReturnsNilForUndersizedAccount(t *testing.T) {
	assert.Nil(t, vaultHints(marketdata.PoolKindFluxbeamAMM, make([]byte, 4)))
}

func TestVaultHintsReturnsNilForKindWithNoFixedOffsets(t *testing.T) {
	data := make([]byte, layouts.RaydiumCPMMMinSize)
	assert.Nil(t, vaultHints(marketdata.PoolKindRaydiumCPMM, data))
}

func TestReadPublicKeyOutOfBoundsReturnsZeroValue(t *testing.T) {
	var zero solana.PublicKey
	assert.Equal(t, zero, readPublicKey(make([]byte, 4), 100))
}

func TestReadPublicKeyReadsAtOffset(t *testing.T) {
	pk := solana.NewWallet().PublicKey()
	data := make([]byte, 64)
	copy(data[32:], pk[:])
	assert.Equal(t, pk, readPublicKey(data, 32))
}
