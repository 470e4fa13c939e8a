package decoders

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

func newFluxBeamPool(tokenAMint, tokenBMint, tokenAVault, tokenBVault solana.PublicKey) *marketdata.AccountData {
	data := make([]byte, layouts.FluxBeamPoolSize)
	copy(data[layouts.FluxBeamTokenAMintOff:], tokenAMint[:])
	copy(data[layouts.FluxBeamTokenBMintOff:], tokenBMint[:])
	copy(data[layouts.FluxBeamTokenAVaultOff:], tokenAVault[:])
	copy(data[layouts.FluxBeamTokenBVaultOff:], tokenBVault[:])
	return &marketdata.AccountData{Data: data}
}

func TestDecodeFluxBeamAMMComputesPriceFromVaultBalances(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	solVault := solana.NewWallet().PublicKey()
	tokenVault := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()

	pool := newFluxBeamPool(wrappedSOL, tokenMint, solVault, tokenVault)
	accounts := map[solana.PublicKey]*marketdata.AccountData{
		poolAddr:   pool,
		solVault:   newSPLTokenAccount(wrappedSOL, 3_000_000_000),
		tokenVault: newSPLTokenAccount(tokenMint, 1_500_000_000),
	}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeFluxBeamAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, result.PriceSOL, 1e-9)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestDecodeFluxBeamAMMRejectsWrongAccountSize(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: {Data: make([]byte, 10)}}
	result := DecodeFluxBeamAMM(accounts, poolAddr, wrappedSOL, solana.NewWallet().PublicKey(), fakeDecimals{})
	assert.Nil(t, result)
}

func TestDecodeFluxBeamAMMRejectsMissingVaultAccount(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	solVault := solana.NewWallet().PublicKey()
	tokenVault := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()

	pool := newFluxBeamPool(wrappedSOL, tokenMint, solVault, tokenVault)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeFluxBeamAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	assert.Nil(t, result)
}

func TestDecodeFluxBeamAMMHandlesSwappedTokenOrdering(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	solVault := solana.NewWallet().PublicKey()
	tokenVault := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()

	// token A is the non-SOL side this time.
	pool := newFluxBeamPool(tokenMint, wrappedSOL, tokenVault, solVault)
	accounts := map[solana.PublicKey]*marketdata.AccountData{
		poolAddr:   pool,
		solVault:   newSPLTokenAccount(wrappedSOL, 4_000_000_000),
		tokenVault: newSPLTokenAccount(tokenMint, 2_000_000_000),
	}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeFluxBeamAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, result.PriceSOL, 1e-9)
}
