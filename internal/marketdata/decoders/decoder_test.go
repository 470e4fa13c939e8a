package decoders

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

type fakeDecimals map[solana.PublicKey]uint8

func (f fakeDecimals) Decimals(mint solana.PublicKey) (uint8, bool) {
	d, ok := f[mint]
	return d, ok
}

func newSPLTokenAccount(mint solana.PublicKey, amount uint64) *marketdata.AccountData {
	data := make([]byte, layouts.SPLTokenAccountMinSize)
	copy(data[layouts.SPLTokenAccountMintOff:], mint[:])
	binary.LittleEndian.PutUint64(data[layouts.SPLTokenAccountAmountOff:], amount)
	return &marketdata.AccountData{Data: data}
}

func TestCpmmPriceRejectsZeroTokenReserve(t *testing.T) {
	_, ok := cpmmPrice(1_000_000, 0, 9, 6)
	assert.False(t, ok)
}

func TestCpmmPriceComputesSOLPerToken(t *testing.T) {
	// 2 SOL (9 decimals) against 1000 tokens (6 decimals) => 0.002 SOL/token.
	price, ok := cpmmPrice(2_000_000_000, 1_000_000_000, 9, 6)
	require.True(t, ok)
	assert.InDelta(t, 0.002, price, 1e-12)
}

func TestValidPriceBounds(t *testing.T) {
	assert.False(t, validPrice(0))
	assert.False(t, validPrice(-1))
	assert.False(t, validPrice(1_000_001))
	assert.True(t, validPrice(1_000_000))
	assert.True(t, validPrice(0.0000001))
}

func TestSolSideExactlyOneMatches(t *testing.T) {
	other := solana.NewWallet().PublicKey()
	baseIsSOL, quoteIsSOL := solSide(wrappedSOL, other)
	assert.True(t, baseIsSOL)
	assert.False(t, quoteIsSOL)

	baseIsSOL, quoteIsSOL = solSide(other, other)
	assert.False(t, baseIsSOL)
	assert.False(t, quoteIsSOL)
}

func TestDecodeReservePoolRoundTrip(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	tokenMint := solana.NewWallet().PublicKey()
	solVault := solana.NewWallet().PublicKey()
	tokenVault := solana.NewWallet().PublicKey()

	poolData := make([]byte, layouts.RaydiumCPMMMinSize)
	copy(poolData[layouts.RaydiumCPMMTokenAMintOff:], wrappedSOL[:])
	copy(poolData[layouts.RaydiumCPMMTokenBMintOff:], tokenMint[:])

	accounts := map[solana.PublicKey]*marketdata.AccountData{
		poolAddr:   {Data: poolData},
		solVault:   newSPLTokenAccount(wrappedSOL, 5_000_000_000),
		tokenVault: newSPLTokenAccount(tokenMint, 2_500_000_000),
	}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 6}

	result := decodeReservePool(accounts, poolAddr, wrappedSOL, tokenMint, decimals,
		layouts.RaydiumCPMMMinSize, layouts.RaydiumCPMMTokenAMintOff, layouts.RaydiumCPMMTokenBMintOff, "Raydium CPMM")

	require.NotNil(t, result)
	assert.Equal(t, tokenMint.String(), result.Mint)
	assert.Equal(t, poolAddr.String(), result.PoolAddress)
	assert.InDelta(t, 2.0, result.PriceSOL, 1e-9) // 5 SOL / 2500 tokens
	assert.Equal(t, 0.9, result.Confidence)
	assert.True(t, result.Valid())
}

func TestDecodeReservePoolRejectsMintMismatch(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	otherMint := solana.NewWallet().PublicKey()
	wrongMint := solana.NewWallet().PublicKey()

	poolData := make([]byte, layouts.RaydiumCPMMMinSize)
	copy(poolData[layouts.RaydiumCPMMTokenAMintOff:], wrappedSOL[:])
	copy(poolData[layouts.RaydiumCPMMTokenBMintOff:], otherMint[:])

	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: {Data: poolData}}
	decimals := fakeDecimals{wrappedSOL: 9, wrongMint: 6}

	result := decodeReservePool(accounts, poolAddr, wrappedSOL, wrongMint, decimals,
		layouts.RaydiumCPMMMinSize, layouts.RaydiumCPMMTokenAMintOff, layouts.RaydiumCPMMTokenBMintOff, "Raydium CPMM")
	assert.Nil(t, result)
}

func TestDecodeReservePoolRejectsUndersizedAccount(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{
		poolAddr: {Data: make([]byte, 4)},
	}
	result := decodeReservePool(accounts, poolAddr, wrappedSOL, solana.NewWallet().PublicKey(), fakeDecimals{},
		layouts.RaydiumCPMMMinSize, layouts.RaydiumCPMMTokenAMintOff, layouts.RaydiumCPMMTokenBMintOff, "Raydium CPMM")
	assert.Nil(t, result)
}

func TestFindVaultByMintSkipsPoolAccount(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	// The pool account itself happens to also decode as a plausible SPL
	// token account at these offsets; findVaultByMint must not match it.
	poolData := make([]byte, layouts.SPLTokenAccountMinSize)
	copy(poolData[layouts.SPLTokenAccountMintOff:], mint[:])
	binary.LittleEndian.PutUint64(poolData[layouts.SPLTokenAccountAmountOff:], 999)

	vault := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{
		poolAddr: {Data: poolData},
		vault:    newSPLTokenAccount(mint, 42),
	}

	balance, ok := findVaultByMint(accounts, poolAddr, mint)
	require.True(t, ok)
	assert.Equal(t, uint64(42), balance)
}
