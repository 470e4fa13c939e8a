package decoders

import (
	"math"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// sqrtPriceX64 encodes sqrt(price) as a Q64.64 fixed-point integer, the
// wire representation Raydium CLMM pools store on-chain.
func sqrtPriceX64(price float64) uint128.Uint128 {
	sqrtPrice := math.Sqrt(price) * math.Pow(2, 64)
	bigInt := new(big.Float).SetFloat64(sqrtPrice)
	i, _ := bigInt.Int(nil)
	return uint128.FromBig(i)
}

func newCLMMPool(mint0, mint1 solana.PublicKey, price float64) *marketdata.AccountData {
	data := make([]byte, layouts.RaydiumCLMMMinSize)
	copy(data[layouts.RaydiumCLMMTokenMint0Off:], mint0[:])
	copy(data[layouts.RaydiumCLMMTokenMint1Off:], mint1[:])
	x64 := sqrtPriceX64(price)
	b := x64.Big().Bytes()
	// uint128.Big() is big-endian; the layout stores little-endian bytes.
	le := make([]byte, 16)
	for i, v := range b {
		le[15-i] = v
	}
	copy(data[layouts.RaydiumCLMMSqrtPriceX64Off:], le)
	return &marketdata.AccountData{Data: data}
}

func TestDecodeRaydiumCLMMRoundTripsSqrtPrice(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	// price here is raw-unit ratio token1/token0; with SOL as mint1 and
	// matching decimals, rawRatio == the real-unit price directly.
	const rawRatio = 0.5
	pool := newCLMMPool(tokenMint, wrappedSOL, rawRatio)
	poolAddr := solana.NewWallet().PublicKey()

	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeRaydiumCLMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.Equal(t, tokenMint.String(), result.Mint)
	assert.InDelta(t, rawRatio, result.PriceSOL, 1e-6)
	assert.Equal(t, 0.85, result.Confidence)
}

// TestDecodeRaydiumCLMMAgreesRegardlessOfSOLSlot guards against the decoder
// assuming SOL always sorts into mint1: both physical orderings of the same
// real-world price must yield the same PriceSOL.
func TestDecodeRaydiumCLMMAgreesRegardlessOfSOLSlot(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	const priceSOL = 2e-6 // true SOL-per-token price
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	// SOL occupies mint1: rawRatio (mint1/mint0, decimal-adjusted) equals
	// priceSOL directly.
	poolSOLasMint1 := newCLMMPool(tokenMint, wrappedSOL, priceSOL)
	addr1 := solana.NewWallet().PublicKey()
	result1 := DecodeRaydiumCLMM(
		map[solana.PublicKey]*marketdata.AccountData{addr1: poolSOLasMint1},
		addr1, wrappedSOL, tokenMint, decimals,
	)
	require.NotNil(t, result1)

	// SOL occupies mint0: rawRatio (mint1/mint0) is tokens-per-SOL, the
	// reciprocal of priceSOL.
	poolSOLasMint0 := newCLMMPool(wrappedSOL, tokenMint, 1/priceSOL)
	addr0 := solana.NewWallet().PublicKey()
	result0 := DecodeRaydiumCLMM(
		map[solana.PublicKey]*marketdata.AccountData{addr0: poolSOLasMint0},
		addr0, wrappedSOL, tokenMint, decimals,
	)
	require.NotNil(t, result0)

	assert.InDelta(t, priceSOL, result1.PriceSOL, priceSOL*1e-6)
	assert.InDelta(t, priceSOL, result0.PriceSOL, priceSOL*1e-6)
}

func TestDecodeRaydiumCLMMRejectsUndersizedAccount(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: {Data: make([]byte, 4)}}
	result := DecodeRaydiumCLMM(accounts, poolAddr, wrappedSOL, solana.NewWallet().PublicKey(), fakeDecimals{})
	assert.Nil(t, result)
}

func TestDecodeRaydiumCLMMRejectsNeitherSideSOL(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	pool := newCLMMPool(a, b, 1.0)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	result := DecodeRaydiumCLMM(accounts, poolAddr, a, b, fakeDecimals{a: 6, b: 6})
	assert.Nil(t, result)
}

func TestDecodeRaydiumCLMMRejectsMissingDecimals(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	pool := newCLMMPool(wrappedSOL, tokenMint, 1.0)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	result := DecodeRaydiumCLMM(accounts, poolAddr, wrappedSOL, tokenMint, fakeDecimals{wrappedSOL: 9})
	assert.Nil(t, result)
}
