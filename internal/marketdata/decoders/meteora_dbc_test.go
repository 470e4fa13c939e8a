package decoders

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

func newDBCPool(tokenAMint solana.PublicKey, rawRatio float64) *marketdata.AccountData {
	data := make([]byte, layouts.MeteoraDBCMinSize)
	copy(data[layouts.MeteoraDBCTokenAMintOff:], tokenAMint[:])
	x64 := sqrtPriceX64(rawRatio)
	b := x64.Big().Bytes()
	le := make([]byte, 16)
	for i, v := range b {
		le[15-i] = v
	}
	copy(data[layouts.MeteoraDBCSqrtPriceX64Off:], le)
	return &marketdata.AccountData{Data: data}
}

func TestDecodeMeteoraDBCRoundTripsSqrtPrice(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	const rawRatio = 0.75

	// tokenAMint is the non-SOL side here, so rawRatio (tokenB/tokenA)
	// is SOL-per-token directly.
	pool := newDBCPool(tokenMint, rawRatio)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeMeteoraDBC(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.Equal(t, tokenMint.String(), result.Mint)
	assert.InDelta(t, rawRatio, result.PriceSOL, 1e-6)
	assert.Equal(t, "Meteora DBC", result.SourcePool)
}

// TestDecodeMeteoraDBCAgreesRegardlessOfTokenASlot guards against the
// decoder assuming SOL never occupies tokenAMint: both physical orderings
// of the same real-world price must yield the same PriceSOL.
func TestDecodeMeteoraDBCAgreesRegardlessOfTokenASlot(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	const priceSOL = 3e-5 // true SOL-per-token price
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	// tokenAMint == tokenMint: rawRatio (tokenB/tokenA) is SOL-per-token
	// directly.
	poolTokenIsA := newDBCPool(tokenMint, priceSOL)
	addrTokenA := solana.NewWallet().PublicKey()
	resultTokenA := DecodeMeteoraDBC(
		map[solana.PublicKey]*marketdata.AccountData{addrTokenA: poolTokenIsA},
		addrTokenA, wrappedSOL, tokenMint, decimals,
	)
	require.NotNil(t, resultTokenA)

	// tokenAMint == wrappedSOL: rawRatio (tokenB/tokenA) is
	// tokens-per-SOL, the reciprocal of priceSOL.
	poolSOLIsA := newDBCPool(wrappedSOL, 1/priceSOL)
	addrSOLA := solana.NewWallet().PublicKey()
	resultSOLA := DecodeMeteoraDBC(
		map[solana.PublicKey]*marketdata.AccountData{addrSOLA: poolSOLIsA},
		addrSOLA, wrappedSOL, tokenMint, decimals,
	)
	require.NotNil(t, resultSOLA)

	assert.InDelta(t, priceSOL, resultTokenA.PriceSOL, priceSOL*1e-6)
	assert.InDelta(t, priceSOL, resultSOLA.PriceSOL, priceSOL*1e-6)
}

func TestDecodeMeteoraDBCRejectsTokenAMintNotInPair(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	unrelated := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()

	pool := newDBCPool(unrelated, 1.0)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodeMeteoraDBC(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	assert.Nil(t, result)
}

func TestDecodeMeteoraDBCRejectsUndersizedAccount(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: {Data: make([]byte, 8)}}
	result := DecodeMeteoraDBC(accounts, poolAddr, wrappedSOL, solana.NewWallet().PublicKey(), fakeDecimals{})
	assert.Nil(t, result)
}
