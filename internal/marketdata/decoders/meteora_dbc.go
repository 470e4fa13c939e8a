package decoders

import (
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeMeteoraDBC implements the Meteora dynamic bonding curve layout,
// a sqrt-price pool whose vault addresses (unlike Raydium CLMM) are
// stored at fixed offsets rather than discovered by mint match.
func DecodeMeteoraDBC(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	pool, ok := accounts[poolAddress]
	if !ok || len(pool.Data) < layouts.MeteoraDBCMinSize {
		return nil
	}

	baseIsSOL, quoteIsSOL := solSide(baseMint, quoteMint)
	if baseIsSOL == quoteIsSOL {
		return nil
	}

	tokenAMint, ok := readMint(pool.Data, layouts.MeteoraDBCTokenAMintOff)
	if !ok {
		return nil
	}
	if !tokenAMint.Equals(baseMint) && !tokenAMint.Equals(quoteMint) {
		return nil
	}

	baseDec, quoteDec, ok := resolveDecimals(decimals, baseMint, quoteMint)
	if !ok {
		return nil
	}

	aDec, bDec := baseDec, quoteDec
	if tokenAMint.Equals(quoteMint) {
		aDec, bDec = quoteDec, baseDec
	}

	sqrtX64 := uint128.FromBytes(pool.Data[layouts.MeteoraDBCSqrtPriceX64Off : layouts.MeteoraDBCSqrtPriceX64Off+16])
	sqrtF, _ := new(big.Float).SetInt(sqrtX64.Big()).Float64()
	sqrtF /= math.Pow(2, 64)
	rawRatio := sqrtF * sqrtF

	// price is tokenB-per-tokenA in real units ("B" being whichever of
	// baseMint/quoteMint isn't tokenAMint). That is price_sol directly
	// when tokenAMint is the non-SOL side; when tokenAMint is itself the
	// SOL side it is tokens-per-SOL and must be inverted.
	price := rawRatio * math.Pow(10, float64(aDec)-float64(bDec))

	solMint := quoteMint
	if baseIsSOL {
		solMint = baseMint
	}
	if tokenAMint.Equals(solMint) {
		price = 1 / price
	}
	if !validPrice(price) {
		return nil
	}

	tokenMint := nonSOLMint(baseMint, quoteMint, baseIsSOL)

	return &marketdata.PriceResult{
		Mint:        tokenMint.String(),
		PriceSOL:    price,
		Confidence:  0.85,
		SourcePool:  "Meteora DBC",
		PoolAddress: poolAddress.String(),
		Slot:        pool.Slot,
		Timestamp:   pool.FetchedAt,
	}
}
