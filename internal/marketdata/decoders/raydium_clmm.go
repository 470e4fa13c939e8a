package decoders

import (
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeRaydiumCLMM implements the Raydium concentrated-liquidity layout,
// pricing directly off the stored Q64.64 sqrt-price (§4.3, testable
// property 9).
func DecodeRaydiumCLMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	pool, ok := accounts[poolAddress]
	if !ok || len(pool.Data) < layouts.RaydiumCLMMMinSize {
		return nil
	}

	baseIsSOL, quoteIsSOL := solSide(baseMint, quoteMint)
	if baseIsSOL == quoteIsSOL {
		return nil
	}

	mint0, ok := readMint(pool.Data, layouts.RaydiumCLMMTokenMint0Off)
	if !ok {
		return nil
	}
	mint1, ok := readMint(pool.Data, layouts.RaydiumCLMMTokenMint1Off)
	if !ok {
		return nil
	}
	if !((mint0.Equals(baseMint) && mint1.Equals(quoteMint)) || (mint0.Equals(quoteMint) && mint1.Equals(baseMint))) {
		return nil
	}

	dec0, ok := decimals.Decimals(mint0)
	if !ok {
		return nil
	}
	dec1, ok := decimals.Decimals(mint1)
	if !ok {
		return nil
	}

	sqrtX64 := uint128.FromBytes(pool.Data[layouts.RaydiumCLMMSqrtPriceX64Off : layouts.RaydiumCLMMSqrtPriceX64Off+16])
	sqrtF, _ := new(big.Float).SetInt(sqrtX64.Big()).Float64()
	sqrtF /= math.Pow(2, 64)
	rawRatio := sqrtF * sqrtF

	// rawRatio is token1-per-token0 in real units. That is price_sol
	// directly when mint1 is the SOL side; when mint0 is the SOL side it
	// is tokens-per-SOL and must be inverted.
	price := rawRatio * math.Pow(10, float64(dec0)-float64(dec1))

	tokenMint := mint0
	if mint0.Equals(wrappedSOL) {
		tokenMint = mint1
		price = 1 / price
	}
	if !validPrice(price) {
		return nil
	}

	return &marketdata.PriceResult{
		Mint:        tokenMint.String(),
		PriceSOL:    price,
		Confidence:  0.85,
		SourcePool:  "Raydium CLMM",
		PoolAddress: poolAddress.String(),
		Slot:        pool.Slot,
		Timestamp:   pool.FetchedAt,
	}
}
