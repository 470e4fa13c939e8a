package decoders

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeFluxBeamAMM implements the FluxBeam constant-product pool layout.
func DecodeFluxBeamAMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	pool, ok := accounts[poolAddress]
	if !ok || len(pool.Data) != layouts.FluxBeamPoolSize {
		return nil
	}

	baseIsSOL, quoteIsSOL := solSide(baseMint, quoteMint)
	if baseIsSOL == quoteIsSOL {
		return nil
	}

	tokenAMint, ok := readMint(pool.Data, layouts.FluxBeamTokenAMintOff)
	if !ok {
		return nil
	}
	tokenBMint, ok := readMint(pool.Data, layouts.FluxBeamTokenBMintOff)
	if !ok {
		return nil
	}
	aIsBase := tokenAMint.Equals(baseMint) && tokenBMint.Equals(quoteMint)
	aIsQuote := tokenAMint.Equals(quoteMint) && tokenBMint.Equals(baseMint)
	if !aIsBase && !aIsQuote {
		return nil
	}

	tokenAVault, ok := readMint(pool.Data, layouts.FluxBeamTokenAVaultOff)
	if !ok {
		return nil
	}
	tokenBVault, ok := readMint(pool.Data, layouts.FluxBeamTokenBVaultOff)
	if !ok {
		return nil
	}

	aBal, ok := vaultBalance(accounts, tokenAVault)
	if !ok {
		return nil
	}
	bBal, ok := vaultBalance(accounts, tokenBVault)
	if !ok {
		return nil
	}

	baseDec, quoteDec, ok := resolveDecimals(decimals, baseMint, quoteMint)
	if !ok {
		return nil
	}

	var solRaw, tokenRaw uint64
	var solDec, tokenDec uint8
	switch {
	case baseIsSOL && aIsBase:
		solRaw, tokenRaw, solDec, tokenDec = aBal, bBal, baseDec, quoteDec
	case baseIsSOL && aIsQuote:
		solRaw, tokenRaw, solDec, tokenDec = bBal, aBal, baseDec, quoteDec
	case quoteIsSOL && aIsBase:
		solRaw, tokenRaw, solDec, tokenDec = bBal, aBal, quoteDec, baseDec
	default: // quoteIsSOL && aIsQuote
		solRaw, tokenRaw, solDec, tokenDec = aBal, bBal, quoteDec, baseDec
	}

	price, ok := cpmmPrice(solRaw, tokenRaw, solDec, tokenDec)
	if !ok {
		return nil
	}

	return &marketdata.PriceResult{
		Mint:          nonSOLMint(baseMint, quoteMint, baseIsSOL).String(),
		PriceSOL:      price,
		SOLReserves:   adjust(solRaw, solDec),
		TokenReserves: adjust(tokenRaw, tokenDec),
		Confidence:    0.9,
		SourcePool:    "FluxBeam AMM",
		PoolAddress:   poolAddress.String(),
		Slot:          pool.Slot,
		Timestamp:     pool.FetchedAt,
	}
}
