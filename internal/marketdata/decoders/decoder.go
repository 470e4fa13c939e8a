// Package decoders implements the per-program pool decoders (spec §4.3).
// Every decoder is pure: given an account map and a base/quote mint pair
// it returns an *marketdata.PriceResult or nil, and never performs I/O or
// mutates its input (testable property 7, "decoder purity").
package decoders

import (
	"encoding/binary"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// Decoder is the common contract every pool decoder implements:
// decode_and_calculate(accounts, base_mint, quote_mint) -> Option<PriceResult>.
// poolAddress names the pool account within accounts that owns the pool
// program being dispatched to; the remaining entries in accounts are
// available for vault balance lookups.
type Decoder func(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult

// DecimalsLookup is the pure, in-memory interface decoders use to resolve
// token decimals. It never performs I/O; a miss means "unknown", not
// "fetch it now" (§4.3 precondition 4).
type DecimalsLookup interface {
	Decimals(mint solana.PublicKey) (uint8, bool)
}

// wrappedSOL is the native wrapped-SOL mint, compared against base/quote.
var wrappedSOL = solana.MustPublicKeyFromBase58(marketdata.WrappedSOLMint)

// solSide reports which side (if either) of the pair is wrapped SOL.
// Exactly one of the two booleans is true for a pool eligible for pricing;
// both false or both true are rejected by the caller (§4.3 precondition 3).
func solSide(baseMint, quoteMint solana.PublicKey) (baseIsSOL, quoteIsSOL bool) {
	return baseMint.Equals(wrappedSOL), quoteMint.Equals(wrappedSOL)
}

// pooled decimal pair resolved for a base/quote mint, or ok=false if
// either side's decimals are unknown to the cache.
func resolveDecimals(decimals DecimalsLookup, baseMint, quoteMint solana.PublicKey) (baseDec, quoteDec uint8, ok bool) {
	bd, bok := decimals.Decimals(baseMint)
	qd, qok := decimals.Decimals(quoteMint)
	if !bok || !qok {
		return 0, 0, false
	}
	return bd, qd, true
}

// vaultBalance reads an SPL token account's amount field (§4.3, "Vault
// balance decoding"): little-endian u64 at data[64:72].
func vaultBalance(accounts map[solana.PublicKey]*marketdata.AccountData, vault solana.PublicKey) (uint64, bool) {
	acc, ok := accounts[vault]
	if !ok || len(acc.Data) < layouts.SPLTokenAccountMinSize {
		return 0, false
	}
	return binary.LittleEndian.Uint64(acc.Data[layouts.SPLTokenAccountAmountOff : layouts.SPLTokenAccountAmountOff+8]), true
}

// adjust converts a raw integer amount to its decimal-adjusted float form.
func adjust(raw uint64, dec uint8) float64 {
	return float64(raw) / math.Pow10(int(dec))
}

func validPrice(p float64) bool {
	if p <= 0 || p > 1_000_000 {
		return false
	}
	return !math.IsNaN(p) && !math.IsInf(p, 0)
}

// cpmmPrice computes the SOL-per-token constant-product price, adjusted
// for decimals, given the raw SOL-side and token-side reserves (§4.3
// pricing formulae, scenario S2).
func cpmmPrice(solRaw, tokenRaw uint64, solDec, tokenDec uint8) (float64, bool) {
	if tokenRaw == 0 {
		return 0, false
	}
	p := adjust(solRaw, solDec) / adjust(tokenRaw, tokenDec)
	return p, validPrice(p)
}

// nonSOLMint returns whichever of base/quote is not wrapped SOL.
func nonSOLMint(baseMint, quoteMint solana.PublicKey, baseIsSOL bool) solana.PublicKey {
	if baseIsSOL {
		return quoteMint
	}
	return baseMint
}

// findVaultByMint scans the remaining accounts (excluding the pool account
// itself) for an SPL token account holding the given mint, returning its
// balance. Used by decoders whose pool layout does not store vault
// addresses at a fixed offset (§4.2: "dispatches to the matching decoder
// with the remaining accounts available for vault balance lookups").
func findVaultByMint(accounts map[solana.PublicKey]*marketdata.AccountData, poolAddress, mint solana.PublicKey) (uint64, bool) {
	for addr, acc := range accounts {
		if addr.Equals(poolAddress) {
			continue
		}
		if len(acc.Data) < layouts.SPLTokenAccountMinSize {
			continue
		}
		accMint, ok := readMint(acc.Data, layouts.SPLTokenAccountMintOff)
		if !ok || !accMint.Equals(mint) {
			continue
		}
		return binary.LittleEndian.Uint64(acc.Data[layouts.SPLTokenAccountAmountOff : layouts.SPLTokenAccountAmountOff+8]), true
	}
	return 0, false
}

func readMint(data []byte, off int) (solana.PublicKey, bool) {
	if len(data) < off+32 {
		return solana.PublicKey{}, false
	}
	var pk solana.PublicKey
	copy(pk[:], data[off:off+32])
	return pk, true
}

// decodeReservePool is the shared shape for the constant-product pool
// families whose layout stores only the two token mints at fixed offsets
// (vault addresses are not part of the account and must be matched by
// mint among the remaining fetched accounts): Raydium CPMM, Raydium
// legacy AMM, Meteora DAMM v2 and Meteora DLMM.
func decodeReservePool(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
	minSize, mintAOff, mintBOff int,
	sourcePool string,
) *marketdata.PriceResult {
	pool, ok := accounts[poolAddress]
	if !ok || len(pool.Data) < minSize {
		return nil
	}

	baseIsSOL, quoteIsSOL := solSide(baseMint, quoteMint)
	if baseIsSOL == quoteIsSOL {
		return nil
	}

	mintA, ok := readMint(pool.Data, mintAOff)
	if !ok {
		return nil
	}
	mintB, ok := readMint(pool.Data, mintBOff)
	if !ok {
		return nil
	}
	matches := (mintA.Equals(baseMint) && mintB.Equals(quoteMint)) || (mintA.Equals(quoteMint) && mintB.Equals(baseMint))
	if !matches {
		return nil
	}

	baseDec, quoteDec, ok := resolveDecimals(decimals, baseMint, quoteMint)
	if !ok {
		return nil
	}

	solMint, tokenMint := quoteMint, baseMint
	solDec, tokenDec := quoteDec, baseDec
	if baseIsSOL {
		solMint, tokenMint = baseMint, quoteMint
		solDec, tokenDec = baseDec, quoteDec
	}

	solRaw, ok := findVaultByMint(accounts, poolAddress, solMint)
	if !ok {
		return nil
	}
	tokenRaw, ok := findVaultByMint(accounts, poolAddress, tokenMint)
	if !ok {
		return nil
	}

	price, ok := cpmmPrice(solRaw, tokenRaw, solDec, tokenDec)
	if !ok {
		return nil
	}

	return &marketdata.PriceResult{
		Mint:          tokenMint.String(),
		PriceSOL:      price,
		SOLReserves:   adjust(solRaw, solDec),
		TokenReserves: adjust(tokenRaw, tokenDec),
		Confidence:    0.9,
		SourcePool:    sourcePool,
		PoolAddress:   poolAddress.String(),
		Slot:          pool.Slot,
		Timestamp:     pool.FetchedAt,
	}
}
