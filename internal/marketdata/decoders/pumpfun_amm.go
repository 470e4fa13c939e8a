package decoders

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodePumpFunAMM implements the Pump.fun bonding-curve account layout
// (§4.3 "Bonding curve"): prefer real reserves if both are non-zero,
// otherwise fall back to virtual reserves, and reject if both are zero
// (Open Question 2: the source's token-account-balance last resort is
// not implemented).
func DecodePumpFunAMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	pool, ok := accounts[poolAddress]
	if !ok || len(pool.Data) < layouts.PumpFunBCMinSize {
		return nil
	}

	baseIsSOL, quoteIsSOL := solSide(baseMint, quoteMint)
	if baseIsSOL == quoteIsSOL {
		return nil
	}

	virtualTokenRes := binary.LittleEndian.Uint64(pool.Data[layouts.PumpFunBCVirtualTokenResOff : layouts.PumpFunBCVirtualTokenResOff+8])
	virtualSolRes := binary.LittleEndian.Uint64(pool.Data[layouts.PumpFunBCVirtualSolResOff : layouts.PumpFunBCVirtualSolResOff+8])
	realTokenRes := binary.LittleEndian.Uint64(pool.Data[layouts.PumpFunBCRealTokenResOff : layouts.PumpFunBCRealTokenResOff+8])
	realSolRes := binary.LittleEndian.Uint64(pool.Data[layouts.PumpFunBCRealSolResOff : layouts.PumpFunBCRealSolResOff+8])

	solRaw, tokenRaw := realSolRes, realTokenRes
	if solRaw == 0 || tokenRaw == 0 {
		solRaw, tokenRaw = virtualSolRes, virtualTokenRes
	}
	if solRaw == 0 || tokenRaw == 0 {
		return nil
	}

	baseDec, quoteDec, ok := resolveDecimals(decimals, baseMint, quoteMint)
	if !ok {
		return nil
	}
	solDec, tokenDec := quoteDec, baseDec
	if baseIsSOL {
		solDec, tokenDec = baseDec, quoteDec
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
		Confidence:    0.7,
		SourcePool:    "Pump.fun AMM",
		PoolAddress:   poolAddress.String(),
		Slot:          pool.Slot,
		Timestamp:     pool.FetchedAt,
	}
}
