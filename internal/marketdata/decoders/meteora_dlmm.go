package decoders

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeMeteoraDLMM implements the Meteora DLMM pool layout. The spec
// carries no bin/sqrt-price offset for DLMM, so it prices first-order off
// reserves like the other non-CLMM pools (§4.3 pricing formulae: "Orca
// whirlpool treated as CPMM for first-order").
func DecodeMeteoraDLMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	return decodeReservePool(
		accounts, poolAddress, baseMint, quoteMint, decimals,
		layouts.MeteoraDLMMMinSize, layouts.MeteoraDLMMTokenXMintOff, layouts.MeteoraDLMMTokenYMintOff,
		"Meteora DLMM",
	)
}
