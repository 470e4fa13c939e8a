package decoders

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeRaydiumCPMM implements the Raydium constant-product pool layout.
func DecodeRaydiumCPMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	return decodeReservePool(
		accounts, poolAddress, baseMint, quoteMint, decimals,
		layouts.RaydiumCPMMMinSize, layouts.RaydiumCPMMTokenAMintOff, layouts.RaydiumCPMMTokenBMintOff,
		"Raydium CPMM",
	)
}
