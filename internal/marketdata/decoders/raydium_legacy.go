package decoders

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeRaydiumLegacyAMM implements the Raydium v4 ("legacy") AMM layout.
func DecodeRaydiumLegacyAMM(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	return decodeReservePool(
		accounts, poolAddress, baseMint, quoteMint, decimals,
		layouts.RaydiumLegacyMinSize, layouts.RaydiumLegacyTokenAMintOff, layouts.RaydiumLegacyTokenBMintOff,
		"Raydium Legacy AMM",
	)
}
