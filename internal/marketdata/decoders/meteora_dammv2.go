package decoders

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

// DecodeMeteoraDAMMv2 implements the Meteora DAMM v2 constant-product layout.
func DecodeMeteoraDAMMv2(
	accounts map[solana.PublicKey]*marketdata.AccountData,
	poolAddress solana.PublicKey,
	baseMint, quoteMint solana.PublicKey,
	decimals DecimalsLookup,
) *marketdata.PriceResult {
	return decodeReservePool(
		accounts, poolAddress, baseMint, quoteMint, decimals,
		layouts.MeteoraDAMMv2MinSize, layouts.MeteoraDAMMv2TokenAMintOff, layouts.MeteoraDAMMv2TokenBMintOff,
		"Meteora DAMM v2",
	)
}
