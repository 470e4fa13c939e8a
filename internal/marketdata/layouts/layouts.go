// Package layouts centralises the per-program byte-offset tables used by
// the pool decoders. Offsets are load-bearing (spec §4.3) and must stay
// bit-exact; every decoder reads through the named constants here rather
// than inlining magic numbers (Design Note: "Ad-hoc byte parsing with
// magic offsets scattered across modules").
package layouts

// FluxBeam AMM pool account layout.
const (
	FluxBeamPoolSize       = 324
	FluxBeamTokenAMintOff  = 131
	FluxBeamTokenBMintOff  = 163
	FluxBeamTokenAVaultOff = 35
	FluxBeamTokenBVaultOff = 67
	FluxBeamLPMintOff      = 99
	FluxBeamFeeAccountOff  = 195
)

// Raydium CLMM pool account layout (anchor account, 8-byte discriminator
// already stripped by the caller before these offsets apply).
const (
	RaydiumCLMMBumpOff          = 8
	RaydiumCLMMAmmConfigOff     = 9
	RaydiumCLMMOwnerOff         = 41
	RaydiumCLMMTokenMint0Off    = 73
	RaydiumCLMMTokenMint1Off    = 105
	RaydiumCLMMTokenVault0Off   = 137
	RaydiumCLMMTokenVault1Off   = 169
	RaydiumCLMMObservationOff   = 201
	RaydiumCLMMDecimals0Off     = 233
	RaydiumCLMMDecimals1Off     = 234
	RaydiumCLMMTickSpacingOff   = 235
	RaydiumCLMMLiquidityOff     = 237
	RaydiumCLMMSqrtPriceX64Off  = 253
	RaydiumCLMMTickCurrentOff   = 269
	RaydiumCLMMMinSize          = RaydiumCLMMTickCurrentOff + 4
)

// Raydium CPMM pool account layout.
const (
	RaydiumCPMMTokenAMintOff = 168
	RaydiumCPMMTokenBMintOff = 200
	RaydiumCPMMMinSize       = RaydiumCPMMTokenBMintOff + 32
)

// Raydium legacy (v4) AMM pool account layout.
const (
	RaydiumLegacyTokenAMintOff = 0x190 // 400
	RaydiumLegacyTokenBMintOff = 0x1b0 // 432
	RaydiumLegacyMinSize       = RaydiumLegacyTokenBMintOff + 32
)

// Meteora DAMM v2 pool account layout.
const (
	MeteoraDAMMv2TokenAMintOff = 136
	MeteoraDAMMv2TokenBMintOff = 168
	MeteoraDAMMv2MinSize       = MeteoraDAMMv2TokenBMintOff + 32
)

// Meteora DLMM pool account layout.
const (
	MeteoraDLMMTokenXMintOff = 88
	MeteoraDLMMTokenYMintOff = 120
	MeteoraDLMMMinSize       = MeteoraDLMMTokenYMintOff + 32
)

// Meteora DBC (dynamic bonding curve) pool account layout.
const (
	MeteoraDBCTokenAMintOff  = 128
	MeteoraDBCTokenAVaultOff = 160
	MeteoraDBCTokenBVaultOff = 192
	MeteoraDBCSqrtPriceX64Off = 280
	MeteoraDBCMinSize        = 424
)

// SPL token account layout (used to read live vault balances, §4.3).
const (
	SPLTokenAccountMintOff   = 0
	SPLTokenAccountAmountOff = 64
	SPLTokenAccountMinSize   = 72
)

// Pump.fun bonding-curve account layout.
const (
	PumpFunBCDiscriminatorSize   = 8
	PumpFunBCVirtualTokenResOff = 8
	PumpFunBCVirtualSolResOff   = 16
	PumpFunBCRealTokenResOff    = 24
	PumpFunBCRealSolResOff      = 32
	PumpFunBCMinSize            = PumpFunBCRealSolResOff + 8
)
