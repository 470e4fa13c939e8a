// Package registry owns the mapping from on-chain owner program id to pool
// decoder (spec §4.2). It replaces dynamic dispatch with a tagged variant
// (ProgramKind) and a static table, per Design Note "Dynamic dispatch
// across decoder implementations".
package registry

import (
	"github.com/gagliardetto/solana-go"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/decoders"
)

// ProgramKind tags the AMM program family an owner program id belongs to.
type ProgramKind int

const (
	KindUnknown ProgramKind = iota
	KindRaydiumCPMM
	KindRaydiumCLMM
	KindRaydiumLegacyAMM
	KindMeteoraDAMMv2
	KindMeteoraDLMM
	KindMeteoraDBC
	KindFluxBeamAMM
	KindPumpFunAMM
)

func (k ProgramKind) String() string {
	switch k {
	case KindRaydiumCPMM:
		return "RaydiumCPMM"
	case KindRaydiumCLMM:
		return "RaydiumCLMM"
	case KindRaydiumLegacyAMM:
		return "RaydiumLegacyAMM"
	case KindMeteoraDAMMv2:
		return "MeteoraDAMMv2"
	case KindMeteoraDLMM:
		return "MeteoraDLMM"
	case KindMeteoraDBC:
		return "MeteoraDBC"
	case KindFluxBeamAMM:
		return "FluxBeamAMM"
	case KindPumpFunAMM:
		return "PumpFunAMM"
	default:
		return "Unknown"
	}
}

// Known mainnet program ids (§6, load-bearing). Any id not listed here
// classifies as KindUnknown and its pools are ignored for pricing.
var knownProgramIDs = map[solana.PublicKey]ProgramKind{
	solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"): KindRaydiumCPMM,
	solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"): KindRaydiumCLMM,
	solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"): KindRaydiumLegacyAMM,
	solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG"): KindMeteoraDAMMv2,
	solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"): KindMeteoraDLMM,
	solana.MustPublicKeyFromBase58("dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN"): KindMeteoraDBC,
	solana.MustPublicKeyFromBase58("FLUXubRmkEi2q6K3Y9kBPg9248ggaZVsoSFhtJHSrm1X"): KindFluxBeamAMM,
	solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"): KindPumpFunAMM,
}

// Classify is the total function from owner program id to ProgramKind.
func Classify(programID solana.PublicKey) ProgramKind {
	if kind, ok := knownProgramIDs[programID]; ok {
		return kind
	}
	return KindUnknown
}

// decodeTable is the static ProgramKind -> decoder dispatch table. It is
// built once at package init and never mutated afterwards.
var decodeTable = map[ProgramKind]decoders.Decoder{
	KindRaydiumCPMM:      decoders.DecodeRaydiumCPMM,
	KindRaydiumCLMM:      decoders.DecodeRaydiumCLMM,
	KindRaydiumLegacyAMM: decoders.DecodeRaydiumLegacyAMM,
	KindMeteoraDAMMv2:    decoders.DecodeMeteoraDAMMv2,
	KindMeteoraDLMM:      decoders.DecodeMeteoraDLMM,
	KindMeteoraDBC:       decoders.DecodeMeteoraDBC,
	KindFluxBeamAMM:      decoders.DecodeFluxBeamAMM,
	KindPumpFunAMM:       decoders.DecodePumpFunAMM,
}

// Registry routes decoded account maps to the matching pool decoder.
type Registry struct {
	decimals decoders.DecimalsLookup
}

// New builds a Registry backed by the given decimals lookup (typically
// the shared token-info cache).
func New(decimals decoders.DecimalsLookup) *Registry {
	return &Registry{decimals: decimals}
}

// Decode finds the pool account within accounts (the one whose owner is a
// known AMM program) and dispatches to the matching decoder. Returns nil
// if no known pool account is present or the decoder cannot price it.
func (r *Registry) Decode(accounts map[solana.PublicKey]*marketdata.AccountData, baseMint, quoteMint solana.PublicKey) *marketdata.PriceResult {
	for addr, acc := range accounts {
		kind := Classify(acc.Owner)
		if kind == KindUnknown {
			continue
		}
		decode, ok := decodeTable[kind]
		if !ok {
			continue
		}
		result := decode(accounts, addr, baseMint, quoteMint, r.decimals)
		if result != nil {
			return result
		}
	}
	return nil
}
