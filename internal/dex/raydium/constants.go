// ==========================================
// File: internal/dex/raydium/constants.go
// ==========================================
package raydium

const (
	MaxComputeUnitLimit = 300000
	DefaultComputePrice = 1000
	MinComputePrice     = 0
	MaxComputePrice     = 100000
)

// Additional constants for layout or seeds can go here.
