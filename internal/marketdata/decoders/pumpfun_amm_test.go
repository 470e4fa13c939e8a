package decoders

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrail/solwatch/internal/marketdata"
	"github.com/avrail/solwatch/internal/marketdata/layouts"
)

func newBondingCurve(virtualSol, virtualToken, realSol, realToken uint64) *marketdata.AccountData {
	data := make([]byte, layouts.PumpFunBCMinSize)
	binary.LittleEndian.PutUint64(data[layouts.PumpFunBCVirtualTokenResOff:], virtualToken)
	binary.LittleEndian.PutUint64(data[layouts.PumpFunBCVirtualSolResOff:], virtualSol)
	binary.LittleEndian.PutUint64(data[layouts.PumpFunBCRealTokenResOff:], realToken)
	binary.LittleEndian.PutUint64(data[layouts.PumpFunBCRealSolResOff:], realSol)
	return &marketdata.AccountData{Data: data}
}

func TestDecodePumpFunAMMPrefersRealReservesWhenPresent(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	pool := newBondingCurve(10_000_000_000, 5_000_000_000, 2_000_000_000, 1_000_000_000)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodePumpFunAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, result.PriceSOL, 1e-9, "real reserves (2 SOL / 1 token) should win over virtual reserves (10/5)")
	assert.Equal(t, 0.7, result.Confidence)
}

func TestDecodePumpFunAMMFallsBackToVirtualReservesWhenRealAreZero(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	pool := newBondingCurve(8_000_000_000, 4_000_000_000, 0, 0)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodePumpFunAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, result.PriceSOL, 1e-9)
}

func TestDecodePumpFunAMMRejectsAllZeroReserves(t *testing.T) {
	tokenMint := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()
	pool := newBondingCurve(0, 0, 0, 0)
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: pool}
	decimals := fakeDecimals{wrappedSOL: 9, tokenMint: 9}

	result := DecodePumpFunAMM(accounts, poolAddr, wrappedSOL, tokenMint, decimals)
	assert.Nil(t, result)
}

func TestDecodePumpFunAMMRejectsUndersizedAccount(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{poolAddr: {Data: make([]byte, 4)}}
	result := DecodePumpFunAMM(accounts, poolAddr, wrappedSOL, solana.NewWallet().PublicKey(), fakeDecimals{})
	assert.Nil(t, result)
}
