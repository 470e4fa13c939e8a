package registry

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/avrail/solwatch/internal/marketdata"
)

func TestClassifyKnownProgramIDs(t *testing.T) {
	cases := []struct {
		id   string
		want ProgramKind
	}{
		{"CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C", KindRaydiumCPMM},
		{"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK", KindRaydiumCLMM},
		{"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", KindRaydiumLegacyAMM},
		{"cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG", KindMeteoraDAMMv2},
		{"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo", KindMeteoraDLMM},
		{"dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN", KindMeteoraDBC},
		{"FLUXubRmkEi2q6K3Y9kBPg9248ggaZVsoSFhtJHSrm1X", KindFluxBeamAMM},
		{"pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA", KindPumpFunAMM},
	}
	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			got := Classify(solana.MustPublicKeyFromBase58(tc.id))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyUnknownProgramIsUnknown(t *testing.T) {
	assert.Equal(t, KindUnknown, Classify(solana.NewWallet().PublicKey()))
}

func TestProgramKindStringCoversAllVariants(t *testing.T) {
	kinds := []ProgramKind{
		KindUnknown, KindRaydiumCPMM, KindRaydiumCLMM, KindRaydiumLegacyAMM,
		KindMeteoraDAMMv2, KindMeteoraDLMM, KindMeteoraDBC, KindFluxBeamAMM, KindPumpFunAMM,
	}
	for _, k := range kinds {
		assert.NotEmpty(t, k.String())
	}
}

func TestDecodeSkipsAccountsWithUnknownOwner(t *testing.T) {
	reg := New(nil)
	unknownOwnerAcc := solana.NewWallet().PublicKey()
	accounts := map[solana.PublicKey]*marketdata.AccountData{
		unknownOwnerAcc: {Owner: solana.NewWallet().PublicKey(), Data: []byte{1, 2, 3}},
	}
	result := reg.Decode(accounts, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	assert.Nil(t, result)
}

func TestDecodeReturnsNilOnEmptyAccountMap(t *testing.T) {
	reg := New(nil)
	assert.Nil(t, reg.Decode(nil, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()))
}
