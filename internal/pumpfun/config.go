package pumpfun

import (
	"github.com/gagliardetto/solana-go"
)

// Known Pump.fun protocol addresses.
var (
	// Program ID for the Pump.fun protocol
	PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// PDA seed for per-token bonding curve accounts
	curveSeed = []byte("bonding-curve")

	// First 8 bytes of every bonding curve account (anchor discriminator)
	curveStateSignature = [8]byte{0x17, 0xb7, 0xf8, 0x37, 0x60, 0xd8, 0xac, 0x60}
)

const (
	// Pump.fun tokens are minted with 6 decimals
	tokenDecimals = 6

	lamportsPerSol = 1_000_000_000

	// Real token reserves at curve initialization; the denominator of
	// bonding progress.
	InitialRealTokenReserves uint64 = 793_100_000_000_000

	// TotalSupply is the protocol-wide supply constant (1 billion tokens
	// at 6 decimals). Deliberately distinct from the per-account
	// TokenTotalSupply field, matching upstream behavior.
	TotalSupply uint64 = 1_000_000_000_000_000
)

// DeriveCurveAddress computes the bonding curve PDA for a token mint.
// Same seed and program id yield the same address on every network.
func DeriveCurveAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{curveSeed, mint.Bytes()},
		PumpFunProgramID,
	)
	return addr, err
}
