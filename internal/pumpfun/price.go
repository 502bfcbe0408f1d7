package pumpfun

import (
	"math"
	"math/big"

	"pumpscope/internal/domain"
)

// Extra decimal digits carried through the integer intermediate so that
// sub-lamport prices survive the final float conversion.
const extraPrecision = 12

var (
	priceNumeratorScale = pow10(tokenDecimals + extraPrecision)
	precisionDivisor    = math.Pow10(extraPrecision)
)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// CalculateCurvePrice returns the spot price in SOL per token from the
// virtual reserves. Reserves can reach ~10^15, which float64 cannot hold
// exactly past 2^53, so the whole computation runs on big integers:
// (vSol * 10^(tokenDecimals+extraPrecision)) / (lamportsPerSol * vToken),
// with the precision multiplier divided back out as a float at the end.
func CalculateCurvePrice(virtualSolReserves, virtualTokenReserves uint64) (float64, error) {
	if virtualSolReserves == 0 || virtualTokenReserves == 0 {
		return 0, domain.ErrInvalidReserves
	}

	numerator := new(big.Int).SetUint64(virtualSolReserves)
	numerator.Mul(numerator, priceNumeratorScale)

	denominator := new(big.Int).SetUint64(virtualTokenReserves)
	denominator.Mul(denominator, big.NewInt(lamportsPerSol))

	quotient := new(big.Int).Quo(numerator, denominator)
	scaled, _ := new(big.Float).SetInt(quotient).Float64()

	return scaled / precisionDivisor, nil
}

// CalculateBondingProgress returns curve consumption in [0,1] from the
// real token reserves. Scaled integer division keeps comparisons stable
// near completion (0.01% granularity).
func CalculateBondingProgress(realTokenReserves uint64) float64 {
	if realTokenReserves >= InitialRealTokenReserves {
		return 0
	}

	scaled := new(big.Int).SetUint64(realTokenReserves)
	scaled.Mul(scaled, big.NewInt(10000))
	scaled.Quo(scaled, new(big.Int).SetUint64(InitialRealTokenReserves))

	return 1 - float64(scaled.Int64())/10000
}
