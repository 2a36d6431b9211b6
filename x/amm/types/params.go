package types

import "cosmossdk.io/math"

// Pricing and share-lock constants. These are intentionally NOT configurable:
// the fee schedule and the minimum-liquidity lock are part of the invariant
// surface, and letting them drift per deployment would invalidate every k and
// share calculation recorded by the ledgers.
const (
	// FeeNumerator / FeeDenominator encode the 0.3% swap fee: an input of
	// amountIn contributes amountIn*997/1000 to pricing while the full
	// amountIn enters the reserves, which is what makes k strictly grow.
	FeeNumerator   = 997
	FeeDenominator = 1000

	// MinimumLiquidity is the share amount forfeited to the burn sink by the
	// first depositor. It keeps TotalShares bounded away from zero forever,
	// which closes both the divide-by-zero and the share-inflation attack.
	MinimumLiquidity = 1000
)

var (
	feeNumerator     = math.NewInt(FeeNumerator)
	feeDenominator   = math.NewInt(FeeDenominator)
	minimumLiquidity = math.NewInt(MinimumLiquidity)
)

// FeeNumeratorInt returns the fee numerator as a math.Int.
func FeeNumeratorInt() math.Int { return feeNumerator }

// FeeDenominatorInt returns the fee denominator as a math.Int.
func FeeDenominatorInt() math.Int { return feeDenominator }

// MinimumLiquidityInt returns the minimum-liquidity lock as a math.Int.
func MinimumLiquidityInt() math.Int { return minimumLiquidity }
