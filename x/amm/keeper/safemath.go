package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// Overflow-checked arithmetic for reserve and share calculations. Every
// multiply that precedes a divide in the pricing formulas goes through these
// helpers: math.Int panics past 256 bits, and a panic inside a mutating
// operation would skip the rollback path.

// maxInt is the exclusive upper bound of the math.Int range (2^256).
var maxInt = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

// SafeAdd adds two math.Int values with overflow checking.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(maxInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("addition overflow: %s + %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts b from a, failing on underflow below zero.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, types.ErrOverflow.Wrapf("underflow: cannot subtract %s from %s", b, a)
	}
	return math.NewIntFromBigInt(new(big.Int).Sub(a.BigInt(), b.BigInt())), nil
}

// SafeMul multiplies two math.Int values with overflow checking.
func SafeMul(a, b math.Int) (math.Int, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroInt(), nil
	}
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.Cmp(maxInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("multiplication overflow: %s * %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeQuo divides a by b, flooring toward zero, failing on a zero divisor.
func SafeQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(a.BigInt(), b.BigInt())), nil
}

// SafeMulDiv computes floor(a * b / c). The intermediate product is allowed
// to exceed the math.Int range as long as the quotient fits: the pricing
// formulas multiply two full-range reserves before dividing.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.Cmp(maxInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("mul-div overflow: %s * %s / %s", a, b, c)
	}
	return math.NewIntFromBigInt(result), nil
}

// IntegerSqrt returns floor(sqrt(x)) by Babylonian iteration over big.Int.
// IntegerSqrt(0) = 0. The iteration is the Uniswap V2 Math.sol loop, which
// converges from above and therefore lands exactly on the floor.
func IntegerSqrt(x math.Int) (math.Int, error) {
	if x.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("square root of negative value %s", x)
	}
	y := x.BigInt()
	if y.Cmp(big.NewInt(3)) <= 0 {
		if y.Sign() == 0 {
			return math.ZeroInt(), nil
		}
		return math.OneInt(), nil
	}

	two := big.NewInt(2)
	z := new(big.Int).Set(y)
	guess := new(big.Int).Quo(y, two)
	guess.Add(guess, big.NewInt(1))
	for guess.Cmp(z) < 0 {
		z.Set(guess)
		guess.Quo(y, z)
		guess.Add(guess, z)
		guess.Quo(guess, two)
	}
	return math.NewIntFromBigInt(z), nil
}
