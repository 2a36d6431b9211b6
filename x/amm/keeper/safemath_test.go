package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/nectar-dex/nectar/x/amm/keeper"
	"github.com/nectar-dex/nectar/x/amm/types"
)

// nearMax is 2^255, squarely inside the math.Int range but guaranteed to
// overflow when doubled or squared.
func nearMax() math.Int {
	return math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(2), big.NewInt(255), nil))
}

func TestSafeAdd(t *testing.T) {
	sum, err := keeper.SafeAdd(math.NewInt(2), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(5), sum)

	_, err = keeper.SafeAdd(nearMax(), nearMax())
	require.ErrorIs(t, err, types.ErrOverflow)
}

func TestSafeSub(t *testing.T) {
	diff, err := keeper.SafeSub(math.NewInt(5), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2), diff)

	_, err = keeper.SafeSub(math.NewInt(3), math.NewInt(5))
	require.ErrorIs(t, err, types.ErrOverflow)
}

func TestSafeMul(t *testing.T) {
	prod, err := keeper.SafeMul(math.NewInt(6), math.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(42), prod)

	prod, err = keeper.SafeMul(math.ZeroInt(), nearMax())
	require.NoError(t, err)
	require.True(t, prod.IsZero())

	_, err = keeper.SafeMul(nearMax(), math.NewInt(2))
	require.ErrorIs(t, err, types.ErrOverflow)
}

func TestSafeQuo(t *testing.T) {
	q, err := keeper.SafeQuo(math.NewInt(7), math.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3), q)

	_, err = keeper.SafeQuo(math.NewInt(7), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrOverflow)
}

func TestSafeMulDivToleratesWideIntermediate(t *testing.T) {
	// a*b overflows 256 bits but the quotient fits.
	big255 := nearMax()
	q, err := keeper.SafeMulDiv(big255, big255, big255)
	require.NoError(t, err)
	require.Equal(t, big255, q)

	_, err = keeper.SafeMulDiv(math.NewInt(1), math.NewInt(1), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrOverflow)

	_, err = keeper.SafeMulDiv(big255, big255, math.NewInt(2))
	require.ErrorIs(t, err, types.ErrOverflow)
}

func TestIntegerSqrt(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{8, 2},
		{9, 3},
		{10_000_000, 3162},
		{999_999, 999},
		{1_000_000, 1000},
		{1_000_001, 1000},
	}
	for _, tc := range tests {
		got, err := keeper.IntegerSqrt(math.NewInt(tc.in))
		require.NoError(t, err)
		require.Equal(t, math.NewInt(tc.want), got, "isqrt(%d)", tc.in)
	}

	_, err := keeper.IntegerSqrt(math.NewInt(-1))
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestIntegerSqrtLargeValues(t *testing.T) {
	// floor(sqrt(2^200)) = 2^100.
	in := math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(2), big.NewInt(200), nil))
	want := math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(2), big.NewInt(100), nil))

	got, err := keeper.IntegerSqrt(in)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
