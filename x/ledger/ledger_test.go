package ledger_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/nectar-dex/nectar/x/ledger"
)

func TestMintAndBalance(t *testing.T) {
	l := ledger.New()

	require.NoError(t, l.Mint("atom", "alice", math.NewInt(1000)))
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(500)))

	require.Equal(t, math.NewInt(1500), l.BalanceOf("atom", "alice"))
	require.True(t, l.BalanceOf("atom", "bob").IsZero())
	require.True(t, l.BalanceOf("btc", "alice").IsZero())

	require.Error(t, l.Mint("atom", "alice", math.NewInt(-1)))
}

func TestTransfer(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(100)))

	require.NoError(t, l.Transfer("atom", "alice", "bob", math.NewInt(40)))
	require.Equal(t, math.NewInt(60), l.BalanceOf("atom", "alice"))
	require.Equal(t, math.NewInt(40), l.BalanceOf("atom", "bob"))

	err := l.Transfer("atom", "alice", "bob", math.NewInt(61))
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	err = l.Transfer("atom", "alice", "bob", math.ZeroInt())
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestTransferFromSpendsAllowance(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(100)))
	require.NoError(t, l.Approve("atom", "alice", "amm", math.NewInt(50)))

	require.NoError(t, l.TransferFrom("atom", "alice", "amm", "pool", math.NewInt(30)))
	require.Equal(t, math.NewInt(20), l.Allowance("atom", "alice", "amm"))
	require.Equal(t, math.NewInt(30), l.BalanceOf("atom", "pool"))

	err := l.TransferFrom("atom", "alice", "amm", "pool", math.NewInt(21))
	require.ErrorIs(t, err, ledger.ErrInsufficientAllowance)

	// Allowance present but balance missing.
	require.NoError(t, l.Approve("atom", "carol", "amm", math.NewInt(10)))
	err = l.TransferFrom("atom", "carol", "amm", "pool", math.NewInt(10))
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestHookErrorRevertsTransfer(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(100)))
	require.NoError(t, l.Approve("atom", "alice", "amm", math.NewInt(100)))

	boom := ledger.ErrInvalidAmount.Wrap("hook says no")
	l.OnTransfer(func(denom, from, to string, amount math.Int) error {
		return boom
	})

	err := l.Transfer("atom", "alice", "bob", math.NewInt(40))
	require.Error(t, err)
	require.Equal(t, math.NewInt(100), l.BalanceOf("atom", "alice"))
	require.True(t, l.BalanceOf("atom", "bob").IsZero())

	err = l.TransferFrom("atom", "alice", "amm", "pool", math.NewInt(40))
	require.Error(t, err)
	require.Equal(t, math.NewInt(100), l.BalanceOf("atom", "alice"))
	require.Equal(t, math.NewInt(100), l.Allowance("atom", "alice", "amm"))
}

func TestHookDrainBeforeFailureCannotGoNegative(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(100)))
	require.NoError(t, l.Approve("atom", "alice", "amm", math.NewInt(100)))

	// The hook forwards part of the credit before refusing the transfer, so
	// the revert can only claw back what the recipient still holds.
	var nested bool
	l.OnTransfer(func(denom, from, to string, amount math.Int) error {
		if nested {
			return nil
		}
		nested = true
		defer func() { nested = false }()
		require.NoError(t, l.Transfer(denom, to, "mallory", math.NewInt(30)))
		return ledger.ErrInvalidAmount.Wrap("hook says no")
	})

	err := l.Transfer("atom", "alice", "bob", math.NewInt(40))
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	require.ErrorContains(t, err, "recovered 10 of 40")
	require.True(t, l.BalanceOf("atom", "bob").IsZero())
	require.Equal(t, math.NewInt(70), l.BalanceOf("atom", "alice"))
	require.Equal(t, math.NewInt(30), l.BalanceOf("atom", "mallory"))

	// Same drain through the allowance path: the allowance comes back and
	// no stored balance goes negative.
	err = l.TransferFrom("atom", "alice", "amm", "pool", math.NewInt(50))
	require.ErrorContains(t, err, "recovered 20 of 50")
	require.True(t, l.BalanceOf("atom", "pool").IsZero())
	require.Equal(t, math.NewInt(40), l.BalanceOf("atom", "alice"))
	require.Equal(t, math.NewInt(60), l.BalanceOf("atom", "mallory"))
	require.Equal(t, math.NewInt(100), l.Allowance("atom", "alice", "amm"))
}

func TestHookMayCallBackIntoLedger(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Mint("atom", "alice", math.NewInt(100)))

	var sawBalance math.Int
	l.OnTransfer(func(denom, from, to string, amount math.Int) error {
		sawBalance = l.BalanceOf(denom, to)
		return nil
	})

	require.NoError(t, l.Transfer("atom", "alice", "bob", math.NewInt(25)))
	require.Equal(t, math.NewInt(25), sawBalance)
}

func TestNativeAdapter(t *testing.T) {
	l := ledger.New()
	native := ledger.NativeAdapter{L: l, Denom: "unct"}

	require.NoError(t, l.Mint("unct", "alice", math.NewInt(1000)))
	require.Equal(t, math.NewInt(1000), native.Balance("alice"))

	require.NoError(t, native.Send("alice", "bob", math.NewInt(250)))
	require.Equal(t, math.NewInt(750), native.Balance("alice"))
	require.Equal(t, math.NewInt(250), native.Balance("bob"))

	require.Error(t, native.Send("bob", "alice", math.NewInt(251)))
}
