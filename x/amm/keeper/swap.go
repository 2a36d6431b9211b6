package keeper

import (
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// AmountOut prices a swap against a reserve pair:
//
//	out = floor(reserveOut * amountIn * 997 / (reserveIn * 1000 + amountIn * 997))
//
// The fee-discounted input prices the trade while the full input enters the
// reserves, which is what makes the constant product grow on every swap. The
// arithmetic runs over big.Int so the double-width intermediates cannot
// overflow; the result always fits because out < reserveOut.
func AmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("swap input must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf(
			"reserves %s/%s cannot price a swap", reserveIn, reserveOut)
	}

	inWithFee := new(big.Int).Mul(amountIn.BigInt(), big.NewInt(types.FeeNumerator))
	numerator := new(big.Int).Mul(inWithFee, reserveOut.BigInt())
	denominator := new(big.Int).Mul(reserveIn.BigInt(), big.NewInt(types.FeeDenominator))
	denominator.Add(denominator, inWithFee)
	out := numerator.Quo(numerator, denominator)
	return math.NewIntFromBigInt(out), nil
}

// Swap trades amountIn of one side of a pool for the other side, paying out
// the constant-product price less the 0.3% fee. minAmountOut bounds slippage;
// a quote below it fails with ErrSlippage before any value moves.
//
// Ordering: the quote and both bound checks run first, the input leg is
// pulled, the records are committed with a k non-decrease check, and only
// then does the output leg pay out. A failed output leg restores the records
// and refunds the input.
func (k *Keeper) Swap(trader string, direction types.SwapDirection, amountIn, minAmountOut math.Int, poolID uint64) (math.Int, error) {
	if trader == "" {
		return math.Int{}, types.ErrInvalidAddress.Wrap("trader address cannot be empty")
	}
	if direction != types.NativeForToken && direction != types.TokenForNative {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("unknown swap direction %d", direction)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("swap input must be positive")
	}
	if minAmountOut.IsNil() {
		minAmountOut = math.ZeroInt()
	}

	start := time.Now()
	var amountOut math.Int
	err := k.withPoolLock(poolID, func() error {
		k.mu.Lock()
		if _, ok := k.pools[poolID]; !ok {
			k.mu.Unlock()
			return types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
		}
		snap := k.takeSnapshotLocked(poolID)
		k.mu.Unlock()
		pool := snap.pool.Clone()

		reserveIn, reserveOut := swapReserves(pool, direction)
		quoted, err := AmountOut(amountIn, reserveIn, reserveOut)
		if err != nil {
			return err
		}
		if quoted.IsZero() {
			return types.ErrInsufficientOutput.Wrapf(
				"input %s floors to zero output", amountIn)
		}
		if quoted.LT(minAmountOut) {
			return types.ErrSlippage.Wrapf(
				"quoted output %s below caller minimum %s", quoted, minAmountOut)
		}
		oldK := pool.K()

		// Pull the input leg. Nothing is recorded yet, so a refusal here
		// aborts cleanly.
		if err := k.pullSwapInput(pool, direction, trader, amountIn); err != nil {
			return types.ErrTransferFailed.Wrapf("swap input: %s", err)
		}

		// Effects: both reserves move before the payout leg runs.
		newIn, err := SafeAdd(reserveIn, amountIn)
		if err != nil {
			k.refundSwapInput(pool, direction, trader, amountIn)
			return err
		}
		newOut, err := SafeSub(reserveOut, quoted)
		if err != nil {
			k.refundSwapInput(pool, direction, trader, amountIn)
			return err
		}
		if direction == types.NativeForToken {
			pool.ReserveNative, pool.ReserveToken = newIn, newOut
		} else {
			pool.ReserveToken, pool.ReserveNative = newIn, newOut
		}
		if err := validateConstantProduct(oldK, pool); err != nil {
			k.refundSwapInput(pool, direction, trader, amountIn)
			return err
		}

		k.mu.Lock()
		k.commitPoolLocked(pool.Clone())
		k.mu.Unlock()

		if err := k.paySwapOutput(pool, direction, trader, quoted); err != nil {
			k.restoreSnapshot(snap)
			k.refundSwapInput(pool, direction, trader, amountIn)
			k.metrics.RolledBackOps.WithLabelValues("swap").Inc()
			k.metrics.SwapsTotal.WithLabelValues(
				fmt.Sprintf("%d", poolID), direction.String(), "failed").Inc()
			return types.ErrTransferFailed.Wrapf("swap output: %s", err)
		}

		synced, err := k.resyncReserves(poolID)
		if err != nil {
			return err
		}
		if err := validatePoolState(synced); err != nil {
			return err
		}

		amountOut = quoted
		k.recordSwap(pool, direction, trader, amountIn, quoted, minAmountOut, start)
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}
	return amountOut, nil
}

// SimulateSwap quotes a swap against the current recorded reserves without
// moving value or taking the operation lock.
func (k *Keeper) SimulateSwap(poolID uint64, direction types.SwapDirection, amountIn math.Int) (math.Int, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return math.Int{}, err
	}
	reserveIn, reserveOut := swapReserves(pool, direction)
	return AmountOut(amountIn, reserveIn, reserveOut)
}

// SpotPrice returns the marginal price reserveOut/reserveIn for the given
// direction, ignoring fee and depth. Useful as a reference point for
// slippage math; never as an executable quote.
func (k *Keeper) SpotPrice(poolID uint64, direction types.SwapDirection) (math.LegacyDec, error) {
	pool, err := k.GetPool(poolID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	reserveIn, reserveOut := swapReserves(pool, direction)
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity.Wrapf(
			"pool %d has no priced liquidity", poolID)
	}
	return math.LegacyNewDecFromInt(reserveOut).Quo(math.LegacyNewDecFromInt(reserveIn)), nil
}

func swapReserves(pool *types.Pool, direction types.SwapDirection) (reserveIn, reserveOut math.Int) {
	if direction == types.TokenForNative {
		return pool.ReserveToken, pool.ReserveNative
	}
	return pool.ReserveNative, pool.ReserveToken
}

func (k *Keeper) pullSwapInput(pool *types.Pool, direction types.SwapDirection, trader string, amountIn math.Int) error {
	if direction == types.NativeForToken {
		return k.native.Send(trader, pool.Account, amountIn)
	}
	return k.bank.TransferFrom(pool.Asset, trader, types.ModuleName, pool.Account, amountIn)
}

func (k *Keeper) paySwapOutput(pool *types.Pool, direction types.SwapDirection, trader string, amountOut math.Int) error {
	if direction == types.NativeForToken {
		return k.bank.Transfer(pool.Asset, pool.Account, trader, amountOut)
	}
	return k.native.Send(pool.Account, trader, amountOut)
}

// refundSwapInput reverses a pulled input leg after an aborted swap. As with
// deposits, a failed refund leaves the value in escrow for the next resync.
func (k *Keeper) refundSwapInput(pool *types.Pool, direction types.SwapDirection, trader string, amountIn math.Int) {
	var err error
	if direction == types.NativeForToken {
		err = k.native.Send(pool.Account, trader, amountIn)
	} else {
		err = k.bank.Transfer(pool.Asset, pool.Account, trader, amountIn)
	}
	if err != nil {
		k.logger.Error("swap input refund failed",
			"pool_id", pool.Id, "trader", trader,
			"amount_in", amountIn.String(), "error", err)
	}
}

func (k *Keeper) recordSwap(pool *types.Pool, direction types.SwapDirection, trader string, amountIn, amountOut, minAmountOut math.Int, start time.Time) {
	poolIDStr := fmt.Sprintf("%d", pool.Id)

	inAttr, outAttr := types.AttributeKeyNativeIn, types.AttributeKeyTokenOut
	inDenom := types.NativeDenom
	if direction == types.TokenForNative {
		inAttr, outAttr = types.AttributeKeyTokenIn, types.AttributeKeyNativeOut
		inDenom = pool.Asset
	}
	k.events.Emit(types.NewEvent(
		types.EventTypeSwap,
		types.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
		types.NewAttribute(types.AttributeKeyTrader, trader),
		types.NewAttribute(types.AttributeKeyDirection, direction.String()),
		types.NewAttribute(inAttr, amountIn.String()),
		types.NewAttribute(outAttr, amountOut.String()),
	))

	k.metrics.SwapsTotal.WithLabelValues(poolIDStr, direction.String(), "success").Inc()
	k.metrics.SwapVolume.WithLabelValues(poolIDStr, inDenom).Add(gaugeValue(amountIn))
	k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
	if minAmountOut.IsPositive() {
		margin := math.LegacyNewDecFromInt(amountOut.Sub(minAmountOut)).
			Quo(math.LegacyNewDecFromInt(minAmountOut)).
			MulInt64(100)
		f, _ := margin.Float64()
		k.metrics.SwapSlippage.Observe(f)
	}

	k.logger.Info("swap executed",
		"pool_id", pool.Id, "trader", trader, "direction", direction.String(),
		"amount_in", amountIn.String(), "amount_out", amountOut.String())
}
