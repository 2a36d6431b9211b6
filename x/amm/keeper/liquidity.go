package keeper

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// liquiditySnapshot captures everything Deposit/Withdraw mutate so a failed
// collaborator transfer can roll the records back to the exact pre-operation
// state.
type liquiditySnapshot struct {
	pool   *types.Pool
	owners map[string]math.Int
}

func (k *Keeper) takeSnapshotLocked(poolID uint64, owners ...string) *liquiditySnapshot {
	snap := &liquiditySnapshot{
		pool:   k.pools[poolID].Clone(),
		owners: make(map[string]math.Int, len(owners)),
	}
	for _, o := range owners {
		snap.owners[o] = k.sharesOfLocked(poolID, o)
	}
	return snap
}

func (k *Keeper) restoreSnapshot(snap *liquiditySnapshot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.commitPoolLocked(snap.pool.Clone())
	for owner, bal := range snap.owners {
		k.setSharesLocked(snap.pool.Id, owner, bal)
	}
}

// Deposit adds nativeIn and tokenIn to a pool and mints liquidity shares to
// provider.
//
// The first deposit into a pool sets the price ratio and mints
// isqrt(nativeIn*tokenIn) shares, of which MinimumLiquidity are credited to
// the burn sink instead of the provider. Every later deposit mints
// min(nativeIn*TS/reserveNative, tokenIn*TS/reserveToken), floored, so a
// lopsided deposit donates its excess side to the pool rather than minting
// against it.
//
// Ordering: all share math runs on the pre-deposit snapshot, the native leg
// is pulled, the share records are committed, and only then is the token leg
// pulled from the provider's allowance; the recorded reserves grow on the
// resync that follows. A failed token leg restores the snapshot and refunds
// the native leg.
func (k *Keeper) Deposit(provider string, nativeIn, tokenIn math.Int, poolID uint64) (math.Int, error) {
	if provider == "" {
		return math.Int{}, types.ErrInvalidAddress.Wrap("provider address cannot be empty")
	}
	if nativeIn.IsNil() || !nativeIn.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("native deposit must be positive")
	}
	if tokenIn.IsNil() || !tokenIn.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("token deposit must be positive")
	}

	var sharesOut math.Int
	err := k.withPoolLock(poolID, func() error {
		k.mu.Lock()
		if _, ok := k.pools[poolID]; !ok {
			k.mu.Unlock()
			return types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
		}
		snap := k.takeSnapshotLocked(poolID, provider, types.BurnSinkAddress)
		k.mu.Unlock()
		pool := snap.pool.Clone()

		// Share math on the pre-deposit reserves. Pure: nothing external
		// has been called yet, so a failure here needs no unwinding.
		var minted, locked math.Int
		if !pool.Seeded() {
			product, err := SafeMul(nativeIn, tokenIn)
			if err != nil {
				return err
			}
			root, err := IntegerSqrt(product)
			if err != nil {
				return err
			}
			if root.LTE(types.MinimumLiquidityInt()) {
				return types.ErrInsufficientLiquidity.Wrapf(
					"initial deposit yields %s shares, need more than %d", root, types.MinimumLiquidity)
			}
			minted = root.Sub(types.MinimumLiquidityInt())
			locked = types.MinimumLiquidityInt()
		} else {
			byNative, err := SafeMulDiv(nativeIn, pool.TotalShares, pool.ReserveNative)
			if err != nil {
				return err
			}
			byToken, err := SafeMulDiv(tokenIn, pool.TotalShares, pool.ReserveToken)
			if err != nil {
				return err
			}
			minted = math.MinInt(byNative, byToken)
			if minted.IsZero() {
				return types.ErrInsufficientShares.Wrap(
					"deposit too small to mint a single share at the current ratio")
			}
			locked = math.ZeroInt()
		}

		// Prove the post-deposit state fits before any value moves. The
		// recorded reserves themselves stay untouched here: they are
		// refreshed from the ledgers after the token pull, so the records
		// lag the actual balances and never lead them.
		if _, err := SafeAdd(pool.ReserveNative, nativeIn); err != nil {
			return err
		}
		if _, err := SafeAdd(pool.ReserveToken, tokenIn); err != nil {
			return err
		}
		newShares, err := SafeAdd(pool.TotalShares, minted.Add(locked))
		if err != nil {
			return err
		}

		// Fail fast on an obviously short allowance before any value moves.
		// The TransferFrom below still decides; the ledger may re-check.
		if allowed := k.bank.Allowance(pool.Asset, provider, types.ModuleName); allowed.LT(tokenIn) {
			return types.ErrTransferFailed.Wrapf(
				"allowance %s below token deposit %s", allowed, tokenIn)
		}

		// Native leg first: models the value arriving with the call.
		if err := k.native.Send(provider, pool.Account, nativeIn); err != nil {
			return types.ErrTransferFailed.Wrapf("native deposit: %s", err)
		}

		// Effects before the remaining interaction: shares only.
		pool.TotalShares = newShares

		k.mu.Lock()
		k.commitPoolLocked(pool.Clone())
		k.setSharesLocked(poolID, provider, k.sharesOfLocked(poolID, provider).Add(minted))
		if locked.IsPositive() {
			k.setSharesLocked(poolID, types.BurnSinkAddress,
				k.sharesOfLocked(poolID, types.BurnSinkAddress).Add(locked))
		}
		k.mu.Unlock()

		if err := k.bank.TransferFrom(pool.Asset, provider, types.ModuleName, pool.Account, tokenIn); err != nil {
			k.restoreSnapshot(snap)
			k.refundNative(pool.Account, provider, nativeIn, "deposit")
			return types.ErrTransferFailed.Wrapf("token deposit: %s", err)
		}

		synced, err := k.resyncReserves(poolID)
		if err != nil {
			return err
		}
		if err := validatePoolState(synced); err != nil {
			return err
		}

		poolIDStr := fmt.Sprintf("%d", poolID)
		k.events.Emit(types.NewEvent(
			types.EventTypeLiquidityAdded,
			types.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			types.NewAttribute(types.AttributeKeyProvider, provider),
			types.NewAttribute(types.AttributeKeyNativeIn, nativeIn.String()),
			types.NewAttribute(types.AttributeKeyTokenIn, tokenIn.String()),
			types.NewAttribute(types.AttributeKeyShares, minted.String()),
		))
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, types.NativeDenom).Add(gaugeValue(nativeIn))
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, pool.Asset).Add(gaugeValue(tokenIn))
		k.logger.Info("liquidity added",
			"pool_id", poolID, "provider", provider,
			"native_in", nativeIn.String(), "token_in", tokenIn.String(),
			"shares", minted.String())

		sharesOut = minted
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}
	return sharesOut, nil
}

// Withdraw burns sharesIn of provider's liquidity shares and pays out the
// proportional slice of both reserves, floored. minNative/minToken let the
// caller bound slippage; pass zero to accept any positive output.
//
// Shares are debited and reserves reduced before either payout leg runs. If
// the token leg fails the records are restored; if the native leg fails the
// already-sent tokens are pulled back as a compensating transfer before the
// restore.
func (k *Keeper) Withdraw(provider string, sharesIn, minNative, minToken math.Int, poolID uint64) (nativeOut, tokenOut math.Int, err error) {
	zero := math.ZeroInt()
	if provider == "" {
		return zero, zero, types.ErrInvalidAddress.Wrap("provider address cannot be empty")
	}
	if sharesIn.IsNil() || !sharesIn.IsPositive() {
		return zero, zero, types.ErrInvalidAmount.Wrap("share amount must be positive")
	}
	if minNative.IsNil() {
		minNative = zero
	}
	if minToken.IsNil() {
		minToken = zero
	}

	err = k.withPoolLock(poolID, func() error {
		k.mu.Lock()
		if _, ok := k.pools[poolID]; !ok {
			k.mu.Unlock()
			return types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
		}
		snap := k.takeSnapshotLocked(poolID, provider)
		k.mu.Unlock()
		pool := snap.pool.Clone()

		held := snap.owners[provider]
		if held.LT(sharesIn) {
			return types.ErrInsufficientShares.Wrapf(
				"provider holds %s shares, requested %s", held, sharesIn)
		}

		var calcErr error
		nativeOut, calcErr = SafeMulDiv(sharesIn, pool.ReserveNative, pool.TotalShares)
		if calcErr != nil {
			return calcErr
		}
		tokenOut, calcErr = SafeMulDiv(sharesIn, pool.ReserveToken, pool.TotalShares)
		if calcErr != nil {
			return calcErr
		}
		if nativeOut.IsZero() || tokenOut.IsZero() {
			return types.ErrInsufficientOutput.Wrapf(
				"%s shares floor to zero output on at least one side", sharesIn)
		}
		if nativeOut.LT(minNative) || tokenOut.LT(minToken) {
			return types.ErrSlippage.Wrapf(
				"output %s/%s below caller minimums %s/%s", nativeOut, tokenOut, minNative, minToken)
		}

		remNative, calcErr := SafeSub(pool.ReserveNative, nativeOut)
		if calcErr != nil {
			return calcErr
		}
		remToken, calcErr := SafeSub(pool.ReserveToken, tokenOut)
		if calcErr != nil {
			return calcErr
		}
		remShares, calcErr := SafeSub(pool.TotalShares, sharesIn)
		if calcErr != nil {
			return calcErr
		}
		pool.ReserveNative = remNative
		pool.ReserveToken = remToken
		pool.TotalShares = remShares

		// Effects: debit shares and shrink reserves before any payout.
		k.mu.Lock()
		k.commitPoolLocked(pool.Clone())
		k.setSharesLocked(poolID, provider, held.Sub(sharesIn))
		k.mu.Unlock()

		if err := k.bank.Transfer(pool.Asset, pool.Account, provider, tokenOut); err != nil {
			k.restoreSnapshot(snap)
			k.metrics.RolledBackOps.WithLabelValues("withdraw").Inc()
			return types.ErrTransferFailed.Wrapf("token payout: %s", err)
		}
		if err := k.native.Send(pool.Account, provider, nativeOut); err != nil {
			// Compensating transfer: claw the token leg back before the
			// record restore so ledgers and records land on the same state.
			if clawErr := k.bank.Transfer(pool.Asset, provider, pool.Account, tokenOut); clawErr != nil {
				k.logger.Error("compensating token transfer failed; escrow underfunded",
					"pool_id", poolID, "provider", provider,
					"token_out", tokenOut.String(), "error", clawErr)
			}
			k.restoreSnapshot(snap)
			k.metrics.RolledBackOps.WithLabelValues("withdraw").Inc()
			return types.ErrTransferFailed.Wrapf("native payout: %s", err)
		}

		synced, err := k.resyncReserves(poolID)
		if err != nil {
			return err
		}
		if err := validatePoolState(synced); err != nil {
			return err
		}

		poolIDStr := fmt.Sprintf("%d", poolID)
		k.events.Emit(types.NewEvent(
			types.EventTypeLiquidityRemoved,
			types.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			types.NewAttribute(types.AttributeKeyProvider, provider),
			types.NewAttribute(types.AttributeKeyNativeOut, nativeOut.String()),
			types.NewAttribute(types.AttributeKeyTokenOut, tokenOut.String()),
			types.NewAttribute(types.AttributeKeyShares, sharesIn.String()),
		))
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, types.NativeDenom).Add(gaugeValue(nativeOut))
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, pool.Asset).Add(gaugeValue(tokenOut))
		k.logger.Info("liquidity removed",
			"pool_id", poolID, "provider", provider,
			"native_out", nativeOut.String(), "token_out", tokenOut.String(),
			"shares", sharesIn.String())
		return nil
	})
	if err != nil {
		return zero, zero, err
	}
	return nativeOut, tokenOut, nil
}

// refundNative returns a pulled native leg after an aborted deposit. A
// failed refund strands the value in escrow until the next resync folds it
// into reserves; that is loud in the log but never corrupts the records.
func (k *Keeper) refundNative(from, to string, amount math.Int, op string) {
	if err := k.native.Send(from, to, amount); err != nil {
		k.logger.Error("native refund failed",
			"operation", op, "from", from, "to", to,
			"amount", amount.String(), "error", err)
	}
	k.metrics.RolledBackOps.WithLabelValues(op).Inc()
}
