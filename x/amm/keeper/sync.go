package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// resyncReserves overwrites a pool's recorded reserves with the escrow
// account's actual holdings as reported by the collaborators. This is the
// correctness postcondition after every mutating operation: the recorded
// reserves are a cache, the ledgers are the source of truth, and the sync is
// a read-and-assign, never an arithmetic delta. It is idempotent when no
// transfer intervenes.
//
// Callers hold the pool's reentrancy lock but NOT mu; the ledger reads are
// suspension points.
func (k *Keeper) resyncReserves(poolID uint64) (*types.Pool, error) {
	k.mu.RLock()
	pool, err := k.getPoolLocked(poolID)
	k.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	nativeBal := k.native.Balance(pool.Account)
	tokenBal := k.bank.BalanceOf(pool.Asset, pool.Account)

	k.mu.Lock()
	stored, ok := k.pools[poolID]
	if !ok {
		k.mu.Unlock()
		return nil, types.ErrPoolNotFound.Wrapf("pool %d vanished during sync", poolID)
	}
	stored.ReserveNative = nativeBal
	stored.ReserveToken = tokenBal
	synced := stored.Clone()
	k.mu.Unlock()

	k.events.Emit(types.NewEvent(
		types.EventTypeReserveSync,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
		types.NewAttribute(types.AttributeKeyReserveNative, synced.ReserveNative.String()),
		types.NewAttribute(types.AttributeKeyReserveToken, synced.ReserveToken.String()),
	))
	k.metrics.ReserveSyncs.Inc()

	poolIDStr := fmt.Sprintf("%d", poolID)
	k.metrics.PoolReserves.WithLabelValues(poolIDStr, types.NativeDenom).Set(gaugeValue(synced.ReserveNative))
	k.metrics.PoolReserves.WithLabelValues(poolIDStr, synced.Asset).Set(gaugeValue(synced.ReserveToken))
	k.metrics.ShareSupply.WithLabelValues(poolIDStr).Set(gaugeValue(synced.TotalShares))

	return synced, nil
}

// SyncReserves runs the resync step on its own, under the pool's operation
// lock. Unsolicited direct transfers into the escrow account become
// legitimate reserve growth here — a known boundary condition of the
// sync-from-truth design, covered explicitly by the test suite.
func (k *Keeper) SyncReserves(poolID uint64) error {
	return k.withPoolLock(poolID, func() error {
		_, err := k.resyncReserves(poolID)
		return err
	})
}

// gaugeValue converts an amount for Prometheus without the Int64 range panic.
func gaugeValue(x math.Int) float64 {
	f, _ := new(big.Float).SetInt(x.BigInt()).Float64()
	return f
}
