package keeper

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// CreatePool registers a pool for a new asset pair against the native denom.
// One pool per asset: a second registration fails with ErrPoolExists. Pools
// start with zero reserves; the first deposit sets the initial price ratio.
// Pools are never destroyed — reserves may return to zero and be reseeded.
func (k *Keeper) CreatePool(creator, asset string) (*types.Pool, error) {
	if creator == "" {
		return nil, types.ErrInvalidAddress.Wrap("creator address cannot be empty")
	}
	if asset == "" {
		return nil, types.ErrInvalidAddress.Wrap("asset denom cannot be empty")
	}
	if asset == types.NativeDenom {
		return nil, types.ErrInvalidAsset.Wrap("cannot pool the native asset against itself")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if id, exists := k.poolByAsset[asset]; exists {
		return nil, types.ErrPoolExists.Wrapf("pool %d already registered for asset %s", id, asset)
	}

	pool := types.NewPool(k.nextPoolID, asset)
	k.nextPoolID++

	k.pools[pool.Id] = pool
	k.poolByAsset[asset] = pool.Id
	k.poolOrder = append(k.poolOrder, pool.Id)

	k.events.Emit(types.NewEvent(
		types.EventTypePoolCreated,
		types.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
		types.NewAttribute(types.AttributeKeyAsset, asset),
		types.NewAttribute(types.AttributeKeyProvider, creator),
	))
	k.metrics.PoolsTotal.Inc()
	k.logger.Info("pool created", "pool_id", pool.Id, "asset", asset, "creator", creator)

	return pool.Clone(), nil
}

// GetPool retrieves a pool by its numeric ID. The returned record is a copy;
// mutating it does not touch the ledger.
func (k *Keeper) GetPool(poolID uint64) (*types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.getPoolLocked(poolID)
}

func (k *Keeper) getPoolLocked(poolID uint64) (*types.Pool, error) {
	pool, ok := k.pools[poolID]
	if !ok {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
	}
	return pool.Clone(), nil
}

// GetPoolByAsset resolves the registry mapping asset → pool.
func (k *Keeper) GetPoolByAsset(asset string) (*types.Pool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	id, ok := k.poolByAsset[asset]
	if !ok {
		return nil, types.ErrPoolNotFound.Wrapf("no pool registered for asset %s", asset)
	}
	return k.getPoolLocked(id)
}

// GetAllPools returns every pool in creation order (the list is append-only).
func (k *Keeper) GetAllPools() []*types.Pool {
	k.mu.RLock()
	defer k.mu.RUnlock()

	pools := make([]*types.Pool, 0, len(k.poolOrder))
	for _, id := range k.poolOrder {
		pools = append(pools, k.pools[id].Clone())
	}
	return pools
}

// GetReserves returns both recorded reserves as one consistent snapshot,
// never a mix of pre- and post-write values.
func (k *Keeper) GetReserves(poolID uint64) (native, token math.Int, err error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	pool, err := k.getPoolLocked(poolID)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	return pool.ReserveNative, pool.ReserveToken, nil
}

// commitPoolLocked writes a mutated pool copy back. Callers hold mu.
func (k *Keeper) commitPoolLocked(pool *types.Pool) {
	k.pools[pool.Id] = pool
}
