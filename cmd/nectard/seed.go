package main

import (
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/keeper"
	"github.com/nectar-dex/nectar/x/amm/types"
	"github.com/nectar-dex/nectar/x/ledger"
)

// seedDemoState funds a couple of demo accounts and seeds two pools so a
// fresh instance has something to quote against. Development only; real
// deployments start empty and take deposits over the API.
func seedDemoState(logger log.Logger, k *keeper.Keeper, bank, native *ledger.Ledger) error {
	funding := math.NewInt(1_000_000_000_000)
	accounts := []string{"demo-alice", "demo-bob"}
	assets := []string{"atom", "osmo"}

	for _, acct := range accounts {
		if err := native.Mint(types.NativeDenom, acct, funding); err != nil {
			return err
		}
		for _, asset := range assets {
			if err := bank.Mint(asset, acct, funding); err != nil {
				return err
			}
			if err := bank.Approve(asset, acct, types.ModuleName, funding); err != nil {
				return err
			}
		}
	}

	seeds := []struct {
		asset    string
		nativeIn int64
		tokenIn  int64
	}{
		{"atom", 1_000_000_000, 250_000_000},
		{"osmo", 500_000_000, 2_000_000_000},
	}
	for _, seed := range seeds {
		pool, err := k.CreatePool(accounts[0], seed.asset)
		if err != nil {
			return err
		}
		if _, err := k.Deposit(accounts[0], math.NewInt(seed.nativeIn), math.NewInt(seed.tokenIn), pool.Id); err != nil {
			return err
		}
		logger.Info("seeded demo pool", "pool_id", pool.Id, "asset", seed.asset)
	}
	return nil
}
