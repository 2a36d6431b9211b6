package types

import "fmt"

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// NativeDenom is the chain's native asset denomination. Every pool pairs
	// the native asset against exactly one token denom.
	NativeDenom = "unct"

	// BurnSinkAddress is the reserved, non-transferable share account that
	// permanently holds the minimum-liquidity lock once a pool has ever been
	// seeded. Nothing can spend from it.
	BurnSinkAddress = "amm/burn-sink"
)

// PoolAccount returns the escrow account identifier that holds a pool's
// reserves in the balance ledgers. One account per pool keeps the solvency
// invariant checkable per pool rather than module-wide.
func PoolAccount(poolID uint64) string {
	return fmt.Sprintf("amm/pool/%d", poolID)
}
