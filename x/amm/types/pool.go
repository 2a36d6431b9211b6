package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// SwapDirection selects which side of the pair enters the pool on a swap.
type SwapDirection uint8

const (
	// NativeForToken sends native value in and receives the pool's token.
	NativeForToken SwapDirection = iota
	// TokenForNative sends the pool's token in and receives native value.
	TokenForNative
)

func (d SwapDirection) String() string {
	switch d {
	case NativeForToken:
		return "native_for_token"
	case TokenForNative:
		return "token_for_native"
	default:
		return "unknown"
	}
}

// Pool is the reserve ledger's record of one native/token pair.
//
// ReserveNative and ReserveToken are the recorded reserves, resynchronized
// from the escrow account's actual ledger balances after every mutating
// operation; between the internal commit and the resync they may lag the
// ledgers, never lead them (solvency).
type Pool struct {
	Id            uint64   `json:"id"`
	Asset         string   `json:"asset"`
	Account       string   `json:"account"`
	ReserveNative math.Int `json:"reserve_native"`
	ReserveToken  math.Int `json:"reserve_token"`
	TotalShares   math.Int `json:"total_shares"`
}

// NewPool returns an empty pool for the given asset. Reserves start at zero;
// the first deposit sets the initial price ratio.
func NewPool(id uint64, asset string) *Pool {
	return &Pool{
		Id:            id,
		Asset:         asset,
		Account:       PoolAccount(id),
		ReserveNative: math.ZeroInt(),
		ReserveToken:  math.ZeroInt(),
		TotalShares:   math.ZeroInt(),
	}
}

// Clone returns a deep copy. math.Int is immutable by convention but the
// copy makes snapshot/restore rollback trivially safe.
func (p *Pool) Clone() *Pool {
	c := *p
	return &c
}

// K returns the constant product reserveNative * reserveToken. The result is
// computed over big.Int so it cannot panic near the 256-bit Int ceiling.
func (p *Pool) K() *big.Int {
	return new(big.Int).Mul(p.ReserveNative.BigInt(), p.ReserveToken.BigInt())
}

// Seeded reports whether the pool has ever received its first deposit.
func (p *Pool) Seeded() bool {
	return !p.TotalShares.IsZero()
}
