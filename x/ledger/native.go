package ledger

import "cosmossdk.io/math"

// NativeAdapter presents one denom of a Ledger as the engine's native-asset
// transfer primitive.
type NativeAdapter struct {
	L     *Ledger
	Denom string
}

// Balance returns owner's native balance.
func (n NativeAdapter) Balance(owner string) math.Int {
	return n.L.BalanceOf(n.Denom, owner)
}

// Send moves native value. Funds either move or they don't; there is no
// partial state.
func (n NativeAdapter) Send(from, to string, amount math.Int) error {
	return n.L.Transfer(n.Denom, from, to, amount)
}
