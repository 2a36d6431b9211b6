package types

import "cosmossdk.io/math"

// BankLedger is the fungible balance ledger the reserve engine settles token
// legs against. It is an external collaborator: any error (or out-of-band
// refusal) from a transfer is fatal to the calling operation, and a call into
// the ledger is a suspension point that may synchronously re-enter the engine.
type BankLedger interface {
	BalanceOf(denom, owner string) math.Int
	Allowance(denom, owner, spender string) math.Int
	Transfer(denom, from, to string, amount math.Int) error
	TransferFrom(denom, owner, spender, to string, amount math.Int) error
	Approve(denom, owner, spender string, amount math.Int) error
}

// NativeBank is the native-asset transfer primitive: an unconditional send
// with success/failure signaling, plus the balance read the reserve resync
// step depends on.
type NativeBank interface {
	Balance(owner string) math.Int
	Send(from, to string, amount math.Int) error
}
