package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrInvalidAmount         = errors.Register(ModuleName, 1, "invalid amount")
	ErrInvalidAddress        = errors.Register(ModuleName, 2, "invalid address")
	ErrInvalidAsset          = errors.Register(ModuleName, 3, "invalid asset denomination")
	ErrPoolExists            = errors.Register(ModuleName, 4, "pool already exists")
	ErrPoolNotFound          = errors.Register(ModuleName, 5, "pool not found")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 6, "insufficient liquidity")
	ErrInsufficientShares    = errors.Register(ModuleName, 7, "insufficient liquidity shares")
	ErrInsufficientOutput    = errors.Register(ModuleName, 8, "output amount too small")
	ErrSlippage              = errors.Register(ModuleName, 9, "output below caller minimum")
	ErrTransferFailed        = errors.Register(ModuleName, 10, "ledger transfer failed")
	ErrReentrancy            = errors.Register(ModuleName, 11, "reentrant call rejected")
	ErrOverflow              = errors.Register(ModuleName, 12, "arithmetic overflow")
	ErrInvariantViolation    = errors.Register(ModuleName, 13, "pool invariant violated")
	ErrInvalidPoolState      = errors.Register(ModuleName, 14, "invalid pool state")
)
