// Package ledger provides the in-memory fungible balance ledger the reserve
// engine settles against. It is deliberately dumb: balances, allowances and
// an optional post-transfer hook. The hook fires after state is applied and
// outside the ledger's own mutex, so a hook can call back into the engine —
// which is exactly the reentrancy surface the engine's guard exists for.
package ledger

import (
	"sync"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

const codespace = "ledger"

var (
	ErrInvalidAmount         = errors.Register(codespace, 1, "invalid amount")
	ErrInsufficientFunds     = errors.Register(codespace, 2, "insufficient funds")
	ErrInsufficientAllowance = errors.Register(codespace, 3, "insufficient allowance")
)

// TransferHook observes a settled transfer. Returning an error reverts the
// transfer (and, for allowance-funded transfers, restores the allowance).
type TransferHook func(denom, from, to string, amount math.Int) error

// Ledger is a thread-safe multi-denom balance book.
type Ledger struct {
	mu         sync.RWMutex
	balances   map[string]map[string]math.Int
	allowances map[string]map[string]map[string]math.Int
	hooks      []TransferHook
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances:   make(map[string]map[string]math.Int),
		allowances: make(map[string]map[string]map[string]math.Int),
	}
}

// OnTransfer registers a post-transfer hook. Hooks run in registration order
// after funds move; the first error wins and reverts the transfer.
func (l *Ledger) OnTransfer(hook TransferHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Mint credits freshly created units to owner. Test and genesis seeding only.
func (l *Ledger) Mint(denom, owner string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("cannot mint %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(denom, owner, amount)
	return nil
}

// BalanceOf returns owner's balance in denom; zero if unknown.
func (l *Ledger) BalanceOf(denom, owner string) math.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceLocked(denom, owner)
}

// Allowance returns what spender may still pull from owner in denom.
func (l *Ledger) Allowance(denom, owner, spender string) math.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if byOwner, ok := l.allowances[denom]; ok {
		if bySpender, ok := byOwner[owner]; ok {
			if a, ok := bySpender[spender]; ok {
				return a
			}
		}
	}
	return math.ZeroInt()
}

// Approve sets (not adds to) spender's allowance over owner's denom balance.
func (l *Ledger) Approve(denom, owner, spender string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("cannot approve %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	byOwner, ok := l.allowances[denom]
	if !ok {
		byOwner = make(map[string]map[string]math.Int)
		l.allowances[denom] = byOwner
	}
	bySpender, ok := byOwner[owner]
	if !ok {
		bySpender = make(map[string]math.Int)
		byOwner[owner] = bySpender
	}
	bySpender[spender] = amount
	return nil
}

// Transfer moves amount of denom from one owner to another.
func (l *Ledger) Transfer(denom, from, to string, amount math.Int) error {
	if err := l.move(denom, from, to, amount); err != nil {
		return err
	}
	if err := l.runHooks(denom, from, to, amount); err != nil {
		if recovered := l.revert(denom, from, to, amount); recovered.LT(amount) {
			return errors.Wrapf(err, "hook revert recovered %s of %s %s", recovered, amount, denom)
		}
		return err
	}
	return nil
}

// TransferFrom moves amount of owner's denom balance to the recipient,
// spending spender's allowance.
func (l *Ledger) TransferFrom(denom, owner, spender, to string, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("cannot transfer %v", amount)
	}

	l.mu.Lock()
	allowed := math.ZeroInt()
	if byOwner, ok := l.allowances[denom]; ok {
		if bySpender, ok := byOwner[owner]; ok {
			if a, ok := bySpender[spender]; ok {
				allowed = a
			}
		}
	}
	if allowed.LT(amount) {
		l.mu.Unlock()
		return ErrInsufficientAllowance.Wrapf(
			"spender %s allowed %s of %s, needs %s", spender, allowed, denom, amount)
	}
	if l.balanceLocked(denom, owner).LT(amount) {
		l.mu.Unlock()
		return ErrInsufficientFunds.Wrapf(
			"%s holds %s of %s, needs %s", owner, l.balanceLocked(denom, owner), denom, amount)
	}
	l.allowances[denom][owner][spender] = allowed.Sub(amount)
	l.debit(denom, owner, amount)
	l.credit(denom, to, amount)
	l.mu.Unlock()

	if err := l.runHooks(denom, owner, to, amount); err != nil {
		recovered := l.revert(denom, owner, to, amount)
		l.mu.Lock()
		l.allowances[denom][owner][spender] = allowed
		l.mu.Unlock()
		if recovered.LT(amount) {
			return errors.Wrapf(err, "hook revert recovered %s of %s %s", recovered, amount, denom)
		}
		return err
	}
	return nil
}

// revert claws back a hook-refused credit. The hook may already have moved
// part of the credit on, so only what the recipient still holds (capped at
// amount) comes back; the recovered amount is returned so callers can report
// a shortfall. Never drives a balance negative.
func (l *Ledger) revert(denom, from, to string, amount math.Int) math.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	recovered := math.MinInt(amount, l.balanceLocked(denom, to))
	if recovered.IsPositive() {
		l.debit(denom, to, recovered)
		l.credit(denom, from, recovered)
	}
	return recovered
}

func (l *Ledger) move(denom, from, to string, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("cannot transfer %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if bal := l.balanceLocked(denom, from); bal.LT(amount) {
		return ErrInsufficientFunds.Wrapf(
			"%s holds %s of %s, needs %s", from, bal, denom, amount)
	}
	l.debit(denom, from, amount)
	l.credit(denom, to, amount)
	return nil
}

// runHooks copies the hook slice under the read lock and invokes the hooks
// without holding it: a hook that calls back into the ledger must not
// deadlock.
func (l *Ledger) runHooks(denom, from, to string, amount math.Int) error {
	l.mu.RLock()
	hooks := make([]TransferHook, len(l.hooks))
	copy(hooks, l.hooks)
	l.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(denom, from, to, amount); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) balanceLocked(denom, owner string) math.Int {
	if byOwner, ok := l.balances[denom]; ok {
		if bal, ok := byOwner[owner]; ok {
			return bal
		}
	}
	return math.ZeroInt()
}

func (l *Ledger) credit(denom, owner string, amount math.Int) {
	byOwner, ok := l.balances[denom]
	if !ok {
		byOwner = make(map[string]math.Int)
		l.balances[denom] = byOwner
	}
	byOwner[owner] = l.balanceLocked(denom, owner).Add(amount)
}

func (l *Ledger) debit(denom, owner string, amount math.Int) {
	rest := l.balanceLocked(denom, owner).Sub(amount)
	if rest.IsZero() {
		delete(l.balances[denom], owner)
		return
	}
	l.balances[denom][owner] = rest
}
