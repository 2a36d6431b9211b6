package keeper

import (
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// Keeper owns the reserve ledger: pool records, share accounts and the
// per-pool reentrancy guard. All mutation is routed through its methods;
// there is no ambient state.
//
// Locking discipline: mu guards the in-memory records and gives readers a
// consistent snapshot of both reserves. It is NEVER held across a call into
// the balance ledgers — those calls are suspension points that may
// synchronously re-enter the keeper, and a re-entered mutating operation must
// fail on the reentrancy guard, not deadlock on mu.
type Keeper struct {
	logger  log.Logger
	bank    types.BankLedger
	native  types.NativeBank
	events  *types.EventManager
	metrics *Metrics
	guard   *ReentrancyGuard

	mu          sync.RWMutex
	pools       map[uint64]*types.Pool
	poolByAsset map[string]uint64
	poolOrder   []uint64
	shares      map[uint64]map[string]math.Int
	nextPoolID  uint64
}

// NewKeeper creates a reserve ledger keeper backed by the given collaborators.
func NewKeeper(logger log.Logger, bank types.BankLedger, native types.NativeBank) *Keeper {
	return &Keeper{
		logger:      logger.With("module", types.ModuleName),
		bank:        bank,
		native:      native,
		events:      types.NewEventManager(),
		metrics:     NewMetrics(),
		guard:       NewReentrancyGuard(),
		pools:       make(map[uint64]*types.Pool),
		poolByAsset: make(map[string]uint64),
		shares:      make(map[uint64]map[string]math.Int),
		nextPoolID:  1,
	}
}

// Events exposes the engine's event stream for read mirrors.
func (k *Keeper) Events() *types.EventManager {
	return k.events
}

// Logger returns the module logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// SharesOf returns owner's share balance in a pool; zero if none.
func (k *Keeper) SharesOf(poolID uint64, owner string) math.Int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.sharesOfLocked(poolID, owner)
}

func (k *Keeper) sharesOfLocked(poolID uint64, owner string) math.Int {
	if acct, ok := k.shares[poolID]; ok {
		if bal, ok := acct[owner]; ok {
			return bal
		}
	}
	return math.ZeroInt()
}

// setSharesLocked writes a share balance, dropping the record at zero so an
// exited provider leaves no residue. Callers hold mu.
func (k *Keeper) setSharesLocked(poolID uint64, owner string, balance math.Int) {
	acct, ok := k.shares[poolID]
	if !ok {
		acct = make(map[string]math.Int)
		k.shares[poolID] = acct
	}
	if balance.IsZero() {
		delete(acct, owner)
		return
	}
	acct[owner] = balance
}
