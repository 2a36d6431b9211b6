package types

import "sync"

// Event types emitted by the AMM module
const (
	EventTypePoolCreated      = "pool_created"
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeSwap             = "swap"
	EventTypeReserveSync      = "reserve_sync"
)

// Event attribute keys
const (
	AttributeKeyPoolID        = "pool_id"
	AttributeKeyAsset         = "asset"
	AttributeKeyProvider      = "provider"
	AttributeKeyTrader        = "trader"
	AttributeKeyDirection     = "direction"
	AttributeKeyNativeIn      = "native_in"
	AttributeKeyNativeOut     = "native_out"
	AttributeKeyTokenIn       = "token_in"
	AttributeKeyTokenOut      = "token_out"
	AttributeKeyShares        = "shares"
	AttributeKeyReserveNative = "reserve_native"
	AttributeKeyReserveToken  = "reserve_token"
)

// Attribute is a single key/value pair on an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is an observable record of a completed mutating operation.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// NewEvent constructs an event from alternating key/value attribute pairs.
func NewEvent(eventType string, attrs ...Attribute) Event {
	return Event{Type: eventType, Attributes: attrs}
}

// NewAttribute constructs a single event attribute.
func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// defaultEventCapacity bounds the in-memory event ring so a long-lived
// process mirroring events over the API cannot grow without limit.
const defaultEventCapacity = 4096

// EventManager collects events emitted by completed operations. Events are
// only ever appended after an operation has fully succeeded, so observers
// never see records of rolled-back work.
type EventManager struct {
	mu    sync.RWMutex
	ring  []Event
	start int
	count int
}

// NewEventManager returns an event manager with the default bounded capacity.
func NewEventManager() *EventManager {
	return &EventManager{ring: make([]Event, defaultEventCapacity)}
}

// Emit appends an event, evicting the oldest once the ring is full.
func (em *EventManager) Emit(ev Event) {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.count < len(em.ring) {
		em.ring[(em.start+em.count)%len(em.ring)] = ev
		em.count++
		return
	}
	em.ring[em.start] = ev
	em.start = (em.start + 1) % len(em.ring)
}

// EmitEvents appends several events in order.
func (em *EventManager) EmitEvents(evs ...Event) {
	for _, ev := range evs {
		em.Emit(ev)
	}
}

// Events returns a copy of the buffered events, oldest first.
func (em *EventManager) Events() []Event {
	em.mu.RLock()
	defer em.mu.RUnlock()

	out := make([]Event, 0, em.count)
	for i := 0; i < em.count; i++ {
		out = append(out, em.ring[(em.start+i)%len(em.ring)])
	}
	return out
}

// Recent returns up to n of the newest events, newest last.
func (em *EventManager) Recent(n int) []Event {
	evs := em.Events()
	if n <= 0 || n >= len(evs) {
		return evs
	}
	return evs[len(evs)-n:]
}
