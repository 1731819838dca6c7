package stores

import (
	"sort"
	"sync"

	"market-view/src/models"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// PriceStore holds per-symbol live price state, updated from stream events.
// Invariants: Previous always holds the value Current had immediately before
// the latest update; Open is sticky once set and survives updates that omit
// it. States are stored and returned by value, so readers never observe a
// partial update.
type PriceStore struct {
	mu     sync.RWMutex
	states map[string]models.MPriceState
}

// -----------------------------------------------------------------------------

// NewPriceStore creates an empty price store.
func NewPriceStore() *PriceStore {
	return &PriceStore{
		states: make(map[string]models.MPriceState),
	}
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// Apply folds one price event into the symbol's state. A symbol with no prior
// state starts with a nil Previous.
func (ps *PriceStore) Apply(e *models.MPriceUpdate) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	state := ps.states[e.Ticker]
	state.Previous = state.Current

	current := e.Price
	state.Current = &current

	if e.Open != nil {
		open := *e.Open
		state.Open = &open
	}

	ps.states[e.Ticker] = state
}

// -----------------------------------------------------------------------------

// Get returns the state for one symbol and whether it has ever been observed.
func (ps *PriceStore) Get(symbol string) (models.MPriceState, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	state, ok := ps.states[symbol]
	return state, ok
}

// -----------------------------------------------------------------------------

// Snapshot returns a copy of all per-symbol states.
func (ps *PriceStore) Snapshot() map[string]models.MPriceState {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	snapshot := make(map[string]models.MPriceState, len(ps.states))
	for symbol, state := range ps.states {
		snapshot[symbol] = state
	}
	return snapshot
}

// -----------------------------------------------------------------------------

// Symbols returns the sorted set of observed symbols.
func (ps *PriceStore) Symbols() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	symbols := make([]string, 0, len(ps.states))
	for symbol := range ps.states {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
