package stores

import (
	"sort"
	"sync"

	"market-view/src/models"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// TickerUniverse resolves the working symbol set. A non-empty snapshot list
// is authoritative and sticky: once installed it is never overridden by the
// derived fallback. When the snapshot is empty or failed to load, the
// fallback prefers the symbols observed in the price store, then the distinct
// symbols of loaded orders.
type TickerUniverse struct {
	mu            sync.RWMutex
	authoritative []models.MTicker
}

// -----------------------------------------------------------------------------

// NewTickerUniverse creates an empty resolver.
func NewTickerUniverse() *TickerUniverse {
	return &TickerUniverse{}
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// SetSnapshot installs the snapshot ticker list. Empty lists are ignored so a
// later failed reload cannot demote an authoritative universe.
func (u *TickerUniverse) SetSnapshot(list []models.MTicker) {
	if len(list) == 0 {
		return
	}

	tickers := append([]models.MTicker(nil), list...)
	sort.Slice(tickers, func(i, j int) bool { return tickers[i].Symbol < tickers[j].Symbol })

	u.mu.Lock()
	defer u.mu.Unlock()
	u.authoritative = tickers
}

// -----------------------------------------------------------------------------

// HasSnapshot reports whether an authoritative list is installed.
func (u *TickerUniverse) HasSnapshot() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.authoritative) > 0
}

// -----------------------------------------------------------------------------

// Resolve returns the working set: the authoritative list when present,
// otherwise a fallback derived from the given price-store symbols, and as a
// last resort from the order symbols. Inputs are expected sorted; output is
// sorted by symbol either way.
func (u *TickerUniverse) Resolve(priceSymbols, orderSymbols []string) []models.MTicker {
	u.mu.RLock()
	if len(u.authoritative) > 0 {
		resolved := append([]models.MTicker(nil), u.authoritative...)
		u.mu.RUnlock()
		return resolved
	}
	u.mu.RUnlock()

	fallback := priceSymbols
	if len(fallback) == 0 {
		fallback = orderSymbols
	}

	resolved := make([]models.MTicker, 0, len(fallback))
	for _, symbol := range fallback {
		resolved = append(resolved, models.MTicker{Symbol: symbol, Active: true})
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Symbol < resolved[j].Symbol })
	return resolved
}
