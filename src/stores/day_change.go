package stores

import (
	"fmt"

	"market-view/src/models"
)

// -----------------------------------------------------------------------------
// Day change derivation. Pure function over immutable snapshots so it can be
// tested without spinning up the feed.
// -----------------------------------------------------------------------------

// ComputeDayChange derives the day change for one symbol from its live price
// state and its history window (oldest-first).
//
// Current price prefers the live store value and falls back to the most
// recent history sample. The open prefers the store's session open and falls
// back to the earliest history sample. change = current - open when both are
// known, else 0. The percent denominator is the open when known and nonzero,
// else the current price when known and nonzero, else 1. Values are formatted
// with 3 decimals when the denominator exceeds 1000, else 2.
func ComputeDayChange(symbol string, state models.MPriceState, samples []models.MPriceTick) models.MDayChange {
	var current *float64
	if state.Current != nil {
		current = state.Current
	} else if len(samples) > 0 {
		latest := samples[len(samples)-1].Price
		current = &latest
	}

	var open *float64
	if state.Open != nil {
		open = state.Open
	} else if len(samples) > 0 {
		earliest := samples[0].Price
		open = &earliest
	}

	change := 0.0
	if current != nil && open != nil {
		change = *current - *open
	}

	denom := 1.0
	switch {
	case open != nil && *open != 0:
		denom = *open
	case current != nil && *current != 0:
		denom = *current
	}

	percent := (change / denom) * 100

	precision := 2
	if denom > 1000 {
		precision = 3
	}

	return models.MDayChange{
		Symbol:  symbol,
		Change:  change,
		Percent: percent,
		Display: fmt.Sprintf("%+.*f (%+.*f%%)", precision, change, precision, percent),
	}
}
