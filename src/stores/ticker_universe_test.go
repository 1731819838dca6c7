package stores

import (
	"testing"

	"market-view/src/models"
)

func symbolsOf(tickers []models.MTicker) []string {
	out := make([]string, len(tickers))
	for i, tk := range tickers {
		out[i] = tk.Symbol
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------

func TestTickerUniverse_SnapshotIsAuthoritative(t *testing.T) {
	u := NewTickerUniverse()
	u.SetSnapshot([]models.MTicker{
		{Symbol: "TSLA", Active: true},
		{Symbol: "AAPL", Active: true},
	})

	// Fallback inputs are ignored once a snapshot exists.
	got := symbolsOf(u.Resolve([]string{"GOOG"}, []string{"MSFT"}))
	if !equalStrings(got, []string{"AAPL", "TSLA"}) {
		t.Errorf("resolved = %v, want sorted snapshot [AAPL TSLA]", got)
	}
}

func TestTickerUniverse_FallbackPrefersPriceSymbols(t *testing.T) {
	u := NewTickerUniverse()

	got := symbolsOf(u.Resolve([]string{"A", "B"}, []string{"B", "C"}))
	if !equalStrings(got, []string{"A", "B"}) {
		t.Errorf("resolved = %v, want price symbols [A B]", got)
	}
}

func TestTickerUniverse_FallbackToOrderSymbols(t *testing.T) {
	u := NewTickerUniverse()

	got := symbolsOf(u.Resolve(nil, []string{"C", "B"}))
	if !equalStrings(got, []string{"B", "C"}) {
		t.Errorf("resolved = %v, want sorted order symbols [B C]", got)
	}
}

func TestTickerUniverse_EmptyEverywhere(t *testing.T) {
	u := NewTickerUniverse()

	if got := u.Resolve(nil, nil); len(got) != 0 {
		t.Errorf("nothing known must resolve to an empty universe, got %v", got)
	}
	if u.HasSnapshot() {
		t.Errorf("no snapshot was installed")
	}
}

func TestTickerUniverse_SnapshotIsSticky(t *testing.T) {
	u := NewTickerUniverse()
	u.SetSnapshot([]models.MTicker{{Symbol: "AAPL", Active: true}})

	// A later empty reload must not demote the universe.
	u.SetSnapshot(nil)
	u.SetSnapshot([]models.MTicker{})

	if !u.HasSnapshot() {
		t.Fatal("empty reloads must not clear the snapshot")
	}
	got := symbolsOf(u.Resolve(nil, nil))
	if !equalStrings(got, []string{"AAPL"}) {
		t.Errorf("resolved = %v, want [AAPL]", got)
	}
}

func TestTickerUniverse_SnapshotCanBeReplacedByNonEmpty(t *testing.T) {
	u := NewTickerUniverse()
	u.SetSnapshot([]models.MTicker{{Symbol: "AAPL", Active: true}})
	u.SetSnapshot([]models.MTicker{{Symbol: "GOOG", Active: true}})

	got := symbolsOf(u.Resolve(nil, nil))
	if !equalStrings(got, []string{"GOOG"}) {
		t.Errorf("non-empty snapshot should replace the prior one, got %v", got)
	}
}

func TestTickerUniverse_FallbackMarksActive(t *testing.T) {
	u := NewTickerUniverse()

	for _, tk := range u.Resolve([]string{"A"}, nil) {
		if !tk.Active {
			t.Errorf("fallback tickers are treated as active")
		}
	}
}
