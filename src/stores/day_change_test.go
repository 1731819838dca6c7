package stores

import (
	"testing"
	"time"

	"market-view/src/models"
)

// -----------------------------------------------------------------------------

func TestComputeDayChange_BasicDisplay(t *testing.T) {
	state := models.MPriceState{
		Current: floatPtr(105),
		Open:    floatPtr(100),
	}

	dc := ComputeDayChange("AAPL", state, nil)
	if dc.Change != 5 {
		t.Errorf("change = %f, want 5", dc.Change)
	}
	if dc.Percent != 5 {
		t.Errorf("percent = %f, want 5", dc.Percent)
	}
	if dc.Display != "+5.00 (+5.00%)" {
		t.Errorf("display = %q, want %q", dc.Display, "+5.00 (+5.00%)")
	}
}

func TestComputeDayChange_NegativeDisplay(t *testing.T) {
	state := models.MPriceState{
		Current: floatPtr(97.5),
		Open:    floatPtr(100),
	}

	dc := ComputeDayChange("AAPL", state, nil)
	if dc.Display != "-2.50 (-2.50%)" {
		t.Errorf("display = %q, want %q", dc.Display, "-2.50 (-2.50%)")
	}
}

func TestComputeDayChange_ThreeDecimalsAboveThousand(t *testing.T) {
	state := models.MPriceState{
		Current: floatPtr(2005),
		Open:    floatPtr(2000),
	}

	dc := ComputeDayChange("GOOG", state, nil)
	if dc.Display != "+5.000 (+0.250%)" {
		t.Errorf("display = %q, want %q", dc.Display, "+5.000 (+0.250%)")
	}
}

func TestComputeDayChange_FallsBackToHistory(t *testing.T) {
	samples := []models.MPriceTick{
		{Symbol: "AAPL", Price: 100, Timestamp: models.MTime{Time: time.Now()}},
		{Symbol: "AAPL", Price: 102, Timestamp: models.MTime{Time: time.Now()}},
		{Symbol: "AAPL", Price: 104, Timestamp: models.MTime{Time: time.Now()}},
	}

	// No live state at all: current comes from the newest sample, the open
	// from the oldest.
	dc := ComputeDayChange("AAPL", models.MPriceState{}, samples)
	if dc.Change != 4 {
		t.Errorf("change = %f, want 4", dc.Change)
	}
	if dc.Percent != 4 {
		t.Errorf("percent = %f, want 4", dc.Percent)
	}
}

func TestComputeDayChange_NoOpenAnywhere(t *testing.T) {
	state := models.MPriceState{Current: floatPtr(50)}

	dc := ComputeDayChange("AAPL", state, nil)
	if dc.Change != 0 {
		t.Errorf("change must be 0 when the open is unknown, got %f", dc.Change)
	}
	if dc.Display != "+0.00 (+0.00%)" {
		t.Errorf("display = %q, want %q", dc.Display, "+0.00 (+0.00%)")
	}
}

func TestComputeDayChange_NoDataAtAll(t *testing.T) {
	dc := ComputeDayChange("AAPL", models.MPriceState{}, nil)
	if dc.Change != 0 || dc.Percent != 0 {
		t.Errorf("no data must produce zero change, got %+v", dc)
	}
}

func TestComputeDayChange_ZeroOpenUsesCurrentDenominator(t *testing.T) {
	state := models.MPriceState{
		Current: floatPtr(10),
		Open:    floatPtr(0),
	}

	dc := ComputeDayChange("AAPL", state, nil)
	// change = 10, denom falls through to current = 10 -> 100%.
	if dc.Percent != 100 {
		t.Errorf("percent = %f, want 100", dc.Percent)
	}
}
