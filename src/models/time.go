package models

import (
	"strings"
	"time"

	"market-view/src/utils"
)

// -----------------------------------------------------------------------------

// MTime wraps time.Time with tolerant JSON decoding. The backend serializes
// naive isoformat timestamps (no timezone), which the stock time.Time
// unmarshaler rejects.
type MTime struct {
	time.Time
}

// -----------------------------------------------------------------------------

// UnmarshalJSON accepts RFC3339 and naive isoformat values; null and
// unparseable values decode to the zero time.
func (t *MTime) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		t.Time = time.Time{}
		return nil
	}
	if ts, ok := utils.TryParseTimestamp(value); ok {
		t.Time = ts
		return nil
	}
	t.Time = time.Time{}
	return nil
}
