package utils

import "time"

// -----------------------------------------------------------------------------

// Timestamp layouts the backend is known to emit. Python's isoformat() omits
// the timezone, so plain RFC3339 alone is not enough.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// -----------------------------------------------------------------------------

// TryParseTimestamp parses a backend timestamp string, reporting whether any
// known layout matched.
func TryParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// -----------------------------------------------------------------------------

// ParseTimestamp parses a backend timestamp string, falling back to the
// arrival time when the value is absent or unparseable.
func ParseTimestamp(value string) time.Time {
	if ts, ok := TryParseTimestamp(value); ok {
		return ts
	}
	return time.Now()
}
