package utils

import "time"

// -----------------------------------------------------------------------------
// View capacities and timings.
// The capacities are part of the observable contract of the view stores and
// are therefore fixed here rather than exposed through configuration.
// -----------------------------------------------------------------------------

const (
	// HistoryDepth is the per-symbol price history capacity (FIFO eviction).
	HistoryDepth = 10

	// TradesDisplayLimit bounds the merged, deduplicated trade list.
	TradesDisplayLimit = 100

	// TradesBufferLimit bounds the raw stream-sourced trade buffer.
	TradesBufferLimit = 200

	// OrderUpdatesLimit bounds the raw order update notification buffer.
	OrderUpdatesLimit = 50

	// DefaultReconnectDelay is the fixed retry interval after a transport drop.
	DefaultReconnectDelay = 1500 * time.Millisecond

	// DefaultHighlightTTL is how long an order stays highlighted after its
	// latest update notification.
	DefaultHighlightTTL = 1500 * time.Millisecond

	// DefaultProduct tags stream-sourced trades; the stream does not carry a
	// product field, snapshot trades do.
	DefaultProduct = "MIS"
)
