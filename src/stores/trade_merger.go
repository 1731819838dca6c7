package stores

import (
	"sync"

	"market-view/src/models"
	"market-view/src/utils"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// TradeMerger maintains the merged trade display list: a snapshot baseline
// (assumed deduplicated, newest-first, at most the display capacity) plus
// stream-sourced fills merged in batch-atomically. The raw stream buffer is
// bounded independently of the display list.
type TradeMerger struct {
	mu           sync.RWMutex
	display      []models.MTradeRecord // newest-first, <= displayLimit, unique trade ids
	incoming     []models.MTradeRecord // raw stream-sourced buffer, newest-first
	displayLimit int
	bufferLimit  int
}

// -----------------------------------------------------------------------------

// NewTradeMerger creates an empty merger with the contract capacities.
func NewTradeMerger() *TradeMerger {
	return &TradeMerger{
		displayLimit: utils.TradesDisplayLimit,
		bufferLimit:  utils.TradesBufferLimit,
	}
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// SeedTrades installs the snapshot baseline (newest-first), truncated to the
// display capacity.
func (m *TradeMerger) SeedTrades(rows []models.MTradeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	display := append([]models.MTradeRecord(nil), rows...)
	if len(display) > m.displayLimit {
		display = display[:m.displayLimit]
	}
	m.display = display
}

// -----------------------------------------------------------------------------

// MergeEvents folds one batch of stream fills into the display list
// atomically. Events whose trade id already exists in the display list are
// dropped, as are repeats within the batch (first occurrence wins). Survivors
// are mapped to display form, prepended in batch order, and the result is
// truncated to the display capacity.
func (m *TradeMerger) MergeEvents(events []models.MNewTrade) {
	if len(events) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[int64]bool, len(m.display))
	for _, row := range m.display {
		existing[row.TradeID] = true
	}

	seen := make(map[int64]bool, len(events))
	mapped := make([]models.MTradeRecord, 0, len(events))
	for _, e := range events {
		if existing[e.TradeID] || seen[e.TradeID] {
			continue
		}
		seen[e.TradeID] = true
		mapped = append(mapped, toTradeRecord(&e))
	}

	merged := append(mapped, m.display...)
	if len(merged) > m.displayLimit {
		merged = merged[:m.displayLimit]
	}
	m.display = merged

	// Raw buffer keeps the batch as received, newest-first, independently
	// bounded.
	raw := make([]models.MTradeRecord, 0, len(events))
	for _, e := range events {
		raw = append(raw, toTradeRecord(&e))
	}
	m.incoming = append(raw, m.incoming...)
	if len(m.incoming) > m.bufferLimit {
		m.incoming = m.incoming[:m.bufferLimit]
	}
}

// -----------------------------------------------------------------------------

// Trades returns a copy of the merged display list, newest-first.
func (m *TradeMerger) Trades() []models.MTradeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MTradeRecord(nil), m.display...)
}

// -----------------------------------------------------------------------------

// Buffer returns a copy of the raw stream-sourced buffer, newest-first.
func (m *TradeMerger) Buffer() []models.MTradeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MTradeRecord(nil), m.incoming...)
}

// -----------------------------------------------------------------------------

// Len returns the merged display list length.
func (m *TradeMerger) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.display)
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// toTradeRecord maps a stream fill into display form; the stream carries no
// product field, so it gets the constant tag.
func toTradeRecord(e *models.MNewTrade) models.MTradeRecord {
	return models.MTradeRecord{
		TradeID:         e.TradeID,
		OrderID:         e.OrderID,
		Tradingsymbol:   e.Tradingsymbol,
		Product:         utils.DefaultProduct,
		Quantity:        e.Quantity,
		AveragePrice:    e.Price,
		TransactionType: e.TransactionType,
		FillTimestamp:   models.MTime{Time: e.FillTimestamp},
	}
}
