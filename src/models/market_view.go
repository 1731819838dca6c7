package models

// -----------------------------------------------------------------------------
// Snapshot-sourced records, matching the dashboard backend schema.
// -----------------------------------------------------------------------------

// MOrder is a full order row from the snapshot API.
type MOrder struct {
	OrderID     int64   `json:"order_id"`
	Ticker      string  `json:"ticker"`
	Action      string  `json:"action"` // BUY / SELL
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	EntryStatus string  `json:"entry_status"` // OPEN / FILLED / CANCELLED / PENDING
	ExitStatus  *string `json:"exit_status"`
	LastUpdated MTime   `json:"last_updated"`
}

// -----------------------------------------------------------------------------

// MTradeRecord is the display form of a trade; trade_id is the identity used
// for deduplication.
type MTradeRecord struct {
	TradeID         int64   `json:"trade_id"`
	OrderID         int64   `json:"order_id"`
	Tradingsymbol   string  `json:"tradingsymbol"`
	Product         string  `json:"product"`
	Quantity        int64   `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	TransactionType string  `json:"transaction_type"` // BUY / SELL
	FillTimestamp   MTime   `json:"fill_timestamp"`
}

// -----------------------------------------------------------------------------

// MTicker is one tradable symbol of the working universe.
type MTicker struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// -----------------------------------------------------------------------------

// MPriceTick is one historical price sample.
type MPriceTick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp MTime   `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MOrderRequest is the payload for creating an order through the backend.
type MOrderRequest struct {
	Ticker   string  `json:"ticker"`
	Action   string  `json:"action"` // BUY / SELL
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// -----------------------------------------------------------------------------
// Derived, read-only view state.
// -----------------------------------------------------------------------------

// MPriceState is the per-symbol live price state. Previous always holds the
// value Current had before the latest update; Open is sticky once set. Nil
// means never observed.
type MPriceState struct {
	Current  *float64 `json:"current"`
	Previous *float64 `json:"previous"`
	Open     *float64 `json:"open"`
}

// -----------------------------------------------------------------------------

// MDayChange is the derived day-change metric for one symbol. Display
// reproduces the dashboard formatting: "+5.00 (+5.00%)", three decimals when
// the denominator exceeds 1000.
type MDayChange struct {
	Symbol  string  `json:"symbol"`
	Change  float64 `json:"change"`
	Percent float64 `json:"percent"`
	Display string  `json:"display"`
}

// -----------------------------------------------------------------------------

// MOrdersView is the merged order state handed to presentation.
type MOrdersView struct {
	Orders           []MOrder       `json:"orders"`
	HighlightOrderID int64          `json:"highlight_order_id"`
	Highlighted      bool           `json:"highlighted"`
	RecentUpdates    []MOrderUpdate `json:"recent_updates"`
}
