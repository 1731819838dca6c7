package models

import (
	"time"
)

// -----------------------------------------------------------------------------

// MConnectionStatus is the push-transport lifecycle state. It is owned solely
// by the connection client and only ever moves on transport transitions.
type MConnectionStatus string

const (
	StatusDisconnected MConnectionStatus = "disconnected"
	StatusConnecting   MConnectionStatus = "connecting"
	StatusConnected    MConnectionStatus = "connected"
)

// -----------------------------------------------------------------------------

// MEventKind discriminates decoded stream frames.
type MEventKind string

const (
	EventPriceUpdate MEventKind = "price_update"
	EventOrderUpdate MEventKind = "order_update"
	EventNewTrade    MEventKind = "new_trade"
)

// -----------------------------------------------------------------------------

// MStreamEvent is one decoded frame. Exactly one payload pointer matching
// Kind is non-nil; consumers route with an exhaustive switch over Kind.
type MStreamEvent struct {
	Kind  MEventKind    `json:"kind"`
	Price *MPriceUpdate `json:"price,omitempty"`
	Order *MOrderUpdate `json:"order,omitempty"`
	Trade *MNewTrade    `json:"trade,omitempty"`
}

// -----------------------------------------------------------------------------

// MPriceUpdate is ephemeral: applied to the price store and history ring,
// never stored verbatim. Open is nil when the frame omits the session open.
type MPriceUpdate struct {
	Ticker     string    `json:"ticker"`
	Price      float64   `json:"price"`
	Open       *float64  `json:"open,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// -----------------------------------------------------------------------------

// MOrderUpdate is a notification that an order changed server-side. It does
// not carry the full order record; the authoritative row comes from a
// snapshot re-fetch.
type MOrderUpdate struct {
	OrderID     int64     `json:"order_id"`
	Status      string    `json:"status"`
	LastUpdated string    `json:"last_updated"`
	ReceivedAt  time.Time `json:"received_at"`
}

// -----------------------------------------------------------------------------

// MNewTrade announces a fill produced server-side.
type MNewTrade struct {
	TradeID         int64     `json:"trade_id"`
	OrderID         int64     `json:"order_id"`
	Tradingsymbol   string    `json:"tradingsymbol"`
	Quantity        int64     `json:"quantity"`
	Price           float64   `json:"price"`
	TransactionType string    `json:"transaction_type"`
	FillTimestamp   time.Time `json:"fill_timestamp"`
}
