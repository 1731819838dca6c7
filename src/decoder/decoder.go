package decoder

import (
	"encoding/json"
	"fmt"
	"time"

	"market-view/src/logger"
	"market-view/src/models"
	"market-view/src/utils"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// Decoder validates and parses raw stream frames from the dashboard backend
// into typed events. A decode failure is never fatal to the caller: the frame
// is reported through the error and then discarded.
type Decoder struct {
	Name   string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewDecoder creates a decoder for the dashboard stream.
func NewDecoder(logger *logger.Logger, name string) *Decoder {
	return &Decoder{
		Name:   name,
		Logger: logger,
	}
}

// -----------------------------------------------------------------------------
// Wire shapes. Required fields are pointers so a missing field is
// distinguishable from a zero value and the whole frame can be dropped.
// -----------------------------------------------------------------------------

type priceUpdateFrame struct {
	Ticker string   `json:"ticker"`
	Price  *float64 `json:"price"`
	Open   *float64 `json:"open"`
}

type orderUpdateFrame struct {
	OrderID     *int64 `json:"order_id"`
	Status      string `json:"status"`
	LastUpdated string `json:"last_updated"`
}

type newTradeFrame struct {
	TradeID         *int64   `json:"trade_id"`
	OrderID         *int64   `json:"order_id"`
	Tradingsymbol   string   `json:"tradingsymbol"`
	Quantity        *int64   `json:"quantity"`
	Price           *float64 `json:"price"`
	TransactionType string   `json:"transaction_type"`
	FillTimestamp   string   `json:"fill_timestamp"`
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// Decode parses one raw text frame, routing on the type tag. It returns
// (nil, nil) for frames that carry no event for us (unknown tags), and a
// non-nil error for malformed payloads; either way the frame is dropped.
func (d *Decoder) Decode(frame []byte) (*models.MStreamEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
	}

	switch models.MEventKind(envelope.Type) {
	case models.EventPriceUpdate:
		return d.decodePriceUpdate(frame)
	case models.EventOrderUpdate:
		return d.decodeOrderUpdate(frame)
	case models.EventNewTrade:
		return d.decodeNewTrade(frame)
	default:
		// Unknown or missing tag, ignore frame
		return nil, nil
	}
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// decodePriceUpdate extracts a price event. The open field is optional and
// stays nil when the frame omits it.
func (d *Decoder) decodePriceUpdate(frame []byte) (*models.MStreamEvent, error) {
	var f priceUpdateFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return nil, fmt.Errorf("parse price update error: %w", err)
	}
	if f.Ticker == "" {
		return nil, fmt.Errorf("parse price update error: missing field 'ticker'")
	}
	if f.Price == nil {
		return nil, fmt.Errorf("parse price update error: missing field 'price'")
	}

	return &models.MStreamEvent{
		Kind: models.EventPriceUpdate,
		Price: &models.MPriceUpdate{
			Ticker:     f.Ticker,
			Price:      *f.Price,
			Open:       f.Open,
			ReceivedAt: time.Now(),
		},
	}, nil
}

// -----------------------------------------------------------------------------

// decodeOrderUpdate extracts an order update notification. Status fields ride
// along verbatim; the full record comes from a snapshot re-fetch.
func (d *Decoder) decodeOrderUpdate(frame []byte) (*models.MStreamEvent, error) {
	var f orderUpdateFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return nil, fmt.Errorf("parse order update error: %w", err)
	}
	if f.OrderID == nil {
		return nil, fmt.Errorf("parse order update error: missing field 'order_id'")
	}

	return &models.MStreamEvent{
		Kind: models.EventOrderUpdate,
		Order: &models.MOrderUpdate{
			OrderID:     *f.OrderID,
			Status:      f.Status,
			LastUpdated: f.LastUpdated,
			ReceivedAt:  time.Now(),
		},
	}, nil
}

// -----------------------------------------------------------------------------

// decodeNewTrade extracts a fill notification.
func (d *Decoder) decodeNewTrade(frame []byte) (*models.MStreamEvent, error) {
	var f newTradeFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return nil, fmt.Errorf("parse new trade error: %w", err)
	}
	if f.TradeID == nil {
		return nil, fmt.Errorf("parse new trade error: missing field 'trade_id'")
	}
	if f.OrderID == nil {
		return nil, fmt.Errorf("parse new trade error: missing field 'order_id'")
	}
	if f.Tradingsymbol == "" {
		return nil, fmt.Errorf("parse new trade error: missing field 'tradingsymbol'")
	}
	if f.Quantity == nil {
		return nil, fmt.Errorf("parse new trade error: missing field 'quantity'")
	}
	if f.Price == nil {
		return nil, fmt.Errorf("parse new trade error: missing field 'price'")
	}

	return &models.MStreamEvent{
		Kind: models.EventNewTrade,
		Trade: &models.MNewTrade{
			TradeID:         *f.TradeID,
			OrderID:         *f.OrderID,
			Tradingsymbol:   f.Tradingsymbol,
			Quantity:        *f.Quantity,
			Price:           *f.Price,
			TransactionType: f.TransactionType,
			FillTimestamp:   utils.ParseTimestamp(f.FillTimestamp),
		},
	}, nil
}
