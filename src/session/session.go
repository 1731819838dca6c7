package session

import (
	"context"
	"fmt"

	"market-view/src/config"
	"market-view/src/decoder"
	"market-view/src/interfaces"
	"market-view/src/logger"
	"market-view/src/models"
	"market-view/src/stores"
	"market-view/src/transports"
	"market-view/src/utils"
)

// -----------------------------------------------------------------------------
// STRUCT DEFINITION
// -----------------------------------------------------------------------------

// FeedSession owns one reconciled market view: the push transport, the frame
// decoder, the snapshot API client and every view store. All inbound frames
// funnel through OnRawFrame; all reads go through the snapshot accessors.
type FeedSession struct {
	Name   string
	Config *config.Config
	Logger *logger.Logger

	Client    interfaces.IConnectionClient
	Decoder   *decoder.Decoder
	API       interfaces.ISnapshotAPI
	Publisher interfaces.IPublisher

	Prices   *stores.PriceStore
	History  *stores.PriceHistory
	Orders   *stores.OrderReconciler
	Trades   *stores.TradeMerger
	Universe *stores.TickerUniverse
}

// -----------------------------------------------------------------------------

// NewFeedSession wires the session from configuration. api is the snapshot
// client; publisher is optional and may be nil when fan-out is disabled.
func NewFeedSession(cfg *config.Config, log *logger.Logger, api interfaces.ISnapshotAPI, publisher interfaces.IPublisher) *FeedSession {
	s := &FeedSession{
		Name:      cfg.Feed.Name,
		Config:    cfg,
		Logger:    log,
		Decoder:   decoder.NewDecoder(log, cfg.Feed.Name),
		API:       api,
		Publisher: publisher,
		Prices:    stores.NewPriceStore(),
		History:   stores.NewPriceHistory(utils.HistoryDepth),
		Orders:    stores.NewOrderReconciler(api, log, cfg.Feed.Name, cfg.HighlightTTL()),
		Trades:    stores.NewTradeMerger(),
		Universe:  stores.NewTickerUniverse(),
	}

	s.Client = transports.NewWebSocketClient(
		cfg.Feed.StreamEndpoint,
		cfg.HandshakeTimeout(),
		cfg.ReconnectDelay(),
		log,
		cfg.Feed.Name,
		s.OnRawFrame,
		s.onConnectionStatus,
	)

	return s
}

// -----------------------------------------------------------------------------
// PUBLIC METHODS
// -----------------------------------------------------------------------------

// Start connects the optional publisher, loads the initial snapshots and
// dials the stream. Snapshot failures degrade to an empty view; only the
// transport being torn down is fatal here.
func (s *FeedSession) Start(ctx context.Context) error {
	if s.Publisher != nil {
		if err := s.Publisher.Connect(); err != nil {
			s.Logger.Warning("%s : publisher unavailable, running local-only: %v", s.Name, err)
		}
	}

	s.loadSnapshots()

	if err := s.Client.Connect(ctx); err != nil {
		// The client keeps retrying on its own; surface the first failure.
		return fmt.Errorf("initial stream connect: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop tears the session down: transport first so no frame arrives into
// half-closed stores, then timers and the publisher.
func (s *FeedSession) Stop() {
	if err := s.Client.Disconnect(); err != nil {
		s.Logger.Warning("%s : stream disconnect: %v", s.Name, err)
	}
	s.Orders.Close()
	if s.Publisher != nil {
		if err := s.Publisher.Disconnect(); err != nil {
			s.Logger.Warning("%s : publisher disconnect: %v", s.Name, err)
		}
	}
	s.Logger.Info("%s : session stopped", s.Name)
}

// -----------------------------------------------------------------------------

// OnRawFrame decodes one inbound frame and routes it to the owning store.
// Malformed or unknown frames are dropped here and never reach a store.
func (s *FeedSession) OnRawFrame(frame []byte) {
	ev, err := s.Decoder.Decode(frame)
	if err != nil {
		s.Logger.Debug("%s : dropped frame: %v", s.Name, err)
		return
	}
	if ev == nil {
		// Unknown event tag, skipped without error.
		return
	}

	switch ev.Kind {
	case models.EventPriceUpdate:
		s.Prices.Apply(ev.Price)
		s.History.Record(ev.Price.Ticker, ev.Price.Price, ev.Price.ReceivedAt)
	case models.EventOrderUpdate:
		s.Orders.OnUpdate(ev.Order)
	case models.EventNewTrade:
		s.Trades.MergeEvents([]models.MNewTrade{*ev.Trade})
	}

	if s.Publisher != nil {
		s.Publisher.OnStreamEvent(ev)
	}
}

// -----------------------------------------------------------------------------

// RefreshOrders re-pulls the order snapshot on demand.
func (s *FeedSession) RefreshOrders() {
	s.Orders.Refresh()
}

// -----------------------------------------------------------------------------

// RefreshTrades re-pulls the trade snapshot and installs it as the new
// display baseline. On failure the current view is kept.
func (s *FeedSession) RefreshTrades() {
	rows, err := s.API.FetchRecentTrades(utils.TradesDisplayLimit)
	if err != nil {
		s.Logger.Warning("%s : trade refresh failed, keeping current view: %v", s.Name, err)
		return
	}
	s.Trades.SeedTrades(rows)
}

// -----------------------------------------------------------------------------

// CreateOrder proxies an order to the backend, then refreshes the order view
// in the background so the new row shows up without waiting for a push event.
func (s *FeedSession) CreateOrder(req *models.MOrderRequest) (*models.MOrder, error) {
	created, err := s.API.CreateOrder(req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	go s.Orders.Refresh()
	return created, nil
}

// -----------------------------------------------------------------------------

// Status returns the current stream connection status.
func (s *FeedSession) Status() models.MConnectionStatus {
	return s.Client.Status()
}

// -----------------------------------------------------------------------------
// VIEW ACCESSORS
// -----------------------------------------------------------------------------

// PricesSnapshot returns the live per-symbol price states.
func (s *FeedSession) PricesSnapshot() map[string]models.MPriceState {
	return s.Prices.Snapshot()
}

// -----------------------------------------------------------------------------

// HistorySamples returns the retained samples for one symbol, oldest first.
func (s *FeedSession) HistorySamples(symbol string) []models.MPriceTick {
	return s.History.Samples(symbol)
}

// -----------------------------------------------------------------------------

// DayChange derives the day-change metric for one symbol from the live state
// and the retained history.
func (s *FeedSession) DayChange(symbol string) models.MDayChange {
	state, _ := s.Prices.Get(symbol)
	return stores.ComputeDayChange(symbol, state, s.History.Samples(symbol))
}

// -----------------------------------------------------------------------------

// OrdersView returns the merged order state including the highlight window.
func (s *FeedSession) OrdersView() models.MOrdersView {
	return s.Orders.View()
}

// -----------------------------------------------------------------------------

// TradesView returns the display trade list, newest first.
func (s *FeedSession) TradesView() []models.MTradeRecord {
	return s.Trades.Trades()
}

// -----------------------------------------------------------------------------

// Tickers resolves the working symbol universe.
func (s *FeedSession) Tickers() []models.MTicker {
	return s.Universe.Resolve(s.Prices.Symbols(), s.Orders.OrderSymbols())
}

// -----------------------------------------------------------------------------

// FeedStatus aggregates the connection state with store counts.
func (s *FeedSession) FeedStatus() models.MFeedStatus {
	return models.MFeedStatus{
		FeedName:   s.Name,
		Connection: s.Client.Status(),
		Endpoint:   s.Config.Feed.StreamEndpoint,
		Symbols:    len(s.Tickers()),
		Orders:     len(s.Orders.Orders()),
		Trades:     s.Trades.Len(),
	}
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// loadSnapshots pulls the initial state from the snapshot API. Every call is
// independent; a failed one leaves its store empty and the view stays usable.
func (s *FeedSession) loadSnapshots() {
	if tickers, err := s.API.FetchTickers(); err != nil {
		s.Logger.Warning("%s : ticker snapshot failed: %v", s.Name, err)
	} else {
		s.Universe.SetSnapshot(tickers)
	}

	if orders, err := s.API.FetchOpenOrders(); err != nil {
		s.Logger.Warning("%s : order snapshot failed: %v", s.Name, err)
	} else {
		s.Orders.SeedOrders(orders)
	}

	if trades, err := s.API.FetchRecentTrades(utils.TradesDisplayLimit); err != nil {
		s.Logger.Warning("%s : trade snapshot failed: %v", s.Name, err)
	} else {
		s.Trades.SeedTrades(trades)
	}

	for _, ticker := range s.Tickers() {
		ticks, err := s.API.FetchPriceHistory(ticker.Symbol, utils.HistoryDepth)
		if err != nil {
			s.Logger.Warning("%s : price history for %s failed: %v", s.Name, ticker.Symbol, err)
			continue
		}
		s.History.Seed(ticker.Symbol, ticks)
	}
}

// -----------------------------------------------------------------------------

// onConnectionStatus observes transport transitions. Must not call back into
// the client.
func (s *FeedSession) onConnectionStatus(status models.MConnectionStatus) {
	s.Logger.Info("%s : connection status changed to %s", s.Name, status)
}
