package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"market-view/src/config"
	"market-view/src/logger"
	"market-view/src/models"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

type mockAPI struct {
	mu      sync.Mutex
	orders  []models.MOrder
	trades  []models.MTradeRecord
	tickers []models.MTicker
	history map[string][]models.MPriceTick

	tickersErr error
	ordersErr  error
	tradesErr  error
	historyErr error
}

func (m *mockAPI) FetchOpenOrders() ([]models.MOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	return append([]models.MOrder(nil), m.orders...), nil
}

func (m *mockAPI) FetchRecentTrades(limit int) ([]models.MTradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tradesErr != nil {
		return nil, m.tradesErr
	}
	if limit < len(m.trades) {
		return append([]models.MTradeRecord(nil), m.trades[:limit]...), nil
	}
	return append([]models.MTradeRecord(nil), m.trades...), nil
}

func (m *mockAPI) FetchTickers() ([]models.MTicker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tickersErr != nil {
		return nil, m.tickersErr
	}
	return append([]models.MTicker(nil), m.tickers...), nil
}

func (m *mockAPI) FetchPriceHistory(symbol string, limit int) ([]models.MPriceTick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return append([]models.MPriceTick(nil), m.history[symbol]...), nil
}

func (m *mockAPI) CreateOrder(req *models.MOrderRequest) (*models.MOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := models.MOrder{
		OrderID:     999,
		Ticker:      req.Ticker,
		Action:      req.Action,
		Quantity:    req.Quantity,
		Price:       req.Price,
		EntryStatus: "OPEN",
	}
	m.orders = append(m.orders, created)
	return &created, nil
}

// -----------------------------------------------------------------------------

type mockPublisher struct {
	mu        sync.Mutex
	events    []*models.MStreamEvent
	connected bool
}

func (p *mockPublisher) OnStreamEvent(ev *models.MStreamEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *mockPublisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	return nil
}

func (p *mockPublisher) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	return nil
}

func (p *mockPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *mockPublisher) eventCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// -----------------------------------------------------------------------------

func testConfig() *config.Config {
	return &config.Config{MConfig: &models.MConfig{
		Name:     "test",
		Host:     "127.0.0.1",
		Port:     8080,
		LogLevel: "DEBUG",
		Feed: models.MFeedConfig{
			Name:                    "test-feed",
			StreamEndpoint:          "ws://127.0.0.1:1/ws/live",
			APIBaseURL:              "http://127.0.0.1:1",
			HandshakeTimeoutSeconds: 1,
			RequestTimeoutSeconds:   1,
			ReconnectDelayMS:        1500,
			HighlightTTLMS:          25,
		},
	}}
}

func newTestSession(api *mockAPI, pub *mockPublisher) *FeedSession {
	log := logger.NewLogger(nil, "test")
	if pub == nil {
		return NewFeedSession(testConfig(), log, api, nil)
	}
	return NewFeedSession(testConfig(), log, api, pub)
}

// -----------------------------------------------------------------------------

func TestSession_SnapshotLoadSeedsAllStores(t *testing.T) {
	api := &mockAPI{
		tickers: []models.MTicker{{Symbol: "AAPL", Active: true}, {Symbol: "GOOG", Active: true}},
		orders:  []models.MOrder{{OrderID: 1, Ticker: "AAPL"}},
		trades:  []models.MTradeRecord{{TradeID: 1, Tradingsymbol: "AAPL"}},
		history: map[string][]models.MPriceTick{
			"AAPL": {{Symbol: "AAPL", Price: 100}, {Symbol: "AAPL", Price: 101}},
		},
	}
	s := newTestSession(api, nil)
	defer s.Orders.Close()

	s.loadSnapshots()

	if got := len(s.Tickers()); got != 2 {
		t.Errorf("expected 2 tickers, got %d", got)
	}
	if got := len(s.OrdersView().Orders); got != 1 {
		t.Errorf("expected 1 order, got %d", got)
	}
	if got := len(s.TradesView()); got != 1 {
		t.Errorf("expected 1 trade, got %d", got)
	}
	if got := len(s.HistorySamples("AAPL")); got != 2 {
		t.Errorf("expected 2 history samples for AAPL, got %d", got)
	}
}

func TestSession_SnapshotFailuresLeaveViewUsable(t *testing.T) {
	api := &mockAPI{
		tickersErr: errors.New("down"),
		ordersErr:  errors.New("down"),
		tradesErr:  errors.New("down"),
	}
	s := newTestSession(api, nil)
	defer s.Orders.Close()

	s.loadSnapshots()

	if len(s.Tickers()) != 0 || len(s.TradesView()) != 0 {
		t.Errorf("failed snapshots must leave empty stores, not a crash")
	}
	if s.FeedStatus().Connection != models.StatusDisconnected {
		t.Errorf("status should still be readable")
	}
}

func TestSession_PriceFrameFeedsStoreAndHistory(t *testing.T) {
	s := newTestSession(&mockAPI{}, nil)
	defer s.Orders.Close()

	s.OnRawFrame([]byte(`{"type":"price_update","ticker":"AAPL","price":100,"open":98}`))
	s.OnRawFrame([]byte(`{"type":"price_update","ticker":"AAPL","price":101}`))

	state, ok := s.Prices.Get("AAPL")
	if !ok || *state.Current != 101 || *state.Previous != 100 {
		t.Errorf("price state = %+v", state)
	}
	if len(s.HistorySamples("AAPL")) != 2 {
		t.Errorf("each price frame must land in the history window")
	}

	dc := s.DayChange("AAPL")
	if dc.Display != "+3.00 (+3.06%)" {
		t.Errorf("day change display = %q", dc.Display)
	}
}

func TestSession_TradeFrameMerges(t *testing.T) {
	s := newTestSession(&mockAPI{}, nil)
	defer s.Orders.Close()

	frame := `{"type":"new_trade","trade_id":1,"order_id":2,"price":10,"quantity":1,` +
		`"tradingsymbol":"AAPL","transaction_type":"BUY","fill_timestamp":"2026-08-26T10:00:00"}`
	s.OnRawFrame([]byte(frame))
	s.OnRawFrame([]byte(frame)) // duplicate id, dropped

	if got := len(s.TradesView()); got != 1 {
		t.Errorf("expected 1 trade after duplicate frames, got %d", got)
	}
}

func TestSession_OrderFrameHighlightsAndExpires(t *testing.T) {
	s := newTestSession(&mockAPI{}, nil)
	defer s.Orders.Close()

	s.OnRawFrame([]byte(`{"type":"order_update","order_id":5,"status":"FILLED"}`))

	view := s.OrdersView()
	if !view.Highlighted || view.HighlightOrderID != 5 {
		t.Fatalf("order 5 should be highlighted, view = %+v", view)
	}

	deadline := time.Now().Add(time.Second)
	for s.OrdersView().Highlighted {
		if time.Now().After(deadline) {
			t.Fatal("highlight never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSession_MalformedFramesAreDropped(t *testing.T) {
	s := newTestSession(&mockAPI{}, nil)
	defer s.Orders.Close()

	s.OnRawFrame([]byte(`not json at all`))
	s.OnRawFrame([]byte(`{"type":"mystery","x":1}`))
	s.OnRawFrame([]byte(`{"type":"price_update","price":1}`))

	if len(s.Prices.Symbols()) != 0 || len(s.TradesView()) != 0 {
		t.Errorf("dropped frames must not touch any store")
	}
}

func TestSession_PublisherSeesDecodedEvents(t *testing.T) {
	pub := &mockPublisher{}
	s := newTestSession(&mockAPI{}, pub)
	defer s.Orders.Close()

	s.OnRawFrame([]byte(`{"type":"price_update","ticker":"AAPL","price":1}`))
	s.OnRawFrame([]byte(`garbage`))

	if pub.eventCount() != 1 {
		t.Errorf("publisher must see decoded events only, got %d", pub.eventCount())
	}
}

func TestSession_CreateOrderRefreshesOrders(t *testing.T) {
	api := &mockAPI{}
	s := newTestSession(api, nil)
	defer s.Orders.Close()

	created, err := s.CreateOrder(&models.MOrderRequest{Ticker: "AAPL", Action: "BUY", Quantity: 2, Price: 100})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if created.OrderID != 999 {
		t.Errorf("created order = %+v", created)
	}

	deadline := time.Now().Add(time.Second)
	for len(s.OrdersView().Orders) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("order view never picked up the created order")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSession_UniverseFallsBackToPriceSymbols(t *testing.T) {
	s := newTestSession(&mockAPI{}, nil)
	defer s.Orders.Close()

	s.OnRawFrame([]byte(`{"type":"price_update","ticker":"TSLA","price":1}`))
	s.OnRawFrame([]byte(`{"type":"price_update","ticker":"AAPL","price":1}`))

	tickers := s.Tickers()
	if len(tickers) != 2 || tickers[0].Symbol != "AAPL" {
		t.Errorf("fallback universe = %+v", tickers)
	}
}
