package main

// Standalone backend simulator for exercising the market view end to end.
// It serves the snapshot REST surface and a /ws/live stream that emits
// random-walk price updates with occasional order and trade events.

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------

type simTicker struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type simOrder struct {
	OrderID     int64   `json:"order_id"`
	Ticker      string  `json:"ticker"`
	Action      string  `json:"action"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	EntryStatus string  `json:"entry_status"`
	ExitStatus  *string `json:"exit_status"`
	LastUpdated string  `json:"last_updated"`
}

type simTrade struct {
	TradeID         int64   `json:"trade_id"`
	OrderID         int64   `json:"order_id"`
	Tradingsymbol   string  `json:"tradingsymbol"`
	Product         string  `json:"product"`
	Quantity        int64   `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	TransactionType string  `json:"transaction_type"`
	FillTimestamp   string  `json:"fill_timestamp"`
}

type simTick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// simulator holds the fake backend state. Prices random-walk around the
// session open; orders and trades accumulate as the stream emits events.
type simulator struct {
	mu sync.Mutex

	tickers []simTicker
	opens   map[string]float64
	prices  map[string]float64
	history map[string][]simTick

	orders      []simOrder
	trades      []simTrade
	nextOrderID int64
	nextTradeID int64

	rng *rand.Rand
}

// -----------------------------------------------------------------------------

func newSimulator() *simulator {
	symbols := []string{"AAPL", "GOOG", "MSFT", "TSLA"}
	s := &simulator{
		opens:       make(map[string]float64),
		prices:      make(map[string]float64),
		history:     make(map[string][]simTick),
		nextOrderID: 1000,
		nextTradeID: 5000,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, sym := range symbols {
		open := 50 + s.rng.Float64()*2000
		s.tickers = append(s.tickers, simTicker{Symbol: sym, Active: true})
		s.opens[sym] = open
		s.prices[sym] = open
	}
	return s
}

// -----------------------------------------------------------------------------

// step advances one random-walk tick for a random symbol and returns the
// stream frame to emit.
func (s *simulator) step() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	sym := s.tickers[s.rng.Intn(len(s.tickers))].Symbol
	price := s.prices[sym] * (1 + (s.rng.Float64()-0.5)*0.004)
	s.prices[sym] = price

	now := time.Now().UTC().Format(time.RFC3339Nano)
	ticks := append(s.history[sym], simTick{Symbol: sym, Price: price, Timestamp: now})
	if len(ticks) > 50 {
		ticks = ticks[len(ticks)-50:]
	}
	s.history[sym] = ticks

	frame := map[string]interface{}{
		"type":   "price_update",
		"ticker": sym,
		"price":  price,
	}
	// Every few ticks include the session open, like the real backend.
	if s.rng.Intn(4) == 0 {
		frame["open"] = s.opens[sym]
	}
	return frame
}

// -----------------------------------------------------------------------------

// maybeFill randomly creates an order plus its fill, returning the two frames
// to emit, or nil when this round produces none.
func (s *simulator) maybeFill() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Intn(6) != 0 {
		return nil
	}

	sym := s.tickers[s.rng.Intn(len(s.tickers))].Symbol
	action := "BUY"
	if s.rng.Intn(2) == 0 {
		action = "SELL"
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	s.nextOrderID++
	order := simOrder{
		OrderID:     s.nextOrderID,
		Ticker:      sym,
		Action:      action,
		Quantity:    int64(1 + s.rng.Intn(100)),
		Price:       s.prices[sym],
		EntryStatus: "FILLED",
		LastUpdated: now,
	}
	s.orders = append(s.orders, order)

	s.nextTradeID++
	trade := simTrade{
		TradeID:         s.nextTradeID,
		OrderID:         order.OrderID,
		Tradingsymbol:   sym,
		Product:         "MIS",
		Quantity:        order.Quantity,
		AveragePrice:    order.Price,
		TransactionType: action,
		FillTimestamp:   now,
	}
	s.trades = append(s.trades, trade)

	return []map[string]interface{}{
		{
			"type":         "order_update",
			"order_id":     order.OrderID,
			"status":       order.EntryStatus,
			"last_updated": now,
		},
		{
			"type":             "new_trade",
			"trade_id":         trade.TradeID,
			"order_id":         trade.OrderID,
			"price":            trade.AveragePrice,
			"quantity":         trade.Quantity,
			"tradingsymbol":    sym,
			"transaction_type": action,
			"fill_timestamp":   now,
		},
	}
}

// -----------------------------------------------------------------------------
// REST handlers, matching the backend's wrapped-response shape.
// -----------------------------------------------------------------------------

func (s *simulator) getTickers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(200, gin.H{"tickers": s.tickers})
}

func (s *simulator) getOpenOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(200, gin.H{"orders": s.orders})
}

func (s *simulator) getRecentTrades(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest-first, capped at 100 like the real backend.
	trades := make([]simTrade, 0, len(s.trades))
	for i := len(s.trades) - 1; i >= 0 && len(trades) < 100; i-- {
		trades = append(trades, s.trades[i])
	}
	c.JSON(200, gin.H{"trades": trades})
}

func (s *simulator) getPriceHistory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := c.Param("symbol")
	ticks := s.history[symbol]
	if len(ticks) > 10 {
		ticks = ticks[len(ticks)-10:]
	}
	c.JSON(200, gin.H{"symbol": symbol, "ticks": ticks})
}

func (s *simulator) postOrder(c *gin.Context) {
	var req struct {
		Ticker   string  `json:"ticker"`
		Action   string  `json:"action"`
		Quantity int64   `json:"quantity"`
		Price    float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	order := simOrder{
		OrderID:     s.nextOrderID,
		Ticker:      req.Ticker,
		Action:      req.Action,
		Quantity:    req.Quantity,
		Price:       req.Price,
		EntryStatus: "OPEN",
		LastUpdated: time.Now().UTC().Format(time.RFC3339Nano),
	}
	s.orders = append(s.orders, order)
	c.JSON(201, order)
}

// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStream upgrades and pushes frames until the client goes away.
func (s *simulator) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		frames := []map[string]interface{}{s.step()}
		frames = append(frames, s.maybeFill()...)
		for _, frame := range frames {
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
	}
}

// -----------------------------------------------------------------------------

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address for the simulated backend")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)
	sim := newSimulator()

	engine := gin.Default()
	engine.GET("/tickers", sim.getTickers)
	engine.GET("/orders/open", sim.getOpenOrders)
	engine.GET("/trades/recent", sim.getRecentTrades)
	engine.GET("/prices/:symbol", sim.getPriceHistory)
	engine.POST("/orders", sim.postOrder)
	engine.GET("/ws/live", sim.handleStream)

	fmt.Printf("simulated backend listening on %s (stream at ws://%s/ws/live)\n", *addr, *addr)
	if err := engine.Run(*addr); err != nil {
		fmt.Printf("simulator exited: %v\n", err)
	}
}
