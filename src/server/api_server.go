package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"market-view/src/config"
	"market-view/src/logger"
	"market-view/src/models"
	"market-view/src/session"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

// APIServer exposes the reconciled view over HTTP. Every GET handler reads a
// store snapshot; nothing here mutates view state except the explicit refresh
// and order-creation endpoints, which go through the session.
type APIServer struct {
	Config  *config.Config
	Logger  *logger.Logger
	Session *session.FeedSession

	engine *gin.Engine
	server *http.Server
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *config.Config, logger *logger.Logger, sess *session.FeedSession) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:  cfg,
		Logger:  logger,
		Session: sess,
		engine:  gin.Default(),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/status", s.getStatus)
	s.engine.GET("/api/tickers", s.getTickers)
	s.engine.GET("/api/prices", s.getPrices)
	s.engine.GET("/api/prices/:symbol/history", s.getPriceHistory)
	s.engine.GET("/api/orders", s.getOrders)
	s.engine.GET("/api/trades", s.getTrades)

	s.engine.POST("/api/orders", s.postOrder)
	s.engine.POST("/api/refresh/orders", s.postRefreshOrders)
	s.engine.POST("/api/refresh/trades", s.postRefreshTrades)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting view API server on %s", addr)

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("view API server: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":     "ok",
		"connection": s.Session.Status(),
		"timestamp":  time.Now().Unix(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getStatus(c *gin.Context) {
	c.JSON(200, s.Session.FeedStatus())
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTickers(c *gin.Context) {
	c.JSON(200, gin.H{"tickers": s.Session.Tickers()})
}

// -----------------------------------------------------------------------------

// getPrices returns the live price state plus the derived day change for
// every symbol in the working universe.
func (s *APIServer) getPrices(c *gin.Context) {
	states := s.Session.PricesSnapshot()

	type priceRow struct {
		Symbol    string             `json:"symbol"`
		State     models.MPriceState `json:"state"`
		DayChange models.MDayChange  `json:"day_change"`
	}

	rows := make([]priceRow, 0, len(states))
	for _, ticker := range s.Session.Tickers() {
		rows = append(rows, priceRow{
			Symbol:    ticker.Symbol,
			State:     states[ticker.Symbol],
			DayChange: s.Session.DayChange(ticker.Symbol),
		})
	}
	c.JSON(200, gin.H{"prices": rows})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getPriceHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	samples := s.Session.HistorySamples(symbol)

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			c.JSON(400, gin.H{"error": "invalid limit"})
			return
		}
		if limit < len(samples) {
			// Samples are oldest-first; keep the newest ones.
			samples = samples[len(samples)-limit:]
		}
	}

	c.JSON(200, gin.H{"symbol": symbol, "ticks": samples})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getOrders(c *gin.Context) {
	c.JSON(200, s.Session.OrdersView())
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTrades(c *gin.Context) {
	c.JSON(200, gin.H{"trades": s.Session.TradesView()})
}

// -----------------------------------------------------------------------------

// postOrder proxies an order creation to the backend.
func (s *APIServer) postOrder(c *gin.Context) {
	var req models.MOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid order payload: %v", err)})
		return
	}
	if req.Ticker == "" || req.Quantity <= 0 {
		c.JSON(400, gin.H{"error": "ticker and a positive quantity are required"})
		return
	}

	created, err := s.Session.CreateOrder(&req)
	if err != nil {
		s.Logger.Error("%s : order creation failed: %v", s.Config.Name, err)
		c.JSON(502, gin.H{"error": "order creation failed"})
		return
	}
	c.JSON(201, created)
}

// -----------------------------------------------------------------------------

func (s *APIServer) postRefreshOrders(c *gin.Context) {
	s.Session.RefreshOrders()
	c.JSON(200, gin.H{"status": "ok"})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postRefreshTrades(c *gin.Context) {
	s.Session.RefreshTrades()
	c.JSON(200, gin.H{"status": "ok"})
}
