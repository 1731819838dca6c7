package transports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"market-view/src/logger"
	"market-view/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------

// WebSocketClient implements interfaces.IConnectionClient using Gorilla
// WebSocket. It owns the full transport lifecycle: dialing, coalescing close
// and error into a single terminal event, and scheduling fixed-delay
// reconnects through a cancellable timer. Deliberate teardown via
// Disconnect() never reschedules.
type WebSocketClient struct {
	name             string
	endpoint         string
	handshakeTimeout time.Duration
	reconnectDelay   time.Duration
	logger           *logger.Logger

	mu             sync.Mutex
	conn           *websocket.Conn
	status         models.MConnectionStatus
	reconnectTimer *time.Timer
	closed         bool
	generation     uint64 // bumped per established connection; stale readers bail out

	onFrame  func([]byte)
	onStatus func(models.MConnectionStatus)
}

// -----------------------------------------------------------------------------

// NewWebSocketClient creates a new WebSocket client. onFrame receives every
// inbound text frame; onStatus (optional) observes lifecycle transitions.
func NewWebSocketClient(endpoint string, handshakeTimeout, reconnectDelay time.Duration, logger *logger.Logger, name string, onFrame func([]byte), onStatus func(models.MConnectionStatus)) *WebSocketClient {
	return &WebSocketClient{
		name:             name,
		endpoint:         endpoint,
		handshakeTimeout: handshakeTimeout,
		reconnectDelay:   reconnectDelay,
		logger:           logger,
		status:           models.StatusDisconnected,
		onFrame:          onFrame,
		onStatus:         onStatus,
	}
}

// -----------------------------------------------------------------------------

// Connect establishes the WebSocket connection and starts the read loop.
// A dial failure leaves the client disconnected and schedules a reconnect.
func (w *WebSocketClient) Connect(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("%s: client is torn down", w.name)
	}
	w.setStatusLocked(models.StatusConnecting)
	w.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: w.handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		w.logger.Error("%s : failed to connect to %s: %v", w.name, w.endpoint, err)
		w.mu.Lock()
		w.setStatusLocked(models.StatusDisconnected)
		w.scheduleReconnectLocked(ctx)
		w.mu.Unlock()
		return fmt.Errorf("failed to connect to %s: %w", w.endpoint, err)
	}

	w.mu.Lock()
	if w.closed {
		// Torn down while dialing
		w.mu.Unlock()
		conn.Close()
		return fmt.Errorf("%s: client is torn down", w.name)
	}
	w.conn = conn
	w.generation++
	gen := w.generation
	w.setStatusLocked(models.StatusConnected)
	w.mu.Unlock()

	w.logger.Info("%s : WebSocket connected to %s", w.name, w.endpoint)

	go w.readLoop(ctx, conn, gen)

	return nil
}

// -----------------------------------------------------------------------------

// Disconnect is deliberate teardown: it cancels any pending reconnect timer
// and closes the transport without rescheduling.
func (w *WebSocketClient) Disconnect() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.reconnectTimer != nil {
		w.reconnectTimer.Stop()
		w.reconnectTimer = nil
	}
	conn := w.conn
	w.conn = nil
	w.setStatusLocked(models.StatusDisconnected)
	w.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %s: %w", w.endpoint, err)
		}
	}

	w.logger.Info("%s : WebSocket disconnected from %s", w.name, w.endpoint)
	return nil
}

// -----------------------------------------------------------------------------

// Status returns the current connection status.
func (w *WebSocketClient) Status() models.MConnectionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// -----------------------------------------------------------------------------

// IsRunning returns whether the transport is established.
func (w *WebSocketClient) IsRunning() bool {
	return w.Status() == models.StatusConnected
}

// -----------------------------------------------------------------------------

// GetName returns the client name
func (w *WebSocketClient) GetName() string {
	return w.name
}

// -----------------------------------------------------------------------------

// GetType returns the transport type
func (w *WebSocketClient) GetType() string {
	return "websocket"
}

// -----------------------------------------------------------------------------

// SendMessage sends a text message to the WebSocket
func (w *WebSocketClient) SendMessage(data []byte) error {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("connection is nil")
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send byte message: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// readLoop receives frames until the connection dies. Close and error are one
// terminal event here: either way the connection is finished, the status
// drops to disconnected and a single reconnect is scheduled.
func (w *WebSocketClient) readLoop(ctx context.Context, conn *websocket.Conn, gen uint64) {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			w.handleConnectionLost(ctx, gen, err)
			return
		}

		if messageType == websocket.TextMessage && w.onFrame != nil {
			w.onFrame(message)
		}
	}
}

// -----------------------------------------------------------------------------

// handleConnectionLost coalesces transport error/close into one transition.
func (w *WebSocketClient) handleConnectionLost(ctx context.Context, gen uint64, cause error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || gen != w.generation {
		// Deliberate teardown, or a newer connection already took over.
		return
	}

	w.logger.Warning("%s : connection lost: %v", w.name, cause)

	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.setStatusLocked(models.StatusDisconnected)
	w.scheduleReconnectLocked(ctx)
}

// -----------------------------------------------------------------------------

// scheduleReconnectLocked arms the single reconnect timer. Constant delay, no
// backoff; a pending timer is replaced, never stacked.
func (w *WebSocketClient) scheduleReconnectLocked(ctx context.Context) {
	if w.closed {
		return
	}
	if w.reconnectTimer != nil {
		w.reconnectTimer.Stop()
	}

	w.logger.Info("%s : reconnecting in %s", w.name, w.reconnectDelay)
	w.reconnectTimer = time.AfterFunc(w.reconnectDelay, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// Connect re-enters the connecting state and reschedules itself on
		// failure, so the retry loop keeps going until teardown.
		w.Connect(ctx)
	})
}

// -----------------------------------------------------------------------------

// setStatusLocked updates the status and notifies the observer. Callers hold
// w.mu; the observer callback must not call back into the client.
func (w *WebSocketClient) setStatusLocked(status models.MConnectionStatus) {
	if w.status == status {
		return
	}
	w.status = status
	if w.onStatus != nil {
		w.onStatus(status)
	}
}
