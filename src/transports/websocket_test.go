package transports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"market-view/src/logger"
	"market-view/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Test server
// -----------------------------------------------------------------------------

// wsTestServer accepts WebSocket connections and keeps them open until the
// test closes them. It counts dials so reconnect behavior is observable.
type wsTestServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
	dials int
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()
	ts := &wsTestServer{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.dials++
		ts.mu.Unlock()
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *wsTestServer) url() string {
	return "ws" + strings.TrimPrefix(ts.server.URL, "http")
}

func (ts *wsTestServer) dialCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.dials
}

// send pushes one text frame down the most recent connection.
func (ts *wsTestServer) send(t *testing.T, payload string) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.conns) == 0 {
		t.Fatal("no active connection to send on")
	}
	conn := ts.conns[len(ts.conns)-1]
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("server write failed: %v", err)
	}
}

// dropAll closes every server-side connection, simulating a feed outage.
func (ts *wsTestServer) dropAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, conn := range ts.conns {
		conn.Close()
	}
	ts.conns = nil
}

// -----------------------------------------------------------------------------

type frameCollector struct {
	mu     sync.Mutex
	frames []string
}

func (fc *frameCollector) onFrame(frame []byte) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.frames = append(fc.frames, string(frame))
}

func (fc *frameCollector) count() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.frames)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// -----------------------------------------------------------------------------

func TestWebSocketClient_ConnectAndReceive(t *testing.T) {
	ts := newWSTestServer(t)
	fc := &frameCollector{}

	client := NewWebSocketClient(ts.url(), time.Second, 20*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", fc.onFrame, nil)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if client.Status() != models.StatusConnected {
		t.Fatalf("expected connected status, got %s", client.Status())
	}

	ts.send(t, `{"type":"price_update","ticker":"AAPL","price":1}`)
	waitFor(t, "inbound frame", func() bool { return fc.count() == 1 })
}

func TestWebSocketClient_ReconnectsAfterDrop(t *testing.T) {
	ts := newWSTestServer(t)
	fc := &frameCollector{}

	client := NewWebSocketClient(ts.url(), time.Second, 20*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", fc.onFrame, nil)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	waitFor(t, "initial dial", func() bool { return ts.dialCount() == 1 })

	ts.dropAll()
	waitFor(t, "one reconnect", func() bool { return ts.dialCount() == 2 })
	waitFor(t, "connected again", func() bool { return client.Status() == models.StatusConnected })

	// Frames flow on the new connection.
	ts.send(t, `{"type":"price_update","ticker":"AAPL","price":2}`)
	waitFor(t, "frame on new connection", func() bool { return fc.count() == 1 })
}

func TestWebSocketClient_DisconnectCancelsPendingReconnect(t *testing.T) {
	ts := newWSTestServer(t)

	// Long delay so the reconnect is still pending when we tear down.
	client := NewWebSocketClient(ts.url(), time.Second, 200*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", nil, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	waitFor(t, "initial dial", func() bool { return ts.dialCount() == 1 })

	ts.dropAll()
	waitFor(t, "disconnected status", func() bool { return client.Status() == models.StatusDisconnected })

	if err := client.Disconnect(); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if ts.dialCount() != 1 {
		t.Errorf("deliberate teardown must cancel the pending reconnect, dials = %d", ts.dialCount())
	}
	if client.Status() != models.StatusDisconnected {
		t.Errorf("status after teardown = %s", client.Status())
	}
}

func TestWebSocketClient_DialFailureSchedulesRetry(t *testing.T) {
	ts := newWSTestServer(t)
	endpoint := ts.url()
	ts.server.Close() // nothing listening yet

	client := NewWebSocketClient(endpoint, 200*time.Millisecond, 20*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", nil, nil)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("expected dial error against a closed server")
	}
	if client.Status() != models.StatusDisconnected {
		t.Errorf("failed dial must leave the client disconnected, got %s", client.Status())
	}

	// The retry timer is armed; teardown stops it without more dials.
	client.Disconnect()
}

func TestWebSocketClient_ConnectAfterDisconnectFails(t *testing.T) {
	ts := newWSTestServer(t)

	client := NewWebSocketClient(ts.url(), time.Second, 20*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", nil, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	client.Disconnect()

	if err := client.Connect(context.Background()); err == nil {
		t.Errorf("a torn-down client must refuse to connect")
	}
}

func TestWebSocketClient_StatusTransitions(t *testing.T) {
	ts := newWSTestServer(t)

	var mu sync.Mutex
	var seen []models.MConnectionStatus
	onStatus := func(status models.MConnectionStatus) {
		mu.Lock()
		seen = append(seen, status)
		mu.Unlock()
	}

	client := NewWebSocketClient(ts.url(), time.Second, 20*time.Millisecond,
		logger.NewLogger(nil, "test"), "test", nil, onStatus)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 2 || seen[0] != models.StatusConnecting || seen[1] != models.StatusConnected {
		t.Errorf("expected connecting then connected, got %v", seen)
	}
}
