package publishers

import (
	"fmt"
	"sync"
	"time"

	"market-view/src/interfaces"
	"market-view/src/logger"
	"market-view/src/models"

	"github.com/nats-io/nats.go"
)

// -----------------------------------------------------------------------------
// NATSPublisher implements interfaces.IPublisher over NATS Core
// -----------------------------------------------------------------------------

// NATSPublisher fans decoded stream events out to NATS subjects. Delivery is
// fire-and-forget; the local view never depends on the publisher being up.
type NATSPublisher struct {
	name   string
	config *models.MNATSConfig
	logger *logger.Logger

	mu sync.RWMutex

	nc         *nats.Conn
	serializer interfaces.ISerializer // serialize event before sending

	connected bool
}

// -----------------------------------------------------------------------------

// NewNATSPublisher creates a new NATS publisher instance
func NewNATSPublisher(config *models.MNATSConfig, logger *logger.Logger, serializer interfaces.ISerializer) interfaces.IPublisher {
	return &NATSPublisher{
		name:   config.ClientID,
		config: config,
		logger: logger,

		serializer: serializer,
	}
}

// -----------------------------------------------------------------------------

// OnStreamEvent is the central callback where every decoded event lands.
func (np *NATSPublisher) OnStreamEvent(ev *models.MStreamEvent) {
	subject := fmt.Sprintf("view.%s.%s", ev.Kind, eventSymbol(ev))

	data, err := np.serializer.Marshal(ev)
	if err != nil {
		np.logger.Error("%s : failed to serialize event for NATS subject %s: %v", np.name, subject, err)
		return
	}

	if err := np.publish(subject, data); err != nil {
		np.logger.Error("%s : failed to publish %s event to NATS subject %s: %v",
			np.name, ev.Kind, subject, err)
	}
}

// -----------------------------------------------------------------------------

// Connect establishes the connection to the NATS server.
func (np *NATSPublisher) Connect() error {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc != nil && np.nc.IsConnected() {
		return nil
	}

	opts := []nats.Option{
		nats.Name(np.config.ClientID),
		nats.Timeout(time.Duration(np.config.ConnectTimeoutSeconds) * time.Second),
		nats.ReconnectWait(time.Duration(np.config.ReconnectWaitSeconds) * time.Second),
		nats.MaxReconnects(np.config.MaxReconnects),
		nats.FlusherTimeout(time.Duration(np.config.FlushTimeoutSeconds) * time.Second),

		// Connection Event Handlers
		nats.RetryOnFailedConnect(true),
		nats.ClosedHandler(func(nc *nats.Conn) {
			np.logger.Error("%s : NATS connection closed unexpectedly", np.name)
			np.setConnected(false)
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			np.logger.Warning("%s : NATS disconnected, attempting reconnect: %v", np.name, err)
			np.setConnected(false)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			np.logger.Info("%s : NATS successfully reconnected to %s", np.name, nc.ConnectedUrl())
			np.setConnected(true)
		}),
	}

	var err error
	np.nc, err = nats.Connect(np.config.Servers[0], opts...)
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}

	np.connected = true
	np.logger.Info("%s : successfully connected to NATS at %s", np.name, np.nc.ConnectedUrl())
	return nil
}

// -----------------------------------------------------------------------------

// Disconnect flushes pending messages and closes the connection.
func (np *NATSPublisher) Disconnect() error {
	np.mu.Lock()
	defer np.mu.Unlock()

	if np.nc == nil {
		return nil
	}

	if err := np.nc.Flush(); err != nil {
		np.logger.Warning("%s : NATS flush before close failed: %v", np.name, err)
	}
	np.nc.Close()
	np.nc = nil
	np.connected = false

	np.logger.Info("%s : NATS connection closed", np.name)
	return nil
}

// -----------------------------------------------------------------------------

// IsConnected returns the current connection status.
func (np *NATSPublisher) IsConnected() bool {
	np.mu.RLock()
	defer np.mu.RUnlock()
	return np.connected && np.nc != nil && np.nc.IsConnected()
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// publish sends raw data to a NATS core subject, fire-and-forget.
func (np *NATSPublisher) publish(subject string, data []byte) error {
	if !np.IsConnected() {
		return fmt.Errorf("nats client not connected")
	}
	return np.nc.Publish(np.getSubject(subject), data)
}

// -----------------------------------------------------------------------------

// setConnected updates the cached connection flag from the event handlers.
func (np *NATSPublisher) setConnected(connected bool) {
	np.mu.Lock()
	defer np.mu.Unlock()
	np.connected = connected
}

// -----------------------------------------------------------------------------

// getSubject prefixes the subject when a prefix is configured.
func (np *NATSPublisher) getSubject(subject string) string {
	if np.config.SubjectPrefix == "" {
		return subject
	}
	return fmt.Sprintf("%s.%s", np.config.SubjectPrefix, subject)
}

// -----------------------------------------------------------------------------

// eventSymbol extracts the routing symbol of an event; order updates carry no
// symbol, so they route by order id.
func eventSymbol(ev *models.MStreamEvent) string {
	switch ev.Kind {
	case models.EventPriceUpdate:
		if ev.Price != nil {
			return ev.Price.Ticker
		}
	case models.EventOrderUpdate:
		if ev.Order != nil {
			return fmt.Sprintf("%d", ev.Order.OrderID)
		}
	case models.EventNewTrade:
		if ev.Trade != nil {
			return ev.Trade.Tradingsymbol
		}
	}
	return "unknown"
}
