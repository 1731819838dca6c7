package interfaces

import (
	"context"

	"market-view/src/models"
)

// -----------------------------------------------------------------------------

// IConnectionClient defines the push-transport lifecycle owned by the feed
// session. Inbound frames are delivered through the callback passed at
// construction, on the same turn as receipt.
type IConnectionClient interface {
	// Connect establishes the transport; transitions disconnected -> connecting,
	// then connecting -> connected once established.
	Connect(ctx context.Context) error

	// Disconnect is deliberate teardown: it cancels any pending reconnect
	// timer and closes the transport without rescheduling.
	Disconnect() error

	// Status returns the current connection status.
	Status() models.MConnectionStatus

	// IsRunning reports whether the transport is established.
	IsRunning() bool

	// GetName returns the client name
	GetName() string

	// GetType returns the transport type
	GetType() string

	// Send a message regarding protocol and transport
	SendMessage([]byte) error
}
