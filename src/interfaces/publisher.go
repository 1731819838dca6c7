package interfaces

import "market-view/src/models"

// -----------------------------------------------------------------------------

// IPublisher defines the interface for fanning decoded stream events out to
// downstream consumers.
type IPublisher interface {
	// OnStreamEvent serializes and publishes one decoded event
	OnStreamEvent(ev *models.MStreamEvent)

	// Connect establishes connection to the message broker
	Connect() error

	// Disconnect closes the connection to the message broker
	Disconnect() error

	// IsConnected returns the current connection status
	IsConnected() bool
}
