package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"market-view/src/models"
	"market-view/src/utils"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills optional fields the YAML may omit.
func (c *Config) applyDefaults() {
	if c.Feed.Name == "" {
		c.Feed.Name = "dashboard"
	}
	if c.Feed.HandshakeTimeoutSeconds <= 0 {
		c.Feed.HandshakeTimeoutSeconds = 10
	}
	if c.Feed.RequestTimeoutSeconds <= 0 {
		c.Feed.RequestTimeoutSeconds = 10
	}
	if c.Feed.ReconnectDelayMS <= 0 {
		c.Feed.ReconnectDelayMS = int(utils.DefaultReconnectDelay / time.Millisecond)
	}
	if c.Feed.HighlightTTLMS <= 0 {
		c.Feed.HighlightTTLMS = int(utils.DefaultHighlightTTL / time.Millisecond)
	}
	if c.NATS.ClientID == "" {
		c.NATS.ClientID = c.Name
	}
	if c.NATS.ConnectTimeoutSeconds <= 0 {
		c.NATS.ConnectTimeoutSeconds = 5
	}
	if c.NATS.ReconnectWaitSeconds <= 0 {
		c.NATS.ReconnectWaitSeconds = 2
	}
	if c.NATS.FlushTimeoutSeconds <= 0 {
		c.NATS.FlushTimeoutSeconds = 5
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation and checks the feed and
// NATS sub-configs.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config name cannot be empty")
	}

	// Validate Application Ports (using c.Port directly due to embedding)
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid application port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid gRPC port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}

	// Validate the upstream feed
	if c.Feed.StreamEndpoint == "" {
		return fmt.Errorf("feed stream endpoint cannot be empty")
	}
	if !strings.HasPrefix(c.Feed.StreamEndpoint, "ws://") && !strings.HasPrefix(c.Feed.StreamEndpoint, "wss://") {
		return fmt.Errorf("feed stream endpoint must use ws:// or wss:// protocol")
	}
	if c.Feed.APIBaseURL == "" {
		return fmt.Errorf("feed API base URL cannot be empty")
	}

	// Validation of NATS config (minimal check, only when enabled)
	if c.NATS.Enabled && len(c.NATS.Servers) == 0 {
		return fmt.Errorf("NATS servers list cannot be empty when NATS is enabled")
	}

	return nil
}

// -----------------------------------------------------------------------------

// ReconnectDelay returns the fixed delay between reconnect attempts.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Feed.ReconnectDelayMS) * time.Millisecond
}

// -----------------------------------------------------------------------------

// HighlightTTL returns how long an order highlight survives without a new
// update for the same order.
func (c *Config) HighlightTTL() time.Duration {
	return time.Duration(c.Feed.HighlightTTLMS) * time.Millisecond
}

// -----------------------------------------------------------------------------

// RequestTimeout returns the snapshot API request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Feed.RequestTimeoutSeconds) * time.Second
}

// -----------------------------------------------------------------------------

// HandshakeTimeout returns the websocket dial timeout.
func (c *Config) HandshakeTimeout() time.Duration {
	return time.Duration(c.Feed.HandshakeTimeoutSeconds) * time.Second
}
