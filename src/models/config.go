package models

// MConfig Structure
type MConfig struct {
	Name     string      `yaml:"name"`
	Host     string      `yaml:"host"`
	Port     int         `yaml:"port"`
	LogLevel string      `yaml:"log_level"`
	GrpcHost string      `yaml:"grpc_host"`
	GrpcPort int         `yaml:"grpc_port"`
	Feed     MFeedConfig `yaml:"feed"`
	NATS     MNATSConfig `yaml:"nats"`
}

// -----------------------------------------------------------------------------

// MFeedConfig describes the upstream dashboard backend: one push channel plus
// the pull-based snapshot API.
type MFeedConfig struct {
	Name                    string `yaml:"name"`
	StreamEndpoint          string `yaml:"stream_endpoint"`
	APIBaseURL              string `yaml:"api_base_url"`
	HandshakeTimeoutSeconds int    `yaml:"handshake_timeout_seconds"`
	RequestTimeoutSeconds   int    `yaml:"request_timeout_seconds"`
	ReconnectDelayMS        int    `yaml:"reconnect_delay_ms"`
	HighlightTTLMS          int    `yaml:"highlight_ttl_ms"`
}

// -----------------------------------------------------------------------------

// MNATSConfig configures the optional downstream event fan-out.
type MNATSConfig struct {
	Enabled               bool     `yaml:"enabled"`
	Servers               []string `yaml:"servers"`
	ClientID              string   `yaml:"client_id"`
	SubjectPrefix         string   `yaml:"subject_prefix"`
	ConnectTimeoutSeconds int      `yaml:"connect_timeout_seconds"`
	ReconnectWaitSeconds  int      `yaml:"reconnect_wait_seconds"`
	MaxReconnects         int      `yaml:"max_reconnects"`
	FlushTimeoutSeconds   int      `yaml:"flush_timeout_seconds"`
}
