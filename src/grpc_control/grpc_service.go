package grpc_control

import (
	"context"
	"fmt"
	"net"
	"time"

	"market-view/src/config"
	"market-view/src/logger"
	"market-view/src/models"
	"market-view/src/session"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// healthServiceName is the service key reported through the standard health
// protocol; probes query it to learn whether the stream is up.
const healthServiceName = "market_view.FeedSession"

// -----------------------------------------------------------------------------
// GRPCService handles gRPC server lifecycle
// -----------------------------------------------------------------------------

// GRPCService serves the standard gRPC health protocol, mirroring the feed
// session's connection status so orchestration probes see stream liveness.
type GRPCService struct {
	server       *grpc.Server
	healthServer *health.Server
	listener     net.Listener
	config       *config.Config
	logger       *logger.Logger
	session      *session.FeedSession
	running      bool
	stopPolling  chan struct{}
}

// -----------------------------------------------------------------------------

// NewGRPCService creates a new GRPCService instance
func NewGRPCService(config *config.Config, logger *logger.Logger, sess *session.FeedSession) (*GRPCService, error) {
	// Create listener
	address := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	// Create gRPC server with options
	serverOptions := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(10 * 1024 * 1024), // 10MB
		grpc.MaxSendMsgSize(10 * 1024 * 1024), // 10MB
	}

	server := grpc.NewServer(serverOptions...)

	return &GRPCService{
		server:       server,
		healthServer: health.NewServer(),
		listener:     listener,
		config:       config,
		logger:       logger,
		session:      sess,
		running:      false,
		stopPolling:  make(chan struct{}),
	}, nil
}

// -----------------------------------------------------------------------------

// Start starts the gRPC server and the status mirror loop. It blocks until
// the server stops serving.
func (g *GRPCService) Start() error {
	g.logger.Info("Starting gRPC service on %s", g.listener.Addr().String())

	// Register health service
	grpc_health_v1.RegisterHealthServer(g.server, g.healthServer)
	g.healthServer.SetServingStatus(healthServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	go g.mirrorSessionStatus()

	g.running = true
	err := g.server.Serve(g.listener)
	g.running = false

	if err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop gracefully stops the gRPC server
func (g *GRPCService) Stop(ctx context.Context) error {
	g.logger.Info("Stopping gRPC service...")

	select {
	case <-g.stopPolling:
	default:
		close(g.stopPolling)
	}

	if g.server != nil {
		// Graceful stop
		done := make(chan struct{})
		go func() {
			g.server.GracefulStop()
			close(done)
		}()

		select {
		case <-ctx.Done():
			g.logger.Warning("gRPC graceful shutdown timeout, forcing stop...")
			g.server.Stop()
		case <-done:
			g.logger.Info("gRPC service stopped gracefully")
		}
	}

	if g.listener != nil {
		g.listener.Close()
	}

	g.running = false
	g.logger.Info("gRPC service stopped")
	return nil
}

// -----------------------------------------------------------------------------

// IsRunning returns whether the gRPC server is running
func (g *GRPCService) IsRunning() bool {
	return g.running
}

// -----------------------------------------------------------------------------
// PRIVATE METHODS
// -----------------------------------------------------------------------------

// mirrorSessionStatus keeps the health status in sync with the stream
// connection. Only connected maps to SERVING; connecting counts as down.
func (g *GRPCService) mirrorSessionStatus() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	for {
		select {
		case <-g.stopPolling:
			return
		case <-ticker.C:
			status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
			if g.session.Status() == models.StatusConnected {
				status = grpc_health_v1.HealthCheckResponse_SERVING
			}
			if status != last {
				g.healthServer.SetServingStatus(healthServiceName, status)
				last = status
			}
		}
	}
}
