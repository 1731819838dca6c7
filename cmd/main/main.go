package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-view/src/config"
	"market-view/src/grpc_control"
	"market-view/src/interfaces"
	"market-view/src/logger"
	"market-view/src/publishers"
	"market-view/src/serializers"
	"market-view/src/server"
	"market-view/src/session"
	"market-view/src/snapshots"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config, config.Name)

	// Snapshot API client against the dashboard backend
	api := snapshots.NewAPIClient(config.Feed.APIBaseURL, config.RequestTimeout(), appLogger, config.Feed.Name)

	// Optional NATS fan-out
	var publisher interfaces.IPublisher
	if config.NATS.Enabled {
		publisher = publishers.NewNATSPublisher(&config.NATS, appLogger, serializers.NewJSONSerializer())
	}

	// Create the feed session from config
	feedSession := session.NewFeedSession(config, appLogger, api, publisher)
	defer feedSession.Stop()

	// Create control service
	controlService, err := grpc_control.NewGRPCService(config, appLogger, feedSession)
	if err != nil {
		appLogger.Critical("failed to create control service: %v", err)
		os.Exit(1)
	}
	defer controlService.Stop(context.Background())

	// View API server
	apiServer := server.NewAPIServer(config, appLogger, feedSession)

	// Start gRPC control server
	go func() {
		appLogger.Info("starting gRPC control service on %s:%d", config.GrpcHost, config.GrpcPort)
		if err := controlService.Start(); err != nil {
			appLogger.Critical("control server error: %v", err)
			os.Exit(1)
		}
	}()

	// Start view API server
	go func() {
		if err := apiServer.Start(); err != nil {
			appLogger.Critical("view API server error: %v", err)
			os.Exit(1)
		}
	}()

	// Start the feed session
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := feedSession.Start(ctx); err != nil {
		// The stream client keeps retrying; the view stays up on snapshots.
		appLogger.Warning("initial stream connect failed, retrying in background: %v", err)
	}

	appLogger.Info("market view running. HTTP: %s:%d, gRPC: %s:%d, stream: %s",
		config.Host, config.Port, config.GrpcHost, config.GrpcPort, config.Feed.StreamEndpoint)
	appLogger.Info("Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		appLogger.Warning("view API shutdown: %v", err)
	}
}
