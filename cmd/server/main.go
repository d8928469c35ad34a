package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/server"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides PORT)")
	dev := flag.Bool("dev", false, "Development mode: debug level, console logs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("Server stopped", zap.Error(err))
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

// run serves until ctx is done or the server fails. Storage and the tracer
// are closed on every return path.
func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	metrics := monitoring.NewMetrics()

	store, err := persistence.Open(cfg.Storage, logger.Logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	sess, err := session.NewManager(store, session.OptionsFromConfig(cfg), logger.Logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	tracer := tracing.NewWithOptions("webdesk", logger.Logger, tracing.Options{Slow: cfg.Logging.SlowRequest})
	defer tracer.Close()

	srv := server.NewServer(cfg, logger, metrics, sess, tracer)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully", zap.NamedError("cause", context.Cause(ctx)))
	case runErr = <-errChan:
		if runErr == nil {
			return nil
		}
		runErr = fmt.Errorf("server error: %w", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Error during shutdown", zap.Error(err))
	}
	return runErr
}
