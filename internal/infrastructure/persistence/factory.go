package persistence

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Open builds the adapter described by cfg. Metrics may be nil.
func Open(cfg config.StorageConfig, logger *zap.Logger, metrics *monitoring.Metrics) (Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("persistence")

	var adapter Adapter
	switch cfg.Backend {
	case BackendMemory, "":
		adapter = NewMemory()
	case BackendBadger:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir: %w", err)
		}
		db, err := OpenBadger(BadgerOptions{Dir: cfg.Path}, logger)
		if err != nil {
			return nil, err
		}
		adapter = db
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}

	if cfg.Compress {
		compressed, err := NewCompressed(adapter)
		if err != nil {
			_ = adapter.Close()
			return nil, err
		}
		adapter = compressed
	}

	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}

	adapter = NewInstrumented(adapter, backend, metrics)
	if cfg.Breaker {
		adapter = NewGuarded(adapter, backend, GuardOptions{
			Failures: cfg.BreakerFailures,
			Cooldown: cfg.BreakerCooldown,
		}, logger, metrics)
	}

	logger.Info("Storage ready",
		zap.String("backend", backend),
		zap.Bool("compress", cfg.Compress),
		zap.Bool("breaker", cfg.Breaker),
		zap.String("namespace", cfg.Namespace))

	return adapter, nil
}
