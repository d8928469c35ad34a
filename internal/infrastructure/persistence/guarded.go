package persistence

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/resilience"
)

// GuardOptions tune the breaker in front of an adapter
type GuardOptions struct {
	// Failures is the number of consecutive failed calls that opens the breaker
	Failures uint32
	// Cooldown is how long an open breaker rejects calls before probing again
	Cooldown time.Duration
}

// Guarded routes every call through a circuit breaker so a failing
// backend is skipped quickly instead of retried on every mutation.
// Rejected calls return resilience.ErrCircuitOpen; a missing key is still
// ok=false with a nil error and counts as a success.
type Guarded struct {
	Adapter
	breaker *resilience.Breaker
}

// NewGuarded wraps inner. Zero options mean 5 failures and a 30s
// cooldown. Metrics may be nil.
func NewGuarded(inner Adapter, backend string, opts GuardOptions, logger *zap.Logger, metrics *monitoring.Metrics) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := resilience.New("storage."+backend, resilience.Settings{
		Failures: opts.Failures,
		Cooldown: opts.Cooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			if metrics != nil {
				metrics.SetStorageBreakerState(backend, int(to))
			}
			if to == resilience.StateOpen {
				logger.Warn("Storage breaker opened", zap.String("breaker", name))
				return
			}
			logger.Info("Storage breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Guarded{Adapter: inner, breaker: breaker}
}

// Stats returns the breaker counters
func (g *Guarded) Stats() resilience.Stats {
	return g.breaker.Stats()
}

// State returns the breaker state
func (g *Guarded) State() resilience.State {
	return g.breaker.State()
}

func (g *Guarded) Get(key string) ([]byte, bool, error) {
	var ok bool
	data, err := resilience.Call(g.breaker, func() ([]byte, error) {
		var (
			data []byte
			err  error
		)
		data, ok, err = g.Adapter.Get(key)
		return data, err
	})
	return data, ok, err
}

func (g *Guarded) Set(key string, data []byte) error {
	return g.breaker.Do(func() error {
		return g.Adapter.Set(key, data)
	})
}

func (g *Guarded) Remove(key string) error {
	return g.breaker.Do(func() error {
		return g.Adapter.Remove(key)
	})
}
