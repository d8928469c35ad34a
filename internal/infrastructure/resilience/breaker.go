package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen rejects calls while the breaker is cooling down
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrProbeInFlight rejects calls while a half-open probe is running
	ErrProbeInFlight = errors.New("circuit breaker probe in flight")
)

// State represents the circuit breaker state. The numeric values are
// exported as a gauge, so they must not be reordered.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a breaker
type Settings struct {
	// Failures is the number of consecutive failed calls that opens the breaker
	Failures uint32
	// Cooldown is how long an open breaker rejects calls before admitting a probe
	Cooldown time.Duration
	// OnStateChange runs with the breaker locked and must not call back into it
	OnStateChange func(name string, from, to State)
	// Clock replaces time.Now
	Clock func() time.Time
}

// Stats are lifetime counters
type Stats struct {
	Calls               uint64 `json:"calls"`
	Failures            uint64 `json:"failures"`
	Rejected            uint64 `json:"rejected"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// Breaker stops calling a backend after repeated failures. Once the
// cooldown has passed a single probe call decides whether to close again.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	openedAt time.Time
	probing  bool
	stats    Stats
}

// New creates a closed breaker. Zero settings mean 5 failures and a 30s cooldown.
func New(name string, settings Settings) *Breaker {
	if settings.Failures == 0 {
		settings.Failures = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the breaker name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state. An open breaker whose cooldown has
// elapsed reports half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

// Stats returns a copy of the counters
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Do runs req unless the breaker rejects it. A rejected call returns
// ErrCircuitOpen or ErrProbeInFlight without running req. A panic in req
// counts as a failure and is re-raised.
func (b *Breaker) Do(req func() error) error {
	probe, err := b.admit()
	if err != nil {
		return err
	}

	defer func() {
		if e := recover(); e != nil {
			b.record(probe, false)
			panic(e)
		}
	}()

	err = req()
	b.record(probe, err == nil)
	return err
}

// Call runs a value-returning request through b
func Call[T any](b *Breaker, req func() (T, error)) (T, error) {
	var result T
	err := b.Do(func() error {
		var err error
		result, err = req()
		return err
	})
	return result, err
}

// IsRejected reports whether err came from the breaker rather than the request
func IsRejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrProbeInFlight)
}

// admit decides whether a call may run. probe is true for the single
// call let through a half-open breaker.
func (b *Breaker) admit() (probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case StateOpen:
		b.stats.Rejected++
		return false, ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			b.stats.Rejected++
			return false, ErrProbeInFlight
		}
		b.probing = true
		probe = true
	}
	b.stats.Calls++
	return probe, nil
}

func (b *Breaker) record(probe, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		b.probing = false
	}
	if ok {
		b.stats.ConsecutiveFailures = 0
		if probe {
			b.transition(StateClosed)
		}
		return
	}

	b.stats.Failures++
	b.stats.ConsecutiveFailures++
	if probe || (b.state == StateClosed && b.stats.ConsecutiveFailures >= b.settings.Failures) {
		b.transition(StateOpen)
	}
}

// advance must be called with mu held
func (b *Breaker) advance() {
	if b.state == StateOpen && b.settings.Clock().Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen)
	}
}

// transition must be called with mu held
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	switch to {
	case StateOpen:
		b.openedAt = b.settings.Clock()
	case StateClosed:
		b.stats.ConsecutiveFailures = 0
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
