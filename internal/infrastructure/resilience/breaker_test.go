package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

// fakeClock is advanced by hand
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func outcome(ok bool) func() error {
	return func() error {
		if ok {
			return nil
		}
		return errBackend
	}
}

func TestBreakerTrips(t *testing.T) {
	tests := []struct {
		name     string
		failures uint32
		calls    []bool // true = success
		want     State
	}{
		{"stays closed on successes", 3, []bool{true, true, true}, StateClosed},
		{"opens at the threshold", 3, []bool{false, false, false}, StateOpen},
		{"below the threshold", 3, []bool{false, false}, StateClosed},
		{"success resets the streak", 3, []bool{false, false, true, false, false}, StateClosed},
		{"default threshold", 0, []bool{false, false, false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("test", Settings{Failures: tt.failures, Cooldown: time.Minute})
			for _, ok := range tt.calls {
				_ = b.Do(outcome(ok))
			}
			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b := New("test", Settings{Failures: 1, Cooldown: time.Minute})
	require.ErrorIs(t, b.Do(outcome(false)), errBackend)

	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, IsRejected(err))
	assert.False(t, called)

	stats := b.Stats()
	assert.Equal(t, uint64(1), stats.Calls)
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, uint64(1), stats.Rejected)
}

func TestBreakerProbe(t *testing.T) {
	t.Run("success closes", func(t *testing.T) {
		clock := newFakeClock()
		b := New("test", Settings{Failures: 1, Cooldown: time.Second, Clock: clock.Now})
		_ = b.Do(outcome(false))

		clock.Advance(999 * time.Millisecond)
		assert.Equal(t, StateOpen, b.State())
		clock.Advance(time.Millisecond)
		assert.Equal(t, StateHalfOpen, b.State())

		require.NoError(t, b.Do(outcome(true)))
		assert.Equal(t, StateClosed, b.State())
		assert.Zero(t, b.Stats().ConsecutiveFailures)
	})

	t.Run("failure reopens", func(t *testing.T) {
		clock := newFakeClock()
		b := New("test", Settings{Failures: 3, Cooldown: time.Second, Clock: clock.Now})
		for i := 0; i < 3; i++ {
			_ = b.Do(outcome(false))
		}

		clock.Advance(time.Second)
		assert.ErrorIs(t, b.Do(outcome(false)), errBackend)
		assert.Equal(t, StateOpen, b.State(), "one failed probe is enough")

		clock.Advance(time.Second)
		assert.Equal(t, StateHalfOpen, b.State())
	})

	t.Run("single probe in flight", func(t *testing.T) {
		clock := newFakeClock()
		b := New("test", Settings{Failures: 1, Cooldown: time.Second, Clock: clock.Now})
		_ = b.Do(outcome(false))
		clock.Advance(time.Second)

		release := make(chan struct{})
		started := make(chan struct{})
		done := make(chan error)
		go func() {
			done <- b.Do(func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		err := b.Do(outcome(true))
		assert.ErrorIs(t, err, ErrProbeInFlight)
		assert.True(t, IsRejected(err))

		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateClosed, b.State())
	})
}

func TestBreakerStateChanges(t *testing.T) {
	clock := newFakeClock()
	var changes []string
	b := New("storage.badger", Settings{
		Failures: 1,
		Cooldown: time.Second,
		Clock:    clock.Now,
		OnStateChange: func(name string, from, to State) {
			changes = append(changes, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = b.Do(outcome(false))
	clock.Advance(time.Second)
	_ = b.Do(outcome(true))

	assert.Equal(t, []string{
		"storage.badger:closed->open",
		"storage.badger:open->half-open",
		"storage.badger:half-open->closed",
	}, changes)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b := New("test", Settings{Failures: 1})

	assert.PanicsWithValue(t, "boom", func() {
		_ = b.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestCall(t *testing.T) {
	b := New("test", Settings{Failures: 2})

	v, err := Call(b, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Call(b, func() ([]byte, error) { return nil, errBackend })
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, IsRejected(err))
	assert.Equal(t, uint32(1), b.Stats().ConsecutiveFailures)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
