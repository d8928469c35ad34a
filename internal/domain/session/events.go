package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType names what changed
type EventType string

const (
	EventVFSChanged      EventType = "vfs.changed"
	EventWindowsChanged  EventType = "windows.changed"
	EventSettingsChanged EventType = "settings.changed"
	EventAppsChanged     EventType = "apps.changed"
	EventNotification    EventType = "notification"
)

// Event is one message on the session bus
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp int64     `json:"timestamp"`
}

// DefaultSubscriberBuffer is used when Subscribe is given a non-positive size
const DefaultSubscriberBuffer = 64

// bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	logger *zap.Logger
}

func newBus(logger *zap.Logger) *bus {
	return &bus{subs: make(map[uint64]chan Event), logger: logger}
}

func (b *bus) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.nextID++
	sid := b.nextID
	b.subs[sid] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, sid)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *bus) publish(t EventType, data any) {
	e := Event{Type: t, Data: data, Timestamp: time.Now().UnixMilli()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sid, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Debug("Subscriber lagging, dropping event",
				zap.Uint64("subscriber", sid),
				zap.String("type", string(t)))
		}
	}
}

func (b *bus) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
