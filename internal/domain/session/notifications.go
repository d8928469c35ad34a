package session

import (
	"slices"
	"sync"
	"time"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// Level of a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// MaxPendingNotifications bounds the queue; the oldest entries go first
const MaxPendingNotifications = 100

// Notification is a transient message for the user (a toast)
type Notification struct {
	ID        id.NotificationID `json:"id"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	WindowID  *id.WindowID      `json:"window_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type notificationQueue struct {
	mu      sync.Mutex
	pending []Notification
}

func (q *notificationQueue) push(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= MaxPendingNotifications {
		q.pending = slices.Delete(q.pending, 0, len(q.pending)-MaxPendingNotifications+1)
	}
	q.pending = append(q.pending, n)
}

func (q *notificationQueue) drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
