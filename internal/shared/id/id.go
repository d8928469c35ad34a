// Package id mints the identifiers handed to the shell.
//
// IDs are prefixed ULIDs such as win_01HV3J9Y4W2N8F7K5T6QXRZB1C:
//   - they sort in creation order, so window ids follow launch order
//   - the prefix makes them readable in logs and URLs
//   - each kind has its own Go type so they cannot be mixed up
package id

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WindowID identifies an open window
type WindowID string

// NotificationID identifies a user-facing notification
type NotificationID string

// RequestID identifies one traced HTTP request or span
type RequestID string

// ID prefixes
const (
	WindowPrefix       = "win"
	NotificationPrefix = "ntf"
	RequestPrefix      = "req"
)

// ErrInvalid is returned for strings that are not a prefixed ULID
var ErrInvalid = errors.New("invalid id")

// Generator mints ULIDs from monotonic entropy, so ids minted in the same
// millisecond still sort
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefix_ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// NewWindowID generates a new window ID
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewNotificationID generates a new notification ID
func NewNotificationID() NotificationID {
	return NotificationID(Default().GenerateWithPrefix(NotificationPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id WindowID) String() string       { return string(id) }
func (id NotificationID) String() string { return string(id) }
func (id RequestID) String() string      { return string(id) }

// Parse splits a prefix_ULID string and returns the ULID
func Parse(raw, prefix string) (ulid.ULID, error) {
	rest, ok := strings.CutPrefix(raw, prefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("%w: %q lacks the %s_ prefix", ErrInvalid, raw, prefix)
	}
	u, err := ulid.ParseStrict(rest)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("%w: %q: %v", ErrInvalid, raw, err)
	}
	return u, nil
}

// IsValidPrefixed reports whether raw is a prefix_ULID string
func IsValidPrefixed(raw, prefix string) bool {
	_, err := Parse(raw, prefix)
	return err == nil
}

// ParseWindowID validates a window id received from the shell
func ParseWindowID(raw string) (WindowID, error) {
	if _, err := Parse(raw, WindowPrefix); err != nil {
		return "", err
	}
	return WindowID(raw), nil
}

// Created returns the time the window id was minted
func (id WindowID) Created() time.Time {
	u, err := Parse(string(id), WindowPrefix)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
