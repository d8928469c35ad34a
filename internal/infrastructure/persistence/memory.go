package persistence

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Memory keeps values in process memory. Values are copied on the way in
// and out so callers never share a buffer with the store.
type Memory struct {
	entries *xsync.Map[string, []byte]
	closed  atomic.Bool
}

// NewMemory creates an empty in-memory adapter
func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMap[string, []byte]()}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, ErrClosed
	}
	data, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	return clone(data), true, nil
}

func (m *Memory) Set(key string, data []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.entries.Store(key, clone(data))
	return nil
}

func (m *Memory) Remove(key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.entries.Delete(key)
	return nil
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	return m.entries.Size()
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}

func clone(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return append([]byte(nil), data...)
}
