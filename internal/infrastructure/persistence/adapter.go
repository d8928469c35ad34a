package persistence

import "errors"

// ErrClosed is returned by adapters used after Close
var ErrClosed = errors.New("persistence: adapter closed")

// Adapter is a byte-oriented key/value store. A missing key is reported by
// ok=false, never by an error.
type Adapter interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
	Remove(key string) error
	Close() error
}
