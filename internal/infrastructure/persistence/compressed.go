package persistence

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Compressed zstd-compresses values before handing them to the wrapped
// adapter. Values without a zstd frame header are returned unchanged, so a
// store can switch compression on without migrating.
type Compressed struct {
	Adapter
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	closed  atomic.Bool
}

// NewCompressed wraps inner
func NewCompressed(inner Adapter) (*Compressed, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Compressed{Adapter: inner, encoder: encoder, decoder: decoder}, nil
}

func (c *Compressed) Get(key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	data, ok, err := c.Adapter.Get(key)
	if err != nil || !ok {
		return data, ok, err
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, true, nil
	}

	plain, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decompress %q: %w", key, err)
	}
	return plain, true, nil
}

func (c *Compressed) Set(key string, data []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.Adapter.Set(key, c.encoder.EncodeAll(data, nil))
}

func (c *Compressed) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.decoder.Close()
	if err := c.encoder.Close(); err != nil {
		return err
	}
	return c.Adapter.Close()
}
