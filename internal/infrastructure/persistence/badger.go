package persistence

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Badger stores values in an on-disk badger database
type Badger struct {
	db     *badger.DB
	logger *zap.Logger
	closed atomic.Bool
}

// BadgerOptions tunes the database
type BadgerOptions struct {
	Dir      string
	InMemory bool // no files are written; for tests
}

// OpenBadger opens (or creates) the database in opts.Dir
func OpenBadger(opts BadgerOptions, logger *zap.Logger) (*Badger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	dbOpts.Logger = nil
	// Session blobs are small; a smaller value log keeps the footprint low.
	dbOpts.ValueLogFileSize = 1 << 26
	if opts.InMemory {
		dbOpts = dbOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", opts.Dir, err)
	}

	logger.Info("Opened badger store", zap.String("dir", opts.Dir), zap.Bool("in_memory", opts.InMemory))
	return &Badger{db: db, logger: logger}, nil
}

func (b *Badger) Get(key string) ([]byte, bool, error) {
	if b.closed.Load() {
		return nil, false, ErrClosed
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("badger get %q: %w", key, err)
	}
	return data, true, nil
}

func (b *Badger) Set(key string, data []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Remove(key string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger remove %q: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database. Calling it twice is harmless.
func (b *Badger) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.logger.Info("Closing badger store")
	return b.db.Close()
}
