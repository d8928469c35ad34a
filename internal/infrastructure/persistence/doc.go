/*
Package persistence provides the key/value adapters session state is
snapshotted into.

# Overview

Every durable piece of session state (the file tree, settings, profiles,
installed plugins) is stored as one opaque blob under a namespaced key.
Adapters only move bytes; encoding belongs to the owner of the key.

# Backends

  - Memory: process-local, backed by a lock-free xsync map
  - Badger: durable on disk, one badger database per data directory

Decorators wrap any backend:

  - Compressed: zstd-compresses values on write, transparently reads
    uncompressed values written before compression was enabled
  - Instrumented: records call counts and latency per backend

# Usage

	store, err := persistence.Open(cfg.Storage, logger, metrics)
	if err != nil {
		return err
	}
	defer store.Close()

	data, ok, err := store.Get("webdesk:vfs")
*/
package persistence
