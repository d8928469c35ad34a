// Package vfs provides the virtual file system for WebDesk.
//
// The VFS is a path-addressed tree of files and directories. It is held in
// memory and persisted as one snapshot through a key/value storage adapter
// after every mutation.
//
// Components:
//   - Normalize/Resolve: canonical slash paths and tree lookup
//   - Node: file or directory, exclusively owned by its parent
//   - Store: copy-on-write tree with create/delete/rename/move/list
//   - Codec: JSON and YAML snapshots
//
// Mutation Model:
//  1. Clone the committed tree
//  2. Apply the operation to the clone
//  3. On success, atomically swap the clone in and persist it
//  4. On failure, discard the clone; the committed tree is untouched
//
// Name Collisions:
//
// Create and Move never fail on a taken name. The incoming name gets a
// " (n)" suffix before the file extension: note.txt, note (1).txt, ...
//
// Example Usage:
//
//	store := vfs.NewStore(adapter, "webdesk.vfs", logger)
//	store.Load()
//	p, err := store.Create("/Documents", "a.txt", vfs.KindFile, "hi")
//	entries, err := store.List("/Documents")
//	_, err = store.Move(p, "/Downloads")
package vfs
