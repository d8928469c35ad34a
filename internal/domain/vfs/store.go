package vfs

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

// Storage is the key/value persistence the store snapshots into
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

// Change describes a committed mutation
type Change struct {
	Op     string `json:"op"`
	Path   string `json:"path"`
	Target string `json:"target,omitempty"` // resulting path for create/rename/move
}

var errNoSnapshot = errors.New("no snapshot stored")

// Store owns the committed tree. Readers load an immutable snapshot;
// writers serialize on mu, mutate a clone, and swap it in.
type Store struct {
	mu        sync.Mutex
	current   atomic.Pointer[Node]
	storage   Storage
	key       string
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	observers []func(Change) // Protected by mu
}

// NewStore creates a store holding the default tree. Call Load to rehydrate
// from storage. A nil storage keeps the tree in memory only.
func NewStore(storage Storage, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		key:     key,
		logger:  logger.Named("vfs"),
	}
	s.current.Store(DefaultTree())
	return s
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// OnChange registers a callback invoked after every committed mutation.
// Callbacks run in commit order while the store is locked, so they must not
// mutate the store.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load rehydrates the tree from storage. An absent or corrupt snapshot
// falls back to the default tree. Reports whether a snapshot was restored.
func (s *Store) Load() bool {
	root, err := s.fetch()

	restored := err == nil
	switch {
	case errors.Is(err, errNoSnapshot):
		s.logger.Info("No stored tree, starting from default", zap.String("key", s.key))
		root = DefaultTree()
	case err != nil:
		s.logger.Warn("Stored tree unusable, starting from default", zap.String("key", s.key), zap.Error(err))
		root = DefaultTree()
	default:
		s.logger.Info("Restored tree", zap.String("key", s.key), zap.Int("nodes", root.Count()))
	}

	s.mu.Lock()
	s.current.Store(root)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetVFSNodes(root.Count())
	}
	return restored
}

func (s *Store) fetch() (*Node, error) {
	if s.storage == nil {
		return nil, errNoSnapshot
	}
	data, ok, err := s.storage.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !ok {
		return nil, errNoSnapshot
	}
	return Decode(data, FormatJSON)
}

// ============================================================================
// Reads
// ============================================================================

// Snapshot returns a deep copy of the whole tree
func (s *Store) Snapshot() *Node {
	return s.current.Load().Clone()
}

// Resolve returns a copy of the node at path
func (s *Store) Resolve(p string) (*Node, bool) {
	node, ok := Resolve(s.current.Load(), p)
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Count returns the number of nodes in the committed tree, root included
func (s *Store) Count() int {
	return s.current.Load().Count()
}

// Exists reports whether path resolves
func (s *Store) Exists(p string) bool {
	_, ok := Resolve(s.current.Load(), p)
	return ok
}

// List returns the ordered children of a directory
func (s *Store) List(dirPath string) ([]Entry, error) {
	entries, err := listDir(s.current.Load(), dirPath)
	s.record("list", err)
	return entries, err
}

// Stat describes the node at path
func (s *Store) Stat(p string) (Info, error) {
	info, err := statNode(s.current.Load(), p)
	s.record("stat", err)
	return info, err
}

// ReadFile returns a file's content
func (s *Store) ReadFile(p string) (string, error) {
	content, err := readFile(s.current.Load(), p)
	s.record("read", err)
	return content, err
}

// Find returns the paths matching a glob pattern such as "**/*.txt"
func (s *Store) Find(pattern string) ([]string, error) {
	matches, err := findPaths(s.current.Load(), pattern)
	s.record("find", err)
	return matches, err
}

// Export encodes the committed tree
func (s *Store) Export(format Format) ([]byte, error) {
	return Encode(s.current.Load(), format)
}

// ============================================================================
// Mutations
// ============================================================================

// Create adds a file or directory under dirPath and returns its final path,
// which differs from dirPath/name when the name was taken.
func (s *Store) Create(dirPath, name string, kind Kind, content string) (string, error) {
	return s.mutate(Change{Op: "create", Path: Normalize(dirPath)}, func(root *Node) (string, error) {
		return createNode(root, dirPath, name, kind, content)
	})
}

// Delete removes a node and its whole subtree
func (s *Store) Delete(p string) error {
	_, err := s.mutate(Change{Op: "delete", Path: Normalize(p)}, func(root *Node) (string, error) {
		return "", deleteNode(root, p)
	})
	return err
}

// Rename changes a node's name in place and returns its new path
func (s *Store) Rename(p, newName string) (string, error) {
	return s.mutate(Change{Op: "rename", Path: Normalize(p)}, func(root *Node) (string, error) {
		return renameNode(root, p, newName)
	})
}

// Move re-parents a node under dstDirPath and returns its new path
func (s *Store) Move(srcPath, dstDirPath string) (string, error) {
	return s.mutate(Change{Op: "move", Path: Normalize(srcPath)}, func(root *Node) (string, error) {
		return moveNode(root, srcPath, dstDirPath)
	})
}

// WriteFile replaces a file's content
func (s *Store) WriteFile(p, content string) error {
	_, err := s.mutate(Change{Op: "write", Path: Normalize(p)}, func(root *Node) (string, error) {
		return "", writeFile(root, p, content)
	})
	return err
}

// Import replaces the whole tree with a validated snapshot
func (s *Store) Import(data []byte, format Format) error {
	imported, err := Decode(data, format)
	if err != nil {
		s.record("import", err)
		return pathErr("import", RootName, fmt.Errorf("%w: %v", ErrInvalidPath, err))
	}
	_, err = s.replace(Change{Op: "import", Path: RootName}, imported)
	return err
}

// Reset replaces the whole tree with the default tree
func (s *Store) Reset() error {
	_, err := s.replace(Change{Op: "reset", Path: RootName}, DefaultTree())
	return err
}

func (s *Store) replace(change Change, root *Node) (string, error) {
	return s.mutate(change, func(next *Node) (string, error) {
		*next = *root
		return "", nil
	})
}

// mutate applies fn to a clone of the committed tree and commits the clone
// only if fn succeeds.
func (s *Store) mutate(change Change, fn func(root *Node) (string, error)) (string, error) {
	s.mu.Lock()
	next := s.current.Load().Clone()
	target, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		s.record(change.Op, err)
		return "", err
	}

	s.current.Store(next)
	s.persist(next)
	if s.metrics != nil {
		s.metrics.SetVFSNodes(next.Count())
	}
	change.Target = target
	for _, fn := range s.observers {
		fn(change)
	}
	s.mu.Unlock()

	s.record(change.Op, nil)
	s.logger.Debug("Committed", zap.String("op", change.Op), zap.String("path", change.Path), zap.String("target", target))
	return target, nil
}

// persist writes the snapshot. Failures are logged and counted, never
// returned: durability must not block interactive use.
func (s *Store) persist(root *Node) {
	if s.storage == nil {
		return
	}

	data, err := Encode(root, FormatJSON)
	if err == nil {
		err = s.storage.Set(s.key, data)
	}
	if err != nil {
		s.logger.Warn("Failed to persist tree", zap.String("key", s.key), zap.Error(err))
		if s.metrics != nil {
			s.metrics.IncVFSPersistFailures()
		}
	}
}

func (s *Store) record(op string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordVFSOperation(op, status)
}
