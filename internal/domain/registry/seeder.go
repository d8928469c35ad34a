package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Builtins returns the native apps every desktop ships with
func Builtins() []Descriptor {
	return []Descriptor{
		{ID: "explorer", Name: "File Explorer", Icon: "📁", Behavior: BehaviorExplorer, Description: "Browse and organize files"},
		{ID: "notepad", Name: "Notepad", Icon: "📝", Behavior: BehaviorNotepad, Description: "Edit plain text files"},
		{ID: "calculator", Name: "Calculator", Icon: "🧮", Behavior: BehaviorCalculator, Description: "Basic arithmetic"},
		{ID: "terminal", Name: "Terminal", Icon: "💻", Behavior: BehaviorTerminal, Description: "Command line over the file system"},
		{ID: "markdown", Name: "Markdown Viewer", Icon: "📄", Behavior: BehaviorMarkdown, Description: "Render markdown documents"},
		{ID: "settings", Name: "Settings", Icon: "⚙️", Behavior: BehaviorSettings, Description: "Theme, accent, wallpaper and density"},
	}
}

// Seeder populates a manager at startup
type Seeder struct {
	manager *Manager
	logger  *zap.Logger
}

// NewSeeder creates a new app seeder
func NewSeeder(manager *Manager, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{manager: manager, logger: logger.Named("seeder")}
}

// SeedBuiltins registers the built-in apps
func (s *Seeder) SeedBuiltins() {
	for _, d := range Builtins() {
		s.manager.registerBuiltin(d)
	}
	s.logger.Debug("Seeded built-in apps", zap.Int("count", len(Builtins())))
}

// SeedManifests installs plugins from every *.yaml, *.yml and *.toml file
// under dir. A missing directory is not an error. Broken manifests are
// logged and skipped. Files are applied in lexical path order, so a later
// file replaces an earlier plugin with the same id. Returns the number of
// installed plugins.
func (s *Seeder) SeedManifests(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Plugin manifest directory not found", zap.String("dir", dir))
		return 0, nil
	}

	// fastwalk invokes the callback concurrently
	var mu sync.Mutex
	var files []string

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if _, ferr := ParseManifestFormat(filepath.Ext(p)); ferr != nil {
			return nil
		}
		mu.Lock()
		files = append(files, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, err
	}
	// Later files win on duplicate ids; keep that independent of walk order.
	slices.Sort(files)

	var loaded, failed int
	for _, p := range files {
		format, _ := ParseManifestFormat(filepath.Ext(p))
		data, err := os.ReadFile(p)
		if err != nil {
			failed++
			s.logger.Warn("Failed to read manifest", zap.String("file", p), zap.Error(err))
			continue
		}
		installed, err := s.manager.LoadManifest(data, format)
		loaded += len(installed)
		if err != nil {
			failed++
			s.logger.Warn("Manifest partly rejected", zap.String("file", p), zap.Error(err))
		}
	}

	s.logger.Info("Seeded plugin manifests", zap.String("dir", dir), zap.Int("loaded", loaded), zap.Int("failed", failed))
	return loaded, nil
}
