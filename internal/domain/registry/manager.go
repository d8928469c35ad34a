package registry

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Storage is the key/value persistence installed plugins are saved into
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

const defaultPluginIcon = "🧩"

// Manager holds the app catalog
type Manager struct {
	mu       sync.RWMutex
	builtins []Descriptor          // Protected by mu, seed order
	plugins  map[string]Descriptor // Protected by mu
	storage  Storage
	key      string
	policy   *bluemonday.Policy
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates an empty catalog. Seed built-ins with a Seeder, then
// call Load to restore installed plugins.
func NewManager(storage Storage, key string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		plugins: make(map[string]Descriptor),
		storage: storage,
		key:     key,
		policy:  bluemonday.StrictPolicy(),
		logger:  logger.Named("registry"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// registerBuiltin adds or replaces a built-in app
func (m *Manager) registerBuiltin(d Descriptor) {
	d.Kind = KindBuiltin
	d.URL = ""

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.IndexFunc(m.builtins, func(b Descriptor) bool { return b.ID == d.ID }); i >= 0 {
		m.builtins[i] = d
		return
	}
	m.builtins = append(m.builtins, d)
}

// Load restores installed plugins from storage. Entries that no longer
// validate are dropped with a warning.
func (m *Manager) Load() error {
	if m.storage == nil {
		return nil
	}
	data, ok, err := m.storage.Get(m.key)
	if err != nil {
		return fmt.Errorf("failed to read plugins: %w", err)
	}
	if !ok {
		return nil
	}

	var stored []Descriptor
	if err := sonic.Unmarshal(data, &stored); err != nil {
		m.logger.Warn("Stored plugins unusable, ignoring", zap.Error(err))
		return nil
	}

	m.mu.Lock()
	for _, d := range stored {
		clean, err := m.sanitize(Plugin{ID: d.ID, Name: d.Name, Icon: d.Icon, URL: d.URL, Description: d.Description})
		if err != nil {
			m.logger.Warn("Dropping stored plugin", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		if m.isBuiltin(clean.ID) {
			m.logger.Warn("Dropping stored plugin shadowing a built-in", zap.String("id", d.ID))
			continue
		}
		clean.InstalledAt = d.InstalledAt
		m.plugins[clean.ID] = clean
	}
	count := len(m.plugins)
	m.mu.Unlock()

	m.logger.Info("Restored plugins", zap.Int("count", count))
	m.updateMetrics(count)
	return nil
}

// Install validates and registers a plugin. Reinstalling an id replaces it.
func (m *Manager) Install(p Plugin) (Descriptor, error) {
	d, err := m.sanitize(p)
	if err != nil {
		return Descriptor{}, err
	}

	m.mu.Lock()
	if m.isBuiltin(d.ID) {
		m.mu.Unlock()
		return Descriptor{}, fmt.Errorf("install %q: %w", d.ID, ErrBuiltinClash)
	}
	now := time.Now()
	d.InstalledAt = &now
	_, replaced := m.plugins[d.ID]
	m.plugins[d.ID] = d
	count := len(m.plugins)
	m.persistLocked()
	m.mu.Unlock()

	m.logger.Info("Installed plugin", zap.String("id", d.ID), zap.String("url", d.URL), zap.Bool("replaced", replaced))
	m.updateMetrics(count)
	return d, nil
}

// Uninstall removes a plugin
func (m *Manager) Uninstall(id string) error {
	m.mu.Lock()
	if m.isBuiltin(id) {
		m.mu.Unlock()
		return fmt.Errorf("uninstall %q: %w", id, ErrNotUninstall)
	}
	if _, ok := m.plugins[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("uninstall %q: %w", id, ErrNotFound)
	}
	delete(m.plugins, id)
	count := len(m.plugins)
	m.persistLocked()
	m.mu.Unlock()

	m.logger.Info("Uninstalled plugin", zap.String("id", id))
	m.updateMetrics(count)
	return nil
}

// Get returns one app
func (m *Manager) Get(id string) (Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.builtins {
		if b.ID == id {
			return b, true
		}
	}
	d, ok := m.plugins[id]
	return d, ok
}

// List returns built-ins in seed order followed by plugins sorted by name,
// optionally filtered by kind
func (m *Manager) List(kind *Kind) []Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Descriptor, 0, len(m.builtins)+len(m.plugins))
	if kind == nil || *kind == KindBuiltin {
		out = append(out, m.builtins...)
	}
	if kind == nil || *kind == KindPlugin {
		plugins := make([]Descriptor, 0, len(m.plugins))
		for _, d := range m.plugins {
			plugins = append(plugins, d)
		}
		slices.SortFunc(plugins, func(a, b Descriptor) int {
			return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
		})
		out = append(out, plugins...)
	}
	return out
}

// sanitize validates a plugin and strips markup from its text fields
func (m *Manager) sanitize(p Plugin) (Descriptor, error) {
	if err := utils.ValidateID(p.ID, "id", true); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}
	if err := utils.ValidateHTTPURL(p.URL, "url"); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}

	name := strings.TrimSpace(m.policy.Sanitize(p.Name))
	if err := utils.ValidateName(name, "name"); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}
	description := strings.TrimSpace(m.policy.Sanitize(p.Description))
	if err := utils.ValidateString(description, "description", 0, utils.MaxDescriptionLength, false); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}
	icon := strings.TrimSpace(m.policy.Sanitize(p.Icon))
	if icon == "" {
		icon = defaultPluginIcon
	}

	return Descriptor{
		ID:          p.ID,
		Name:        name,
		Icon:        icon,
		Kind:        KindPlugin,
		URL:         p.URL,
		Description: description,
	}, nil
}

// isBuiltin must be called with mu held
func (m *Manager) isBuiltin(id string) bool {
	return slices.ContainsFunc(m.builtins, func(b Descriptor) bool { return b.ID == id })
}

// persistLocked saves installed plugins. Failures are logged, never
// returned. Must be called with mu held.
func (m *Manager) persistLocked() {
	if m.storage == nil {
		return
	}
	plugins := make([]Descriptor, 0, len(m.plugins))
	for _, d := range m.plugins {
		plugins = append(plugins, d)
	}
	slices.SortFunc(plugins, func(a, b Descriptor) int { return cmp.Compare(a.ID, b.ID) })

	data, err := sonic.Marshal(plugins)
	if err == nil {
		err = m.storage.Set(m.key, data)
	}
	if err != nil {
		m.logger.Warn("Failed to persist plugins", zap.Error(err))
	}
}

func (m *Manager) updateMetrics(count int) {
	if m.metrics != nil {
		m.metrics.SetPluginsInstalled(count)
	}
}
