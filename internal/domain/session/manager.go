package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/auth"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// ErrUnknownApp is returned when launching an id the registry does not know
var ErrUnknownApp = errors.New("unknown app")

// Storage is the key/value persistence every collaborator saves into
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

// Storage key names, prefixed with the namespace
const (
	KeyVFS      = "vfs"
	KeySettings = "settings"
	KeyUsers    = "users"
	KeyPlugins  = "plugins"
)

// StorageKey joins a namespace and a key name
func StorageKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}

// Options configure a session
type Options struct {
	Namespace  string
	PluginsDir string
	Windows    window.Options
}

// OptionsFromConfig derives session options from the application config
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Namespace:  cfg.Storage.Namespace,
		PluginsDir: cfg.Apps.PluginsDir,
		Windows:    window.DefaultOptions(),
	}
	opts.Windows.DefaultSize = window.Size{W: cfg.Windows.DefaultWidth, H: cfg.Windows.DefaultHeight}
	return opts
}

// DefaultOptions returns options for an unnamespaced session
func DefaultOptions() Options {
	return Options{Windows: window.DefaultOptions()}
}

// Manager is the desktop session: the one place that owns the file
// tree, the open windows, the app catalog, settings and profiles.
type Manager struct {
	vfs      *vfs.Store
	windows  *window.Registry
	apps     *registry.Manager
	settings *settings.Provider
	profiles *auth.Provider

	bus           *bus
	notifications notificationQueue

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewManager builds a session and loads persisted state. A nil storage
// keeps everything in memory; metrics may be nil.
func NewManager(storage Storage, opts Options, logger *zap.Logger, metrics *monitoring.Metrics) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Windows == (window.Options{}) {
		opts.Windows = window.DefaultOptions()
	}

	m := &Manager{
		logger:  logger.Named("session"),
		metrics: metrics,
	}
	m.bus = newBus(m.logger)

	key := func(name string) string { return StorageKey(opts.Namespace, name) }

	m.vfs = vfs.NewStore(storage, key(KeyVFS), logger).WithMetrics(metrics)
	m.windows = window.NewRegistry(opts.Windows, logger).WithMetrics(metrics)
	m.apps = registry.NewManager(storage, key(KeyPlugins), logger).WithMetrics(metrics)
	m.settings = settings.NewProvider(storage, key(KeySettings), logger)
	m.profiles = auth.NewProvider(storage, key(KeyUsers), logger)

	restored := m.vfs.Load()
	m.settings.Load()
	m.profiles.Load()

	seeder := registry.NewSeeder(m.apps, logger)
	seeder.SeedBuiltins()
	if err := m.apps.Load(); err != nil {
		m.logger.Warn("Failed to restore plugins", zap.Error(err))
	}
	if _, err := seeder.SeedManifests(opts.PluginsDir); err != nil {
		return nil, fmt.Errorf("failed to seed plugin manifests: %w", err)
	}

	m.vfs.OnChange(func(c vfs.Change) { m.bus.publish(EventVFSChanged, c) })
	m.windows.OnChange(func(op string, w window.Window) {
		m.bus.publish(EventWindowsChanged, WindowChange{Op: op, Window: w})
	})
	m.settings.OnChange(func(s settings.Setting) { m.bus.publish(EventSettingsChanged, s) })

	m.logger.Info("Session ready",
		zap.Bool("restored_tree", restored),
		zap.Int("apps", len(m.apps.List(nil))),
		zap.String("namespace", opts.Namespace))
	return m, nil
}

// WindowChange is the payload of windows.changed events
type WindowChange struct {
	Op     string        `json:"op"`
	Window window.Window `json:"window"`
}

// VFS returns the file tree
func (m *Manager) VFS() *vfs.Store { return m.vfs }

// Windows returns the window registry
func (m *Manager) Windows() *window.Registry { return m.windows }

// Apps returns the app catalog
func (m *Manager) Apps() *registry.Manager { return m.apps }

// Settings returns the settings provider
func (m *Manager) Settings() *settings.Provider { return m.settings }

// Profiles returns the user profile provider
func (m *Manager) Profiles() *auth.Provider { return m.profiles }

// Subscribe returns a channel of session events and a func that ends the
// subscription and closes the channel
func (m *Manager) Subscribe(buffer int) (<-chan Event, func()) {
	return m.bus.subscribe(buffer)
}

// Subscribers returns the number of live subscriptions
func (m *Manager) Subscribers() int {
	return m.bus.count()
}

// Launch opens a window for a registered app. The default title is the
// app name, followed by the file name when the payload is a path.
func (m *Manager) Launch(appID, payload, title string) (window.Window, error) {
	d, ok := m.apps.Get(appID)
	if !ok {
		return window.Window{}, fmt.Errorf("launch %q: %w", appID, ErrUnknownApp)
	}
	if title == "" {
		title = defaultTitle(d, payload)
	}
	w := m.windows.Launch(d.ID, payload, title)
	m.logger.Debug("Launched app", zap.String("app", d.ID), zap.String("window", w.ID.String()))
	return w, nil
}

func defaultTitle(d registry.Descriptor, payload string) string {
	if payload != "" && strings.Contains(payload, "/") {
		if name := vfs.Base(payload); name != "" {
			return d.Name + " - " + name
		}
	}
	return d.Name
}

// InstallPlugin registers a plugin app
func (m *Manager) InstallPlugin(p registry.Plugin) (registry.Descriptor, error) {
	d, err := m.apps.Install(p)
	if err != nil {
		return registry.Descriptor{}, err
	}
	m.bus.publish(EventAppsChanged, AppChange{Op: "install", App: d})
	return d, nil
}

// InstallManifest registers every plugin in a manifest. Plugins that
// install are returned even when others fail.
func (m *Manager) InstallManifest(data []byte, format registry.ManifestFormat) ([]registry.Descriptor, error) {
	installed, err := m.apps.LoadManifest(data, format)
	for _, d := range installed {
		m.bus.publish(EventAppsChanged, AppChange{Op: "install", App: d})
	}
	return installed, err
}

// UninstallPlugin removes a plugin and closes its open windows. Returns
// the ids of the closed windows.
func (m *Manager) UninstallPlugin(appID string) ([]id.WindowID, error) {
	d, ok := m.apps.Get(appID)
	if err := m.apps.Uninstall(appID); err != nil {
		return nil, err
	}

	var closed []id.WindowID
	for _, w := range m.windows.ListByApp(appID) {
		if _, ok := m.windows.Close(w.ID); ok {
			closed = append(closed, w.ID)
		}
	}
	if ok {
		m.bus.publish(EventAppsChanged, AppChange{Op: "uninstall", App: d})
	}
	m.logger.Info("Plugin uninstalled", zap.String("app", appID), zap.Int("closed_windows", len(closed)))
	return closed, nil
}

// AppChange is the payload of apps.changed events
type AppChange struct {
	Op  string              `json:"op"`
	App registry.Descriptor `json:"app"`
}

// Notify posts a message for the user. windowID may be nil.
func (m *Manager) Notify(level Level, message string, windowID *id.WindowID) Notification {
	n := Notification{
		ID:        id.NewNotificationID(),
		Level:     level,
		Message:   message,
		WindowID:  windowID,
		CreatedAt: time.Now(),
	}
	m.notifications.push(n)
	if m.metrics != nil {
		m.metrics.RecordNotification(string(level))
	}
	m.bus.publish(EventNotification, n)
	return n
}

// Notifications drains the pending notifications, oldest first
func (m *Manager) Notifications() []Notification {
	return m.notifications.drain()
}

// Host returns the handle an app running in windowID uses to reach the
// session
func (m *Manager) Host(windowID id.WindowID) *Host {
	return &Host{session: m, windowID: windowID}
}
