package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	helpers "github.com/GriffinCanCode/WebDesk/backend/tests/helpers/testutil"
)

func newTestManager(t *testing.T, storage Storage) *Manager {
	t.Helper()
	m, err := NewManager(storage, DefaultOptions(), nil, nil)
	require.NoError(t, err)
	return m
}

func todoPlugin() registry.Plugin {
	return registry.Plugin{ID: "todo", Name: "Todo", URL: "https://todo.example"}
}

// next waits briefly for one event
func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return Event{}
	}
}

func TestNewManagerSeedsDefaults(t *testing.T) {
	m := newTestManager(t, nil)

	assert.True(t, m.VFS().Exists("/Documents/Welcome.txt"))
	assert.Zero(t, m.Windows().Count())
	assert.Len(t, m.Apps().List(nil), len(registry.Builtins()))
	assert.Equal(t, "dark", m.Settings().Values().Theme)
	assert.Empty(t, m.Profiles().List())
}

func TestStateSurvivesRestart(t *testing.T) {
	storage := persistence.NewMemory()
	opts := DefaultOptions()
	opts.Namespace = "desk"

	m, err := NewManager(storage, opts, nil, nil)
	require.NoError(t, err)
	_, err = m.VFS().Create("/Documents", "a.txt", vfs.KindFile, "hi")
	require.NoError(t, err)
	_, err = m.Settings().Set(settings.KeyTheme, "light")
	require.NoError(t, err)
	_, err = m.Profiles().Register("alice", "", "")
	require.NoError(t, err)
	_, err = m.InstallPlugin(todoPlugin())
	require.NoError(t, err)
	_, err = m.Launch("notepad", "/Documents/a.txt", "")
	require.NoError(t, err)

	for _, key := range []string{KeyVFS, KeySettings, KeyUsers, KeyPlugins} {
		_, ok, err := storage.Get(StorageKey("desk", key))
		require.NoError(t, err)
		assert.True(t, ok, "%s persisted under the namespace", key)
	}

	restarted, err := NewManager(storage, opts, nil, nil)
	require.NoError(t, err)
	assert.True(t, restarted.VFS().Exists("/Documents/a.txt"))
	assert.Equal(t, "light", restarted.Settings().Values().Theme)
	assert.Len(t, restarted.Profiles().List(), 1)
	_, ok := restarted.Apps().Get("todo")
	assert.True(t, ok)
	assert.Zero(t, restarted.Windows().Count(), "windows are never persisted")
}

func TestNewManagerToleratesBrokenStorage(t *testing.T) {
	m := newTestManager(t, helpers.NewFailingAdapter(t))

	p, err := m.VFS().Create("/Documents", "a.txt", vfs.KindFile, "")
	require.NoError(t, err)
	assert.True(t, m.VFS().Exists(p))
}

func TestNewManagerSeedsManifests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clock.toml"), []byte(`
id = "clock"
name = "Clock"
url = "https://clock.example"
`), 0o644))

	opts := DefaultOptions()
	opts.PluginsDir = dir
	m, err := NewManager(nil, opts, nil, nil)
	require.NoError(t, err)

	d, ok := m.Apps().Get("clock")
	require.True(t, ok)
	assert.True(t, d.IsPlugin())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Windows.DefaultWidth = 800
	cfg.Windows.DefaultHeight = 600
	cfg.Apps.PluginsDir = "/etc/webdesk/plugins"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "webdesk", opts.Namespace)
	assert.Equal(t, "/etc/webdesk/plugins", opts.PluginsDir)
	assert.Equal(t, window.Size{W: 800, H: 600}, opts.Windows.DefaultSize)
	assert.Equal(t, window.DefaultOptions().Step, opts.Windows.Step)
}

func TestLaunch(t *testing.T) {
	m := newTestManager(t, nil)

	tests := []struct {
		name    string
		app     string
		payload string
		title   string
		want    string
	}{
		{"app name", "calculator", "", "", "Calculator"},
		{"file payload", "notepad", "/Documents/a.txt", "", "Notepad - a.txt"},
		{"override", "notepad", "/Documents/a.txt", "Scratch", "Scratch"},
		{"non-path payload", "terminal", "ls", "", "Terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := m.Launch(tt.app, tt.payload, tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Title)
			assert.Equal(t, tt.app, w.AppID)
			assert.Equal(t, tt.payload, w.Payload)
		})
	}
}

func TestLaunchUnknownApp(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.Launch("solitaire", "", "")
	assert.ErrorIs(t, err, ErrUnknownApp)
	assert.Zero(t, m.Windows().Count())
}

func TestUninstallPluginClosesWindows(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.InstallPlugin(todoPlugin())
	require.NoError(t, err)

	a, err := m.Launch("todo", "", "")
	require.NoError(t, err)
	b, err := m.Launch("todo", "", "")
	require.NoError(t, err)
	other, err := m.Launch("calculator", "", "")
	require.NoError(t, err)

	closed, err := m.UninstallPlugin("todo")
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.WindowID{a.ID, b.ID}, closed)
	assert.Equal(t, 1, m.Windows().Count())
	_, ok := m.Windows().Get(other.ID)
	assert.True(t, ok)

	_, err = m.UninstallPlugin("calculator")
	assert.ErrorIs(t, err, registry.ErrNotUninstall)
	_, err = m.UninstallPlugin("todo")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestInstallManifest(t *testing.T) {
	m := newTestManager(t, nil)
	events, cancel := m.Subscribe(8)
	defer cancel()

	installed, err := m.InstallManifest([]byte(`
plugins:
  - id: todo
    name: Todo
    url: https://todo.example
  - id: bad
    name: Bad
    url: ftp://nope
`), registry.ManifestYAML)
	assert.Error(t, err)
	require.Len(t, installed, 1)

	e := next(t, events)
	assert.Equal(t, EventAppsChanged, e.Type)
	assert.Equal(t, "todo", e.Data.(AppChange).App.ID)
}

func TestEventsPublished(t *testing.T) {
	m := newTestManager(t, nil)
	events, cancel := m.Subscribe(16)
	defer cancel()

	_, err := m.VFS().Create("/Documents", "a.txt", vfs.KindFile, "")
	require.NoError(t, err)
	e := next(t, events)
	assert.Equal(t, EventVFSChanged, e.Type)
	assert.Equal(t, "/Documents/a.txt", e.Data.(vfs.Change).Target)

	w, err := m.Launch("calculator", "", "")
	require.NoError(t, err)
	e = next(t, events)
	assert.Equal(t, EventWindowsChanged, e.Type)
	assert.Equal(t, WindowChange{Op: "launch", Window: w}, e.Data)

	_, err = m.Settings().Set(settings.KeyDensity, "compact")
	require.NoError(t, err)
	e = next(t, events)
	assert.Equal(t, EventSettingsChanged, e.Type)
	assert.Equal(t, "compact", e.Data.(settings.Setting).Value)

	m.Notify(LevelInfo, "hello", nil)
	e = next(t, events)
	assert.Equal(t, EventNotification, e.Type)
	assert.NotZero(t, e.Timestamp)
}

func TestSubscribeCancel(t *testing.T) {
	m := newTestManager(t, nil)

	events, cancel := m.Subscribe(0)
	assert.Equal(t, 1, m.Subscribers())
	cancel()
	cancel()
	assert.Zero(t, m.Subscribers())

	_, ok := <-events
	assert.False(t, ok, "channel closed on cancel")

	// publishing with no subscribers is fine
	m.Notify(LevelInfo, "nobody listening", nil)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	m := newTestManager(t, nil)
	_, cancel := m.Subscribe(1)
	defer cancel()

	for i := 0; i < 10; i++ {
		m.Notify(LevelInfo, "tick", nil)
	}
	assert.Len(t, m.Notifications(), 10)
}

func TestNotifications(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m, err := NewManager(nil, DefaultOptions(), nil, metrics)
	require.NoError(t, err)

	first := m.Notify(LevelInfo, "saved", nil)
	m.Notify(LevelError, "failed", nil)

	pending := m.Notifications()
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, "failed", pending[1].Message)
	assert.Empty(t, m.Notifications(), "drained")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Notifications.WithLabelValues("error")))
}

func TestNotificationQueueIsBounded(t *testing.T) {
	m := newTestManager(t, nil)
	for i := 0; i < MaxPendingNotifications+5; i++ {
		m.Notify(LevelInfo, "n", nil)
	}
	assert.Len(t, m.Notifications(), MaxPendingNotifications)
}

func TestEndToEnd(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.VFS().Create("/Documents", "a.txt", vfs.KindFile, "hi")
	require.NoError(t, err)

	w, err := m.Launch("notepad", "/Documents/a.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "Notepad - a.txt", w.Title)

	host := m.Host(w.ID)
	content, err := host.FS().ReadFile(host.Payload())
	require.NoError(t, err)
	assert.Equal(t, "hi", content)

	moved, err := host.FS().Move("/Documents/a.txt", "/Downloads")
	require.NoError(t, err)
	assert.Equal(t, "/Downloads/a.txt", moved)
	assert.True(t, host.SetTitle("Notepad - "+vfs.Base(moved)))

	got, ok := m.Windows().Get(w.ID)
	require.True(t, ok)
	assert.Equal(t, "Notepad - a.txt", got.Title)
	assert.False(t, m.VFS().Exists("/Documents/a.txt"))
}
