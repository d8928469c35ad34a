package registry

import (
	"errors"
	"time"
)

// Kind discriminates built-in apps from plugins
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindPlugin  Kind = "plugin"
)

// Behavior names the native implementation of a built-in app
type Behavior string

const (
	BehaviorExplorer   Behavior = "explorer"
	BehaviorNotepad    Behavior = "notepad"
	BehaviorCalculator Behavior = "calculator"
	BehaviorTerminal   Behavior = "terminal"
	BehaviorMarkdown   Behavior = "markdown"
	BehaviorSettings   Behavior = "settings"
)

// Descriptor is a launchable app. Behavior is set only on built-ins and
// URL only on plugins.
type Descriptor struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Kind        Kind       `json:"kind"`
	Behavior    Behavior   `json:"behavior,omitempty"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	InstalledAt *time.Time `json:"installed_at,omitempty"`
}

// IsPlugin reports whether d is a plugin
func (d Descriptor) IsPlugin() bool {
	return d.Kind == KindPlugin
}

// OpensFiles reports whether the app takes a file path as launch payload
func (d Descriptor) OpensFiles() bool {
	return d.Behavior == BehaviorNotepad || d.Behavior == BehaviorMarkdown
}

// Plugin is the installable description of a plugin app, as found in
// install requests and manifests
type Plugin struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Icon        string `json:"icon" yaml:"icon" toml:"icon"`
	URL         string `json:"url" yaml:"url" toml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Registry errors
var (
	ErrNotFound      = errors.New("app not found")
	ErrBuiltinClash  = errors.New("id belongs to a built-in app")
	ErrNotUninstall  = errors.New("built-in apps cannot be uninstalled")
	ErrInvalidPlugin = errors.New("invalid plugin")
)
