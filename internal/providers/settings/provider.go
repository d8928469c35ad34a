package settings

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Setting keys
const (
	KeyTheme     = "theme"
	KeyAccent    = "accent"
	KeyWallpaper = "wallpaper"
	KeyDensity   = "density"
)

// MaxWallpaperLength bounds the wallpaper value
const MaxWallpaperLength = 256

var (
	// ErrUnknownKey is returned for keys outside the fixed set
	ErrUnknownKey = errors.New("unknown setting")
	// ErrInvalidValue is returned when a value fails its key's validation
	ErrInvalidValue = errors.New("invalid setting value")
)

// Storage is the key/value persistence settings are saved into
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

// Setting represents one configuration entry
type Setting struct {
	Key         string   `json:"key"`
	Value       string   `json:"value"`
	Default     string   `json:"default"`
	Description string   `json:"description"`
	Options     []string `json:"options,omitempty"`
}

// Values is the exported form of all settings
type Values struct {
	Theme     string `json:"theme" toml:"theme" yaml:"theme"`
	Accent    string `json:"accent" toml:"accent" yaml:"accent"`
	Wallpaper string `json:"wallpaper" toml:"wallpaper" yaml:"wallpaper"`
	Density   string `json:"density" toml:"density" yaml:"density"`
}

type definition struct {
	key         string
	def         string
	description string
	options     []string
	validate    func(string) error
}

var definitions = []definition{
	{key: KeyTheme, def: "dark", description: "UI theme", options: []string{"light", "dark"}},
	{key: KeyAccent, def: "#3b82f6", description: "Accent color", validate: func(v string) error {
		return utils.ValidateHexColor(v, KeyAccent)
	}},
	{key: KeyWallpaper, def: "default", description: "Desktop wallpaper", validate: func(v string) error {
		return utils.ValidateString(v, KeyWallpaper, 1, MaxWallpaperLength, true)
	}},
	{key: KeyDensity, def: "comfortable", description: "Layout density", options: []string{"compact", "comfortable"}},
}

func lookup(key string) (definition, bool) {
	i := slices.IndexFunc(definitions, func(d definition) bool { return d.key == key })
	if i < 0 {
		return definition{}, false
	}
	return definitions[i], true
}

func (d definition) check(value string) error {
	if d.options != nil && !slices.Contains(d.options, value) {
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidValue, d.key, strings.Join(d.options, ", "))
	}
	if d.validate != nil {
		if err := d.validate(value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	}
	return nil
}

func (d definition) setting(value string) Setting {
	return Setting{
		Key:         d.key,
		Value:       value,
		Default:     d.def,
		Description: d.description,
		Options:     slices.Clone(d.options),
	}
}

// Provider implements settings management
type Provider struct {
	mu        sync.RWMutex
	values    map[string]string // Protected by mu
	storage   Storage
	key       string
	logger    *zap.Logger
	observers []func(Setting)
}

// NewProvider creates a settings provider holding the defaults
func NewProvider(storage Storage, key string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		values:  make(map[string]string, len(definitions)),
		storage: storage,
		key:     key,
		logger:  logger.Named("settings"),
	}
	p.initializeDefaults()
	return p
}

// initializeDefaults sets up default settings
func (p *Provider) initializeDefaults() {
	for _, d := range definitions {
		p.values[d.key] = d.def
	}
}

// OnChange registers a callback run after every applied change. Callbacks
// run in commit order under the provider's lock and must not call back into it.
func (p *Provider) OnChange(fn func(Setting)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Load restores stored values. Unknown keys and values that no longer
// validate are ignored. Reports whether a stored document was applied.
func (p *Provider) Load() bool {
	if p.storage == nil {
		return false
	}
	data, ok, err := p.storage.Get(p.key)
	if err != nil {
		p.logger.Warn("Failed to read settings, using defaults", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	var stored map[string]string
	if err := sonic.Unmarshal(data, &stored); err != nil {
		p.logger.Warn("Stored settings unusable, using defaults", zap.Error(err))
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range stored {
		d, known := lookup(k)
		if !known {
			continue
		}
		if err := d.check(v); err != nil {
			p.logger.Warn("Ignoring stored setting", zap.String("key", k), zap.Error(err))
			continue
		}
		p.values[k] = v
	}
	return true
}

// Get returns one setting
func (p *Provider) Get(key string) (Setting, error) {
	d, ok := lookup(key)
	if !ok {
		return Setting{}, fmt.Errorf("get %q: %w", key, ErrUnknownKey)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return d.setting(p.values[key]), nil
}

// All returns every setting in a fixed order
func (p *Provider) All() []Setting {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Setting, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d.setting(p.values[d.key]))
	}
	return out
}

// Values returns the current values
func (p *Provider) Values() Values {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// Set validates and stores a value
func (p *Provider) Set(key, value string) (Setting, error) {
	d, ok := lookup(key)
	if !ok {
		return Setting{}, fmt.Errorf("set %q: %w", key, ErrUnknownKey)
	}
	value = strings.TrimSpace(value)
	if key == KeyAccent {
		value = strings.ToLower(value)
	}
	if err := d.check(value); err != nil {
		return Setting{}, err
	}
	return p.apply(d, value), nil
}

// Reset restores a key to its default
func (p *Provider) Reset(key string) (Setting, error) {
	d, ok := lookup(key)
	if !ok {
		return Setting{}, fmt.Errorf("reset %q: %w", key, ErrUnknownKey)
	}
	return p.apply(d, d.def), nil
}

func (p *Provider) apply(d definition, value string) Setting {
	p.mu.Lock()
	p.values[d.key] = value
	p.persistLocked()
	s := d.setting(value)
	for _, fn := range p.observers {
		fn(s)
	}
	p.mu.Unlock()

	p.logger.Debug("Setting changed", zap.String("key", d.key), zap.String("value", value))
	return s
}

// Format selects an export encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a query value to a Format. Empty selects TOML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported settings format %q", s)
	}
}

// Export encodes all values in the given format
func (p *Provider) Export(format Format) ([]byte, error) {
	v := p.Values()
	switch format {
	case FormatTOML:
		return toml.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported settings format %q", format)
	}
}

// snapshotLocked must be called with mu held
func (p *Provider) snapshotLocked() Values {
	return Values{
		Theme:     p.values[KeyTheme],
		Accent:    p.values[KeyAccent],
		Wallpaper: p.values[KeyWallpaper],
		Density:   p.values[KeyDensity],
	}
}

// persistLocked saves all values. Failures are logged, never returned.
// Must be called with mu held.
func (p *Provider) persistLocked() {
	if p.storage == nil {
		return
	}
	data, err := sonic.Marshal(p.values)
	if err == nil {
		err = p.storage.Set(p.key, data)
	}
	if err != nil {
		p.logger.Warn("Failed to persist settings", zap.Error(err))
	}
}
