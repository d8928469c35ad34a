package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFormat selects a manifest encoding
type ManifestFormat string

const (
	ManifestYAML ManifestFormat = "yaml"
	ManifestTOML ManifestFormat = "toml"
)

// ParseManifestFormat maps a format name or file extension
func ParseManifestFormat(s string) (ManifestFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "yaml", "yml":
		return ManifestYAML, nil
	case "toml":
		return ManifestTOML, nil
	default:
		return "", fmt.Errorf("unsupported manifest format: %q", s)
	}
}

// manifest lists plugins under a top-level "plugins" key. A document that
// only describes one plugin at the top level is accepted too.
type manifest struct {
	Plugins []Plugin `yaml:"plugins" toml:"plugins"`
	Plugin  `yaml:",inline"`
}

// tomlManifest mirrors manifest; go-toml has no inline tag
type tomlManifest struct {
	Plugins     []Plugin `toml:"plugins"`
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Icon        string   `toml:"icon"`
	URL         string   `toml:"url"`
	Description string   `toml:"description"`
}

// ParseManifest decodes the plugins described by a manifest
func ParseManifest(data []byte, format ManifestFormat) ([]Plugin, error) {
	var plugins []Plugin
	var single Plugin

	switch format {
	case ManifestYAML:
		var doc manifest
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlugin, err)
		}
		plugins, single = doc.Plugins, doc.Plugin
	case ManifestTOML:
		var doc tomlManifest
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlugin, err)
		}
		plugins = doc.Plugins
		single = Plugin{ID: doc.ID, Name: doc.Name, Icon: doc.Icon, URL: doc.URL, Description: doc.Description}
	default:
		return nil, fmt.Errorf("unsupported manifest format: %q", format)
	}

	if single.ID != "" {
		plugins = append(plugins, single)
	}
	if len(plugins) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no plugins", ErrInvalidPlugin)
	}
	return plugins, nil
}

// LoadManifest installs every plugin a manifest describes. Valid entries
// are installed even when others fail; the failures are joined.
func (m *Manager) LoadManifest(data []byte, format ManifestFormat) ([]Descriptor, error) {
	plugins, err := ParseManifest(data, format)
	if err != nil {
		return nil, err
	}

	var installed []Descriptor
	var errs []error
	for _, p := range plugins {
		d, err := m.Install(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		installed = append(installed, d)
	}
	return installed, errors.Join(errs...)
}
