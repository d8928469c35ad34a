package vfs

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// Format selects a snapshot encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied format name, defaulting to JSON
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format: %s", s)
	}
}

// Encode serializes a whole tree as the recursive {name, kind, content?, children?} structure
func Encode(root *Node, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(root)
	default:
		return sonic.Marshal(root)
	}
}

// Decode parses a snapshot and validates its structure
func Decode(data []byte, format Format) (*Node, error) {
	var root Node
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	default:
		err = sonic.Unmarshal(data, &root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := Validate(&root); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	root.Name = RootName
	return &root, nil
}
