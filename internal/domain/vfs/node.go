package vfs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/paths"
)

// Kind is the immutable type of a node
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// RootName is the name the root directory carries in snapshots
const RootName = "/"

// Node is a file or directory. Content is only meaningful on files and
// Children only on directories.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Content  string  `json:"content,omitempty" yaml:"content,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Entry is one row of a directory listing
type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// NewDirectory creates an empty directory node
func NewDirectory(name string) *Node {
	return &Node{Name: name, Kind: KindDirectory, Children: []*Node{}}
}

// NewFile creates a file node
func NewFile(name, content string) *Node {
	return &Node{Name: name, Kind: KindFile, Content: content}
}

// IsDir reports whether the node is a directory
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Clone returns a deep copy of the subtree rooted at n
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Kind: n.Kind, Content: n.Content}
	if n.Kind == KindDirectory {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Count returns the number of nodes in the subtree, including n
func (n *Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// child finds a direct child by exact name
func (n *Node) child(name string) (int, *Node) {
	for i, c := range n.Children {
		if c.Name == name {
			return i, c
		}
	}
	return -1, nil
}

// taken reports whether a child other than except already uses name
func (n *Node) taken(name string, except *Node) bool {
	for _, c := range n.Children {
		if c != except && c.Name == name {
			return true
		}
	}
	return false
}

// uniqueName resolves a collision inside dir by appending " (n)" before the
// extension of file names, incrementing n from 1 until the name is free.
func uniqueName(dir *Node, name string, kind Kind, except *Node) string {
	if !dir.taken(name, except) {
		return name
	}

	stem, ext := name, ""
	if kind == KindFile {
		stem, ext = splitExt(name)
	}
	for n := 1; ; n++ {
		candidate := stem + " (" + strconv.Itoa(n) + ")" + ext
		if !dir.taken(candidate, except) {
			return candidate
		}
	}
}

// splitExt splits "archive.tar.gz" into "archive.tar" and ".gz".
// A leading dot does not start an extension.
func splitExt(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// DefaultTree builds the tree a fresh session starts with
func DefaultTree() *Node {
	root := NewDirectory(RootName)
	for _, dir := range paths.StandardDirectories() {
		root.Children = append(root.Children, NewDirectory(Base(dir)))
	}

	docs, _ := Resolve(root, paths.Documents)
	docs.Children = append(docs.Children, NewFile(paths.WelcomeFile, paths.WelcomeText))
	return root
}

// Validate checks the structural invariants of a tree loaded from outside:
// a directory root, known kinds, valid unique sibling names, and kind-exclusive
// payloads.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("empty tree")
	}
	if root.Kind != KindDirectory {
		return fmt.Errorf("root is not a directory")
	}
	if root.Content != "" {
		return fmt.Errorf("/: directory with content")
	}
	return validateChildren(root, "")
}

func validateChildren(dir *Node, prefix string) error {
	seen := make(map[string]struct{}, len(dir.Children))
	for _, c := range dir.Children {
		if c == nil {
			return fmt.Errorf("%s/: nil child", prefix)
		}
		p := prefix + "/" + c.Name
		if !validName(c.Name) {
			return fmt.Errorf("%s: invalid name", p)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%s: duplicate name", p)
		}
		seen[c.Name] = struct{}{}

		switch c.Kind {
		case KindFile:
			if len(c.Children) > 0 {
				return fmt.Errorf("%s: file with children", p)
			}
		case KindDirectory:
			if c.Content != "" {
				return fmt.Errorf("%s: directory with content", p)
			}
			if err := validateChildren(c, p); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unknown kind %q", p, c.Kind)
		}
	}
	return nil
}
