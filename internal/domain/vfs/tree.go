package vfs

import (
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

// Tree operations below work on a mutable working copy. The Store owns
// cloning and committing; these functions only enforce structure.

// Info describes a resolved node
type Info struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Size     int    `json:"size"`
	MimeType string `json:"mime_type"`
	Children int    `json:"children,omitempty"`
}

const directoryMime = "inode/directory"

func listDir(root *Node, dirPath string) ([]Entry, error) {
	dir, ok := Resolve(root, dirPath)
	if !ok || !dir.IsDir() {
		return nil, pathErr("list", dirPath, ErrNotADirectory)
	}

	entries := make([]Entry, len(dir.Children))
	for i, c := range dir.Children {
		entries[i] = Entry{Name: c.Name, Kind: c.Kind}
	}
	return entries, nil
}

func createNode(root *Node, dirPath, name string, kind Kind, content string) (string, error) {
	if !validName(name) || !kind.Valid() {
		return "", pathErr("create", Join(dirPath, name), ErrInvalidPath)
	}

	dir, ok := Resolve(root, dirPath)
	if !ok || !dir.IsDir() {
		return "", pathErr("create", dirPath, ErrNotADirectory)
	}

	final := uniqueName(dir, name, kind, nil)
	node := NewDirectory(final)
	if kind == KindFile {
		node = NewFile(final, content)
	}
	dir.Children = append(dir.Children, node)
	return Join(dirPath, final), nil
}

// locate resolves a non-root path to its parent directory and child index
func locate(root *Node, op, p string) (parent *Node, idx int, err error) {
	dirPath, name := Split(p)
	if name == "" {
		return nil, -1, pathErr(op, p, ErrInvalidPath)
	}

	parent, ok := Resolve(root, dirPath)
	if !ok || !parent.IsDir() {
		return nil, -1, pathErr(op, p, ErrNotFound)
	}

	idx, _ = parent.child(name)
	if idx < 0 {
		return nil, -1, pathErr(op, p, ErrNotFound)
	}
	return parent, idx, nil
}

func deleteNode(root *Node, p string) error {
	parent, idx, err := locate(root, "delete", p)
	if err != nil {
		return err
	}
	parent.Children = slices.Delete(parent.Children, idx, idx+1)
	return nil
}

// renameNode gives a node a new name within its parent. A name taken by a
// sibling is resolved with the same " (n)" policy as create.
func renameNode(root *Node, p, newName string) (string, error) {
	if !validName(newName) {
		return "", pathErr("rename", p, ErrInvalidPath)
	}

	parent, idx, err := locate(root, "rename", p)
	if err != nil {
		return "", err
	}

	node := parent.Children[idx]
	if node.Name != newName {
		node.Name = uniqueName(parent, newName, node.Kind, node)
	}
	dirPath, _ := Split(p)
	return Join(dirPath, node.Name), nil
}

func moveNode(root *Node, srcPath, dstDirPath string) (string, error) {
	src := Normalize(srcPath)
	parent, idx, err := locate(root, "move", src)
	if err != nil {
		return "", err
	}

	dst := Normalize(dstDirPath)
	dir, ok := Resolve(root, dst)
	if !ok || !dir.IsDir() {
		return "", pathErr("move", dstDirPath, ErrNotADirectory)
	}

	node := parent.Children[idx]
	if node.IsDir() && (dst == src || strings.HasPrefix(dst, src+"/")) {
		return "", pathErr("move", src, ErrInvalidMove)
	}

	parent.Children = slices.Delete(parent.Children, idx, idx+1)
	node.Name = uniqueName(dir, node.Name, node.Kind, nil)
	dir.Children = append(dir.Children, node)
	return Join(dst, node.Name), nil
}

func readFile(root *Node, p string) (string, error) {
	node, ok := Resolve(root, p)
	if !ok {
		return "", pathErr("read", p, ErrNotFound)
	}
	if node.IsDir() {
		return "", pathErr("read", p, ErrNotAFile)
	}
	return node.Content, nil
}

func writeFile(root *Node, p, content string) error {
	node, ok := Resolve(root, p)
	if !ok {
		return pathErr("write", p, ErrNotFound)
	}
	if node.IsDir() {
		return pathErr("write", p, ErrNotAFile)
	}
	node.Content = content
	return nil
}

func statNode(root *Node, p string) (Info, error) {
	node, ok := Resolve(root, p)
	if !ok {
		return Info{}, pathErr("stat", p, ErrNotFound)
	}

	info := Info{
		Path: Normalize(p),
		Name: Base(p),
		Kind: node.Kind,
	}
	if node.IsDir() {
		info.MimeType = directoryMime
		info.Children = len(node.Children)
		return info, nil
	}
	info.Size = len(node.Content)
	info.MimeType = mimetype.Detect([]byte(node.Content)).String()
	return info, nil
}

// findPaths matches every non-root path against a doublestar pattern.
// Leading slashes on the pattern are ignored.
func findPaths(root *Node, pattern string) ([]string, error) {
	pattern = strings.TrimLeft(strings.ReplaceAll(pattern, `\`, "/"), "/")
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, pathErr("find", pattern, ErrInvalidPath)
	}

	var matches []string
	var walk func(dir *Node, prefix string)
	walk = func(dir *Node, prefix string) {
		for _, c := range dir.Children {
			rel := c.Name
			if prefix != "" {
				rel = prefix + "/" + c.Name
			}
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matches = append(matches, "/"+rel)
			}
			if c.IsDir() {
				walk(c, rel)
			}
		}
	}
	walk(root, "")
	return matches, nil
}
