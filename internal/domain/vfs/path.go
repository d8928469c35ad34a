package vfs

import "strings"

// Normalize returns the canonical form of a path: "/"-rooted, single
// separators, "." dropped and ".." resolved. Popping past the root is a
// no-op. Normalize is idempotent.
func Normalize(p string) string {
	return "/" + strings.Join(segments(p), "/")
}

// segments splits a path into resolved components
func segments(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")

	out := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return out
}

// Split returns the canonical parent directory and the last segment.
// For the root, name is empty.
func Split(p string) (dir, name string) {
	segs := segments(p)
	if len(segs) == 0 {
		return "/", ""
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1]
}

// Join appends name to a directory path and normalizes the result
func Join(dir, name string) string {
	return Normalize(dir + "/" + name)
}

// Base returns the last segment of a path, or "/" for the root
func Base(p string) string {
	if _, name := Split(p); name != "" {
		return name
	}
	return "/"
}

// Resolve walks the tree from root by exact name match
func Resolve(root *Node, p string) (*Node, bool) {
	node := root
	for _, seg := range segments(p) {
		if node.Kind != KindDirectory {
			return nil, false
		}
		_, child := node.child(seg)
		if child == nil {
			return nil, false
		}
		node = child
	}
	return node, true
}

// validName rejects names that cannot be a single path segment
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
