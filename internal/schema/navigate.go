package schema

import "strings"

// ShapeAt resolves the node addressed by a dot-separated field path. Every
// segment except the last must land on an object-kind node (optional
// wrappers are unwrapped transparently); a missing segment or a non-object
// intermediate yields false.
func ShapeAt(root *Node, path string) (*Node, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		container := cur.unwrap()
		if container.Kind != KindObject {
			return nil, false
		}
		next, ok := container.fieldNode(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// IsArrayAt reports whether the node at the path is array-kind, or a union
// containing at least one array-kind member. This is the only authority on
// a field path's array-ness; the literal text of a value never decides it.
func IsArrayAt(root *Node, path string) bool {
	n, ok := ShapeAt(root, path)
	if !ok {
		return false
	}
	n = n.unwrap()
	if n.Kind == KindArray {
		return true
	}
	if n.Kind == KindUnion {
		for _, opt := range n.Options {
			if opt.unwrap().Kind == KindArray {
				return true
			}
		}
	}
	return false
}
