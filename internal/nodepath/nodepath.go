// Package nodepath addresses hierarchy nodes by a dot-separated path of
// parameter names (e.g. "p0.p3.p7"), the way CLI/report tooling refers to a
// node without needing its NodeID.
//
// Adapted from the teacher's github.com/wayneeseguin/graft
// internal/utils/tree.Cursor (a dot/bracket path into a YAML document);
// here a Path only ever walks parameter names, so the bracket/array syntax
// of the original is dropped.
package nodepath

import "strings"

// Path is an ordered list of parameter names from a root to a node.
type Path struct {
	Names []string
}

// Parse splits a dot-separated string into a Path.
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{Names: strings.Split(s, ".")}
}

// String renders the Path back to dot-separated form.
func (p Path) String() string { return strings.Join(p.Names, ".") }

// Push appends a name, returning a new Path (the receiver is untouched).
func (p Path) Push(name string) Path {
	out := make([]string, len(p.Names), len(p.Names)+1)
	copy(out, p.Names)
	return Path{Names: append(out, name)}
}

// Depth is the number of names in the path (0 for an empty path, 1 for the
// root's own path).
func (p Path) Depth() int { return len(p.Names) }

// Parent returns the path with its last element removed.
func (p Path) Parent() Path {
	if len(p.Names) == 0 {
		return p
	}
	return Path{Names: p.Names[:len(p.Names)-1]}
}

// Last returns the final name in the path, or "" if empty.
func (p Path) Last() string {
	if len(p.Names) == 0 {
		return ""
	}
	return p.Names[len(p.Names)-1]
}

// Under reports whether p is a strict descendant of other.
func (p Path) Under(other Path) bool {
	if len(p.Names) <= len(other.Names) {
		return false
	}
	for i := range other.Names {
		if p.Names[i] != other.Names[i] {
			return false
		}
	}
	return true
}
