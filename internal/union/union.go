// Package union implements the disjoint-set (union-find) structure that maps
// e-class identifiers to their canonical representative.
//
// The parent table is a plain map, so identifiers need no prior registration:
// the first time Find sees an identifier, it becomes its own root. That lazy
// behavior is only valid for identifiers minted by the graph's own counter;
// external callers go through the graph's strict lookups, which reject
// never-minted identifiers before they reach this package.
//
// This package does not attempt to be thread-safe. The graph that owns it is
// single-threaded by design; concurrent hosts must wrap the whole graph in
// one exclusive lock.
package union

import (
	"sort"

	"github.com/egraph-go/egraph/internal/term"
)

// DisjointSet maps each identifier to its parent. A root is its own parent.
// The parent graph is acyclic by construction: Union only ever attaches one
// root under another, so Find always terminates.
type DisjointSet struct {
	parent map[term.ID]term.ID
}

// New creates an empty disjoint-set.
func New() *DisjointSet {
	return &DisjointSet{parent: make(map[term.ID]term.ID)}
}

// Find returns the canonical representative of x. An identifier never seen
// before becomes its own root (lazy registration).
func (d *DisjointSet) Find(x term.ID) term.ID {
	root, ok := d.parent[x]
	if !ok {
		d.parent[x] = x
		return x
	}

	// Walk to the root.
	for root != d.parent[root] {
		root = d.parent[root]
	}

	// Path compression: repoint everything on the walked path at the root.
	for x != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}

	return root
}

// Union merges the sets containing x and y and returns the surviving root.
// The root of the first argument wins; if the roots are already equal this
// is a no-op.
func (d *DisjointSet) Union(x, y term.ID) term.ID {
	xRoot := d.Find(x)
	yRoot := d.Find(y)
	if xRoot != yRoot {
		d.parent[yRoot] = xRoot
	}
	return xRoot
}

// Len returns the number of registered identifiers.
func (d *DisjointSet) Len() int {
	return len(d.parent)
}

// Entry is one row of the parent table.
type Entry struct {
	ID     term.ID
	Parent term.ID
}

// Snapshot returns the parent table sorted by identifier. For the debug dump
// and invariant checks only; not a stable format.
func (d *DisjointSet) Snapshot() []Entry {
	entries := make([]Entry, 0, len(d.parent))
	for id, parent := range d.parent {
		entries = append(entries, Entry{ID: id, Parent: parent})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
