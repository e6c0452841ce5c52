package egraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/egraph-go/egraph/internal/term"
)

// Dump renders a human-readable listing of the canonical classes, their
// member nodes and parents, and the disjoint-set table. For diagnostics and
// tests only; not a stable format.
//
// The listing is deterministic: classes sorted by canonical id, nodes and
// parents in their sorted canonical renderings. Member nodes are
// canonicalized on the way out, so the dump reflects the graph's canonical
// structure even though stored copies may carry stale children.
func (g *Graph) Dump() string {
	var b strings.Builder

	roots := g.canonicalRoots()
	fmt.Fprintf(&b, "e-graph: %d canonical classes (%d total), %d nodes, %d pending\n",
		len(roots), len(g.classes), len(g.hashcons), len(g.worklist))

	for _, root := range roots {
		class := g.classes[root]
		fmt.Fprintf(&b, "class %d\n", root)
		for _, s := range g.canonicalRenderings(class.Nodes()) {
			fmt.Fprintf(&b, "  node %s\n", s)
		}
		if parents := class.Parents(); len(parents) > 0 {
			fmt.Fprintf(&b, "  parents: %s\n", strings.Join(g.canonicalRenderings(parents), ", "))
		}
	}

	b.WriteString("union-find:\n")
	for _, e := range g.uf.Snapshot() {
		fmt.Fprintf(&b, "  %d -> %d\n", e.ID, e.Parent)
	}

	return b.String()
}

// Fingerprint returns the content-addressed identity of the canonical graph:
// a domain-separated SHA-256 over the dump encoding. Two graphs built by the
// same operation sequence produce the same fingerprint, which is what the
// journal's replay verification relies on.
func (g *Graph) Fingerprint() string {
	return term.HashWithDomain(term.DomainGraph, []byte(g.Dump()))
}

// canonicalRoots returns the distinct canonical class ids, sorted.
func (g *Graph) canonicalRoots() []term.ID {
	seen := make(map[term.ID]struct{})
	for id := range g.classes {
		seen[g.uf.Find(id)] = struct{}{}
	}
	roots := make([]term.ID, 0, len(seen))
	for id := range seen {
		roots = append(roots, id)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// canonicalRenderings canonicalizes each node, renders it, and returns the
// deduplicated sorted strings.
func (g *Graph) canonicalRenderings(nodes []term.Node) []string {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		seen[g.canonicalize(n).String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
