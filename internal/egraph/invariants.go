package egraph

import (
	"fmt"

	"github.com/egraph-go/egraph/internal/term"
)

// CheckInvariants verifies the structural invariants that must hold after
// every completed Rebuild. A non-nil result is an internal defect in the
// merge/repair cascade, not a recoverable runtime condition; tests call this
// after every Rebuild, production callers normally never do.
//
// Checked:
//   - find idempotence: the root of every registered id is its own parent
//   - canonical keys: every hash-cons entry is reachable as the canonical
//     form of some member node, and vice versa (no stale keys, no member
//     node missing from the table)
//   - congruence: structurally identical canonical nodes live in the same
//     canonical class
//   - parent soundness: each class's recorded parents, canonicalized, cover
//     exactly the nodes in the graph that reference it
//
// Invariants may be transiently violated between Merge calls; calling this
// with a non-empty worklist reports that instead of a spurious violation.
func (g *Graph) CheckInvariants() error {
	if len(g.worklist) > 0 {
		return &InvariantError{
			Invariant: InvariantCongruence,
			Message:   fmt.Sprintf("%d repairs pending; call Rebuild first", len(g.worklist)),
		}
	}

	for _, e := range g.uf.Snapshot() {
		root := g.uf.Find(e.ID)
		if g.uf.Find(root) != root {
			return &InvariantError{
				Invariant: InvariantFindIdempotent,
				Message:   fmt.Sprintf("find(%d) = %d is not its own root", e.ID, root),
			}
		}
	}

	// Walk every canonical member node once, recording which class owns it.
	owner := make(map[term.Key]term.ID)
	rendering := make(map[term.Key]string)
	for _, root := range g.canonicalRoots() {
		for _, n := range g.classes[root].Nodes() {
			canon := g.canonicalize(n)
			key := canon.Key()
			if prev, ok := owner[key]; ok && prev != root {
				return &InvariantError{
					Invariant: InvariantCongruence,
					Message:   fmt.Sprintf("node %s is in classes %d and %d", canon, prev, root),
					Class:     root,
				}
			}
			owner[key] = root
			rendering[key] = canon.String()
		}
	}

	for key, id := range g.hashcons {
		root, ok := owner[key]
		if !ok {
			return &InvariantError{
				Invariant: InvariantCanonicalKeys,
				Message:   fmt.Sprintf("stale hash-cons key %q matches no canonical node", key),
			}
		}
		if g.uf.Find(id) != root {
			return &InvariantError{
				Invariant: InvariantCanonicalKeys,
				Message:   fmt.Sprintf("hash-cons entry for %s resolves to class %d, node lives in %d", rendering[key], g.uf.Find(id), root),
				Class:     root,
			}
		}
	}
	for key := range owner {
		if _, ok := g.hashcons[key]; !ok {
			return &InvariantError{
				Invariant: InvariantHashconsTotal,
				Message:   fmt.Sprintf("canonical node %s missing from hash-cons table", rendering[key]),
				Class:     owner[key],
			}
		}
	}

	return g.checkParentSoundness()
}

// checkParentSoundness rebuilds the expected parent sets from scratch and
// compares them against the recorded ones.
func (g *Graph) checkParentSoundness() error {
	expected := make(map[term.ID]map[term.Key]struct{})
	for _, root := range g.canonicalRoots() {
		for _, n := range g.classes[root].Nodes() {
			canon := g.canonicalize(n)
			for _, child := range canon.Children {
				if expected[child] == nil {
					expected[child] = make(map[term.Key]struct{})
				}
				expected[child][canon.Key()] = struct{}{}
			}
		}
	}

	for _, root := range g.canonicalRoots() {
		class := g.classes[root]
		want := expected[root]
		// Entries are compared as canonical sets: a class that was never
		// itself repaired may hold two raw entries that canonicalize to
		// the same node, and that is fine until its own repair dedups
		// them. What must never happen is an entry whose canonical form
		// references some other class.
		seen := make(map[term.Key]struct{}, len(class.parents))
		for _, p := range class.parents {
			key := g.canonicalize(p.node).Key()
			seen[key] = struct{}{}
			if _, ok := want[key]; !ok {
				return &InvariantError{
					Invariant: InvariantParentSound,
					Message:   fmt.Sprintf("recorded parent %s does not reference this class", g.canonicalize(p.node)),
					Class:     root,
				}
			}
		}
		if len(seen) != len(want) {
			return &InvariantError{
				Invariant: InvariantParentSound,
				Message:   fmt.Sprintf("parent set covers %d canonical nodes, graph has %d referencing nodes", len(seen), len(want)),
				Class:     root,
			}
		}
	}

	return nil
}
