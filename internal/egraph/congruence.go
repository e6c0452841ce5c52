package egraph

import (
	"sort"

	"github.com/egraph-go/egraph/internal/term"
)

// Merge asserts that a and b denote the same value and returns the resulting
// canonical id.
//
// If a and b are already equivalent this is a no-op. Otherwise the two roots
// are unioned (the first argument's root survives) and a class holding the
// union of both node sets is installed at the surviving root. Parent lists
// are concatenated but not reconciled here: congruence among the parents is
// intentionally deferred and batched into Rebuild, which repairs many merges
// at once. The superseded class stays in the arena and remains reachable
// through Find.
func (g *Graph) Merge(a, b term.ID) (term.ID, error) {
	if !g.minted(a) {
		return 0, &NotFoundError{ID: a}
	}
	if !g.minted(b) {
		return 0, &NotFoundError{ID: b}
	}

	aRoot := g.uf.Find(a)
	bRoot := g.uf.Find(b)
	if aRoot == bRoot {
		return aRoot, nil
	}

	root := g.uf.Union(aRoot, bRoot)
	winner, loser := g.classes[aRoot], g.classes[bRoot]

	merged := newClass(root)
	merged.Data = winner.Data
	for k, n := range winner.nodes {
		merged.nodes[k] = n
	}
	for k, n := range loser.nodes {
		merged.nodes[k] = n
	}
	merged.parents = make([]*parentEntry, 0, len(winner.parents)+len(loser.parents))
	merged.parents = append(merged.parents, winner.parents...)
	merged.parents = append(merged.parents, loser.parents...)

	g.classes[root] = merged
	g.worklist[root] = struct{}{}

	return root, nil
}

// Rebuild drains the worklist to a fixed point, restoring the hash-cons and
// congruence invariants. Must be called before any equivalence query is
// trusted.
//
// Repairing one class can uncover new congruences among its parents, whose
// merges repopulate the worklist, so the loop runs until the worklist is
// empty rather than a single pass. Each merge strictly reduces the number of
// distinct canonical classes (or is a no-op), which is bounded below, so the
// cascade terminates. Calling Rebuild with an empty worklist is a no-op, and
// two consecutive calls with no intervening Merge leave the graph unchanged.
func (g *Graph) Rebuild() {
	for len(g.worklist) > 0 {
		// A pending id may have been superseded by a later merge;
		// canonicalize and deduplicate before repairing. Sorted order
		// keeps the repair sequence deterministic.
		todo := make(map[term.ID]struct{}, len(g.worklist))
		for id := range g.worklist {
			todo[g.uf.Find(id)] = struct{}{}
		}
		g.worklist = make(map[term.ID]struct{})

		ids := make([]term.ID, 0, len(todo))
		for id := range todo {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			g.repair(g.uf.Find(id))
		}
	}
}

// repair restores the hash-cons and congruence invariants for one class's
// recorded parents.
//
// Pass 1 re-keys every parent: the entry interned under a now-stale key is
// evicted and reinserted under the parent's fresh canonical key, pointing at
// the canonical class of its previous mapping. Parent records are shared
// across a node's child classes, so the re-key is visible to all of them,
// including classes that are not on the worklist this generation.
//
// Pass 2 detects congruence: two distinct parents that canonicalize to the
// same node have become structurally identical, so their classes are merged
// (which may repopulate the worklist). The class's parent list is replaced
// with the deduplicated canonical set so repeated repairs do not reprocess
// stale entries.
func (g *Graph) repair(id term.ID) {
	class := g.classes[id]

	for _, p := range class.parents {
		g.rekey(p)
	}

	fresh := make(map[term.Key]*parentEntry, len(class.parents))
	for _, p := range class.parents {
		// Re-key again: a merge triggered below can change what is
		// canonical mid-loop.
		g.rekey(p)
		key := p.node.Key()
		if prev, ok := fresh[key]; ok {
			root, err := g.Merge(prev.class, p.class)
			if err != nil {
				// Both ids came from this graph's own bookkeeping.
				panic(err)
			}
			prev.class = root
			p.class = root
			continue
		}
		fresh[key] = p
	}

	parents := make([]*parentEntry, 0, len(fresh))
	for _, p := range fresh {
		parents = append(parents, p)
	}
	sort.Slice(parents, func(i, j int) bool {
		return parents[i].node.Key() < parents[j].node.Key()
	})
	class.parents = parents
}

// rekey re-interns a parent record under the canonical form of its node,
// evicting whatever key it was last interned under. Idempotent when nothing
// relevant has merged since the last call.
func (g *Graph) rekey(p *parentEntry) {
	delete(g.hashcons, p.node.Key())
	canon := g.canonicalize(p.node)
	p.node = canon
	p.class = g.uf.Find(p.class)
	g.hashcons[canon.Key()] = p.class
}
