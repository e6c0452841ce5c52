package egraph

import (
	"sort"

	"github.com/egraph-go/egraph/internal/term"
)

// parentEntry records a node elsewhere in the graph that lists this class as
// a child, together with the class the node was interned under at record
// time. Both pieces may go stale after merges; repair recanonicalizes them
// lazily rather than at insertion time.
//
// One record exists per interned node, shared by reference across all of the
// node's child classes. node always holds the exact form the node is
// currently interned under, so whichever class repairs first re-keys the
// record for every other child class too.
type parentEntry struct {
	node  term.Node
	class term.ID
}

// Class is an e-class: an equivalence class of nodes known to denote the
// same value.
//
// A class's identifier is stable once assigned, but may stop being canonical
// after a merge. Superseded classes remain addressable for bookkeeping;
// queries must canonicalize through Find first.
type Class struct {
	id      term.ID
	nodes   map[term.Key]term.Node
	parents []*parentEntry

	// Data is an optional analysis payload slot for domain-specific
	// metadata (e.g. a known constant value). It carries no structural
	// invariant and is ignored by the congruence machinery.
	Data any
}

func newClass(id term.ID) *Class {
	return &Class{
		id:    id,
		nodes: make(map[term.Key]term.Node),
	}
}

// ID returns the class identifier this class was created under.
func (c *Class) ID() term.ID {
	return c.id
}

// Len returns the number of distinct member nodes.
func (c *Class) Len() int {
	return len(c.nodes)
}

// Nodes returns the member nodes sorted by their diagnostic rendering.
// Member nodes may carry non-canonical children between Rebuild calls;
// canonicalize through the graph before comparing them structurally.
func (c *Class) Nodes() []term.Node {
	nodes := make([]term.Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].String() < nodes[j].String() })
	return nodes
}

// Parents returns the recorded parent nodes sorted by their diagnostic
// rendering. After a completed Rebuild these are canonical and deduplicated.
func (c *Class) Parents() []term.Node {
	parents := make([]term.Node, 0, len(c.parents))
	for _, p := range c.parents {
		parents = append(parents, p.node)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i].String() < parents[j].String() })
	return parents
}

func (c *Class) addNode(n term.Node) {
	c.nodes[n.Key()] = n
}

func (c *Class) addParent(p *parentEntry) {
	c.parents = append(c.parents, p)
}
