package egraph

import (
	"github.com/egraph-go/egraph/internal/term"
	"github.com/egraph-go/egraph/internal/union"
)

// Graph is the e-graph: the arena of classes, the hash-cons table that
// deduplicates structurally identical terms, the disjoint-set mapping class
// ids to canonical representatives, and the worklist of classes whose
// congruence has not yet been restored.
//
// Mutating operations (Add, Merge, Rebuild) run to completion without
// suspension; the structure is single-threaded by design.
type Graph struct {
	classes  map[term.ID]*Class
	hashcons map[term.Key]term.ID
	uf       *union.DisjointSet
	worklist map[term.ID]struct{}
	nextID   term.ID
}

// New creates an empty e-graph. The first minted class id is 1.
func New() *Graph {
	return &Graph{
		classes:  make(map[term.ID]*Class),
		hashcons: make(map[term.Key]term.ID),
		uf:       union.New(),
		worklist: make(map[term.ID]struct{}),
	}
}

// minted reports whether the graph's counter has ever issued id.
func (g *Graph) minted(id term.ID) bool {
	return id >= 1 && id <= g.nextID
}

// mint issues a fresh identifier and registers it as its own root.
func (g *Graph) mint() term.ID {
	g.nextID++
	id := g.nextID
	g.uf.Find(id) // registers id as its own root
	return id
}

// canonicalize replaces every child of n with its canonical representative.
// The symbol is unchanged.
func (g *Graph) canonicalize(n term.Node) term.Node {
	return n.Map(g.uf.Find)
}

// Add interns the node (symbol, children) and returns its class id.
//
// Children must be ids previously returned by Add or Merge; an unknown child
// yields a NotFoundError. If a structurally equal node (after child
// canonicalization) is already present, the existing canonical class id is
// returned and no new class is created. Otherwise a fresh singleton class is
// minted and the node is recorded on each child class's parent set, so that
// congruence repair can later find all dependents.
func (g *Graph) Add(symbol string, children []term.ID) (term.ID, error) {
	for _, c := range children {
		if !g.minted(c) {
			return 0, &NotFoundError{ID: c}
		}
	}

	node := term.New(symbol, children)
	canon := g.canonicalize(node)
	key := canon.Key()
	if id, ok := g.hashcons[key]; ok {
		return g.uf.Find(id), nil
	}

	id := g.mint()
	class := newClass(id)
	class.addNode(canon)
	g.classes[id] = class
	g.hashcons[key] = id

	// Parents are recorded eagerly so repair can find every dependent, but
	// recanonicalized lazily during repair, not at insertion time. The
	// recorded node is the canonical-at-insert form, the exact key it was
	// interned under, so repair can evict that key later. Every child class
	// gets the same shared record: when repair of one class re-keys the
	// node, the others must see the new key too, or a later repair would
	// evict a key the node is no longer interned under.
	// Register once per distinct child so a node like *(x, x) does not
	// leave a duplicate parent entry.
	rec := &parentEntry{node: canon, class: id}
	seen := make(map[term.ID]struct{}, len(canon.Children))
	for _, c := range canon.Children {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		g.classes[c].addParent(rec)
	}

	return id, nil
}

// AddNode interns a prebuilt node. Equivalent to Add(n.Symbol, n.Children).
func (g *Graph) AddNode(n term.Node) (term.ID, error) {
	return g.Add(n.Symbol, n.Children)
}

// Find returns the current canonical id for the given class id.
// Returns a NotFoundError for identifiers this graph never minted.
func (g *Graph) Find(id term.ID) (term.ID, error) {
	if !g.minted(id) {
		return 0, &NotFoundError{ID: id}
	}
	return g.uf.Find(id), nil
}

// Equivalent reports whether a and b are in the same class. Only trustworthy
// when the worklist is empty, i.e. immediately after a Rebuild.
func (g *Graph) Equivalent(a, b term.ID) (bool, error) {
	ra, err := g.Find(a)
	if err != nil {
		return false, err
	}
	rb, err := g.Find(b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}

// GetClass returns the class currently holding id, canonicalizing first.
// Returns a NotFoundError for identifiers this graph never minted.
func (g *Graph) GetClass(id term.ID) (*Class, error) {
	root, err := g.Find(id)
	if err != nil {
		return nil, err
	}
	return g.classes[root], nil
}

// Len returns the number of classes ever created, including superseded ones.
func (g *Graph) Len() int {
	return len(g.classes)
}

// CanonicalCount returns the number of distinct canonical classes.
func (g *Graph) CanonicalCount() int {
	roots := make(map[term.ID]struct{})
	for id := range g.classes {
		roots[g.uf.Find(id)] = struct{}{}
	}
	return len(roots)
}

// NodeCount returns the number of entries in the hash-cons table. After a
// Rebuild this is the number of distinct canonical nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.hashcons)
}

// Pending returns the number of classes awaiting congruence repair.
// Zero means equivalence queries are trustworthy.
func (g *Graph) Pending() int {
	return len(g.worklist)
}
