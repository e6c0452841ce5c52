package term

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID identifies an e-class. IDs are minted by the graph's counter starting
// at 1; the zero value is never a valid class identifier.
type ID int64

// Node is an immutable structural term: a symbol applied to an ordered list
// of child e-class IDs. A leaf (literal or constant) has no children.
//
// Two nodes are structurally equal iff their symbols are equal and their
// child ID lists are equal element-wise. Equality and the hash-cons key are
// defined over exactly (Symbol, Children).
type Node struct {
	Symbol   string
	Children []ID
}

// New constructs a node with the given symbol and children.
//
// The symbol is NFC normalized at this boundary so that canonically
// equivalent Unicode spellings produce the same node. The children slice is
// copied; callers may reuse their slice afterwards.
func New(symbol string, children []ID) Node {
	n := Node{Symbol: norm.NFC.String(symbol)}
	if len(children) > 0 {
		n.Children = make([]ID, len(children))
		copy(n.Children, children)
	}
	return n
}

// Leaf constructs a node with no children (a literal or constant).
func Leaf(symbol string) Node {
	return New(symbol, nil)
}

// Arity returns the number of children.
func (n Node) Arity() int {
	return len(n.Children)
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Map returns a copy of the node with every child replaced by f(child).
// The symbol is unchanged. Used by the graph to canonicalize children
// through the union-find.
func (n Node) Map(f func(ID) ID) Node {
	if len(n.Children) == 0 {
		return Node{Symbol: n.Symbol}
	}
	children := make([]ID, len(n.Children))
	for i, c := range n.Children {
		children[i] = f(c)
	}
	return Node{Symbol: n.Symbol, Children: children}
}

// Equal reports structural equality over (Symbol, Children).
func (n Node) Equal(other Node) bool {
	if n.Symbol != other.Symbol || len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		if c != other.Children[i] {
			return false
		}
	}
	return true
}

// String renders the node for diagnostics: "sym" for leaves,
// "sym(1, 2)" otherwise. Not a stable format.
func (n Node) String() string {
	if len(n.Children) == 0 {
		return n.Symbol
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("%s(%s)", n.Symbol, strings.Join(parts, ", "))
}
