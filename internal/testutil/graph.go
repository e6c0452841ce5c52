// Package testutil provides shared helpers for building e-graphs in tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/term"
)

// MustAdd interns a node and fails the test on error.
func MustAdd(t *testing.T, g *egraph.Graph, symbol string, children ...term.ID) term.ID {
	t.Helper()
	id, err := g.Add(symbol, children)
	require.NoError(t, err, "add %s", symbol)
	return id
}

// MustMerge merges two classes and fails the test on error.
func MustMerge(t *testing.T, g *egraph.Graph, a, b term.ID) term.ID {
	t.Helper()
	root, err := g.Merge(a, b)
	require.NoError(t, err, "merge %d %d", a, b)
	return root
}

// RequireEquiv asserts that a and b are in the same canonical class.
func RequireEquiv(t *testing.T, g *egraph.Graph, a, b term.ID) {
	t.Helper()
	eq, err := g.Equivalent(a, b)
	require.NoError(t, err)
	require.True(t, eq, "expected %d and %d to be equivalent", a, b)
}

// RequireDistinct asserts that a and b are in different canonical classes.
func RequireDistinct(t *testing.T, g *egraph.Graph, a, b term.ID) {
	t.Helper()
	eq, err := g.Equivalent(a, b)
	require.NoError(t, err)
	require.False(t, eq, "expected %d and %d to be distinct", a, b)
}

// RequireSound asserts that all structural invariants hold.
// Call after every Rebuild in tests.
func RequireSound(t *testing.T, g *egraph.Graph) {
	t.Helper()
	require.NoError(t, g.CheckInvariants())
}

// KleeneGraph builds the Kleene-star collapse scenario: leaves "a" and "1",
// the node *(a, 1), then merges a with the product and rebuilds. Returns the
// graph and the ids of a, 1, and the product.
func KleeneGraph(t *testing.T) (g *egraph.Graph, a, one, mul term.ID) {
	t.Helper()
	g = egraph.New()
	a = MustAdd(t, g, "a")
	one = MustAdd(t, g, "1")
	mul = MustAdd(t, g, "*", a, one)
	MustMerge(t, g, a, mul)
	g.Rebuild()
	return g, a, one, mul
}
