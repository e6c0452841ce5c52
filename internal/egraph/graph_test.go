package egraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/term"
	"github.com/egraph-go/egraph/internal/testutil"
)

func TestAdd_MintsSequentialIDs(t *testing.T) {
	g := egraph.New()

	a := testutil.MustAdd(t, g, "a")
	b := testutil.MustAdd(t, g, "b")

	assert.Equal(t, term.ID(1), a)
	assert.Equal(t, term.ID(2), b)
	assert.Equal(t, 2, g.Len())
}

func TestAdd_DedupsStructurallyEqualNodes(t *testing.T) {
	g := egraph.New()

	a := testutil.MustAdd(t, g, "a")
	two := testutil.MustAdd(t, g, "2")
	mul1 := testutil.MustAdd(t, g, "*", a, two)
	mul2 := testutil.MustAdd(t, g, "*", a, two)

	assert.Equal(t, mul1, mul2, "same (symbol, children) must intern to one class")
	assert.Equal(t, 3, g.Len(), "dedup must not create a second class")

	// Leaves dedup too, in either insertion order.
	assert.Equal(t, a, testutil.MustAdd(t, g, "a"))
	assert.Equal(t, two, testutil.MustAdd(t, g, "2"))
}

func TestAdd_DedupsThroughCanonicalization(t *testing.T) {
	g := egraph.New()

	a := testutil.MustAdd(t, g, "a")
	b := testutil.MustAdd(t, g, "b")
	one := testutil.MustAdd(t, g, "1")
	fa := testutil.MustAdd(t, g, "f", a, one)

	testutil.MustMerge(t, g, a, b)
	g.Rebuild()

	// f(b, 1) canonicalizes to f(a, 1): no new class.
	fb := testutil.MustAdd(t, g, "f", b, one)
	testutil.RequireEquiv(t, g, fa, fb)
	assert.Equal(t, 4, g.Len())
}

func TestAdd_UnknownChildIsError(t *testing.T) {
	g := egraph.New()

	_, err := g.Add("f", []term.ID{42})
	require.Error(t, err)
	assert.True(t, egraph.IsNotFound(err))
	assert.Equal(t, 0, g.Len(), "failed add must not create a class")
}

func TestFind_UnknownIDIsError(t *testing.T) {
	g := egraph.New()
	testutil.MustAdd(t, g, "a")

	_, err := g.Find(2)
	require.Error(t, err)
	assert.True(t, egraph.IsNotFound(err))

	_, err = g.Find(0)
	assert.True(t, egraph.IsNotFound(err), "zero is never a minted id")

	_, err = g.Find(-1)
	assert.True(t, egraph.IsNotFound(err))
}

func TestGetClass_ReturnsMembers(t *testing.T) {
	g := egraph.New()
	a := testutil.MustAdd(t, g, "a")

	class, err := g.GetClass(a)
	require.NoError(t, err)
	require.Equal(t, 1, class.Len())
	assert.Equal(t, "a", class.Nodes()[0].String())
}

func TestGetClass_UnknownIDIsError(t *testing.T) {
	g := egraph.New()

	_, err := g.GetClass(1)
	require.Error(t, err)
	assert.True(t, egraph.IsNotFound(err))

	var nf *egraph.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, term.ID(1), nf.ID)
}

func TestGetClass_CanonicalizesFirst(t *testing.T) {
	g := egraph.New()
	a := testutil.MustAdd(t, g, "a")
	b := testutil.MustAdd(t, g, "b")
	testutil.MustMerge(t, g, a, b)
	g.Rebuild()

	// Looking up through the superseded id lands on the merged class.
	ca, err := g.GetClass(a)
	require.NoError(t, err)
	cb, err := g.GetClass(b)
	require.NoError(t, err)
	assert.Same(t, ca, cb)
	assert.Equal(t, 2, ca.Len())
}

func TestClassData_AnalysisPayloadSurvivesMerge(t *testing.T) {
	g := egraph.New()
	a := testutil.MustAdd(t, g, "a")
	b := testutil.MustAdd(t, g, "b")

	ca, err := g.GetClass(a)
	require.NoError(t, err)
	ca.Data = 42

	testutil.MustMerge(t, g, a, b)
	g.Rebuild()

	merged, err := g.GetClass(b)
	require.NoError(t, err)
	assert.Equal(t, 42, merged.Data, "the surviving root's payload is kept")
}
