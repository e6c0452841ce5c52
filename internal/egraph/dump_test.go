package egraph_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/testutil"
)

// Golden files are the source of truth for the dump layout. Regenerate with:
//
//	go test ./internal/egraph -update
func dumpGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDump_KleeneStarGolden(t *testing.T) {
	g, _, _, _ := testutil.KleeneGraph(t)

	dumpGoldie(t).Assert(t, "kleene-star", []byte(g.Dump()))
}

func TestDump_CongruenceCascadeGolden(t *testing.T) {
	g := egraph.New()

	a := testutil.MustAdd(t, g, "a")
	two := testutil.MustAdd(t, g, "2")
	mul := testutil.MustAdd(t, g, "*", a, two)
	testutil.MustAdd(t, g, "/", mul, two)
	one := testutil.MustAdd(t, g, "1")
	shift := testutil.MustAdd(t, g, "<<", a, one)
	testutil.MustAdd(t, g, "/", shift, two)
	testutil.MustMerge(t, g, mul, shift)
	g.Rebuild()
	testutil.RequireSound(t, g)

	dumpGoldie(t).Assert(t, "congruence-cascade", []byte(g.Dump()))
}

func TestDump_Deterministic(t *testing.T) {
	build := func() *egraph.Graph {
		g, _, _, _ := testutil.KleeneGraph(t)
		return g
	}

	// Map iteration order must not leak into the dump.
	first := build().Dump()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build().Dump())
	}
}

func TestDump_ListsPendingRepairs(t *testing.T) {
	g := egraph.New()
	a := testutil.MustAdd(t, g, "a")
	b := testutil.MustAdd(t, g, "b")
	testutil.MustMerge(t, g, a, b)

	assert.Contains(t, g.Dump(), "1 pending")
	g.Rebuild()
	assert.Contains(t, g.Dump(), "0 pending")
}

func TestFingerprint_TracksCanonicalStructure(t *testing.T) {
	g1, _, _, _ := testutil.KleeneGraph(t)
	g2, _, _, _ := testutil.KleeneGraph(t)

	require.Equal(t, g1.Fingerprint(), g2.Fingerprint(),
		"same operation sequence must produce the same fingerprint")
	require.Len(t, g1.Fingerprint(), 64)

	// Any structural difference shows up.
	g3 := egraph.New()
	testutil.MustAdd(t, g3, "a")
	assert.NotEqual(t, g1.Fingerprint(), g3.Fingerprint())
}

func TestFingerprint_StableAcrossRebuilds(t *testing.T) {
	g, _, _, _ := testutil.KleeneGraph(t)

	before := g.Fingerprint()
	g.Rebuild()
	assert.Equal(t, before, g.Fingerprint())
}

func TestDump_Shape(t *testing.T) {
	g, _, _, _ := testutil.KleeneGraph(t)
	dump := g.Dump()

	lines := strings.Split(dump, "\n")
	assert.Equal(t, "e-graph: 2 canonical classes (3 total), 3 nodes, 0 pending", lines[0])
	assert.Contains(t, dump, "class 1\n")
	assert.Contains(t, dump, "union-find:\n")
	assert.Contains(t, dump, "  3 -> 1\n", "the merged product points at the leaf's root")
}
