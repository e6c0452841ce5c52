package union

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egraph-go/egraph/internal/term"
)

func TestFind_LazyRegistration(t *testing.T) {
	d := New()

	// An unseen identifier is implicitly its own representative.
	assert.Equal(t, term.ID(7), d.Find(7))
	assert.Equal(t, 1, d.Len())
}

func TestFind_Idempotent(t *testing.T) {
	d := New()
	d.Union(1, 2)
	d.Union(2, 3)
	d.Union(4, 5)

	for _, id := range []term.ID{1, 2, 3, 4, 5} {
		assert.Equal(t, d.Find(id), d.Find(d.Find(id)), "find(find(%d)) != find(%d)", id, id)
	}
}

func TestUnion_FirstArgumentRootWins(t *testing.T) {
	d := New()

	root := d.Union(1, 2)
	assert.Equal(t, term.ID(1), root)
	assert.Equal(t, term.ID(1), d.Find(2))

	// Union through non-root members still resolves to the first
	// argument's root.
	root = d.Union(2, 3)
	assert.Equal(t, term.ID(1), root)
	assert.Equal(t, term.ID(1), d.Find(3))
}

func TestUnion_SameRootIsNoOp(t *testing.T) {
	d := New()
	d.Union(1, 2)

	before := d.Snapshot()
	root := d.Union(2, 1)
	assert.Equal(t, term.ID(1), root)
	assert.Equal(t, before, d.Snapshot())
}

func TestFind_PathCompression(t *testing.T) {
	d := New()
	// Build the chain 3 -> 2 -> 1.
	d.Union(1, 2)
	d.Union(2, 3)

	require.Equal(t, term.ID(1), d.Find(3))

	// After compression every identifier points directly at the root.
	for _, e := range d.Snapshot() {
		assert.Equal(t, term.ID(1), e.Parent, "id %d not compressed", e.ID)
	}
}

func TestSnapshot_Sorted(t *testing.T) {
	d := New()
	d.Find(5)
	d.Find(1)
	d.Find(3)

	entries := d.Snapshot()
	require.Len(t, entries, 3)
	assert.Equal(t, term.ID(1), entries[0].ID)
	assert.Equal(t, term.ID(3), entries[1].ID)
	assert.Equal(t, term.ID(5), entries[2].ID)
}
