package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/term"
)

// capturedOp is one recorded call, flattened for assertions.
type capturedOp struct {
	kind   string
	symbol string
	a, b   term.ID
	result term.ID
}

type captureRecorder struct {
	ops  []capturedOp
	fail error
}

func (r *captureRecorder) RecordAdd(_ context.Context, symbol string, _ []term.ID, result term.ID) error {
	if r.fail != nil {
		return r.fail
	}
	r.ops = append(r.ops, capturedOp{kind: "add", symbol: symbol, result: result})
	return nil
}

func (r *captureRecorder) RecordMerge(_ context.Context, a, b, result term.ID) error {
	if r.fail != nil {
		return r.fail
	}
	r.ops = append(r.ops, capturedOp{kind: "merge", a: a, b: b, result: result})
	return nil
}

func (r *captureRecorder) RecordRebuild(_ context.Context) error {
	if r.fail != nil {
		return r.fail
	}
	r.ops = append(r.ops, capturedOp{kind: "rebuild"})
	return nil
}

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func TestExecute_KleeneStar(t *testing.T) {
	s := mustParse(t, kleeneYAML)
	g := egraph.New()

	res, err := Execute(context.Background(), s, g, nil)
	require.NoError(t, err)

	assert.True(t, res.Passed())
	assert.Empty(t, res.Failures)
	assert.Equal(t, 2, res.Classes)
	assert.NotEmpty(t, res.Fingerprint)
	assert.Equal(t, term.ID(1), res.Bindings["a"])
	assert.Equal(t, term.ID(3), res.Bindings["mul"])

	eq, err := g.Equivalent(res.Bindings["a"], res.Bindings["mul"])
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestExecute_FinalRebuildBeforeAsserts(t *testing.T) {
	// No explicit rebuild step; the equiv assertion still sees the
	// congruence-closed graph.
	src := `
name: implicit-rebuild
steps:
  - add: {symbol: x, as: x}
  - add: {symbol: y, as: y}
  - add: {symbol: f, children: [x], as: fx}
  - add: {symbol: f, children: [y], as: fy}
  - merge: [x, y]
asserts:
  equiv:
    - [fx, fy]
`
	res, err := Execute(context.Background(), mustParse(t, src), egraph.New(), nil)
	require.NoError(t, err)
	assert.True(t, res.Passed(), "failures: %v", res.Failures)
}

func TestExecute_ReportsAssertionFailures(t *testing.T) {
	src := `
name: failing
steps:
  - add: {symbol: a, as: a}
  - add: {symbol: b, as: b}
asserts:
  equiv:
    - [a, b]
  classes: 1
`
	res, err := Execute(context.Background(), mustParse(t, src), egraph.New(), nil)
	require.NoError(t, err, "assertion failures are reported, not returned")

	assert.False(t, res.Passed())
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "equiv", res.Failures[0].Assertion)
	assert.Contains(t, res.Failures[0].Message, "are not equivalent")
	assert.Equal(t, "classes", res.Failures[1].Assertion)
}

func TestExecute_AssertsEmptyGraph(t *testing.T) {
	// Zero is a real expectation, distinct from leaving classes unset.
	src := `
name: empty
steps: []
asserts:
  classes: 0
`
	res, err := Execute(context.Background(), mustParse(t, src), egraph.New(), nil)
	require.NoError(t, err)
	assert.True(t, res.Passed(), "failures: %v", res.Failures)
	assert.Equal(t, 0, res.Classes)
}

func TestExecute_DistinctFailure(t *testing.T) {
	src := `
name: failing-distinct
steps:
  - add: {symbol: a, as: a}
  - add: {symbol: b, as: b}
  - merge: [a, b]
asserts:
  distinct:
    - [a, b]
`
	res, err := Execute(context.Background(), mustParse(t, src), egraph.New(), nil)
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "distinct", res.Failures[0].Assertion)
	assert.Contains(t, res.Failures[0].Message, "are equivalent")
}

func TestExecute_RecordsEveryOp(t *testing.T) {
	s := mustParse(t, kleeneYAML)
	rec := &captureRecorder{}

	_, err := Execute(context.Background(), s, egraph.New(), rec)
	require.NoError(t, err)

	kinds := make([]string, len(rec.ops))
	for i, op := range rec.ops {
		kinds[i] = op.kind
	}
	// Three adds, the merge, the explicit rebuild, then the implicit
	// final rebuild.
	assert.Equal(t, []string{"add", "add", "add", "merge", "rebuild", "rebuild"}, kinds)

	assert.Equal(t, capturedOp{kind: "add", symbol: "a", result: 1}, rec.ops[0])
	assert.Equal(t, capturedOp{kind: "merge", a: 3, b: 1, result: 3}, rec.ops[3])
}

func TestExecute_RecorderErrorAborts(t *testing.T) {
	s := mustParse(t, kleeneYAML)
	boom := errors.New("disk full")
	rec := &captureRecorder{fail: boom}

	_, err := Execute(context.Background(), s, egraph.New(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestExecute_NoAsserts(t *testing.T) {
	src := `
name: bare
steps:
  - add: {symbol: a, as: a}
`
	res, err := Execute(context.Background(), mustParse(t, src), egraph.New(), nil)
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Equal(t, 1, res.Classes)
}

func TestExecute_DeterministicFingerprint(t *testing.T) {
	s := mustParse(t, kleeneYAML)

	r1, err := Execute(context.Background(), s, egraph.New(), nil)
	require.NoError(t, err)
	r2, err := Execute(context.Background(), s, egraph.New(), nil)
	require.NoError(t, err)

	assert.Equal(t, r1.Fingerprint, r2.Fingerprint)
}
