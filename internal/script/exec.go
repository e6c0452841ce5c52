package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/term"
)

// Recorder receives every successful graph operation during execution.
// The journal's Session implements it; a nil Recorder disables recording.
type Recorder interface {
	RecordAdd(ctx context.Context, symbol string, children []term.ID, result term.ID) error
	RecordMerge(ctx context.Context, a, b term.ID, result term.ID) error
	RecordRebuild(ctx context.Context) error
}

// Failure is one assertion that did not hold.
type Failure struct {
	Assertion string `json:"assertion"`
	Message   string `json:"message"`
}

// Result reports an executed script.
type Result struct {
	// Bindings maps script names to the class ids they bound.
	Bindings map[string]term.ID `json:"bindings"`

	// Classes is the number of canonical classes after the final rebuild.
	Classes int `json:"classes"`

	// Fingerprint is the content-addressed identity of the final graph.
	Fingerprint string `json:"fingerprint"`

	// Failures lists assertions that did not hold. Empty means passed.
	Failures []Failure `json:"failures,omitempty"`
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Execute runs the script against g, recording each successful operation to
// rec when non-nil. A rebuild is always performed before assertions are
// evaluated, so they only ever observe congruence-closed state.
//
// Execution errors (an unbound name slipping past validation, a recorder
// write failing) abort with an error; assertion failures do not, they are
// reported in the Result.
func Execute(ctx context.Context, s *Script, g *egraph.Graph, rec Recorder) (*Result, error) {
	bindings := make(map[string]term.ID)

	resolve := func(name string) (term.ID, error) {
		id, ok := bindings[name]
		if !ok {
			return 0, fmt.Errorf("unbound name %q", name)
		}
		return id, nil
	}

	for i, step := range s.Steps {
		switch {
		case step.Add != nil:
			children := make([]term.ID, len(step.Add.Children))
			for j, ref := range step.Add.Children {
				id, err := resolve(ref)
				if err != nil {
					return nil, fmt.Errorf("steps[%d]: %w", i, err)
				}
				children[j] = id
			}
			id, err := g.Add(step.Add.Symbol, children)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: add %s: %w", i, step.Add.Symbol, err)
			}
			if step.Add.As != "" {
				bindings[step.Add.As] = id
			}
			slog.Debug("script add", "step", i, "symbol", step.Add.Symbol, "id", id)
			if rec != nil {
				if err := rec.RecordAdd(ctx, step.Add.Symbol, children, id); err != nil {
					return nil, fmt.Errorf("steps[%d]: record add: %w", i, err)
				}
			}

		case step.Merge != nil:
			a, err := resolve(step.Merge[0])
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
			b, err := resolve(step.Merge[1])
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
			root, err := g.Merge(a, b)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: merge: %w", i, err)
			}
			slog.Debug("script merge", "step", i, "a", a, "b", b, "root", root)
			if rec != nil {
				if err := rec.RecordMerge(ctx, a, b, root); err != nil {
					return nil, fmt.Errorf("steps[%d]: record merge: %w", i, err)
				}
			}

		case step.Rebuild:
			g.Rebuild()
			slog.Debug("script rebuild", "step", i)
			if rec != nil {
				if err := rec.RecordRebuild(ctx); err != nil {
					return nil, fmt.Errorf("steps[%d]: record rebuild: %w", i, err)
				}
			}
		}
	}

	// Assertions are only trustworthy on congruence-closed state.
	g.Rebuild()
	if rec != nil {
		if err := rec.RecordRebuild(ctx); err != nil {
			return nil, fmt.Errorf("record final rebuild: %w", err)
		}
	}

	result := &Result{
		Bindings:    bindings,
		Classes:     g.CanonicalCount(),
		Fingerprint: g.Fingerprint(),
	}

	if s.Asserts != nil {
		result.Failures = evaluate(s.Asserts, g, bindings)
	}
	return result, nil
}

func evaluate(a *Asserts, g *egraph.Graph, bindings map[string]term.ID) []Failure {
	var failures []Failure

	check := func(pair []string, wantEquiv bool) {
		eq, err := g.Equivalent(bindings[pair[0]], bindings[pair[1]])
		if err != nil {
			failures = append(failures, Failure{
				Assertion: "equiv",
				Message:   err.Error(),
			})
			return
		}
		if eq != wantEquiv {
			kind := "equiv"
			verb := "are not equivalent"
			if !wantEquiv {
				kind = "distinct"
				verb = "are equivalent"
			}
			failures = append(failures, Failure{
				Assertion: kind,
				Message:   fmt.Sprintf("%s and %s %s", pair[0], pair[1], verb),
			})
		}
	}

	for _, pair := range a.Equiv {
		check(pair, true)
	}
	for _, pair := range a.Distinct {
		check(pair, false)
	}
	if a.Classes != nil && g.CanonicalCount() != *a.Classes {
		failures = append(failures, Failure{
			Assertion: "classes",
			Message:   fmt.Sprintf("expected %d canonical classes, have %d", *a.Classes, g.CanonicalCount()),
		})
	}

	return failures
}
