package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/egraph-go/egraph/internal/egraph"
	"github.com/egraph-go/egraph/internal/script"
)

// Scenario is one script file to run under the harness.
type Scenario struct {
	// Name is the script's declared name, used for golden file lookup.
	Name string

	// Path locates the script file.
	Path string

	Script *script.Script
}

// Outcome is a completed scenario run.
type Outcome struct {
	Scenario *Scenario
	Trace    []TraceEvent
	Result   *script.Result
	Graph    *egraph.Graph
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &Scenario{Name: s.Name, Path: path, Script: s}, nil
}

// Discover loads every .yaml scenario in dir, sorted by filename.
func Discover(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover scenarios: %w", err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}

	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Path < scenarios[j].Path })
	return scenarios, nil
}

// Run executes the scenario against a fresh graph and captures its trace.
func Run(s *Scenario) (*Outcome, error) {
	g := egraph.New()
	rec := newTraceRecorder()

	res, err := script.Execute(context.Background(), s.Script, g, rec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return &Outcome{
		Scenario: s,
		Trace:    rec.events,
		Result:   res,
		Graph:    g,
	}, nil
}

// Snapshot renders the outcome as deterministic text for golden comparison.
func (o *Outcome) Snapshot() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", o.Scenario.Name)
	b.WriteString("trace:\n")
	for _, e := range o.Trace {
		fmt.Fprintf(&b, "  %s\n", e)
	}

	if o.Result.Passed() {
		b.WriteString("assertions: passed\n")
	} else {
		b.WriteString("assertions: failed\n")
		for _, f := range o.Result.Failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.Assertion, f.Message)
		}
	}

	fmt.Fprintf(&b, "fingerprint: %s\n", o.Result.Fingerprint)
	b.WriteString(o.Graph.Dump())

	return []byte(b.String())
}
