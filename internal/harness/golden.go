package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its snapshot against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// Returns an error if execution itself fails; a snapshot mismatch fails the
// test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	outcome, err := Run(scenario)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, outcome.Snapshot())
	return nil
}
