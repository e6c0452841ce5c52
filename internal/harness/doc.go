// Package harness runs script scenarios end to end and snapshots their
// traces for golden-file comparison.
//
// A scenario is an ordinary script file. The harness executes it against a
// fresh graph, captures every operation in order, and renders a
// deterministic snapshot (operation trace, assertion outcome, canonical
// dump, fingerprint). Golden files under testdata/golden pin the expected
// snapshots; regenerate them with:
//
//	go test ./internal/harness -update
package harness
