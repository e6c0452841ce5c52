// Package script provides declarative e-graph scripts: YAML documents that
// build a graph step by step (add, merge, rebuild) and assert on the
// resulting canonical structure.
//
// Scripts are the driver layer over the core graph: they consume only its
// public operations. Steps bind names to the class ids they produce, and
// later steps reference those names instead of raw ids, so a script stays
// valid even though ids are an implementation detail of interning order.
//
// Every script is validated against the embedded CUE schema before
// execution, so malformed documents fail with a field path rather than a
// nil-map panic halfway through a run.
package script
