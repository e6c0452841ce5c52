// Package journal provides SQLite-backed durable logging of e-graph
// operations, and replay of a logged session into a fresh graph.
//
// The journal is an append-only log of the mutating operations that matter
// for reconstruction: add (symbol + child ids + resulting class id), merge
// (operands + resulting root), and rebuild (position only; rebuilds change
// what later ops resolve to, so they must replay in place). Because the
// graph is deterministic, replaying a session's ops in seq order reproduces
// the same ids, the same canonical classes, and the same fingerprint, and
// Replay verifies all three, reporting any divergence as a structured error.
//
// Ordering uses a logical seq counter only, never wall-clock timestamps, so
// replay is deterministic regardless of when the log was written. Sessions
// are keyed by UUIDv7 tokens; fixed tokens are available for tests.
//
// Database configuration follows the usual SQLite service setup:
//   - WAL mode for concurrent reads during writes
//   - synchronous=NORMAL to balance durability and performance
//   - busy_timeout=5000 for lock contention
//   - foreign key enforcement
package journal
