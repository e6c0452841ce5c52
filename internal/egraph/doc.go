// Package egraph implements the e-graph: a compact representation of a large
// set of terms known to be equivalent under a merge relation, together with
// the incremental algorithm that keeps it congruence-closed.
//
// ARCHITECTURE:
//
// Arena of classes indexed by integer ID:
// Classes are stored in a map keyed by ID; nodes are plain values carrying
// child IDs. There are no owning pointers between classes, so cyclic
// e-graphs (a class containing a node that references the class itself) are
// represented without any cyclic-ownership problems.
//
// Deferred consistency with a worklist:
// Merge only unions the disjoint-set and schedules the merged class;
// Rebuild drains the worklist to a fixed point and repairs congruence.
// This two-phase contract amortizes repair cost across many merges. Eager
// repair on every merge is both slower and a classic source of infinite
// recursion; do not reintroduce it.
//
// Hash-cons key discipline:
// The hashcons table is keyed by canonical nodes only: nodes whose children
// are fixed points of Find at the time the key is computed. Repair deletes
// the key a parent was last interned under and reinserts under the fresh
// canonical key, so no stale keys survive a completed Rebuild. This single
// discipline is enforced by CheckInvariants.
//
// The graph is single-threaded by design: no locks, no background work.
// A concurrent host must treat the whole graph as one shared resource behind
// an exclusive lock, and only trust equivalence queries immediately after a
// Rebuild.
package egraph
