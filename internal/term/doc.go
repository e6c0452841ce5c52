// Package term provides the foundational term types for the e-graph.
//
// This package contains type definitions and canonical encodings only. All
// other internal packages import term; term imports nothing internal. This
// ensures it remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Nodes are plain values carrying child class IDs, never pointers into
//     the graph. All cross-references are integer lookups.
//   - Symbols are NFC normalized at construction so that visually identical
//     symbols intern to the same node.
//   - The hash-cons key encoding is unambiguous: a symbol containing
//     parentheses or commas cannot collide with a different node shape.
package term
