// Package graph holds the stream dependency graph: the single source of
// truth for every dependency query in the analysis pipeline.
//
// What:
//
//   - Stream: one node per declared stream (input, output, or trigger),
//     addressed by a dense integer StreamID. Nodes live in an arena
//     owned by the Graph; cross-references between streams are always
//     ids, never pointers, so legal history cycles cannot create
//     ownership cycles.
//   - Reference: one edge per stream access inside an expression,
//     annotated with its temporal offset — Current (synchronous),
//     Lookback(n), Lookahead(n), or Window(duration, op). Edges are
//     kept in adjacency lists keyed by id, in both directions.
//   - Sealing: lowering builds the graph once and seals it. After Seal,
//     structural mutation fails with ErrSealed; analysis stages only
//     refine per-stream annotations (unification keys, marks).
//
// Why:
//
//	Typing, pacing, cycle detection, memory bounds, and scheduling all
//	ask the same questions — "what does this stream read, and who reads
//	it?" — so those answers live in exactly one place.
//
// Complexity:
//
//   - AddStream / AddReference / Stream / Lookup: O(1) amortized.
//   - Dependencies / Dependents: O(1) slice access.
//   - Memory: O(V + E).
//
// Errors:
//
//   - ErrDuplicateName   a stream name registered twice
//   - ErrStreamNotFound  an id or name with no node
//   - ErrBadOffset       an offset descriptor violating its invariant
//   - ErrSealed          structural mutation after Seal
package graph
