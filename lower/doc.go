// Package lower resolves a parsed specification into the stream graph.
//
// What:
//
//   - One graph node per declaration, in declaration order (inputs,
//     then outputs, then triggers). A name declared twice produces a
//     DuplicateDeclaration diagnostic; later references resolve to the
//     first declaration so analysis can continue.
//   - One graph edge per stream access inside an expression. The access
//     syntax fixes the offset kind: offset 0 (and the plain synchronous
//     access) lowers to Current, a negative offset to Lookback, a
//     positive one to Lookahead, window syntax to a WindowRef edge.
//   - An identifier with no declaration produces exactly one
//     UndeclaredStream diagnostic per occurrence; the edge is dropped
//     and lowering continues.
//
// After Lower returns, the graph is sealed and every edge has both
// endpoints present: no dangling references can reach the later stages.
//
// Complexity: O(D + N) for D declarations and N expression nodes.
//
// All user-facing problems are reported into the diag.Collector; Lower
// itself only fails on internal misuse (a nil specification).
package lower
