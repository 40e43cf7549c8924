// Package unify implements a union-find constraint table with tentative
// bindings, used by both the type checker and the pacing analyzer.
//
// What:
//
//   - Table[V]: a disjoint-set forest over variables (VarID) where each
//     equivalence class may carry one concrete value of type V. Merging
//     two classes (Union) or constraining a class against a concrete
//     value (Bind) funnels through V's own Unify method, so the lattice
//     semantics (what merges, what conflicts) stay with the domain.
//   - Snapshot/Rollback: every mutation — including path-compression
//     writes — is journaled on a trail, so a caller can mark the table,
//     speculatively post constraints, and restore the exact prior state
//     on conflict. Speculation replaces exception-style backtracking.
//
// Why:
//
//	Pacing inference must be able to try an assignment ("assume this
//	output is event-driven on trigger T"), observe a conflict, and
//	abandon the attempt without corrupting state shared with hundreds
//	of other streams. A journaled union-find gives that for free.
//
// Complexity:
//
//   - Find/Union/Bind: near-constant amortized (path compression +
//     union by rank), O(alpha(n)).
//   - Snapshot: O(1). Rollback: O(k) for k journaled writes since the mark.
//   - Memory: O(n + k).
//
// Errors:
//
//   - ErrUnknownVar  a VarID outside the table was passed in
//   - ErrBadMark     a Mark from another table or a stale epoch
//   - conflict errors produced by V.Unify are returned verbatim
//     (wrapped with context), so callers match them with errors.Is/As.
package unify
