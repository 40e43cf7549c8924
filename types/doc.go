// Package types infers and validates the value type of every stream.
//
// What:
//
//   - Type: the value-type lattice — Bool, String, sized Int/UInt/Float,
//     Option, Tuple, plus constraint classes (Numeric, Integer, Float,
//     Comparable, Equatable, Any) that stand in for partially known
//     types during inference. Numeric types carry an optional physical
//     unit from the rational layer.
//   - Type.Unify: the meet operation. Two concrete types merge iff they
//     are compatible (widths widen to the larger, units merge when one
//     side is dimensionless); a constraint merges with anything that
//     satisfies it. Incompatible pairs fail with ErrMismatch or
//     ErrUnits, both carrying the offending types in the message.
//   - Check: walks each stream's expression bottom-up, allocating one
//     unification variable per sub-expression and posting the
//     operator's typing rule as constraints. Declared input types are
//     fixed initial bindings, never inferred. After all constraints are
//     posted, every stream variable is resolved; bare numeric
//     constraints are defaulted speculatively (snapshot, try Int64 or
//     Float64, roll back on conflict), and anything still unresolved is
//     an AmbiguousType diagnostic.
//
// Conflicts never abort the pass: each failed constraint is reported
// and skipped, so one run surfaces every independent typing problem.
//
// Complexity: O(N alpha(N)) for N expression nodes.
//
// Errors:
//
//   - ErrMismatch  two incompatible value types (rendered with both)
//   - ErrUnits     two incompatible physical units on numeric types
//
// User-facing findings land in the diag.Collector as TypeMismatch,
// UnitMismatch, or AmbiguousType.
package types
