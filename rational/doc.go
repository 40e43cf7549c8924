// Package rational provides exact non-negative rational arithmetic and
// unit-tagged quantities (frequencies in hertz, durations in seconds)
// for the analysis pipeline.
//
// What:
//
//   - Rat: an always-normalized non-negative rational number backed by
//     int64 numerator/denominator. Supports Add, Sub, Mul, Div, Cmp,
//     GCD, LCM, integer-multiple checks, and ceiling conversion to int.
//   - Quantity: a Rat tagged with a physical Unit (Scalar, Hertz,
//     Second). Arithmetic canonicalizes to base units and rejects
//     incompatible combinations (e.g. adding a duration to a frequency).
//
// Why:
//
//	Every scheduling decision in the pipeline (clock compatibility,
//	hyper-period computation, window-to-sample conversion) must be
//	deterministic and reproducible. Floating point is therefore banned
//	from this layer entirely; all comparisons are exact.
//
// Complexity:
//
//   - All operations: O(log min(num, den)) for the gcd normalization.
//   - Memory: O(1) per value; Rat and Quantity are plain value types.
//
// Errors:
//
//   - ErrZeroDenominator  denominator of zero passed to New or Div
//   - ErrNegative         operation would produce a negative rational
//   - ErrUnitMismatch     incompatible units combined in Quantity math
package rational
