// Package pacing assigns an evaluation clock to every stream.
//
// What:
//
//   - Pacing: the clock lattice — Periodic (an exact rational frequency
//     in hertz) or EventDriven (the set of streams whose activation
//     fires the clock). Pacing.Unify is the meet: two periodic clocks
//     merge to the faster iff the faster frequency is an exact integer
//     multiple of the slower (checked with rational arithmetic, never
//     floats); two event-driven clocks merge to the union of their
//     activation sets (logical OR); periodic against event-driven is a
//     hard conflict.
//   - Infer: inputs get their declared clock (a literal frequency, or
//     event-driven on their own arrival when undeclared). Output and
//     trigger clocks are either annotated or inferred from the streams
//     referenced at Current offset — lookback, lookahead, and window
//     references read retained history and therefore do not constrain
//     the referencing stream's clock. Inference runs as a bounded
//     fixpoint; every binding is posted speculatively (snapshot, try,
//     roll back on conflict) so a clash never corrupts shared state.
//
// Decisions on the policy points left open by the language:
//
//   - Event-driven combination uses OR semantics; an explicit event
//     annotation joins the same union. WithStrictEventAnnotations makes
//     a narrower-than-inferred annotation an InconsistentPacing finding.
//   - A stream with no Current-offset dependencies falls back to the
//     clocks of all its references; with no references at all, its
//     clock cannot be inferred and must be annotated.
//   - Lookahead is decidable only against a periodic target; a
//     lookahead on an event-driven stream is InconsistentPacing.
//
// Errors:
//
//   - ErrInconsistent  periodic and event-driven clocks met unsynchronized
//   - ErrFrequency     two periodic clocks with a non-integer ratio
//
// User-facing findings land in the diag.Collector as InconsistentPacing
// or IncompatibleFrequency.
package pacing
