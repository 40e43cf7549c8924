// Package ast defines the abstract syntax tree the analysis pipeline
// consumes. It is the contract with the (external) grammar-driven parser:
// the parser produces this structure, the pipeline never sees raw text.
//
// What:
//
//   - Spec: the root node — input, output, and trigger declarations.
//   - Expression: the expression tree for outputs and triggers. Stream
//     references carry their literal temporal syntax: a signed discrete
//     offset (0 = synchronous access, negative = past, positive =
//     future) or a sliding-window aggregation over a duration.
//   - Annotations: optional declared value types (by name, with an
//     optional physical unit) and optional declared pacing (a rational
//     frequency or a set of event streams).
//   - Span: half-open source ranges attached to every node, carried
//     through to diagnostics for rendering by the excluded reporter.
//
// The package holds data only; resolution, typing, and all validation
// live in the lower, types, pacing, and analyze packages.
package ast
