// Package diag collects and ranks the diagnostics produced by the
// analysis pipeline.
//
// What:
//
//   - Diagnostic: severity (Error/Warning), a stable Kind tag, a
//     human-readable message, a source span, and the stream ids involved.
//   - Collector: an append-only accumulator. Analysis never stops at the
//     first problem; each stage records what it found and continues with
//     best-effort placeholder bindings, so one run reports as many
//     independent problems as possible.
//   - Ranking: Sorted() orders diagnostics by source position, errors
//     before warnings at the same position, preserving report order for
//     exact ties.
//
// Why:
//
//	The core must stay free of terminal state (no colors, no logger):
//	it only produces structured Diagnostic values, and the excluded
//	reporting layer decides how to render them. That separation also
//	makes every analysis stage testable without terminal capture.
//
// Errors:
//
//	Err() folds all Error-severity diagnostics into a single error via
//	hashicorp/go-multierror, or nil when the run is clean. Individual
//	diagnostics implement the error interface themselves.
package diag
