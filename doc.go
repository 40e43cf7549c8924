// Package rivus is the semantic-analysis core of a stream-based
// runtime-monitoring specification language: it takes a parsed
// specification and answers whether it is well-formed, and if so, what
// a runtime needs to execute it.
//
// 🚀 What does rivus do?
//
//	One call, Analyze, runs the full pipeline:
//		• Lowering: declarations and expressions become a stream graph
//		• Type checking: a value type per stream, with physical units
//		• Pacing inference: an evaluation clock per stream
//		• Graph analyses: cycle legality, per-stream memory bounds,
//		  evaluation order & layers, the periodic deadline schedule
//
// ✨ Design points
//
//   - Exact arithmetic – frequencies and durations are rationals, never
//     floats, so 10Hz against 3Hz is a clean error, not a rounding haze
//   - Keep going on error – problems are collected as Diagnostic values
//     and analysis continues; one run reports many independent findings
//   - Deterministic – equal inputs give equal results, ties break by
//     declaration order
//
// Everything is organized under flat subpackages:
//
//	rational/ — exact non-negative rationals & unit-tagged quantities
//	unify/    — journaled union-find behind both inference lattices
//	ast/      — the parser-facing declaration & expression types
//	diag/     — diagnostic kinds, severities, and the collector
//	graph/    — the stream graph arena: nodes, edges, offsets
//	lower/    — AST → graph with name resolution
//	types/    — the value-type lattice and checker
//	pacing/   — the clock lattice and fixpoint inference
//	analyze/  — cycles, memory bounds, evaluation order, schedule
//
// Quick sketch of a monitored system:
//
//	input  altitude : Float64
//	output low      := altitude < 200.0
//	trigger low "altitude below safety margin"
//
// Concurrency model: an Analyze call owns every structure it builds;
// nothing is shared, so distinct calls may run concurrently while a
// single Result must not be mutated from multiple goroutines.
//
//	go get github.com/katalvlaran/rivus
package rivus
