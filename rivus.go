package rivus

import (
	"errors"

	"github.com/katalvlaran/rivus/analyze"
	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/lower"
	"github.com/katalvlaran/rivus/pacing"
	"github.com/katalvlaran/rivus/types"
)

// ErrNilSpec is returned when Analyze receives a nil specification.
var ErrNilSpec = errors.New("rivus: specification is nil")

// Option configures an Analyze run.
type Option func(*Options)

// Options holds the pipeline policy points.
type Options struct {
	// StrictEventAnnotations forwards the strict pacing-annotation
	// policy: an explicit event annotation must cover the inferred
	// activation set instead of joining it.
	StrictEventAnnotations bool
}

// DefaultOptions returns the lenient defaults.
func DefaultOptions() Options {
	return Options{StrictEventAnnotations: false}
}

// WithStrictEventAnnotations enables the strict annotation policy.
func WithStrictEventAnnotations() Option {
	return func(o *Options) { o.StrictEventAnnotations = true }
}

// Result is everything the analysis derived from one specification.
type Result struct {
	// Graph is the sealed stream graph.
	Graph *graph.Graph

	// Types maps every resolved stream to its concrete value type.
	Types map[graph.StreamID]types.Type

	// Pacings maps every resolved stream to its evaluation clock.
	Pacings map[graph.StreamID]pacing.Pacing

	// Bounds maps every stream to its storage requirement.
	Bounds map[graph.StreamID]analyze.Bound

	// Order is the per-instant evaluation plan.
	Order *analyze.Order

	// Schedule is the condensed deadline table of the periodic streams.
	Schedule *analyze.Schedule

	// Diagnostics collected across all passes, in report order.
	Diagnostics []diag.Diagnostic

	// Valid reports whether the specification is well-formed: no
	// Error-severity diagnostic was raised. Warnings do not affect it.
	Valid bool
}

// Err folds the error-severity diagnostics into one error, or nil for a
// valid specification.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	sink := diag.NewCollector()
	for _, d := range r.Diagnostics {
		sink.Report(d)
	}

	return sink.Err()
}

// Analyze runs the full pipeline on a parsed specification: lowering,
// type checking, pacing inference, and the graph analyses. It returns a
// Result even when the specification is ill-formed; only misuse (a nil
// spec) yields an error. Every pass keeps going past user-level
// problems so one run reports as many independent findings as possible.
func Analyze(spec *ast.Spec, opts ...Option) (*Result, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	sink := diag.NewCollector()

	// 1. Naming and lowering: the sealed stream graph.
	g, err := lower.Lower(spec, sink)
	if err != nil {
		return nil, err
	}

	// 2. Value types.
	tys, err := types.Check(g, sink)
	if err != nil {
		return nil, err
	}

	// 3. Evaluation clocks.
	var popts []pacing.Option
	if o.StrictEventAnnotations {
		popts = append(popts, pacing.WithStrictEventAnnotations())
	}
	pcs, err := pacing.Infer(g, sink, popts...)
	if err != nil {
		return nil, err
	}

	// 4. Graph analyses: cycles first, then the derived artifacts.
	if err = analyze.Cycles(g, sink); err != nil {
		return nil, err
	}
	if err = analyze.MarkFutureDependent(g); err != nil {
		return nil, err
	}
	bounds, err := analyze.Memory(g, pcs)
	if err != nil {
		return nil, err
	}
	// A cycle already reported as IllegalCycle would leave the scheduler
	// stuck on the same nodes; its leftover reporting is muted then, so
	// SchedulingCycle stays reserved for genuine invariant violations.
	ordSink := sink
	if hasIllegalCycle(sink) {
		ordSink = diag.NewCollector()
	}
	order, err := analyze.EvalOrder(g, ordSink)
	if err != nil {
		return nil, err
	}
	sched, err := analyze.BuildSchedule(g, pcs)
	if err != nil {
		return nil, err
	}

	// 5. Advisory findings on the finished graph.
	warnUnused(g, sink)

	return &Result{
		Graph:       g,
		Types:       tys,
		Pacings:     pcs,
		Bounds:      bounds,
		Order:       order,
		Schedule:    sched,
		Diagnostics: sink.Sorted(),
		Valid:       !sink.HasErrors(),
	}, nil
}

// hasIllegalCycle reports whether sink already holds an IllegalCycle
// finding.
func hasIllegalCycle(sink *diag.Collector) bool {
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.IllegalCycle {
			return true
		}
	}

	return false
}

// warnUnused flags input streams nothing reads. They cost ingestion
// work at runtime without influencing any output or trigger.
func warnUnused(g *graph.Graph, sink *diag.Collector) {
	for _, s := range g.Streams() {
		if s.Kind != graph.KindInput {
			continue
		}
		dependents, _ := g.Dependents(s.ID)
		if len(dependents) == 0 {
			sink.Warnf(diag.UnusedStream, s.Span, []graph.StreamID{s.ID},
				"input %q is never referenced", s.Name)
		}
	}
}
