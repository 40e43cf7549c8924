// Package pacing: the clock inference pass.
package pacing

import (
	"errors"

	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/unify"
)

// ErrNilGraph is returned when Infer receives a nil graph.
var ErrNilGraph = errors.New("pacing: graph is nil")

// Option configures optional behavior of Infer.
type Option func(*Options)

// Options holds the configurable policy points of pacing inference.
type Options struct {
	// StrictEventAnnotations, when set, demands that an explicit event
	// annotation covers the full inferred activation set of the stream's
	// dependencies; by default the annotation simply joins the union.
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

// inferrer carries state for one pacing pass.
type inferrer struct {
	g    *graph.Graph
	sink *diag.Collector
	opts Options
	tbl  *unify.Table[Pacing]

	// failed marks streams whose clock conflicted; they are reported
	// once and skipped afterwards so cascades stay quiet.
	failed map[graph.StreamID]bool

	// annotated remembers explicit event annotations for the strict check.
	annotated map[graph.StreamID]Pacing
}

// Infer determines the evaluation clock of every stream in g, reporting
// findings into sink. The returned map holds the concrete clock of every
// stream that resolved; conflicting or uninferable streams keep no entry
// but never abort the pass.
func Infer(g *graph.Graph, sink *diag.Collector, opts ...Option) (map[graph.StreamID]Pacing, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	in := &inferrer{
		g:         g,
		sink:      sink,
		opts:      o,
		tbl:       unify.NewTable[Pacing](),
		failed:    make(map[graph.StreamID]bool),
		annotated: make(map[graph.StreamID]Pacing),
	}

	// 1. Seed: declared clocks are fixed bindings, inputs without one
	//    are event-driven on their own arrival.
	in.seed()

	// 2. Propagate constraints from Current-offset dependencies until
	//    the assignment stabilizes. The lattice height bounds the rounds.
	in.fixpoint()

	// 3. Policy checks that need the final assignment.
	in.checkLookaheads()
	if o.StrictEventAnnotations {
		in.checkAnnotations()
	}

	// 4. Collect the resolved clocks.
	out := make(map[graph.StreamID]Pacing, g.NumStreams())
	for _, s := range g.Streams() {
		p, bound, _ := in.tbl.Resolve(s.PacingVar)
		if bound {
			out[s.ID] = p
			continue
		}
		if !in.failed[s.ID] && !in.tainted(s.ID) {
			in.sink.Errorf(diag.InconsistentPacing, s.Span, []graph.StreamID{s.ID},
				"cannot infer an evaluation clock for %q; add a pacing annotation", s.Name)
		}
	}

	return out, nil
}

// seed allocates one variable per stream and posts the declared clocks.
func (in *inferrer) seed() {
	for _, s := range in.g.Streams() {
		s.PacingVar = in.tbl.NewVar()

		ann := s.DeclaredPacing
		switch {
		case ann != nil && ann.Freq != nil:
			p, err := Hz(*ann.Freq)
			if err != nil {
				in.sink.Errorf(diag.IncompatibleFrequency, ann.Span, []graph.StreamID{s.ID},
					"unusable frequency annotation on %q: %v", s.Name, err)
				in.failed[s.ID] = true
				continue
			}
			// A fresh variable cannot conflict with its first binding.
			_ = in.tbl.Bind(s.PacingVar, p)

		case ann != nil && len(ann.Events) > 0:
			ids := make([]graph.StreamID, 0, len(ann.Events))
			for _, ev := range ann.Events {
				id, ok := in.g.Lookup(ev.Name)
				if !ok {
					in.sink.Errorf(diag.UndeclaredStream, ev.Span, []graph.StreamID{s.ID},
						"pacing annotation on %q names undeclared stream %q", s.Name, ev.Name)
					continue
				}
				ids = append(ids, id)
			}
			p := Events(ids...)
			_ = in.tbl.Bind(s.PacingVar, p)
			in.annotated[s.ID] = p

		case s.Kind == graph.KindInput:
			// Asynchronous arrival: the input fires its own clock.
			_ = in.tbl.Bind(s.PacingVar, Events(s.ID))
		}
	}
}

// fixpoint repeatedly folds each stream's dependency clocks into its
// own variable. Every binding is speculative: a conflict rolls the
// table back and marks the stream failed instead of corrupting state.
func (in *inferrer) fixpoint() {
	for round := 0; round <= in.g.NumStreams(); round++ {
		changed := false
		for _, s := range in.g.Streams() {
			if s.Kind == graph.KindInput || in.failed[s.ID] {
				continue
			}

			combined, ready, err := in.combine(s)
			if err != nil {
				in.report(s, err)
				in.failed[s.ID] = true
				continue
			}
			if !ready {
				continue
			}

			before, boundBefore, _ := in.tbl.Resolve(s.PacingVar)
			mark := in.tbl.Snapshot()
			if err = in.tbl.Bind(s.PacingVar, combined); err != nil {
				// Abandon the attempt without touching shared state.
				_ = in.tbl.Rollback(mark)
				in.report(s, err)
				in.failed[s.ID] = true
				continue
			}
			after, _, _ := in.tbl.Resolve(s.PacingVar)
			if !boundBefore || !before.Equal(after) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// combine folds the clocks of s's constraining dependencies.
// Current-offset references constrain the clock; when a stream has none,
// its remaining references (history reads) serve as the fallback. The
// second result is false while some dependency is still unresolved.
func (in *inferrer) combine(s *graph.Stream) (Pacing, bool, error) {
	refs, _ := in.g.Dependencies(s.ID)

	constraining := make([]*graph.Reference, 0, len(refs))
	for _, r := range refs {
		if r.Offset.Kind == graph.Current {
			constraining = append(constraining, r)
		}
	}
	if len(constraining) == 0 {
		constraining = refs
	}
	if len(constraining) == 0 {
		return Pacing{}, false, nil
	}

	var combined Pacing
	have := false
	for _, r := range constraining {
		// Self-references cannot constrain their own clock.
		if r.Target == s.ID {
			continue
		}
		target, _ := in.g.Stream(r.Target)
		p, bound, _ := in.tbl.Resolve(target.PacingVar)
		if !bound {
			if in.failed[r.Target] {
				continue // already reported upstream; stay quiet
			}

			return Pacing{}, false, nil
		}
		if !have {
			combined, have = p, true
			continue
		}
		next, err := combined.Unify(p)
		if err != nil {
			return Pacing{}, false, err
		}
		combined = next
	}

	return combined, have, nil
}

// checkLookaheads verifies every lookahead reads a decidable future:
// the target clock must be periodic.
func (in *inferrer) checkLookaheads() {
	for _, r := range in.g.References() {
		if r.Offset.Kind != graph.Lookahead {
			continue
		}
		target, _ := in.g.Stream(r.Target)
		p, bound, _ := in.tbl.Resolve(target.PacingVar)
		if bound && p.Kind != Periodic {
			in.sink.Errorf(diag.InconsistentPacing, r.Span, []graph.StreamID{r.Origin, r.Target},
				"lookahead into %q requires a periodic clock, but it is event-driven (%s)",
				target.Name, p)
		}
	}
}

// checkAnnotations enforces the strict policy: an event annotation must
// cover the activation the dependencies would have inferred.
func (in *inferrer) checkAnnotations() {
	for id, ann := range in.annotated {
		s, _ := in.g.Stream(id)
		refs, _ := in.g.Dependencies(id)

		union := Events()
		have := false
		for _, r := range refs {
			if r.Offset.Kind != graph.Current || r.Target == id {
				continue
			}
			target, _ := in.g.Stream(r.Target)
			p, bound, _ := in.tbl.Resolve(target.PacingVar)
			if !bound || p.Kind != EventDriven {
				continue
			}
			merged, err := union.Unify(p)
			if err != nil {
				continue
			}
			union, have = merged, true
		}
		if have && !ann.Covers(union) {
			in.sink.Errorf(diag.InconsistentPacing, s.Span, []graph.StreamID{id},
				"pacing annotation %s on %q does not cover the inferred activation %s",
				ann, s.Name, union)
		}
	}
}

// tainted reports whether some dependency of id never resolved, meaning
// the missing clock here is a cascade, not an independent finding.
func (in *inferrer) tainted(id graph.StreamID) bool {
	refs, _ := in.g.Dependencies(id)
	for _, r := range refs {
		if r.Target == id {
			continue
		}
		target, _ := in.g.Stream(r.Target)
		if in.failed[r.Target] {
			return true
		}
		if _, bound, _ := in.tbl.Resolve(target.PacingVar); !bound {
			return true
		}
	}

	return false
}

// report maps a unification conflict onto its diagnostic kind.
func (in *inferrer) report(s *graph.Stream, err error) {
	kind := diag.InconsistentPacing
	if errors.Is(err, ErrFrequency) {
		kind = diag.IncompatibleFrequency
	}
	in.sink.Errorf(kind, s.Span, []graph.StreamID{s.ID}, "%v", err)
}
