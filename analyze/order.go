package analyze

import (
	"sort"

	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
)

// Order is the per-instant evaluation plan.
type Order struct {
	// Sequence lists every schedulable stream, dependencies first.
	Sequence []graph.StreamID

	// Layers maps each stream to its evaluation layer: 0 for streams
	// with no synchronous dependencies, otherwise one past the deepest
	// dependency. Streams of one layer may evaluate concurrently.
	Layers map[graph.StreamID]int
}

// Layered groups the sequence by layer: Layered()[k] holds the streams
// of layer k in declaration order. Every stream's synchronous
// dependencies sit in strictly lower groups, so groups may be evaluated
// one after another with full parallelism inside each.
func (o *Order) Layered() [][]graph.StreamID {
	depth := 0
	for _, l := range o.Layers {
		if l+1 > depth {
			depth = l + 1
		}
	}

	groups := make([][]graph.StreamID, depth)
	for _, id := range o.Sequence {
		l := o.Layers[id]
		groups[l] = append(groups[l], id)
	}

	return groups
}

// EvalOrder derives the evaluation order of one instant with Kahn's
// algorithm over current edges. History and future edges read stored
// values and impose no ordering. Ties inside a layer break by
// declaration order, so equal graphs always yield equal plans.
//
// A node left unscheduled means the instantaneous subgraph still holds
// a cycle; Cycles must have reported it, so the leftover is recorded as
// SchedulingCycle, an internal invariant finding.
func EvalOrder(g *graph.Graph, sink *diag.Collector) (*Order, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	n := g.NumStreams()
	ord := &Order{
		Sequence: make([]graph.StreamID, 0, n),
		Layers:   make(map[graph.StreamID]int, n),
	}

	// 1. Count unmet synchronous dependencies per stream.
	pending := make([]int, n)
	for _, ref := range g.References() {
		if ref.Offset.Kind == graph.Current && ref.Origin != ref.Target {
			pending[ref.Origin]++
		}
	}

	// 2. Seed the frontier with everything already satisfiable.
	frontier := make([]graph.StreamID, 0, n)
	for _, s := range g.Streams() {
		if pending[s.ID] == 0 {
			frontier = append(frontier, s.ID)
			ord.Layers[s.ID] = 0
		}
	}

	// 3. Peel layer after layer; a released stream lands one layer past
	//    its deepest dependency.
	scheduled := 0
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool {
			a, _ := g.Stream(frontier[i])
			b, _ := g.Stream(frontier[j])

			return a.DeclIndex < b.DeclIndex
		})

		next := make([]graph.StreamID, 0)
		for _, id := range frontier {
			ord.Sequence = append(ord.Sequence, id)
			scheduled++

			dependents, _ := g.Dependents(id)
			for _, ref := range dependents {
				if ref.Offset.Kind != graph.Current || ref.Origin == ref.Target {
					continue
				}
				if layer := ord.Layers[id] + 1; layer > ord.Layers[ref.Origin] {
					ord.Layers[ref.Origin] = layer
				}
				pending[ref.Origin]--
				if pending[ref.Origin] == 0 {
					next = append(next, ref.Origin)
				}
			}
		}
		frontier = next
	}

	// 4. Anything unscheduled sits on an instantaneous cycle.
	if scheduled < n {
		for _, s := range g.Streams() {
			if pending[s.ID] > 0 {
				delete(ord.Layers, s.ID)
				sink.Errorf(diag.SchedulingCycle, s.Span, []graph.StreamID{s.ID},
					"stream %q is unschedulable; an instantaneous cycle survived cycle detection", s.Name)
			}
		}
	}

	return ord, nil
}
