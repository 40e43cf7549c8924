package analyze

import (
	"errors"
	"strings"

	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
)

// ErrNilGraph is returned when an analysis pass receives a nil graph.
var ErrNilGraph = errors.New("analyze: graph is nil")

// color is the classic DFS node state.
type color uint8

const (
	white color = iota // undiscovered
	gray               // on the current DFS path
	black              // fully explored
)

// retained reports whether ref reads already stored history: a strictly
// positive lookback or a bounded window. Only such edges may appear in
// a legal cycle.
func retained(ref *graph.Reference) bool {
	return ref.Offset.Kind == graph.Lookback || ref.Offset.Kind == graph.WindowRef
}

// Cycles checks every dependency cycle for legality: a cycle is legal
// only when each of its edges reads retained history. A cycle touching
// a current or lookahead edge is IllegalCycle, since some value in it
// would have to be known before it can be computed. Detection is a
// 3-color DFS classifying back edges; the offending edges are read off
// the DFS path.
func Cycles(g *graph.Graph, sink *diag.Collector) error {
	if g == nil {
		return ErrNilGraph
	}

	n := g.NumStreams()
	colors := make([]color, n)
	path := make([]graph.StreamID, 0, n)
	edges := make([]*graph.Reference, 0, n) // edges[i] leads into path[i+1]

	var visit func(id graph.StreamID)
	visit = func(id graph.StreamID) {
		colors[id] = gray
		path = append(path, id)

		refs, _ := g.Dependencies(id)
		for _, ref := range refs {
			switch colors[ref.Target] {
			case white:
				edges = append(edges, ref)
				visit(ref.Target)
				edges = edges[:len(edges)-1]
			case gray:
				check(g, sink, path, edges, ref)
			}
		}

		path = path[:len(path)-1]
		colors[id] = black
	}

	// 1. Sweep every component; declaration order keeps runs deterministic.
	for _, s := range g.Streams() {
		if colors[s.ID] == white {
			visit(s.ID)
		}
	}

	return nil
}

// check inspects the cycle closed by back edge ref and reports it when
// any participating edge is not a history read.
func check(g *graph.Graph, sink *diag.Collector, path []graph.StreamID, edges []*graph.Reference, ref *graph.Reference) {
	// 1. Find where the cycle re-enters the DFS path.
	start := 0
	for i, id := range path {
		if id == ref.Target {
			start = i
			break
		}
	}

	// 2. Legal iff the closing edge and every in-cycle path edge read
	//    retained history.
	legal := retained(ref)
	for _, e := range edges[start:] {
		if !retained(e) {
			legal = false
		}
	}
	if legal {
		return
	}

	// 3. Render "a -> b -> a" for the message.
	cycle := make([]graph.StreamID, len(path)-start)
	copy(cycle, path[start:])
	names := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		s, _ := g.Stream(id)
		names = append(names, s.Name)
	}
	first, _ := g.Stream(ref.Target)
	names = append(names, first.Name)

	sink.Errorf(diag.IllegalCycle, ref.Span, cycle,
		"dependency cycle %s reads a value of the same instant; every edge in a cycle must read history",
		strings.Join(names, " -> "))
}

// MarkFutureDependent sets Stream.FutureDependent on every stream whose
// value transitively waits on a lookahead reference. Reverse
// reachability: lookahead origins seed the set, readers of a flagged
// stream join it.
func MarkFutureDependent(g *graph.Graph) error {
	if g == nil {
		return ErrNilGraph
	}

	// 1. Seed with the direct lookahead origins.
	queue := make([]graph.StreamID, 0)
	for _, ref := range g.References() {
		if ref.Offset.Kind != graph.Lookahead {
			continue
		}
		origin, _ := g.Stream(ref.Origin)
		if !origin.FutureDependent {
			origin.FutureDependent = true
			queue = append(queue, origin.ID)
		}
	}

	// 2. Propagate to everything that reads a flagged stream.
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		dependents, _ := g.Dependents(id)
		for _, ref := range dependents {
			reader, _ := g.Stream(ref.Origin)
			if !reader.FutureDependent {
				reader.FutureDependent = true
				queue = append(queue, reader.ID)
			}
		}
	}

	return nil
}
