// Package graph: the arena and adjacency structure.
package graph

import "fmt"

// Graph owns all Stream nodes and Reference edges of one specification.
// Built by lowering, sealed, then only annotation-refined. Not safe for
// concurrent use; the pipeline owns it exclusively (see the concurrency
// model in the package docs of rivus).
type Graph struct {
	streams []*Stream
	byName  map[string]StreamID
	refs    []*Reference

	// adjacency in both directions, keyed by arena index
	out [][]*Reference // out[id]: references whose Origin is id (its dependencies)
	in  [][]*Reference // in[id]: references whose Target is id (its dependents)

	sealed bool
}

// New returns an empty, unsealed graph.
func New() *Graph {
	return &Graph{byName: make(map[string]StreamID)}
}

// AddStream allocates a node for a declaration and returns its id.
// Fails with ErrDuplicateName if the name is taken and ErrSealed after Seal.
func (g *Graph) AddStream(kind StreamKind, name string, s *Stream) (StreamID, error) {
	if g.sealed {
		return 0, fmt.Errorf("graph: AddStream(%q): %w", name, ErrSealed)
	}
	if _, exists := g.byName[name]; exists {
		return 0, fmt.Errorf("graph: AddStream(%q): %w", name, ErrDuplicateName)
	}

	id := StreamID(len(g.streams))
	s.ID = id
	s.Kind = kind
	s.Name = name
	s.DeclIndex = int(id)

	g.streams = append(g.streams, s)
	g.byName[name] = id
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)

	return id, nil
}

// AddReference records that origin's expression reads target at off.
// Both endpoints must exist; the offset must satisfy its invariant.
func (g *Graph) AddReference(ref *Reference) error {
	if g.sealed {
		return fmt.Errorf("graph: AddReference: %w", ErrSealed)
	}
	if !g.has(ref.Origin) {
		return fmt.Errorf("graph: AddReference: origin %d: %w", ref.Origin, ErrStreamNotFound)
	}
	if !g.has(ref.Target) {
		return fmt.Errorf("graph: AddReference: target %d: %w", ref.Target, ErrStreamNotFound)
	}
	if err := ref.Offset.validate(); err != nil {
		return err
	}

	g.refs = append(g.refs, ref)
	g.out[ref.Origin] = append(g.out[ref.Origin], ref)
	g.in[ref.Target] = append(g.in[ref.Target], ref)

	return nil
}

// Seal freezes the graph's structure. Idempotent.
func (g *Graph) Seal() { g.sealed = true }

// Sealed reports whether structural mutation is closed.
func (g *Graph) Sealed() bool { return g.sealed }

// Stream returns the node with the given id.
func (g *Graph) Stream(id StreamID) (*Stream, error) {
	if !g.has(id) {
		return nil, fmt.Errorf("graph: Stream(%d): %w", id, ErrStreamNotFound)
	}

	return g.streams[id], nil
}

// Lookup resolves a declared name to its id.
func (g *Graph) Lookup(name string) (StreamID, bool) {
	id, ok := g.byName[name]

	return id, ok
}

// Streams returns all nodes in declaration order.
// The returned slice is the graph's own; callers must not mutate it.
func (g *Graph) Streams() []*Stream { return g.streams }

// References returns all edges in insertion order.
func (g *Graph) References() []*Reference { return g.refs }

// Dependencies returns the references originating from id: the streams
// id's expression reads, with their offsets.
func (g *Graph) Dependencies(id StreamID) ([]*Reference, error) {
	if !g.has(id) {
		return nil, fmt.Errorf("graph: Dependencies(%d): %w", id, ErrStreamNotFound)
	}

	return g.out[id], nil
}

// Dependents returns the references targeting id: the streams that read
// id's value, with their offsets. Drives memory-bound computation.
func (g *Graph) Dependents(id StreamID) ([]*Reference, error) {
	if !g.has(id) {
		return nil, fmt.Errorf("graph: Dependents(%d): %w", id, ErrStreamNotFound)
	}

	return g.in[id], nil
}

// NumStreams returns the node count.
func (g *Graph) NumStreams() int { return len(g.streams) }

// NumReferences returns the edge count.
func (g *Graph) NumReferences() int { return len(g.refs) }

// has reports whether id indexes a node.
func (g *Graph) has(id StreamID) bool {
	return id >= 0 && int(id) < len(g.streams)
}
