// Package lower: declaration registration and reference resolution.
package lower

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/rational"
)

// ErrNilSpec is returned when Lower receives a nil specification.
var ErrNilSpec = errors.New("lower: specification is nil")

// lowering carries state while one specification is resolved.
type lowering struct {
	g    *graph.Graph
	sink *diag.Collector
}

// Lower builds the sealed stream graph for spec, reporting naming
// problems into sink. The returned graph is structurally complete even
// when diagnostics were raised: unresolvable references are dropped,
// everything else is kept, so later stages can report independent
// problems in the same run.
func Lower(spec *ast.Spec, sink *diag.Collector) (*graph.Graph, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}
	lw := &lowering{g: graph.New(), sink: sink}

	// 1. Register every declaration, in declaration order.
	for _, in := range spec.Inputs {
		ty := in.Type
		lw.declare(graph.KindInput, in.Name, &graph.Stream{
			Span:           in.Span,
			DeclaredType:   &ty,
			DeclaredPacing: in.Pacing,
		})
	}
	for _, out := range spec.Outputs {
		lw.declare(graph.KindOutput, out.Name, &graph.Stream{
			Span:           out.Span,
			Expr:           out.Expr,
			DeclaredType:   out.Type,
			DeclaredPacing: out.Pacing,
		})
	}
	for i, tr := range spec.Triggers {
		name := tr.Name.Name
		if name == "" {
			// Unnamed triggers get a synthesized name outside the identifier
			// grammar, so it cannot collide with a declared stream.
			name = fmt.Sprintf("#trigger%d", i)
		}
		lw.declare(graph.KindTrigger, ast.Ident{Name: name, Span: tr.Name.Span},
			&graph.Stream{Span: tr.Span, Expr: tr.Expr, Message: tr.Message, DeclaredPacing: tr.Pacing})
	}

	// 2. Resolve every stream access into an edge.
	for _, s := range lw.g.Streams() {
		if s.Expr != nil {
			lw.resolve(s.ID, s.Expr)
		}
	}

	// 3. Freeze the structure; later stages only refine annotations.
	lw.g.Seal()

	return lw.g, nil
}

// declare registers one stream node, reporting duplicates.
func (lw *lowering) declare(kind graph.StreamKind, name ast.Ident, s *graph.Stream) {
	if _, err := lw.g.AddStream(kind, name.Name, s); err != nil {
		if errors.Is(err, graph.ErrDuplicateName) {
			first, _ := lw.g.Lookup(name.Name)
			lw.sink.Errorf(diag.DuplicateDeclaration, name.Span, []graph.StreamID{first},
				"stream %q is already declared", name.Name)

			return
		}
		// AddStream cannot fail otherwise before Seal; keep the guard anyway.
		lw.sink.Errorf(diag.DuplicateDeclaration, name.Span, nil, "cannot declare %q: %v", name.Name, err)
	}
}

// resolve walks expr and records one edge per stream access.
func (lw *lowering) resolve(origin graph.StreamID, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
		// no references

	case *ast.StreamAccess:
		target, ok := lw.g.Lookup(e.Target.Name)
		if !ok {
			lw.sink.Errorf(diag.UndeclaredStream, e.Target.Span, []graph.StreamID{origin},
				"undeclared stream %q", e.Target.Name)

			return
		}
		lw.edge(&graph.Reference{Origin: origin, Target: target, Offset: classify(e.Offset), Span: e.Span})

	case *ast.WindowAccess:
		target, ok := lw.g.Lookup(e.Target.Name)
		if !ok {
			lw.sink.Errorf(diag.UndeclaredStream, e.Target.Span, []graph.StreamID{origin},
				"undeclared stream %q", e.Target.Name)

			return
		}
		if e.Duration.Unit != rational.Second || e.Duration.IsZero() {
			lw.sink.Errorf(diag.UnitMismatch, e.Span, []graph.StreamID{origin, target},
				"window duration must be a positive duration, got %s", e.Duration)

			return
		}
		lw.edge(&graph.Reference{
			Origin: origin,
			Target: target,
			Offset: graph.Offset{Kind: graph.WindowRef, Duration: e.Duration, Op: e.Op},
			Span:   e.Span,
		})

	case *ast.Unary:
		lw.resolve(origin, e.Operand)

	case *ast.Binary:
		lw.resolve(origin, e.Left)
		lw.resolve(origin, e.Right)

	case *ast.IfThenElse:
		lw.resolve(origin, e.Cond)
		lw.resolve(origin, e.Then)
		lw.resolve(origin, e.Else)

	case *ast.Default:
		lw.resolve(origin, e.Expr)
		lw.resolve(origin, e.Fallback)
	}
}

// edge inserts a resolved reference. Both endpoints exist by
// construction, so a failure here is a programming error worth surfacing
// loudly in tests; in production it degrades to a dropped edge.
func (lw *lowering) edge(ref *graph.Reference) {
	if err := lw.g.AddReference(ref); err != nil {
		lw.sink.Errorf(diag.UndeclaredStream, ref.Span, []graph.StreamID{ref.Origin},
			"cannot record reference: %v", err)
	}
}

// classify maps the signed surface offset onto the offset descriptor.
// Offset 0 is the synchronous value: lookback(0) and a plain access are
// the same edge kind.
func classify(offset int) graph.Offset {
	switch {
	case offset == 0:
		return graph.Offset{Kind: graph.Current}
	case offset < 0:
		return graph.Offset{Kind: graph.Lookback, Steps: -offset}
	default:
		return graph.Offset{Kind: graph.Lookahead, Steps: offset}
	}
}
