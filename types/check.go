// Package types: the bottom-up expression checker.
package types

import (
	"errors"

	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/unify"
)

// ErrNilGraph is returned when Check receives a nil graph.
var ErrNilGraph = errors.New("types: graph is nil")

// checker carries state for one typing pass.
type checker struct {
	g    *graph.Graph
	sink *diag.Collector
	tbl  *unify.Table[Type]
}

// Check infers and validates the value type of every stream in g,
// reporting findings into sink. The returned map holds the concrete
// type of every stream that resolved; streams that failed keep no entry
// but analysis of the others always completes.
func Check(g *graph.Graph, sink *diag.Collector) (map[graph.StreamID]Type, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	c := &checker{g: g, sink: sink, tbl: unify.NewTable[Type]()}

	// 1. One variable per stream; declared types are fixed initial bindings.
	for _, s := range g.Streams() {
		s.TypeVar = c.tbl.NewVar()
		if s.DeclaredType != nil {
			t, err := Parse(s.DeclaredType.Name, s.DeclaredType.Unit)
			if err != nil {
				c.sink.Errorf(diag.TypeMismatch, s.DeclaredType.Span, []graph.StreamID{s.ID},
					"unusable type annotation on %q: %v", s.Name, err)
			} else {
				// A fresh variable cannot conflict with its first binding.
				_ = c.tbl.Bind(s.TypeVar, t)
			}
		}
		if s.Kind == graph.KindTrigger {
			c.post(s.Span, s.ID, c.tbl.Bind(s.TypeVar, Bool()))
		}
	}

	// 2. Walk every defining expression bottom-up.
	for _, s := range g.Streams() {
		if s.Expr == nil {
			continue
		}
		root := c.infer(s.ID, s.Expr)
		c.post(s.Expr.ExprSpan(), s.ID, c.tbl.Union(s.TypeVar, root))
	}

	// 3. Resolve every stream, defaulting bare numeric constraints.
	out := make(map[graph.StreamID]Type, g.NumStreams())
	for _, s := range g.Streams() {
		if t, ok := c.finalize(s); ok {
			out[s.ID] = t
		}
	}

	return out, nil
}

// infer allocates and constrains a variable for expr, returning its id.
// Failed constraints are reported and skipped, leaving a best-effort
// placeholder so the walk always completes.
func (c *checker) infer(origin graph.StreamID, expr ast.Expression) unify.VarID {
	switch e := expr.(type) {
	case *ast.Literal:
		v := c.tbl.NewVar()
		switch e.Kind {
		case ast.LitInt:
			_ = c.tbl.Bind(v, Constr(ConstrInteger))
		case ast.LitFloat:
			_ = c.tbl.Bind(v, Constr(ConstrFloat))
		case ast.LitBool:
			_ = c.tbl.Bind(v, Bool())
		case ast.LitString:
			_ = c.tbl.Bind(v, String())
		}

		return v

	case *ast.StreamAccess:
		// The access denotes the target's value type, whatever the offset.
		// Unresolved names were reported in lowering; a fresh variable
		// stands in so surrounding constraints still get checked.
		if id, ok := c.g.Lookup(e.Target.Name); ok {
			s, _ := c.g.Stream(id)

			return s.TypeVar
		}

		return c.tbl.NewVar()

	case *ast.WindowAccess:
		return c.inferWindow(origin, e)

	case *ast.Unary:
		v := c.infer(origin, e.Operand)
		switch e.Op {
		case ast.OpNot:
			c.post(e.Span, origin, c.tbl.Bind(v, Bool()))
		case ast.OpNeg:
			c.post(e.Span, origin, c.tbl.Bind(v, Constr(ConstrNumeric)))
		}

		return v

	case *ast.Binary:
		return c.inferBinary(origin, e)

	case *ast.IfThenElse:
		cond := c.infer(origin, e.Cond)
		c.post(e.Cond.ExprSpan(), origin, c.tbl.Bind(cond, Bool()))
		then := c.infer(origin, e.Then)
		els := c.infer(origin, e.Else)
		c.post(e.Span, origin, c.tbl.Union(then, els))

		return then

	case *ast.Default:
		v := c.infer(origin, e.Expr)
		fb := c.infer(origin, e.Fallback)
		c.post(e.Span, origin, c.tbl.Union(v, fb))

		return v

	default:
		return c.tbl.NewVar()
	}
}

// inferWindow applies the aggregation operator's typing rule.
func (c *checker) inferWindow(origin graph.StreamID, e *ast.WindowAccess) unify.VarID {
	var target unify.VarID
	if id, ok := c.g.Lookup(e.Target.Name); ok {
		s, _ := c.g.Stream(id)
		target = s.TypeVar
	} else {
		target = c.tbl.NewVar()
	}

	switch e.Op {
	case ast.WindowCount:
		// Counting ignores the windowed type entirely and is always UInt64.
		v := c.tbl.NewVar()
		_ = c.tbl.Bind(v, UInt(W64))

		return v

	case ast.WindowSum, ast.WindowProduct:
		// The aggregate has the windowed stream's own (numeric) type.
		c.post(e.Span, origin, c.tbl.Bind(target, Constr(ConstrNumeric)))

		return target

	default: // Average, Integral
		c.post(e.Span, origin, c.tbl.Bind(target, Constr(ConstrNumeric)))
		v := c.tbl.NewVar()
		_ = c.tbl.Bind(v, Float(W64))

		return v
	}
}

// inferBinary applies one binary operator's typing rule.
func (c *checker) inferBinary(origin graph.StreamID, e *ast.Binary) unify.VarID {
	l := c.infer(origin, e.Left)
	r := c.infer(origin, e.Right)

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem:
		// Arithmetic: operands share one numeric type (units unify too).
		c.post(e.Span, origin, c.tbl.Union(l, r))
		c.post(e.Span, origin, c.tbl.Bind(l, Constr(ConstrNumeric)))

		return l

	case ast.OpAnd, ast.OpOr:
		c.post(e.Left.ExprSpan(), origin, c.tbl.Bind(l, Bool()))
		c.post(e.Right.ExprSpan(), origin, c.tbl.Bind(r, Bool()))

		return l

	case ast.OpEq, ast.OpNe:
		c.post(e.Span, origin, c.tbl.Union(l, r))
		c.post(e.Span, origin, c.tbl.Bind(l, Constr(ConstrEquatable)))

		return c.boolResult()

	default: // Lt, Le, Gt, Ge
		c.post(e.Span, origin, c.tbl.Union(l, r))
		c.post(e.Span, origin, c.tbl.Bind(l, Constr(ConstrComparable)))

		return c.boolResult()
	}
}

// boolResult allocates a variable fixed to Bool for comparison results.
func (c *checker) boolResult() unify.VarID {
	v := c.tbl.NewVar()
	_ = c.tbl.Bind(v, Bool())

	return v
}

// finalize resolves one stream's variable, speculatively defaulting bare
// numeric constraints: snapshot, try the default, roll back on conflict.
func (c *checker) finalize(s *graph.Stream) (Type, bool) {
	t, bound, err := c.tbl.Resolve(s.TypeVar)
	if err != nil {
		return Type{}, false
	}

	if bound && t.IsConcrete() {
		return t, true
	}

	// Pick a defaulting candidate from what the constraints admit.
	if bound && t.Class == ClassConstr {
		var candidate Type
		switch t.Constr {
		case ConstrInteger, ConstrNumeric:
			candidate = Int(W64)
		case ConstrFloat:
			candidate = Float(W64)
		default:
			c.sink.Errorf(diag.AmbiguousType, s.Span, []graph.StreamID{s.ID},
				"cannot infer a concrete type for %q (only <%s> is known)", s.Name, t.Constr)

			return Type{}, false
		}

		mark := c.tbl.Snapshot()
		if err = c.tbl.Bind(s.TypeVar, candidate); err != nil {
			// The default clashed with constraints posted elsewhere; undo it.
			_ = c.tbl.Rollback(mark)
		} else if t, bound, _ = c.tbl.Resolve(s.TypeVar); bound && t.IsConcrete() {
			return t, true
		}
	}

	c.sink.Errorf(diag.AmbiguousType, s.Span, []graph.StreamID{s.ID},
		"cannot infer a concrete type for %q", s.Name)

	return Type{}, false
}

// post reports a failed constraint and continues; nil errors are ignored.
// ErrUnits maps to the UnitMismatch diagnostic, everything else to
// TypeMismatch.
func (c *checker) post(span ast.Span, origin graph.StreamID, err error) {
	if err == nil {
		return
	}
	kind := diag.TypeMismatch
	if errors.Is(err, ErrUnits) {
		kind = diag.UnitMismatch
	}
	c.sink.Errorf(kind, span, []graph.StreamID{origin}, "%v", err)
}
