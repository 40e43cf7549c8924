package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rivus/analyze"
	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/lower"
	"github.com/katalvlaran/rivus/pacing"
	"github.com/katalvlaran/rivus/rational"
)

// Shared AST builders for the analyze tests.

func ident(name string) ast.Ident { return ast.Ident{Name: name} }

func access(name string, offset int) *ast.StreamAccess {
	return &ast.StreamAccess{Target: ident(name), Offset: offset}
}

func input(name string) *ast.InputDecl {
	return &ast.InputDecl{Name: ident(name), Type: ast.TypeAnnotation{Name: "Int64"}}
}

func inputAt(t *testing.T, name string, hzNum, hzDen int64) *ast.InputDecl {
	t.Helper()
	q, err := rational.Hz(hzNum, hzDen)
	require.NoError(t, err)
	in := input(name)
	in.Pacing = &ast.PacingAnnotation{Freq: &q}

	return in
}

func output(name string, expr ast.Expression) *ast.OutputDecl {
	return &ast.OutputDecl{Name: ident(name), Expr: expr}
}

func add(l, r ast.Expression) *ast.Binary {
	return &ast.Binary{Op: ast.OpAdd, Left: l, Right: r}
}

// build lowers spec into a sealed graph, requiring a clean lowering.
func build(t *testing.T, spec *ast.Spec) (*graph.Graph, *diag.Collector) {
	t.Helper()
	sink := diag.NewCollector()
	g, err := lower.Lower(spec, sink)
	require.NoError(t, err)
	require.False(t, sink.HasErrors())

	return g, sink
}

// clocks runs pacing inference, requiring it to succeed.
func clocks(t *testing.T, g *graph.Graph, sink *diag.Collector) map[graph.StreamID]pacing.Pacing {
	t.Helper()
	pcs, err := pacing.Infer(g, sink)
	require.NoError(t, err)
	require.False(t, sink.HasErrors())

	return pcs
}

func mustID(t *testing.T, g *graph.Graph, name string) graph.StreamID {
	t.Helper()
	id, ok := g.Lookup(name)
	require.True(t, ok)

	return id
}

// TestCycles_NilGraph rejects a nil graph.
func TestCycles_NilGraph(t *testing.T) {
	assert.ErrorIs(t, analyze.Cycles(nil, diag.NewCollector()), analyze.ErrNilGraph)
}

// TestCycles_RunningSum accepts the canonical self-recursion through a
// lookback: x = x.offset(-1) + a.
func TestCycles_RunningSum(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("x", add(access("x", -1), access("a", 0))),
		},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))
	assert.False(t, sink.HasErrors())
}

// TestCycles_SynchronousSelfReference rejects x = x.
func TestCycles_SynchronousSelfReference(t *testing.T) {
	spec := &ast.Spec{
		Outputs: []*ast.OutputDecl{output("x", access("x", 0))},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.IllegalCycle, sink.Diagnostics()[0].Kind)
}

// TestCycles_MutualSynchronous rejects x = y, y = x.
func TestCycles_MutualSynchronous(t *testing.T) {
	spec := &ast.Spec{
		Outputs: []*ast.OutputDecl{
			output("x", access("y", 0)),
			output("y", access("x", 0)),
		},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))

	require.True(t, sink.HasErrors())
	d := sink.Diagnostics()[0]
	assert.Equal(t, diag.IllegalCycle, d.Kind)
	assert.Len(t, d.Streams, 2)
}

// TestCycles_AllEdgesMustReadHistory rejects a mutual recursion where
// only one edge reads history: x = y, y = x.offset(-1) still contains
// the synchronous edge x -> y inside the cycle.
func TestCycles_AllEdgesMustReadHistory(t *testing.T) {
	spec := &ast.Spec{
		Outputs: []*ast.OutputDecl{
			output("x", access("y", 0)),
			output("y", access("x", -1)),
		},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.IllegalCycle, sink.Diagnostics()[0].Kind)
}

// TestCycles_MutualLookback accepts a mutual recursion where both edges
// read history: x = y.offset(-1), y = x.offset(-2).
func TestCycles_MutualLookback(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("x", add(access("y", -1), access("a", 0))),
			output("y", access("x", -2)),
		},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))
	assert.False(t, sink.HasErrors())
}

// TestCycles_LookaheadCycle rejects a loop through the future: waiting
// on a value that waits on you never resolves.
func TestCycles_LookaheadCycle(t *testing.T) {
	spec := &ast.Spec{
		Outputs: []*ast.OutputDecl{
			output("x", access("y", 1)),
			output("y", access("x", 0)),
		},
	}
	g, sink := build(t, spec)
	require.NoError(t, analyze.Cycles(g, sink))

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.IllegalCycle, sink.Diagnostics()[0].Kind)
}

// TestMarkFutureDependent flags lookahead origins and their transitive
// readers, and nothing else.
func TestMarkFutureDependent(t *testing.T) {
	a := inputAt(t, "a", 10, 1)
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{a},
		Outputs: []*ast.OutputDecl{
			// peek reads the future directly, chain reads the peeker,
			// calm is untouched by either.
			output("peek", access("a", 2)),
			output("chain", access("peek", 0)),
			output("calm", access("a", 0)),
		},
	}
	g, _ := build(t, spec)
	require.NoError(t, analyze.MarkFutureDependent(g))

	get := func(name string) bool {
		s, err := g.Stream(mustID(t, g, name))
		require.NoError(t, err)

		return s.FutureDependent
	}
	assert.True(t, get("peek"))
	assert.True(t, get("chain"))
	assert.False(t, get("calm"))
	assert.False(t, get("a"))
}
