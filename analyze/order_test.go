package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rivus/analyze"
	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
)

// TestEvalOrder_NilGraph rejects a nil graph.
func TestEvalOrder_NilGraph(t *testing.T) {
	_, err := analyze.EvalOrder(nil, diag.NewCollector())
	assert.ErrorIs(t, err, analyze.ErrNilGraph)
}

// TestEvalOrder_Layers assigns inputs to layer 0 and stacks synchronous
// consumers one layer per hop.
func TestEvalOrder_Layers(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a"), input("b")},
		Outputs: []*ast.OutputDecl{
			output("x", add(access("a", 0), access("b", 0))),
			output("y", access("x", 0)),
		},
	}
	g, sink := build(t, spec)

	ord, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors())

	assert.Equal(t, 0, ord.Layers[mustID(t, g, "a")])
	assert.Equal(t, 0, ord.Layers[mustID(t, g, "b")])
	assert.Equal(t, 1, ord.Layers[mustID(t, g, "x")])
	assert.Equal(t, 2, ord.Layers[mustID(t, g, "y")])
}

// TestEvalOrder_SequenceRespectsDependencies puts every stream after
// all its synchronous dependencies.
func TestEvalOrder_SequenceRespectsDependencies(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("y", access("x", 0)), // declared before its dependency
			output("x", access("a", 0)),
		},
	}
	g, sink := build(t, spec)

	ord, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)

	pos := make(map[graph.StreamID]int, len(ord.Sequence))
	for i, id := range ord.Sequence {
		pos[id] = i
	}
	assert.Less(t, pos[mustID(t, g, "a")], pos[mustID(t, g, "x")])
	assert.Less(t, pos[mustID(t, g, "x")], pos[mustID(t, g, "y")])
}

// TestEvalOrder_LookbackImposesNoOrder keeps history reads out of the
// plan: a stream reading only history sits on layer 0.
func TestEvalOrder_LookbackImposesNoOrder(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("x", access("a", -1)),
		},
	}
	g, sink := build(t, spec)

	ord, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)
	assert.Equal(t, 0, ord.Layers[mustID(t, g, "x")])
}

// TestEvalOrder_DeterministicTieBreak orders streams of one layer by
// declaration, so repeated runs agree.
func TestEvalOrder_DeterministicTieBreak(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("m", access("a", 0)),
			output("k", access("a", 0)),
			output("z", access("a", 0)),
		},
	}
	g, sink := build(t, spec)

	first, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)
	second, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)

	assert.Equal(t, first.Sequence, second.Sequence)
	// Same layer, declaration order: m before k before z.
	pos := make(map[graph.StreamID]int, len(first.Sequence))
	for i, id := range first.Sequence {
		pos[id] = i
	}
	assert.Less(t, pos[mustID(t, g, "m")], pos[mustID(t, g, "k")])
	assert.Less(t, pos[mustID(t, g, "k")], pos[mustID(t, g, "z")])
}

// TestEvalOrder_LeftoverCycle records an instantaneous cycle that
// reached scheduling as SchedulingCycle instead of hanging or panicking.
func TestEvalOrder_LeftoverCycle(t *testing.T) {
	spec := &ast.Spec{
		Outputs: []*ast.OutputDecl{
			output("x", access("y", 0)),
			output("y", access("x", 0)),
		},
	}
	g, sink := build(t, spec)

	ord, err := analyze.EvalOrder(g, sink)
	require.NoError(t, err)

	require.True(t, sink.HasErrors())
	assert.Equal(t, diag.SchedulingCycle, sink.Diagnostics()[0].Kind)
	assert.Empty(t, ord.Sequence)
	_, ok := ord.Layers[mustID(t, g, "x")]
	assert.False(t, ok)
}
