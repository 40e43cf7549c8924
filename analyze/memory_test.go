package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rivus/analyze"
	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/rational"
)

// window builds a sliding aggregation over name with the given duration.
func window(t *testing.T, name string, secNum, secDen int64, op ast.WindowOp) *ast.WindowAccess {
	t.Helper()
	dur, err := rational.Seconds(secNum, secDen)
	require.NoError(t, err)

	return &ast.WindowAccess{Target: ident(name), Duration: dur, Op: op}
}

// TestMemory_NilGraph rejects a nil graph.
func TestMemory_NilGraph(t *testing.T) {
	_, err := analyze.Memory(nil, nil)
	assert.ErrorIs(t, err, analyze.ErrNilGraph)
}

// TestMemory_DefaultIsOneSample gives an unreferenced stream a single
// retained value.
func TestMemory_DefaultIsOneSample(t *testing.T) {
	spec := &ast.Spec{Inputs: []*ast.InputDecl{input("a")}}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	assert.Equal(t, analyze.Bound{Class: analyze.Samples, Samples: 1}, bounds[mustID(t, g, "a")])
}

// TestMemory_DeepestLookbackWins sizes a stream by the largest offset
// among its dependents: reads at -2 and -4 retain 5 values.
func TestMemory_DeepestLookbackWins(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("x", access("a", -2)),
			output("y", access("a", -4)),
		},
	}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bounds[mustID(t, g, "a")].Samples)
}

// TestMemory_PeriodicWindowInSamples sizes a 1s window over a 10Hz
// stream as 10 samples, and takes the max against a deeper lookback.
func TestMemory_PeriodicWindowInSamples(t *testing.T) {
	a := inputAt(t, "a", 10, 1)
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{a},
		Outputs: []*ast.OutputDecl{
			output("w", window(t, "a", 1, 1, ast.WindowSum)),
			output("deep", access("a", -11)),
		},
	}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	got := bounds[mustID(t, g, "a")]
	assert.Equal(t, analyze.Samples, got.Class)
	assert.Equal(t, int64(12), got.Samples) // lookback 11 beats the 10-sample window
}

// TestMemory_WindowBeatsShallowLookback retains 5 samples for a 10Hz
// stream read at lookback 3 (4 values) and through a half-second window
// (5 values): the larger demand wins.
func TestMemory_WindowBeatsShallowLookback(t *testing.T) {
	a := inputAt(t, "a", 10, 1)
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{a},
		Outputs: []*ast.OutputDecl{
			output("x", access("a", -3)),
			output("w", window(t, "a", 1, 2, ast.WindowSum)),
		},
	}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	assert.Equal(t, analyze.Bound{Class: analyze.Samples, Samples: 5}, bounds[mustID(t, g, "a")])
}

// TestMemory_FractionalWindowRoundsUp keeps the ceil semantics: 250ms
// at 10Hz is 2.5 samples, stored as 3.
func TestMemory_FractionalWindowRoundsUp(t *testing.T) {
	a := inputAt(t, "a", 10, 1)
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{a},
		Outputs: []*ast.OutputDecl{
			output("w", window(t, "a", 1, 4, ast.WindowAverage)),
		},
	}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), bounds[mustID(t, g, "a")].Samples)
}

// TestMemory_EventWindowIsTimeBounded degrades a window over an
// event-driven stream to a wall-clock horizon.
func TestMemory_EventWindowIsTimeBounded(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("w", window(t, "a", 3, 1, ast.WindowCount)),
		},
	}
	g, sink := build(t, spec)
	pcs := clocks(t, g, sink)

	bounds, err := analyze.Memory(g, pcs)
	require.NoError(t, err)
	got := bounds[mustID(t, g, "a")]
	assert.Equal(t, analyze.TimeBounded, got.Class)
	assert.Equal(t, "history over 3s", got.String())
}

// TestMemory_UnsizedWindowIsUnbounded marks a windowed stream with no
// resolved clock as unbounded.
func TestMemory_UnsizedWindowIsUnbounded(t *testing.T) {
	spec := &ast.Spec{
		Inputs: []*ast.InputDecl{input("a")},
		Outputs: []*ast.OutputDecl{
			output("w", window(t, "a", 1, 1, ast.WindowSum)),
		},
	}
	g, _ := build(t, spec)

	// No pacing assignment at all.
	bounds, err := analyze.Memory(g, nil)
	require.NoError(t, err)
	assert.Equal(t, analyze.Unbounded, bounds[mustID(t, g, "a")].Class)
}
