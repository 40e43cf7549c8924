package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/diag"
	"github.com/katalvlaran/rivus/graph"
)

func at(start, line, col int) ast.Span {
	return ast.Span{Start: start, End: start + 1, Line: line, Column: col}
}

// TestCollector_ZeroValue confirms the zero collector is usable.
func TestCollector_ZeroValue(t *testing.T) {
	var c diag.Collector
	assert.False(t, c.HasErrors())
	assert.Zero(t, c.Len())
	assert.NoError(t, c.Err())
}

// TestCollector_ErrorsAndWarnings separates severities: only errors
// invalidate and only errors aggregate into Err.
func TestCollector_ErrorsAndWarnings(t *testing.T) {
	c := diag.NewCollector()
	c.Warnf(diag.UnusedStream, at(5, 1, 6), []graph.StreamID{0}, "input %q is never referenced", "idle")
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	c.Errorf(diag.TypeMismatch, at(9, 2, 1), []graph.StreamID{1}, "cannot add Bool to Int32")
	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Len())
	require.Error(t, c.Err())
}

// TestCollector_ErrAggregates folds every error into one inspectable
// aggregate; each Diagnostic stays reachable with errors.As.
func TestCollector_ErrAggregates(t *testing.T) {
	c := diag.NewCollector()
	c.Errorf(diag.UndeclaredStream, at(1, 1, 2), nil, "undeclared stream %q", "ghost")
	c.Errorf(diag.IllegalCycle, at(7, 3, 1), []graph.StreamID{2, 3}, "dependency cycle x -> y -> x")

	err := c.Err()
	require.Error(t, err)

	var d diag.Diagnostic
	assert.True(t, errors.As(err, &d))
	assert.Contains(t, err.Error(), "UndeclaredStream")
	assert.Contains(t, err.Error(), "IllegalCycle")
}

// TestCollector_Sorted ranks by source position, errors before warnings
// at the same position, report order as the stable tail.
func TestCollector_Sorted(t *testing.T) {
	c := diag.NewCollector()
	c.Errorf(diag.TypeMismatch, at(20, 3, 1), nil, "late error")
	c.Warnf(diag.UnusedStream, at(4, 1, 5), nil, "early warning")
	c.Errorf(diag.UndeclaredStream, at(4, 1, 5), nil, "early error")

	got := c.Sorted()
	require.Len(t, got, 3)
	assert.Equal(t, diag.UndeclaredStream, got[0].Kind) // error wins the position tie
	assert.Equal(t, diag.UnusedStream, got[1].Kind)
	assert.Equal(t, diag.TypeMismatch, got[2].Kind)

	// Report order is untouched.
	assert.Equal(t, diag.TypeMismatch, c.Diagnostics()[0].Kind)
}

// TestDiagnostic_Error pins the rendered form consumed by aggregates.
func TestDiagnostic_Error(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.Error,
		Kind:     diag.IncompatibleFrequency,
		Message:  "10Hz vs 3Hz",
		Span:     at(0, 4, 9),
	}
	assert.Equal(t, "error[IncompatibleFrequency] 4:9: 10Hz vs 3Hz", d.Error())
}

// TestKind_String covers the stable tags and the out-of-range guard.
func TestKind_String(t *testing.T) {
	assert.Equal(t, "DuplicateDeclaration", diag.DuplicateDeclaration.String())
	assert.Equal(t, "UnusedStream", diag.UnusedStream.String())
	assert.Equal(t, "Kind(99)", diag.Kind(99).String())
}
