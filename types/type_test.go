package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rivus/rational"
	"github.com/katalvlaran/rivus/types"
)

// TestUnify_Identical is a no-op returning the same type.
func TestUnify_Identical(t *testing.T) {
	got, err := types.Int(types.W32).Unify(types.Int(types.W32))
	require.NoError(t, err)
	assert.Equal(t, types.Int(types.W32), got)
}

// TestUnify_Widens takes the larger width of two same-class numerics.
func TestUnify_Widens(t *testing.T) {
	got, err := types.Int(types.W16).Unify(types.Int(types.W64))
	require.NoError(t, err)
	assert.Equal(t, types.Int(types.W64), got)
}

// TestUnify_ClassClash rejects Int vs Bool and Int vs Float.
func TestUnify_ClassClash(t *testing.T) {
	_, err := types.Int(types.W32).Unify(types.Bool())
	assert.ErrorIs(t, err, types.ErrMismatch)

	_, err = types.Int(types.W32).Unify(types.Float(types.W32))
	assert.ErrorIs(t, err, types.ErrMismatch)
}

// TestUnify_Units merges dimensionless with dimensioned and rejects
// distinct dimensions.
func TestUnify_Units(t *testing.T) {
	hz := types.Float(types.W64).WithUnit(rational.Hertz)
	plain := types.Float(types.W64)
	sec := types.Float(types.W64).WithUnit(rational.Second)

	got, err := hz.Unify(plain)
	require.NoError(t, err)
	assert.Equal(t, rational.Hertz, got.Unit)

	_, err = hz.Unify(sec)
	assert.ErrorIs(t, err, types.ErrUnits)
}

// TestUnify_Constraints covers constraint refinement and satisfaction.
func TestUnify_Constraints(t *testing.T) {
	// numeric ∧ integer = integer
	got, err := types.Constr(types.ConstrNumeric).Unify(types.Constr(types.ConstrInteger))
	require.NoError(t, err)
	assert.Equal(t, types.Constr(types.ConstrInteger), got)

	// integer ∧ float is the conflict at the bottom of the chain
	_, err = types.Constr(types.ConstrInteger).Unify(types.Constr(types.ConstrFloat))
	assert.ErrorIs(t, err, types.ErrMismatch)

	// numeric absorbs into a concrete numeric
	got, err = types.Constr(types.ConstrNumeric).Unify(types.UInt(types.W8))
	require.NoError(t, err)
	assert.Equal(t, types.UInt(types.W8), got)

	// numeric rejects Bool
	_, err = types.Constr(types.ConstrNumeric).Unify(types.Bool())
	assert.ErrorIs(t, err, types.ErrMismatch)

	// comparable admits String
	got, err = types.Constr(types.ConstrComparable).Unify(types.String())
	require.NoError(t, err)
	assert.Equal(t, types.String(), got)
}

// TestUnify_Compound covers Option and Tuple element-wise unification.
func TestUnify_Compound(t *testing.T) {
	got, err := types.Option(types.Constr(types.ConstrNumeric)).Unify(types.Option(types.Int(types.W32)))
	require.NoError(t, err)
	assert.Equal(t, types.Option(types.Int(types.W32)), got)

	a := types.Tuple(types.Bool(), types.Constr(types.ConstrInteger))
	b := types.Tuple(types.Bool(), types.UInt(types.W16))
	got, err = a.Unify(b)
	require.NoError(t, err)
	assert.Equal(t, types.Tuple(types.Bool(), types.UInt(types.W16)), got)

	// Arity mismatch conflicts.
	_, err = a.Unify(types.Tuple(types.Bool()))
	assert.ErrorIs(t, err, types.ErrMismatch)
}

// TestIsConcrete distinguishes resolved types from constraint leftovers.
func TestIsConcrete(t *testing.T) {
	assert.True(t, types.Int(types.W64).IsConcrete())
	assert.True(t, types.Tuple(types.Bool(), types.String()).IsConcrete())
	assert.False(t, types.Constr(types.ConstrNumeric).IsConcrete())
	assert.False(t, types.Option(types.Constr(types.ConstrAny)).IsConcrete())
}

// TestParse resolves surface names and unit symbols.
func TestParse(t *testing.T) {
	got, err := types.Parse("UInt16", "")
	require.NoError(t, err)
	assert.Equal(t, types.UInt(types.W16), got)

	got, err = types.Parse("Float64", "Hz")
	require.NoError(t, err)
	assert.Equal(t, rational.Hertz, got.Unit)

	_, err = types.Parse("Quaternion", "")
	assert.ErrorIs(t, err, types.ErrUnknownName)

	_, err = types.Parse("Int64", "furlong")
	assert.ErrorIs(t, err, types.ErrUnknownName)
}

// TestString renders widths, units, and compounds.
func TestString(t *testing.T) {
	assert.Equal(t, "Int64", types.Int(types.W64).String())
	assert.Equal(t, "Float32[Hz]", types.Float(types.W32).WithUnit(rational.Hertz).String())
	assert.Equal(t, "Option<Bool>", types.Option(types.Bool()).String())
	assert.Equal(t, "(Bool, UInt8)", types.Tuple(types.Bool(), types.UInt(types.W8)).String())
	assert.Equal(t, "<numeric>", types.Constr(types.ConstrNumeric).String())
}
