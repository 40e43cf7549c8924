// Package types: the Type lattice and its meet operation.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/rivus/rational"
)

// Sentinel errors surfaced by Unify. Both are domain conflict errors in
// the sense of the unify package: they carry the two offending types in
// their message and are matched with errors.Is.
var (
	// ErrMismatch indicates two value types that cannot denote one stream.
	ErrMismatch = errors.New("types: type mismatch")

	// ErrUnits indicates numeric types carrying incompatible physical units.
	ErrUnits = errors.New("types: unit mismatch")

	// ErrUnknownName indicates an unrecognized type name in an annotation.
	ErrUnknownName = errors.New("types: unknown type name")
)

// Class is the top-level discriminator of a Type.
type Class uint8

const (
	// ClassConstr is a partially known type described by a Constraint.
	// The zero value of Type is the unconstrained ClassConstr/ConstrAny.
	ClassConstr Class = iota
	ClassBool
	ClassInt
	ClassUInt
	ClassFloat
	ClassString
	ClassOption
	ClassTuple
)

// Width is the bit width of a sized numeric class.
type Width uint8

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Constraint describes what is known about a not-yet-concrete type.
// The constraints form a chain Any ⊇ Equatable ⊇ Comparable ⊇ Numeric,
// which splits into the disjoint leaves Integer and Float.
type Constraint uint8

const (
	// ConstrAny places no restriction.
	ConstrAny Constraint = iota

	// ConstrEquatable admits every type with equality (all of ours).
	ConstrEquatable

	// ConstrComparable admits totally ordered types (numerics, strings).
	ConstrComparable

	// ConstrNumeric admits Int, UInt, and Float.
	ConstrNumeric

	// ConstrInteger admits Int and UInt.
	ConstrInteger

	// ConstrFloat admits Float only.
	ConstrFloat
)

// String returns the constraint name for messages.
func (c Constraint) String() string {
	switch c {
	case ConstrEquatable:
		return "equatable"
	case ConstrComparable:
		return "comparable"
	case ConstrNumeric:
		return "numeric"
	case ConstrInteger:
		return "integer"
	case ConstrFloat:
		return "floating-point"
	default:
		return "any"
	}
}

// Type is one point of the value-type lattice. The zero value is the
// fully unconstrained type (ClassConstr, ConstrAny).
type Type struct {
	Class  Class
	Width  Width         // numeric classes only
	Unit   rational.Unit // numeric classes only; Scalar means dimensionless
	Constr Constraint    // ClassConstr only
	Elem   *Type         // ClassOption only
	Elems  []Type        // ClassTuple only
}

// Convenience constructors for the common concrete types.
func Bool() Type               { return Type{Class: ClassBool} }
func String() Type             { return Type{Class: ClassString} }
func Int(w Width) Type         { return Type{Class: ClassInt, Width: w} }
func UInt(w Width) Type        { return Type{Class: ClassUInt, Width: w} }
func Float(w Width) Type       { return Type{Class: ClassFloat, Width: w} }
func Option(elem Type) Type    { return Type{Class: ClassOption, Elem: &elem} }
func Tuple(es ...Type) Type    { return Type{Class: ClassTuple, Elems: es} }
func Constr(c Constraint) Type { return Type{Class: ClassConstr, Constr: c} }

// WithUnit returns a copy of t tagged with the given physical unit.
func (t Type) WithUnit(u rational.Unit) Type {
	t.Unit = u

	return t
}

// IsConcrete reports whether t contains no remaining constraint.
func (t Type) IsConcrete() bool {
	switch t.Class {
	case ClassConstr:
		return false
	case ClassOption:
		return t.Elem.IsConcrete()
	case ClassTuple:
		for _, e := range t.Elems {
			if !e.IsConcrete() {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// String renders the type, e.g. "Int64", "Float32[Hz]", "(Bool, UInt8)".
func (t Type) String() string {
	switch t.Class {
	case ClassBool:
		return "Bool"
	case ClassString:
		return "String"
	case ClassInt, ClassUInt, ClassFloat:
		name := map[Class]string{ClassInt: "Int", ClassUInt: "UInt", ClassFloat: "Float"}[t.Class]
		s := fmt.Sprintf("%s%d", name, t.Width)
		if t.Unit != rational.Scalar {
			s += "[" + t.Unit.String() + "]"
		}

		return s
	case ClassOption:
		return fmt.Sprintf("Option<%s>", t.Elem)
	case ClassTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}

		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "<" + t.Constr.String() + ">"
	}
}

// Unify computes the meet of t and o, satisfying unify.Value.
func (t Type) Unify(o Type) (Type, error) {
	// 1. Constraints absorb into whatever satisfies them.
	if t.Class == ClassConstr {
		return applyConstraint(t.Constr, o)
	}
	if o.Class == ClassConstr {
		return applyConstraint(o.Constr, t)
	}

	// 2. Concrete against concrete: classes must agree.
	if t.Class != o.Class {
		return Type{}, fmt.Errorf("%w: %s vs %s", ErrMismatch, t, o)
	}

	switch t.Class {
	case ClassBool, ClassString:
		return t, nil

	case ClassInt, ClassUInt, ClassFloat:
		// Widths widen to the larger operand; units must be reconcilable.
		u, err := mergeUnits(t.Unit, o.Unit)
		if err != nil {
			return Type{}, fmt.Errorf("%w: %s vs %s", ErrUnits, t, o)
		}
		w := t.Width
		if o.Width > w {
			w = o.Width
		}

		return Type{Class: t.Class, Width: w, Unit: u}, nil

	case ClassOption:
		elem, err := t.Elem.Unify(*o.Elem)
		if err != nil {
			return Type{}, err
		}

		return Option(elem), nil

	case ClassTuple:
		if len(t.Elems) != len(o.Elems) {
			return Type{}, fmt.Errorf("%w: %s vs %s", ErrMismatch, t, o)
		}
		elems := make([]Type, len(t.Elems))
		for i := range t.Elems {
			e, err := t.Elems[i].Unify(o.Elems[i])
			if err != nil {
				return Type{}, err
			}
			elems[i] = e
		}

		return Tuple(elems...), nil

	default:
		return Type{}, fmt.Errorf("%w: %s vs %s", ErrMismatch, t, o)
	}
}

// applyConstraint meets a constraint with an arbitrary type.
func applyConstraint(c Constraint, o Type) (Type, error) {
	if o.Class == ClassConstr {
		m, ok := meetConstraints(c, o.Constr)
		if !ok {
			return Type{}, fmt.Errorf("%w: <%s> vs <%s>", ErrMismatch, c, o.Constr)
		}

		return Constr(m), nil
	}
	if !satisfies(o, c) {
		return Type{}, fmt.Errorf("%w: %s is not %s", ErrMismatch, o, c)
	}

	return o, nil
}

// meetConstraints returns the more specific of two constraints, or false
// when they are incompatible (Integer vs Float).
func meetConstraints(a, b Constraint) (Constraint, bool) {
	if a == b {
		return a, true
	}
	if rankOf(a) > rankOf(b) {
		a, b = b, a
	}
	// a is now the less specific one; b refines a iff they share the chain.
	if a == ConstrInteger && b == ConstrFloat || a == ConstrFloat && b == ConstrInteger {
		return ConstrAny, false
	}

	return b, true
}

// rankOf orders constraints from least to most specific.
func rankOf(c Constraint) int {
	switch c {
	case ConstrAny:
		return 0
	case ConstrEquatable:
		return 1
	case ConstrComparable:
		return 2
	case ConstrNumeric:
		return 3
	default: // Integer, Float
		return 4
	}
}

// satisfies reports whether concrete type o meets constraint c.
func satisfies(o Type, c Constraint) bool {
	switch c {
	case ConstrAny, ConstrEquatable:
		return true
	case ConstrComparable:
		return o.Class == ClassInt || o.Class == ClassUInt || o.Class == ClassFloat || o.Class == ClassString
	case ConstrNumeric:
		return o.Class == ClassInt || o.Class == ClassUInt || o.Class == ClassFloat
	case ConstrInteger:
		return o.Class == ClassInt || o.Class == ClassUInt
	case ConstrFloat:
		return o.Class == ClassFloat
	default:
		return false
	}
}

// mergeUnits reconciles the units of two numeric types: equal units keep,
// a dimensionless side adopts the other, two distinct dimensions clash.
func mergeUnits(a, b rational.Unit) (rational.Unit, error) {
	switch {
	case a == b:
		return a, nil
	case a == rational.Scalar:
		return b, nil
	case b == rational.Scalar:
		return a, nil
	default:
		return rational.Scalar, ErrUnits
	}
}

// Parse resolves a surface type annotation (name plus optional unit
// symbol) to a concrete Type. Recognized names: Bool, String,
// Int8/16/32/64, UInt8/16/32/64, Float32/64. Recognized units: "Hz", "s".
func Parse(name, unit string) (Type, error) {
	var t Type
	switch name {
	case "Bool":
		t = Bool()
	case "String":
		t = String()
	case "Int8":
		t = Int(W8)
	case "Int16":
		t = Int(W16)
	case "Int32":
		t = Int(W32)
	case "Int64":
		t = Int(W64)
	case "UInt8":
		t = UInt(W8)
	case "UInt16":
		t = UInt(W16)
	case "UInt32":
		t = UInt(W32)
	case "UInt64":
		t = UInt(W64)
	case "Float32":
		t = Float(W32)
	case "Float64":
		t = Float(W64)
	default:
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	switch unit {
	case "":
		return t, nil
	case "Hz":
		return t.WithUnit(rational.Hertz), nil
	case "s":
		return t.WithUnit(rational.Second), nil
	default:
		return Type{}, fmt.Errorf("%w: unit %q", ErrUnknownName, unit)
	}
}
