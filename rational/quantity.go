// Package rational: unit-tagged quantities.
// A Quantity couples a Rat with a physical Unit and canonicalizes every
// constructor to base units (hertz for frequencies, seconds for durations)
// so that arithmetic never has to scale operands.
package rational

import "fmt"

// Unit is the physical dimension of a Quantity.
type Unit uint8

const (
	// Scalar is the dimensionless unit; the zero value of Unit.
	Scalar Unit = iota

	// Hertz tags a frequency (cycles per second).
	Hertz

	// Second tags a duration.
	Second
)

// String returns the conventional symbol for the unit.
func (u Unit) String() string {
	switch u {
	case Hertz:
		return "Hz"
	case Second:
		return "s"
	default:
		return ""
	}
}

// Quantity is an exact rational magnitude tagged with a Unit.
// The zero value is the dimensionless 0.
type Quantity struct {
	// Val is the magnitude in the base unit of Unit.
	Val Rat

	// Unit is the physical dimension.
	Unit Unit
}

// Hz returns the frequency num/den hertz.
func Hz(num, den int64) (Quantity, error) {
	r, err := New(num, den)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Val: r, Unit: Hertz}, nil
}

// KHz returns the frequency num/den kilohertz, canonicalized to hertz.
func KHz(num, den int64) (Quantity, error) {
	q, err := Hz(num, den)
	if err != nil {
		return Quantity{}, err
	}
	q.Val = q.Val.Mul(MustNew(1000, 1))

	return q, nil
}

// Seconds returns the duration num/den seconds.
func Seconds(num, den int64) (Quantity, error) {
	r, err := New(num, den)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Val: r, Unit: Second}, nil
}

// Millis returns the duration n milliseconds, canonicalized to seconds.
func Millis(n int64) (Quantity, error) {
	return Seconds(n, 1000)
}

// IsZero reports whether the magnitude is zero.
func (q Quantity) IsZero() bool { return q.Val.IsZero() }

// Add returns q + o. Both operands must carry the same unit;
// mixing dimensions (e.g. a duration plus a frequency) is ErrUnitMismatch.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if q.Unit != o.Unit {
		return Quantity{}, fmt.Errorf("rational: %v + %v: %w", q.Unit, o.Unit, ErrUnitMismatch)
	}

	return Quantity{Val: q.Val.Add(o.Val), Unit: q.Unit}, nil
}

// Mul returns q * o with unit algebra:
// scalar*x = x, Hz*s = scalar; any other pairing is ErrUnitMismatch.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	u, err := mulUnit(q.Unit, o.Unit)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Val: q.Val.Mul(o.Val), Unit: u}, nil
}

// Div returns q / o with unit algebra:
// x/x = scalar, scalar/Hz = s, scalar/s = Hz, x/scalar = x.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	u, err := divUnit(q.Unit, o.Unit)
	if err != nil {
		return Quantity{}, err
	}
	v, err := q.Val.Div(o.Val)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Val: v, Unit: u}, nil
}

// Cmp compares two quantities of the same unit; ErrUnitMismatch otherwise.
func (q Quantity) Cmp(o Quantity) (int, error) {
	if q.Unit != o.Unit {
		return 0, fmt.Errorf("rational: compare %v with %v: %w", q.Unit, o.Unit, ErrUnitMismatch)
	}

	return q.Val.Cmp(o.Val), nil
}

// Period returns the duration of one cycle of the frequency q (1/q seconds).
// q must be a non-zero frequency.
func (q Quantity) Period() (Quantity, error) {
	if q.Unit != Hertz {
		return Quantity{}, fmt.Errorf("rational: period of %v: %w", q.Unit, ErrUnitMismatch)
	}
	one := Quantity{Val: One, Unit: Scalar}

	return one.Div(q)
}

// String renders the magnitude followed by the unit symbol, e.g. "10Hz".
func (q Quantity) String() string {
	return q.Val.String() + q.Unit.String()
}

// SamplesIn converts the duration dur into a sample count at frequency
// freq, rounding up: ceil(dur * freq). Used to size history buffers for
// sliding windows over periodic streams.
func SamplesIn(dur, freq Quantity) (int64, error) {
	if dur.Unit != Second || freq.Unit != Hertz {
		return 0, fmt.Errorf("rational: samples in %v at %v: %w", dur.Unit, freq.Unit, ErrUnitMismatch)
	}
	n, err := dur.Mul(freq) // seconds * hertz = scalar sample count
	if err != nil {
		return 0, err
	}

	return n.Val.CeilInt(), nil
}

// mulUnit resolves the unit of a product.
func mulUnit(a, b Unit) (Unit, error) {
	switch {
	case a == Scalar:
		return b, nil
	case b == Scalar:
		return a, nil
	case a == Hertz && b == Second, a == Second && b == Hertz:
		return Scalar, nil
	default:
		return Scalar, fmt.Errorf("rational: %v * %v: %w", a, b, ErrUnitMismatch)
	}
}

// divUnit resolves the unit of a quotient.
func divUnit(a, b Unit) (Unit, error) {
	switch {
	case a == b:
		return Scalar, nil
	case b == Scalar:
		return a, nil
	case a == Scalar && b == Hertz:
		return Second, nil
	case a == Scalar && b == Second:
		return Hertz, nil
	default:
		return Scalar, fmt.Errorf("rational: %v / %v: %w", a, b, ErrUnitMismatch)
	}
}
