// Package rational: the Rat value type and its exact arithmetic.
// All constructors normalize (reduce by gcd, positive denominator) so that
// two equal rationals are equal as Go values and may be used as map keys.
package rational

import (
	"errors"
	"fmt"
)

// Sentinel errors for rational arithmetic.
var (
	// ErrZeroDenominator indicates a denominator of zero passed to New or Div.
	ErrZeroDenominator = errors.New("rational: zero denominator")

	// ErrNegative indicates an operation that would produce a negative rational.
	// The pipeline only ever deals in non-negative frequencies and durations.
	ErrNegative = errors.New("rational: negative value")

	// ErrUnitMismatch indicates incompatible units combined in Quantity math.
	ErrUnitMismatch = errors.New("rational: unit mismatch")
)

// Rat is an exact non-negative rational number.
// The zero value is 0/1 and ready to use.
// Invariants: den > 0, gcd(num, den) == 1 (0 is stored as 0/1).
type Rat struct {
	num int64 // numerator, >= 0
	den int64 // denominator, > 0; 1 for the zero value via accessors
}

// Zero is the rational 0.
var Zero = Rat{num: 0, den: 1}

// One is the rational 1.
var One = Rat{num: 1, den: 1}

// New returns the normalized rational num/den.
// Returns ErrZeroDenominator if den == 0 and ErrNegative if the value
// would be negative (exactly one of num, den below zero).
func New(num, den int64) (Rat, error) {
	// 1. Reject the undefined denominator first.
	if den == 0 {
		return Rat{}, ErrZeroDenominator
	}
	// 2. Normalize sign: a negative/negative pair is positive.
	if den < 0 {
		num, den = -num, -den
	}
	if num < 0 {
		return Rat{}, ErrNegative
	}
	// 3. Reduce by the gcd.
	return reduce(num, den), nil
}

// FromInt returns the rational n/1. Negative n yields ErrNegative via New;
// callers with trusted non-negative input may ignore the error.
func FromInt(n int64) (Rat, error) {
	return New(n, 1)
}

// MustNew is New for compile-time constant arguments; it panics on error.
// Reserved for literals in tests and table construction.
func MustNew(num, den int64) Rat {
	r, err := New(num, den)
	if err != nil {
		panic(fmt.Sprintf("rational: MustNew(%d, %d): %v", num, den, err))
	}

	return r
}

// Num returns the normalized numerator.
func (r Rat) Num() int64 { return r.num }

// Den returns the normalized denominator (always > 0).
func (r Rat) Den() int64 {
	if r.den == 0 {
		return 1 // the zero value Rat{} means 0/1
	}

	return r.den
}

// IsZero reports whether r == 0.
func (r Rat) IsZero() bool { return r.num == 0 }

// IsInt reports whether r is a whole number.
func (r Rat) IsInt() bool { return r.Den() == 1 }

// Add returns r + o.
func (r Rat) Add(o Rat) Rat {
	// Cross-multiply over the lcm of denominators to keep intermediates small.
	g := gcd64(r.Den(), o.Den())

	return reduce(r.num*(o.Den()/g)+o.num*(r.Den()/g), r.Den()/g*o.Den())
}

// Sub returns r - o, or ErrNegative if o > r.
func (r Rat) Sub(o Rat) (Rat, error) {
	if r.Cmp(o) < 0 {
		return Rat{}, ErrNegative
	}
	g := gcd64(r.Den(), o.Den())

	return reduce(r.num*(o.Den()/g)-o.num*(r.Den()/g), r.Den()/g*o.Den()), nil
}

// Mul returns r * o.
func (r Rat) Mul(o Rat) Rat {
	// Reduce cross factors before multiplying to delay overflow.
	g1 := gcd64(r.num, o.Den())
	g2 := gcd64(o.num, r.Den())

	return reduce((r.num/g1)*(o.num/g2), (r.Den()/g2)*(o.Den()/g1))
}

// Div returns r / o, or ErrZeroDenominator if o is zero.
func (r Rat) Div(o Rat) (Rat, error) {
	if o.IsZero() {
		return Rat{}, ErrZeroDenominator
	}

	return r.Mul(Rat{num: o.Den(), den: o.num}), nil
}

// Cmp compares r and o exactly: -1 if r < o, 0 if equal, +1 if r > o.
func (r Rat) Cmp(o Rat) int {
	// Exact cross-multiplication comparison; denominators are positive.
	lhs := r.num * o.Den()
	rhs := o.num * r.Den()
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// IsMultipleOf reports whether r is an exact integer multiple of o.
// A zero o is a multiple of nothing; r == 0 is a multiple of everything.
func (r Rat) IsMultipleOf(o Rat) bool {
	if o.IsZero() {
		return false
	}
	q, _ := r.Div(o)

	return q.IsInt()
}

// CeilInt returns ceil(r) as an int64.
func (r Rat) CeilInt() int64 {
	d := r.Den()

	return (r.num + d - 1) / d
}

// String renders r as "num/den", or just "num" for whole numbers.
func (r Rat) String() string {
	if r.IsInt() {
		return fmt.Sprintf("%d", r.num)
	}

	return fmt.Sprintf("%d/%d", r.num, r.Den())
}

// GCD returns the greatest common divisor of two rationals:
// gcd(a/b, c/d) = gcd(a, c) / lcm(b, d).
// By convention GCD(x, 0) == x.
func GCD(a, b Rat) Rat {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}

	return reduce(gcd64(a.num, b.num), lcm64(a.Den(), b.Den()))
}

// LCM returns the least common multiple of two rationals:
// lcm(a/b, c/d) = lcm(a, c) / gcd(b, d).
// By convention LCM(x, 0) == 0.
func LCM(a, b Rat) Rat {
	if a.IsZero() || b.IsZero() {
		return Zero
	}

	return reduce(lcm64(a.num, b.num), gcd64(a.Den(), b.Den()))
}

// reduce builds a Rat from non-negative num and positive den, dividing
// out the gcd. Internal; inputs must already satisfy the sign contract.
func reduce(num, den int64) Rat {
	if num == 0 {
		return Rat{num: 0, den: 1}
	}
	g := gcd64(num, den)

	return Rat{num: num / g, den: den / g}
}

// gcd64 is the binary-free Euclid gcd on non-negative int64.
func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}

	return a
}

// lcm64 returns lcm(a, b) for positive a, b.
func lcm64(a, b int64) int64 {
	return a / gcd64(a, b) * b
}
