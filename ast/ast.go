// Package ast: node and annotation definitions.
package ast

import (
	"fmt"

	"github.com/katalvlaran/rivus/rational"
)

// Span is a half-open byte range [Start, End) in the source text, plus the
// 1-based line/column of Start for human-readable rendering.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// String renders the span as "line:column" for diagnostics.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Ident is an identifier occurrence with its source location.
type Ident struct {
	Name string
	Span Span
}

// Spec is the root of a parsed specification.
type Spec struct {
	Inputs   []*InputDecl
	Outputs  []*OutputDecl
	Triggers []*TriggerDecl
}

// TypeAnnotation is a declared value type, e.g. "Int64" or "Float32",
// optionally tagged with a physical unit symbol ("Hz", "s", or empty).
type TypeAnnotation struct {
	Name string
	Unit string
	Span Span
}

// PacingAnnotation is a declared evaluation clock: either a literal
// rational frequency (Freq non-nil) or a set of event streams whose
// activation fires the clock (Events non-empty). The parser guarantees
// the two forms are mutually exclusive.
type PacingAnnotation struct {
	Freq   *rational.Quantity
	Events []Ident
	Span   Span
}

// InputDecl declares an input stream. Inputs always carry a declared
// type; their pacing annotation is optional (absent means the stream
// arrives asynchronously, i.e. it is event-driven by definition).
type InputDecl struct {
	Name   Ident
	Type   TypeAnnotation
	Pacing *PacingAnnotation
	Span   Span
}

// OutputDecl declares an output stream with its defining expression.
// Type and pacing annotations are optional and otherwise inferred.
type OutputDecl struct {
	Name   Ident
	Type   *TypeAnnotation
	Pacing *PacingAnnotation
	Expr   Expression
	Span   Span
}

// TriggerDecl declares a trigger: a boolean condition with an optional
// human-readable message emitted on activation.
type TriggerDecl struct {
	Name    Ident
	Message string
	Pacing  *PacingAnnotation
	Expr    Expression
	Span    Span
}

// Expression is a node in the expression tree of an output or trigger.
type Expression interface {
	// ExprSpan returns the source range covered by the node.
	ExprSpan() Span

	isExpr()
}

// LitKind discriminates literal values.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
)

// Literal is a constant value.
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Span  Span
}

// StreamAccess references another stream's value at a discrete offset.
// Offset 0 is the synchronous (current) value, negative offsets read
// history, positive offsets read the future.
type StreamAccess struct {
	Target Ident
	Offset int
	Span   Span
}

// WindowOp is a sliding-window aggregation operator.
type WindowOp uint8

const (
	WindowSum WindowOp = iota
	WindowProduct
	WindowAverage
	WindowCount
	WindowIntegral
)

// String returns the surface name of the operator.
func (op WindowOp) String() string {
	switch op {
	case WindowSum:
		return "sum"
	case WindowProduct:
		return "product"
	case WindowAverage:
		return "average"
	case WindowCount:
		return "count"
	case WindowIntegral:
		return "integral"
	default:
		return "unknown"
	}
}

// WindowAccess aggregates a stream's values over a trailing duration.
type WindowAccess struct {
	Target   Ident
	Duration rational.Quantity
	Op       WindowOp
	Span     Span
}

// UnaryOp is a unary operator.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota // logical inversion
	OpNeg                // arithmetic negation
)

// Unary applies a unary operator to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Expression
	Span    Span
}

// BinaryOp is a binary operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Binary applies a binary operator to two operands.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
	Span  Span
}

// IfThenElse selects between two branches on a boolean condition.
type IfThenElse struct {
	Cond Expression
	Then Expression
	Else Expression
	Span Span
}

// Default unwraps an optional value (an offset access may miss at the
// start of a trace) by substituting Fallback when no value is present.
type Default struct {
	Expr     Expression
	Fallback Expression
	Span     Span
}

func (l *Literal) ExprSpan() Span      { return l.Span }
func (a *StreamAccess) ExprSpan() Span { return a.Span }
func (w *WindowAccess) ExprSpan() Span { return w.Span }
func (u *Unary) ExprSpan() Span        { return u.Span }
func (b *Binary) ExprSpan() Span       { return b.Span }
func (i *IfThenElse) ExprSpan() Span   { return i.Span }
func (d *Default) ExprSpan() Span      { return d.Span }

func (*Literal) isExpr()      {}
func (*StreamAccess) isExpr() {}
func (*WindowAccess) isExpr() {}
func (*Unary) isExpr()        {}
func (*Binary) isExpr()       {}
func (*IfThenElse) isExpr()   {}
func (*Default) isExpr()      {}
