// Package graph: node, edge, and offset definitions.
package graph

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/rational"
	"github.com/katalvlaran/rivus/unify"
)

// Sentinel errors for graph construction and queries.
var (
	// ErrDuplicateName indicates a stream name registered twice.
	ErrDuplicateName = errors.New("graph: duplicate stream name")

	// ErrStreamNotFound indicates an id or name with no matching node.
	ErrStreamNotFound = errors.New("graph: stream not found")

	// ErrBadOffset indicates an offset descriptor violating its invariant
	// (lookback/lookahead steps < 1, or a window without a positive duration).
	ErrBadOffset = errors.New("graph: invalid offset descriptor")

	// ErrSealed indicates an attempted structural mutation after Seal.
	ErrSealed = errors.New("graph: graph is sealed")
)

// StreamID is the dense arena index of a stream node.
type StreamID int

// StreamKind discriminates the three stream roles.
type StreamKind uint8

const (
	// KindInput is an externally fed stream.
	KindInput StreamKind = iota

	// KindOutput is a stream defined by an expression.
	KindOutput

	// KindTrigger is a boolean output whose activation raises an alarm.
	KindTrigger
)

// String returns "input", "output", or "trigger".
func (k StreamKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "trigger"
	}
}

// OffsetKind discriminates the temporal shape of a reference.
type OffsetKind uint8

const (
	// Current reads the target's value of the same evaluation cycle.
	Current OffsetKind = iota

	// Lookback reads the target's value a fixed number of cycles ago.
	Lookback

	// Lookahead reads the target's value a fixed number of cycles ahead.
	Lookahead

	// WindowRef aggregates the target over a trailing time duration.
	WindowRef
)

// String returns the offset kind name for messages.
func (k OffsetKind) String() string {
	switch k {
	case Current:
		return "current"
	case Lookback:
		return "lookback"
	case Lookahead:
		return "lookahead"
	default:
		return "window"
	}
}

// Offset describes where in the target's timeline a reference reads.
type Offset struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind OffsetKind

	// Steps is the discrete distance for Lookback/Lookahead (>= 1).
	Steps int

	// Duration is the trailing window length for WindowRef (> 0 seconds).
	Duration rational.Quantity

	// Op is the aggregation operator for WindowRef.
	Op ast.WindowOp
}

// String renders the offset for diagnostics, e.g. "lookback(3)".
func (o Offset) String() string {
	switch o.Kind {
	case Current:
		return "current"
	case Lookback:
		return fmt.Sprintf("lookback(%d)", o.Steps)
	case Lookahead:
		return fmt.Sprintf("lookahead(%d)", o.Steps)
	default:
		return fmt.Sprintf("%s over %s", o.Op, o.Duration)
	}
}

// validate checks the per-kind invariants.
func (o Offset) validate() error {
	switch o.Kind {
	case Current:
		return nil
	case Lookback, Lookahead:
		if o.Steps < 1 {
			return fmt.Errorf("graph: %s with steps %d: %w", o.Kind, o.Steps, ErrBadOffset)
		}

		return nil
	case WindowRef:
		if o.Duration.Unit != rational.Second || o.Duration.IsZero() {
			return fmt.Errorf("graph: window duration %s: %w", o.Duration, ErrBadOffset)
		}

		return nil
	default:
		return fmt.Errorf("graph: offset kind %d: %w", o.Kind, ErrBadOffset)
	}
}

// Reference is one edge: Origin's expression reads Target's value at
// the given Offset. Span locates the access in the source text.
type Reference struct {
	Origin StreamID
	Target StreamID
	Offset Offset
	Span   ast.Span
}

// Stream is one node of the graph. Identity and expression are fixed at
// lowering; the unification keys and analysis marks are refined by the
// later stages. Streams never hold pointers to other streams.
type Stream struct {
	// ID is the arena index of this node.
	ID StreamID

	// Kind is the stream role.
	Kind StreamKind

	// Name is the declared (or generated, for triggers) stream name.
	Name string

	// DeclIndex is the position in declaration order, the deterministic
	// tie-break for scheduling.
	DeclIndex int

	// Span locates the declaration.
	Span ast.Span

	// Message is the trigger message, if any.
	Message string

	// Expr is the defining expression; nil for inputs.
	Expr ast.Expression

	// DeclaredType is the surface type annotation, if any. Mandatory on
	// inputs, optional elsewhere.
	DeclaredType *ast.TypeAnnotation

	// DeclaredPacing is the surface pacing annotation, if any.
	DeclaredPacing *ast.PacingAnnotation

	// TypeVar keys this stream's value type in the type checker's table.
	TypeVar unify.VarID

	// PacingVar keys this stream's clock in the pacing analyzer's table.
	PacingVar unify.VarID

	// FutureDependent marks streams that (transitively) read a lookahead
	// reference; set by the graph analyzer.
	FutureDependent bool
}
