// Package diag: Diagnostic, Kind, Severity, and the Collector.
package diag

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/katalvlaran/rivus/ast"
	"github.com/katalvlaran/rivus/graph"
)

// Severity classifies a diagnostic. Warnings never block success.
type Severity uint8

const (
	// Warning marks an advisory finding, e.g. an unused input stream.
	Warning Severity = iota

	// Error marks a finding that invalidates the specification.
	Error
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == Error {
		return "error"
	}

	return "warning"
}

// Kind is the stable machine-readable tag of a diagnostic.
type Kind uint8

const (
	// DuplicateDeclaration: two streams share one name.
	DuplicateDeclaration Kind = iota

	// UndeclaredStream: an expression references a name with no declaration.
	UndeclaredStream

	// TypeMismatch: unification found two incompatible value types.
	TypeMismatch

	// AmbiguousType: inference finished with no concrete type for a stream.
	AmbiguousType

	// UnitMismatch: incompatible physical units were combined.
	UnitMismatch

	// InconsistentPacing: periodic and event-driven clocks met without an
	// explicit synchronization annotation.
	InconsistentPacing

	// IncompatibleFrequency: two periodic clocks whose ratio is not an
	// exact integer.
	IncompatibleFrequency

	// IllegalCycle: a dependency cycle that contains a synchronous or
	// future edge, so no value in it could ever be computed first.
	IllegalCycle

	// SchedulingCycle: the current-offset subgraph still held a cycle at
	// scheduling time. An internal invariant violation (cycle detection
	// must have caught it), never a user-facing finding.
	SchedulingCycle

	// UnusedStream: an input stream no other stream references.
	UnusedStream
)

// kindNames are the stable tags rendered into messages and consumed by
// the excluded reporting layer. Order mirrors the Kind constants.
var kindNames = [...]string{
	"DuplicateDeclaration",
	"UndeclaredStream",
	"TypeMismatch",
	"AmbiguousType",
	"UnitMismatch",
	"InconsistentPacing",
	"IncompatibleFrequency",
	"IllegalCycle",
	"SchedulingCycle",
	"UnusedStream",
}

// String returns the stable tag, e.g. "TypeMismatch".
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Diagnostic is one finding with everything a renderer needs.
type Diagnostic struct {
	// Severity is Error or Warning.
	Severity Severity

	// Kind is the stable tag from the fixed error-kind set.
	Kind Kind

	// Message is the human-readable description.
	Message string

	// Span locates the finding in the source text.
	Span ast.Span

	// Streams lists the stream ids involved, if resolution got that far.
	Streams []graph.StreamID
}

// Error renders the diagnostic as "severity[Kind] line:col: message",
// satisfying the error interface for aggregation.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s] %s: %s", d.Severity, d.Kind, d.Span, d.Message)
}

// Collector accumulates diagnostics in report order.
// The zero value is ready to use. Not safe for concurrent use; the
// pipeline owns it exclusively.
type Collector struct {
	found []Diagnostic
	errs  int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Report appends d as-is.
func (c *Collector) Report(d Diagnostic) {
	if d.Severity == Error {
		c.errs++
	}
	c.found = append(c.found, d)
}

// Errorf records an Error-severity diagnostic of the given kind.
func (c *Collector) Errorf(kind Kind, span ast.Span, streams []graph.StreamID, format string, args ...interface{}) {
	c.Report(Diagnostic{
		Severity: Error,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Streams:  streams,
	})
}

// Warnf records a Warning-severity diagnostic of the given kind.
func (c *Collector) Warnf(kind Kind, span ast.Span, streams []graph.StreamID, format string, args ...interface{}) {
	c.Report(Diagnostic{
		Severity: Warning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Streams:  streams,
	})
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// The pipeline result is a success iff this is false.
func (c *Collector) HasErrors() bool { return c.errs > 0 }

// Len returns the total number of recorded diagnostics.
func (c *Collector) Len() int { return len(c.found) }

// Diagnostics returns the findings in report order.
// The returned slice is the collector's own; callers must not mutate it.
func (c *Collector) Diagnostics() []Diagnostic { return c.found }

// Sorted returns the findings ranked for rendering: ascending source
// position, errors before warnings at equal positions, report order as
// the final tie-break (sort is stable).
func (c *Collector) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(c.found))
	copy(out, c.found)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}

		return out[i].Severity > out[j].Severity
	})

	return out
}

// Err folds every Error-severity diagnostic into one error, or returns
// nil for a clean run. Warnings are not part of the aggregate.
func (c *Collector) Err() error {
	var merr *multierror.Error
	for _, d := range c.found {
		if d.Severity == Error {
			merr = multierror.Append(merr, d)
		}
	}

	return merr.ErrorOrNil()
}
