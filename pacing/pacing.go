// Package pacing: the Pacing value type and its meet operation.
package pacing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/rational"
)

// Sentinel errors surfaced by Unify; both carry the conflicting clocks
// in their message and are matched with errors.Is.
var (
	// ErrInconsistent indicates a periodic clock met an event-driven one
	// without an explicit synchronization.
	ErrInconsistent = errors.New("pacing: inconsistent pacing")

	// ErrFrequency indicates two periodic clocks whose ratio is not an
	// exact integer.
	ErrFrequency = errors.New("pacing: incompatible frequencies")
)

// Kind discriminates the two clock shapes.
type Kind uint8

const (
	// Periodic fires at a fixed rational frequency.
	Periodic Kind = iota

	// EventDriven fires whenever any stream in the activation set does.
	EventDriven
)

// Pacing is one clock. Construct with Hz or Events; the zero value is
// an empty event-driven clock and only appears transiently.
type Pacing struct {
	// Kind selects the shape.
	Kind Kind

	// Freq is the frequency in hertz (Periodic only).
	Freq rational.Quantity

	// Activation is the sorted set of stream ids whose firing evaluates
	// this stream (EventDriven only).
	Activation []graph.StreamID
}

// Hz builds a periodic clock from a frequency quantity.
// The quantity must be a non-zero frequency.
func Hz(freq rational.Quantity) (Pacing, error) {
	if freq.Unit != rational.Hertz || freq.IsZero() {
		return Pacing{}, fmt.Errorf("pacing: %s is not a usable frequency: %w", freq, ErrFrequency)
	}

	return Pacing{Kind: Periodic, Freq: freq}, nil
}

// Events builds an event-driven clock firing on any of the given streams.
func Events(ids ...graph.StreamID) Pacing {
	set := make([]graph.StreamID, len(ids))
	copy(set, ids)
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })

	// Dedupe in place; the set stays sorted.
	out := set[:0]
	for i, id := range set {
		if i == 0 || id != set[i-1] {
			out = append(out, id)
		}
	}

	return Pacing{Kind: EventDriven, Activation: out}
}

// String renders the clock, e.g. "10Hz" or "@{0, 3}".
func (p Pacing) String() string {
	if p.Kind == Periodic {
		return p.Freq.String()
	}
	parts := make([]string, len(p.Activation))
	for i, id := range p.Activation {
		parts[i] = fmt.Sprintf("%d", id)
	}

	return "@{" + strings.Join(parts, ", ") + "}"
}

// Equal reports structural clock equality.
func (p Pacing) Equal(o Pacing) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == Periodic {
		return p.Freq.Val.Cmp(o.Freq.Val) == 0
	}
	if len(p.Activation) != len(o.Activation) {
		return false
	}
	for i := range p.Activation {
		if p.Activation[i] != o.Activation[i] {
			return false
		}
	}

	return true
}

// Covers reports whether p's activation set contains all of o's.
// Both clocks must be event-driven.
func (p Pacing) Covers(o Pacing) bool {
	if p.Kind != EventDriven || o.Kind != EventDriven {
		return false
	}
	have := make(map[graph.StreamID]struct{}, len(p.Activation))
	for _, id := range p.Activation {
		have[id] = struct{}{}
	}
	for _, id := range o.Activation {
		if _, ok := have[id]; !ok {
			return false
		}
	}

	return true
}

// Unify computes the meet of two clocks, satisfying unify.Value.
//
//   - Periodic + Periodic: the faster wins iff it is an exact integer
//     multiple of the slower; otherwise ErrFrequency.
//   - EventDriven + EventDriven: the union of activation sets (OR).
//   - Mixed shapes: ErrInconsistent.
func (p Pacing) Unify(o Pacing) (Pacing, error) {
	if p.Kind != o.Kind {
		return Pacing{}, fmt.Errorf("%w: %s vs %s", ErrInconsistent, p, o)
	}

	if p.Kind == Periodic {
		fast, slow := p, o
		if fast.Freq.Val.Cmp(slow.Freq.Val) < 0 {
			fast, slow = slow, fast
		}
		if !fast.Freq.Val.IsMultipleOf(slow.Freq.Val) {
			return Pacing{}, fmt.Errorf("%w: %s vs %s", ErrFrequency, p, o)
		}

		return fast, nil
	}

	merged := make([]graph.StreamID, 0, len(p.Activation)+len(o.Activation))
	merged = append(merged, p.Activation...)
	merged = append(merged, o.Activation...)

	return Events(merged...), nil
}
