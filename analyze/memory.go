package analyze

import (
	"fmt"

	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/pacing"
	"github.com/katalvlaran/rivus/rational"
)

// StorageClass ranks how well a stream's history can be bounded.
type StorageClass uint8

const (
	// Samples: a fixed number of values suffices.
	Samples StorageClass = iota

	// TimeBounded: the sample count is unknowable but the retained
	// history never exceeds a wall-clock horizon.
	TimeBounded

	// Unbounded: no finite bound could be established.
	Unbounded
)

// String returns "samples", "time-bounded", or "unbounded".
func (c StorageClass) String() string {
	switch c {
	case Samples:
		return "samples"
	case TimeBounded:
		return "time-bounded"
	default:
		return "unbounded"
	}
}

// Bound is the storage requirement of one stream.
type Bound struct {
	// Class selects which of the remaining fields is meaningful.
	Class StorageClass

	// Samples is the value count to retain (Samples class).
	Samples int64

	// Horizon is the wall-clock retention window (TimeBounded class).
	Horizon rational.Quantity
}

// String renders the bound, e.g. "5 samples" or "history over 3s".
func (b Bound) String() string {
	switch b.Class {
	case Samples:
		return fmt.Sprintf("%d samples", b.Samples)
	case TimeBounded:
		return fmt.Sprintf("history over %s", b.Horizon)
	default:
		return "unbounded"
	}
}

// merge folds one more requirement into b, keeping the weaker class and
// the larger magnitude.
func (b Bound) merge(o Bound) Bound {
	if o.Class > b.Class {
		b.Class = o.Class
	}
	if o.Samples > b.Samples {
		b.Samples = o.Samples
	}
	if b.Horizon.IsZero() || (!o.Horizon.IsZero() && o.Horizon.Val.Cmp(b.Horizon.Val) > 0) {
		b.Horizon = o.Horizon
	}

	return b
}

// Memory computes the storage bound of every stream from the offsets of
// its dependents. pacings is the clock assignment; a windowed stream
// with no resolved clock cannot be sized and degrades to Unbounded.
func Memory(g *graph.Graph, pacings map[graph.StreamID]pacing.Pacing) (map[graph.StreamID]Bound, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	out := make(map[graph.StreamID]Bound, g.NumStreams())
	for _, s := range g.Streams() {
		// Every stream retains at least its current value.
		bound := Bound{Class: Samples, Samples: 1}

		dependents, _ := g.Dependents(s.ID)
		for _, ref := range dependents {
			bound = bound.merge(require(ref, pacings[s.ID]))
		}
		out[s.ID] = bound
	}

	return out, nil
}

// require translates one reference into the storage it demands from its
// target, given the target's clock.
func require(ref *graph.Reference, clock pacing.Pacing) Bound {
	switch ref.Offset.Kind {
	case graph.Current:
		return Bound{Class: Samples, Samples: 1}

	case graph.Lookback, graph.Lookahead:
		// steps values plus the current one
		return Bound{Class: Samples, Samples: int64(ref.Offset.Steps) + 1}

	default: // graph.WindowRef
		if clock.Kind == pacing.Periodic && !clock.Freq.IsZero() {
			n, err := rational.SamplesIn(ref.Offset.Duration, clock.Freq)
			if err == nil {
				return Bound{Class: Samples, Samples: n}
			}
		}
		if clock.Kind == pacing.EventDriven && len(clock.Activation) > 0 {
			return Bound{Class: TimeBounded, Horizon: ref.Offset.Duration}
		}

		// No usable clock: the window cannot be sized at all.
		return Bound{Class: Unbounded}
	}
}
