package analyze

import (
	"sort"

	"github.com/katalvlaran/rivus/graph"
	"github.com/katalvlaran/rivus/pacing"
	"github.com/katalvlaran/rivus/rational"
)

// Deadline is one entry of the periodic evaluation table: after waiting
// Pause beyond the previous deadline, the Due streams are evaluated.
type Deadline struct {
	// Pause is the gap to the previous deadline (or to the period start).
	Pause rational.Quantity

	// Due lists the streams to evaluate, in declaration order.
	Due []graph.StreamID
}

// Schedule is the condensed deadline table of all periodic streams.
// It repeats every HyperPeriod; ticks with nothing due are folded into
// the following deadline's pause.
type Schedule struct {
	// Tick is the GCD of all stream periods, the table's resolution.
	Tick rational.Quantity

	// HyperPeriod is the LCM of all stream periods; after one hyper
	// period the table starts over.
	HyperPeriod rational.Quantity

	// Deadlines is the condensed table, covering exactly one hyper period.
	Deadlines []Deadline
}

// BuildSchedule derives the deadline table from the clock assignment.
// Event-driven streams have no place in it; a specification without
// periodic streams yields an empty schedule.
func BuildSchedule(g *graph.Graph, pacings map[graph.StreamID]pacing.Pacing) (*Schedule, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	// 1. Collect the periodic streams with their periods, in declaration
	//    order for deterministic Due lists.
	type periodic struct {
		id     graph.StreamID
		period rational.Rat // seconds
	}
	var ps []periodic
	for _, s := range g.Streams() {
		p, ok := pacings[s.ID]
		if !ok || p.Kind != pacing.Periodic {
			continue
		}
		period, err := p.Freq.Period()
		if err != nil {
			return nil, err
		}
		ps = append(ps, periodic{id: s.ID, period: period.Val})
	}
	if len(ps) == 0 {
		return &Schedule{}, nil
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].id < ps[j].id })

	// 2. Tick and hyper period from the rational gcd/lcm of the periods.
	tick, hyper := ps[0].period, ps[0].period
	for _, p := range ps[1:] {
		tick = rational.GCD(tick, p.period)
		hyper = rational.LCM(hyper, p.period)
	}

	// 3. Walk the hyper period tick by tick, condensing silent ticks
	//    into the next deadline's pause.
	steps, _ := hyper.Div(tick) // exact by construction
	sched := &Schedule{
		Tick:        rational.Quantity{Val: tick, Unit: rational.Second},
		HyperPeriod: rational.Quantity{Val: hyper, Unit: rational.Second},
	}
	elapsed := rational.Zero
	pause := rational.Zero
	for k := int64(1); k <= steps.Num(); k++ {
		elapsed = elapsed.Add(tick)
		pause = pause.Add(tick)

		var due []graph.StreamID
		for _, p := range ps {
			if elapsed.IsMultipleOf(p.period) {
				due = append(due, p.id)
			}
		}
		if len(due) == 0 {
			continue
		}

		sched.Deadlines = append(sched.Deadlines, Deadline{
			Pause: rational.Quantity{Val: pause, Unit: rational.Second},
			Due:   due,
		})
		pause = rational.Zero
	}

	return sched, nil
}
