// Package analyze runs the graph-level checks that need the whole
// dependency structure at once: cycle legality, memory bounds, the
// per-instant evaluation order, and the periodic deadline schedule.
//
// What:
//
//   - Cycles: 3-color DFS classifying back edges. A cycle is legal only
//     when every edge in it reads retained history (a strictly positive
//     lookback or a bounded window); any current or lookahead edge in a
//     cycle is IllegalCycle, since some value would have to be known
//     before it can be computed. The canonical running sum
//     "x = x.offset(-1) + a" is accepted.
//   - MarkFutureDependent: flags every stream whose value waits on a
//     lookahead, transitively, by reverse reachability from lookahead
//     origins. Flagged streams cannot be emitted eagerly.
//   - Memory: a per-stream storage bound derived from the dependents.
//     Discrete offsets need steps+1 samples. A sliding window over a
//     periodic stream needs ceil(duration * frequency) samples; over an
//     event-driven stream the sample count is unknowable and the bound
//     degrades to a wall-clock horizon.
//   - EvalOrder: Kahn's algorithm over current edges only, yielding the
//     evaluation layers of one instant. Ties inside a layer break by
//     declaration order so the result is deterministic. A leftover node
//     means cycle detection was skipped or defeated; that is reported
//     as SchedulingCycle, never silently dropped.
//   - BuildSchedule: the condensed deadline table of the periodic
//     streams. The tick is the GCD of all periods, the table repeats
//     every hyper-period (the LCM), and ticks where nothing is due are
//     folded into the next deadline's pause.
//
// Complexity: every pass is O(V + E) except BuildSchedule, which is
// linear in the hyper-period over the tick.
//
// Errors:
//
//   - ErrNilGraph  a pass received a nil graph
//
// User-facing findings land in the diag.Collector; the passes
// themselves fail only on misuse.
package analyze
