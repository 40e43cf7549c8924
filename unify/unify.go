// Package unify: the Table implementation.
// Every structural write (parent, rank, binding) is appended to a trail so
// Rollback can restore the table to a Snapshot exactly, including writes
// performed by path compression during reads.
package unify

import (
	"errors"
	"fmt"
)

// Sentinel errors for table operations.
var (
	// ErrUnknownVar indicates a VarID that was never allocated by this table.
	ErrUnknownVar = errors.New("unify: unknown variable")

	// ErrBadMark indicates a Mark that does not describe a prior state of
	// this table (wrong table, or taken after the current trail position).
	ErrBadMark = errors.New("unify: invalid rollback mark")
)

// VarID identifies a unification variable within one Table.
type VarID int

// Value is the contract a domain lattice must satisfy to live in a Table.
// Unify merges the receiver with other, returning the combined value or a
// domain-specific conflict error carrying both sides.
type Value[V any] interface {
	Unify(other V) (V, error)
}

// Mark is an opaque checkpoint of a Table, produced by Snapshot.
type Mark struct {
	vars  int // number of variables at snapshot time
	trail int // trail length at snapshot time
}

// entryKind discriminates journal entries on the trail.
type entryKind uint8

const (
	wroteParent entryKind = iota
	wroteRank
	wroteValue
)

// entry records one overwritten field so Rollback can restore it.
type entry[V any] struct {
	kind entryKind
	at   VarID

	oldParent VarID
	oldRank   uint8
	oldValue  V
	oldBound  bool
}

// Table is a union-find forest whose classes may carry a concrete value.
// It is not safe for concurrent use; the analysis pipeline owns it
// exclusively for the duration of a compilation.
type Table[V Value[V]] struct {
	parent []VarID
	rank   []uint8
	value  []V
	bound  []bool
	trail  []entry[V]
}

// NewTable returns an empty constraint table.
func NewTable[V Value[V]]() *Table[V] {
	return &Table[V]{}
}

// Len returns the number of allocated variables.
func (t *Table[V]) Len() int { return len(t.parent) }

// NewVar allocates a fresh unbound variable in its own class.
func (t *Table[V]) NewVar() VarID {
	id := VarID(len(t.parent))
	var zero V
	t.parent = append(t.parent, id)
	t.rank = append(t.rank, 0)
	t.value = append(t.value, zero)
	t.bound = append(t.bound, false)

	return id
}

// Find returns the representative of v's class, compressing paths as it
// goes. Compression writes are journaled so rollback stays exact.
func (t *Table[V]) Find(v VarID) (VarID, error) {
	if !t.valid(v) {
		return 0, fmt.Errorf("unify: Find(%d): %w", v, ErrUnknownVar)
	}

	return t.findRoot(v), nil
}

// Resolve returns the concrete value bound to v's class, if any.
// The second result is false while the class is still unconstrained.
func (t *Table[V]) Resolve(v VarID) (V, bool, error) {
	var zero V
	if !t.valid(v) {
		return zero, false, fmt.Errorf("unify: Resolve(%d): %w", v, ErrUnknownVar)
	}
	r := t.findRoot(v)
	if !t.bound[r] {
		return zero, false, nil
	}

	return t.value[r], true, nil
}

// Bind constrains v's class against the concrete value val.
// If the class is unbound, val becomes its value; if it is already bound,
// the two values are merged via V.Unify, and any conflict error from the
// domain is returned wrapped (match with errors.Is/As).
func (t *Table[V]) Bind(v VarID, val V) error {
	if !t.valid(v) {
		return fmt.Errorf("unify: Bind(%d): %w", v, ErrUnknownVar)
	}
	r := t.findRoot(v)

	if !t.bound[r] {
		t.setValue(r, val, true)

		return nil
	}

	merged, err := t.value[r].Unify(val)
	if err != nil {
		return fmt.Errorf("unify: Bind(%d): %w", v, err)
	}
	t.setValue(r, merged, true)

	return nil
}

// Union merges the classes of a and b. If both carry values the values
// are unified first; a domain conflict aborts the merge with the domain's
// error and leaves both classes untouched.
func (t *Table[V]) Union(a, b VarID) error {
	if !t.valid(a) || !t.valid(b) {
		return fmt.Errorf("unify: Union(%d, %d): %w", a, b, ErrUnknownVar)
	}
	ra, rb := t.findRoot(a), t.findRoot(b)
	if ra == rb {
		return nil
	}

	// 1. Merge values before touching structure, so a conflict is side-effect free.
	var merged V
	haveValue := false
	switch {
	case t.bound[ra] && t.bound[rb]:
		v, err := t.value[ra].Unify(t.value[rb])
		if err != nil {
			return fmt.Errorf("unify: Union(%d, %d): %w", a, b, err)
		}
		merged, haveValue = v, true
	case t.bound[ra]:
		merged, haveValue = t.value[ra], true
	case t.bound[rb]:
		merged, haveValue = t.value[rb], true
	}

	// 2. Union by rank: the shallower tree hangs under the deeper root.
	winner, loser := ra, rb
	if t.rank[ra] < t.rank[rb] {
		winner, loser = rb, ra
	}
	t.setParent(loser, winner)
	if t.rank[winner] == t.rank[loser] {
		t.setRank(winner, t.rank[winner]+1)
	}

	// 3. The surviving root carries the merged value.
	if haveValue {
		t.setValue(winner, merged, true)
	}

	return nil
}

// Snapshot marks the current state for a later Rollback.
func (t *Table[V]) Snapshot() Mark {
	return Mark{vars: len(t.parent), trail: len(t.trail)}
}

// Rollback restores the table to the state captured by m: journaled
// writes since the mark are undone in reverse, and variables allocated
// after the mark are discarded. Returns ErrBadMark for a mark that does
// not describe a prior state of this table.
func (t *Table[V]) Rollback(m Mark) error {
	if m.vars > len(t.parent) || m.trail > len(t.trail) {
		return fmt.Errorf("unify: Rollback: %w", ErrBadMark)
	}

	// 1. Undo journaled writes, newest first.
	for i := len(t.trail) - 1; i >= m.trail; i-- {
		e := t.trail[i]
		switch e.kind {
		case wroteParent:
			t.parent[e.at] = e.oldParent
		case wroteRank:
			t.rank[e.at] = e.oldRank
		case wroteValue:
			t.value[e.at] = e.oldValue
			t.bound[e.at] = e.oldBound
		}
	}
	t.trail = t.trail[:m.trail]

	// 2. Drop variables allocated after the mark.
	t.parent = t.parent[:m.vars]
	t.rank = t.rank[:m.vars]
	t.value = t.value[:m.vars]
	t.bound = t.bound[:m.vars]

	return nil
}

// findRoot walks to the representative and compresses the path.
// Callers must have validated v.
func (t *Table[V]) findRoot(v VarID) VarID {
	root := v
	for t.parent[root] != root {
		root = t.parent[root]
	}
	// Compress: repoint every node on the walk directly at the root.
	for t.parent[v] != root {
		next := t.parent[v]
		t.setParent(v, root)
		v = next
	}

	return root
}

// valid reports whether v was allocated by this table.
func (t *Table[V]) valid(v VarID) bool {
	return v >= 0 && int(v) < len(t.parent)
}

// setParent journals and performs a parent write.
func (t *Table[V]) setParent(v, p VarID) {
	t.trail = append(t.trail, entry[V]{kind: wroteParent, at: v, oldParent: t.parent[v]})
	t.parent[v] = p
}

// setRank journals and performs a rank write.
func (t *Table[V]) setRank(v VarID, r uint8) {
	t.trail = append(t.trail, entry[V]{kind: wroteRank, at: v, oldRank: t.rank[v]})
	t.rank[v] = r
}

// setValue journals and performs a binding write.
func (t *Table[V]) setValue(v VarID, val V, bound bool) {
	t.trail = append(t.trail, entry[V]{kind: wroteValue, at: v, oldValue: t.value[v], oldBound: t.bound[v]})
	t.value[v] = val
	t.bound[v] = bound
}
