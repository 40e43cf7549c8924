package unify_test

import (
	"testing"

	"github.com/katalvlaran/rivus/unify"
)

// interval is a tiny merge-by-max domain for the benchmarks.
type interval struct{ hi int }

func (a interval) Unify(b interval) (interval, error) {
	if b.hi > a.hi {
		return b, nil
	}

	return a, nil
}

// BenchmarkUnionChain unions n variables into one chain and resolves
// through the compressed paths.
func BenchmarkUnionChain(b *testing.B) {
	const n = 1024
	for i := 0; i < b.N; i++ {
		t := unify.NewTable[interval]()
		vars := make([]unify.VarID, n)
		for j := range vars {
			vars[j] = t.NewVar()
		}
		for j := 1; j < n; j++ {
			if err := t.Union(vars[j-1], vars[j]); err != nil {
				b.Fatal(err)
			}
		}
		if _, _, err := t.Resolve(vars[0]); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSnapshotRollback measures the journaled speculative pattern:
// mark, mutate, roll back.
func BenchmarkSnapshotRollback(b *testing.B) {
	const n = 256
	t := unify.NewTable[interval]()
	vars := make([]unify.VarID, n)
	for j := range vars {
		vars[j] = t.NewVar()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mark := t.Snapshot()
		for j := 1; j < n; j++ {
			if err := t.Union(vars[j-1], vars[j]); err != nil {
				b.Fatal(err)
			}
		}
		if err := t.Rollback(mark); err != nil {
			b.Fatal(err)
		}
	}
}
