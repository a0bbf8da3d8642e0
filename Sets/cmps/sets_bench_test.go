package cmps

import (
	"testing"

	"github.com/g-m-twostay/go-bset/Sets"
	"github.com/g-m-twostay/go-bset/Sets/ChainSet"
	"github.com/g-m-twostay/go-bset/Sets/ProbeSet"
)

const (
	hits, misses = 1024, 1024
	buildN       = 1 << 16
)

var sideEff bool

func newChain(b *testing.B) Sets.Table[uint64] {
	b.Helper()
	return ChainSet.Default[uint64]()
}

func newProbe(name string) func(b *testing.B) Sets.Table[uint64] {
	return func(b *testing.B) Sets.Table[uint64] {
		b.Helper()
		cfg := ProbeSet.DefaultConfig()
		cfg.Probe = name
		u, err := ProbeSet.New[uint64](cfg)
		if err != nil {
			b.Fatal(err)
		}
		return u
	}
}

var tables = []struct {
	name string
	make func(*testing.B) Sets.Table[uint64]
}{
	{"ChainSet", newChain},
	{"ProbeSet/linear", newProbe("linear")},
	{"ProbeSet/triangular", newProbe("triangular")},
}

func fill(b *testing.B, u Sets.Table[uint64], keyRange uint64) Sets.Table[uint64] {
	b.Helper()
	for i := range keyRange {
		u.Put(i)
	}
	return u
}

func BenchmarkTable_Has_Balanced(b *testing.B) {
	for _, tb := range tables {
		b.Run(tb.name, func(b *testing.B) {
			u := fill(b, tb.make(b), hits)
			b.ResetTimer()
			for i := range uint64(b.N) {
				sideEff = u.Has(i % (hits + misses))
			}
		})
	}
}

func BenchmarkTable_PutRemove_Balanced(b *testing.B) {
	for _, tb := range tables {
		b.Run(tb.name, func(b *testing.B) {
			u := fill(b, tb.make(b), hits)
			b.ResetTimer()
			for i := range uint64(b.N) {
				k := i % (hits + misses)
				if !u.Put(k) {
					_ = u.Remove(k)
				}
			}
		})
	}
}

func BenchmarkTable_Build(b *testing.B) {
	for _, tb := range tables {
		b.Run(tb.name, func(b *testing.B) {
			for range b.N {
				fill(b, tb.make(b), buildN)
			}
		})
	}
}
