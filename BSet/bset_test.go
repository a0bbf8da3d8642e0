package BSet

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/emirpasic/gods/sets/hashset"
	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type point struct{ x, y int }

func collect(u *BSet) []Value {
	var vs []Value
	u.Range(func(v Value) bool {
		vs = append(vs, v)
		return true
	})
	return vs
}

func TestOf(t *testing.T) {
	assert.Equal(t, Int, Of(-1).Kind())
	assert.Equal(t, Int, Of(int8(3)).Kind())
	assert.Equal(t, Int, Of(uint32(math.MaxUint32)).Kind())
	assert.Equal(t, Float, Of(float32(0.5)).Kind())
	assert.Equal(t, Float, Of(-0.5).Kind())
	assert.Equal(t, Text, Of("a").Kind())
	assert.Equal(t, Object, Of(uint64(1)).Kind())
	assert.Equal(t, Object, Of(point{1, 2}).Kind())
	assert.Equal(t, Object, Of(nil).Kind())
	assert.Equal(t, IntValue(7), Of(IntValue(7)))

	assert.Equal(t, int64(-1), Of(-1).Any())
	assert.Equal(t, 0.5, Of(0.5).Any())
	assert.Equal(t, "a", Of("a").Any())
	assert.Equal(t, point{1, 2}, Of(point{1, 2}).Any())
	assert.Equal(t, `"a"`, Of("a").String())
	assert.Equal(t, "-0.5", Of(-0.5).String())
	assert.Equal(t, "float", Float.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestBSet_Mixed(t *testing.T) {
	u := Default()
	in := []Value{IntValue(-1), IntValue(1), FloatValue(-0.5), FloatValue(0.5), TextValue("text"), ObjectValue(point{3, 4})}
	for _, v := range in {
		require.NoError(t, u.Add(v))
	}
	assert.Equal(t, 6, u.Len())
	got := collect(u)
	assert.ElementsMatch(t, in, got)
	kinds := make([]Kind, len(got))
	for i, v := range got {
		kinds[i] = v.Kind()
	}
	assert.IsNonDecreasing(t, kinds, "kinds come in Kind order")
}

func TestBSet_RemoveOnly(t *testing.T) {
	u, err := From("x")
	require.NoError(t, err)
	require.NoError(t, u.Remove(Of("x")))
	assert.Equal(t, 0, u.Len())
	assert.False(t, u.Contains(Of("x")))
}

func TestBSet_RemoveMissing(t *testing.T) {
	u, err := From(1, 2.5, "a", point{})
	require.NoError(t, err)
	for _, v := range []any{3, 1.5, "b", point{1, 1}} {
		assert.ErrorIs(t, u.Remove(Of(v)), Go_BSet.ErrNotFound)
		assert.Equal(t, 4, u.Len())
	}
}

func TestBSet_Distinct(t *testing.T) {
	u := Default()
	require.NoError(t, u.Add(IntValue(1)))
	assert.False(t, u.Contains(FloatValue(1)))
	require.NoError(t, u.Add(FloatValue(1)))
	require.NoError(t, u.Add(TextValue("1")))
	assert.Equal(t, 3, u.Len(), "int 1, float 1 and text 1 are distinct")
	require.NoError(t, u.Add(IntValue(1)))
	assert.Equal(t, 3, u.Len())

	require.NoError(t, u.Remove(FloatValue(1)))
	assert.True(t, u.Contains(IntValue(1)))
	assert.False(t, u.Contains(FloatValue(1)))
}

func TestBSet_FloatEquality(t *testing.T) {
	u := Default()
	require.NoError(t, u.Add(FloatValue(math.Copysign(0, -1))))
	require.NoError(t, u.Add(FloatValue(0)))
	require.NoError(t, u.Add(FloatValue(math.NaN())))
	require.NoError(t, u.Add(FloatValue(-math.NaN())))
	assert.Equal(t, 2, u.Len())
	assert.True(t, u.Contains(FloatValue(math.NaN())))
	assert.True(t, u.Contains(FloatValue(0)))
}

func TestBSet_Unhashable(t *testing.T) {
	u := Default()
	s := []int{1}
	assert.ErrorIs(t, u.Add(Of(s)), Go_BSet.ErrUnhashable)
	assert.False(t, u.Contains(Of(s)))
	assert.ErrorIs(t, u.Remove(Of(s)), Go_BSet.ErrUnhashable)
	require.NoError(t, u.Add(Of(nil)))
	assert.True(t, u.Contains(Of(nil)))
	assert.Equal(t, 1, u.Len())

	_, err := From(1, map[string]int{})
	assert.ErrorIs(t, err, Go_BSet.ErrUnhashable)
}

func TestBSet_Random(t *testing.T) {
	for _, engine := range []string{Chain, Probe} {
		t.Run(engine, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.IntTable, cfg.FloatTable = engine, engine
			cfg.Int, _ = defaultsFor(engine)
			cfg.Float, _ = defaultsFor(engine)
			u, err := New(cfg)
			require.NoError(t, err)
			r := rand.New(rand.NewSource(7))
			want := make(map[Value]struct{})
			for i := 0; i < 20000; i++ {
				var v Value
				switch r.Intn(3) {
				case 0:
					v = IntValue(r.Int63n(500) - 250)
				case 1:
					v = FloatValue(float64(r.Intn(500)) / 4)
				default:
					v = TextValue(string(rune('a' + r.Intn(26))))
				}
				if r.Intn(3) == 0 {
					_, in := want[v]
					err := u.Remove(v)
					if in {
						assert.NoError(t, err)
					} else {
						assert.ErrorIs(t, err, Go_BSet.ErrNotFound)
					}
					delete(want, v)
				} else {
					require.NoError(t, u.Add(v))
					want[v] = struct{}{}
				}
				require.Equal(t, len(want), u.Len())
			}
			got := collect(u)
			assert.Len(t, got, len(want))
			for _, v := range got {
				assert.Contains(t, want, v)
			}
		})
	}
}

func TestBSet_Iter(t *testing.T) {
	u, err := From(3, 1.5, "b", "a", true)
	require.NoError(t, err)
	next := u.Iter()
	var got []Value
	for v, ok := next(); ok; v, ok = next() {
		got = append(got, v)
	}
	assert.Equal(t, collect(u), got)
	_, ok := next()
	assert.False(t, ok)
	assert.ElementsMatch(t, []Value{TextValue("b"), TextValue("a")}, got[2:4])

	n := 0
	u.Range(func(Value) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)

	next = Default().Iter()
	_, ok = next()
	assert.False(t, ok)
}

func TestBSet_TextChurn(t *testing.T) {
	const n = 100000
	u := Default()
	for i := 0; i < n; i++ {
		require.NoError(t, u.Add(TextValue(strconv.Itoa(i))))
	}
	require.Equal(t, n, u.Len())
	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, u.Remove(TextValue(strconv.Itoa(i))))
	}
	assert.Less(t, time.Since(start), 5*time.Second, "removing text stays constant time per value")
	assert.Equal(t, 0, u.Len())
	assert.IsType(t, &hashset.Set{}, u.buckets[Text].(*setBucket).s)
	assert.Zero(t, u.buckets[Text].(*setBucket).extra)
}

func TestBSet_TextFootprint(t *testing.T) {
	u := Default()
	empty := u.Footprint()
	require.NoError(t, u.Add(TextValue(strings.Repeat("x", 1000))))
	require.NoError(t, u.Add(TextValue("ab")))
	require.NoError(t, u.Add(TextValue("ab")))
	assert.Equal(t, uintptr(1002), u.buckets[Text].(*setBucket).extra)
	assert.Greater(t, u.Footprint(), empty+1002)

	U := u.Union(Slice{"cd"})
	assert.Equal(t, uintptr(1004), U.buckets[Text].(*setBucket).extra)
	I := u.Intersect(Slice{"ab"})
	assert.Equal(t, uintptr(2), I.buckets[Text].(*setBucket).extra)

	require.NoError(t, u.Remove(TextValue("ab")))
	assert.Equal(t, uintptr(1000), u.buckets[Text].(*setBucket).extra)
}

func TestBSet_IterSnapshot(t *testing.T) {
	u, err := From("a", "b", point{1, 1})
	require.NoError(t, err)
	next := u.Iter()
	first, ok := next()
	require.True(t, ok)
	assert.Equal(t, Text, first.Kind())
	require.NoError(t, u.Add(TextValue("c")))
	var rest []Value
	for v, ok := next(); ok; v, ok = next() {
		rest = append(rest, v)
	}
	assert.Len(t, rest, 2, "text members added after the walk started are not seen")
	assert.Equal(t, ObjectValue(point{1, 1}), rest[1])
}

func TestBSet_UnionIntersect(t *testing.T) {
	a, err := From(1, 2, 3, 0.5, "x", "y", point{1, 1})
	require.NoError(t, err)
	b, err := From(3, 4, 0.5, 1.5, "y", point{1, 1}, point{2, 2})
	require.NoError(t, err)

	U := a.Union(b)
	assert.ElementsMatch(t, Slice{int64(1), int64(2), int64(3), int64(4), 0.5, 1.5, "x", "y", point{1, 1}, point{2, 2}}, anys(U))
	I := a.Intersect(b)
	assert.ElementsMatch(t, Slice{int64(3), 0.5, "y", point{1, 1}}, anys(I))
	assert.Equal(t, 7, a.Len(), "operands are untouched")
	assert.Equal(t, 7, b.Len())

	I = a.Intersect(Slice{1, 1.0, "x", []int{1}})
	assert.ElementsMatch(t, Slice{int64(1), "x"}, anys(I), "1.0 is not 1 and unhashables are dropped")
	U = a.Union(Slice{9})
	assert.Equal(t, 8, U.Len())
	assert.True(t, U.Contains(IntValue(9)))
	require.NoError(t, U.Add(IntValue(10)))
	assert.False(t, a.Contains(IntValue(10)))
}

func anys(u *BSet) Slice {
	var s Slice
	u.Range(func(v Value) bool {
		s = append(s, v.Any())
		return true
	})
	return s
}

func TestBSet_Sorted(t *testing.T) {
	u, err := From(5, -3, 0, 2.5, math.NaN(), -1.5, "z")
	require.NoError(t, err)
	assert.Equal(t, []Value{IntValue(-3), IntValue(0), IntValue(5)}, u.Sorted(Int))
	fs := u.Sorted(Float)
	require.Len(t, fs, 3)
	assert.Equal(t, -1.5, fs[0].Float())
	assert.Equal(t, 2.5, fs[1].Float())
	assert.True(t, math.IsNaN(fs[2].Float()))
	assert.Nil(t, u.Sorted(Text))
}

func TestBSet_Footprint(t *testing.T) {
	u := Default()
	empty, cap0 := u.Footprint(), u.Capacity()
	assert.Equal(t, uint(2), cap0)
	for i := int64(0); i < 1000; i++ {
		require.NoError(t, u.Add(IntValue(i)))
		require.NoError(t, u.Add(FloatValue(float64(i))))
	}
	assert.Greater(t, u.Footprint(), empty+2000*8)
	assert.GreaterOrEqual(t, u.Capacity(), uint(4000))
}

func TestBSet_Config(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntTable = "btree"
	_, err := New(cfg)
	assert.ErrorIs(t, err, Go_BSet.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Float.MaxLoad = 1
	_, err = New(cfg)
	assert.ErrorIs(t, err, Go_BSet.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Int.InitialCapacity = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, Go_BSet.ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bset.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
int-table = "chain"

[int]
max-load = 4.0
hash = "xxh3"

[float]
probe = "triangular"
initial-capacity = 64
`), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Chain, cfg.IntTable)
	assert.Equal(t, Probe, cfg.FloatTable)
	assert.Equal(t, 4.0, cfg.Int.MaxLoad)
	assert.Equal(t, 10.0, cfg.Int.Grow, "chain defaults fill the gaps")
	assert.Equal(t, "xxh3", cfg.Int.Hash)
	assert.Equal(t, "triangular", cfg.Float.Probe)
	assert.Equal(t, uint(64), cfg.Float.InitialCapacity)
	assert.Equal(t, 0.5, cfg.Float.MaxLoad)
	u, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(65), u.Capacity())

	require.NoError(t, os.WriteFile(path, []byte(`float-table = "skiplist"`), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, Go_BSet.ErrInvalidConfig)

	require.NoError(t, os.WriteFile(path, []byte("[int]\nmax_load = 4.0\n"), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, Go_BSet.ErrInvalidConfig, "misspelled keys are rejected")
	assert.ErrorContains(t, err, "int.max_load")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestBSet_Logger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	u, err := New(cfg)
	require.NoError(t, err)
	for i := int64(0); i < 4; i++ {
		require.NoError(t, u.Add(IntValue(i)))
	}
	require.NotZero(t, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, e.Level)
	assert.Contains(t, e.ContextMap(), "from")
	assert.Contains(t, e.ContextMap(), "to")
	assert.Contains(t, e.ContextMap(), "size")
}

func BenchmarkBSet_Add(b *testing.B) {
	u := Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = u.Add(IntValue(int64(i)))
	}
}

func BenchmarkBSet_Contains(b *testing.B) {
	u := Default()
	for i := int64(0); i < 1<<16; i++ {
		_ = u.Add(IntValue(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Contains(IntValue(int64(i & (1<<16 - 1))))
	}
}
