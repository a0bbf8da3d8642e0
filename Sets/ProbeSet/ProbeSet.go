package ProbeSet

import (
	"strings"
	"unsafe"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/g-m-twostay/go-bset/Sets"
	"github.com/g-m-twostay/go-bset/Sets/internal"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ Sets.Table[float64] = (*ProbeSet[float64])(nil)

// noSlot is returned by find when the probe visited every slot without finding a usable one.
const noSlot = ^uint(0)

// DefaultConfig keeps the table at most half full and linear probing.
func DefaultConfig() Sets.Config {
	return Sets.Config{
		InitialCapacity: 1,
		MaxLoad:         0.5,
		MinLoad:         0.1,
		Grow:            2,
		Shrink:          2,
		MaxUsed:         0.75,
		Probe:           "linear",
	}
}

// ProbeSet is an open addressing hash set of fixed width values.
// Values live in a packed store; two bit arrays mark slots occupied and tombstoned.
// Removal leaves a tombstone so probes for other values keep scanning past the vacated slot.
// It isn't safe for concurrent use.
type ProbeSet[E Sets.Number] struct {
	vals             internal.Store[E]
	occupied, graves Go_BSet.BitArray
	hash             func(E) uint
	cfg              *Sets.Config
	log              *zap.Logger
	sz, dead, mask   uint
	probe            Sets.ProbeKind
}

// New ProbeSet of type E. Returns Go_BSet.ErrInvalidConfig if cfg can't be used, including a MaxLoad of 1 or more.
func New[E Sets.Number](cfg Sets.Config) (*ProbeSet[E], error) {
	if err := cfg.ValidateOpen(); err != nil {
		return nil, err
	}
	k, _ := Go_BSet.ParseHashKind(cfg.Hash)
	p, _ := Sets.ParseProbe(cfg.Probe)
	return newTable(cfg.InitialCapacity, &cfg, Sets.HashFunc[E](k, cfg.Seed), p, cfg.Log()), nil
}

// Default is New with DefaultConfig.
func Default[E Sets.Number]() *ProbeSet[E] {
	u, err := New[E](DefaultConfig())
	if err != nil {
		panic(err)
	}
	return u
}

func newTable[E Sets.Number](capacity uint, cfg *Sets.Config, hash func(E) uint, p Sets.ProbeKind, log *zap.Logger) *ProbeSet[E] {
	return &ProbeSet[E]{
		vals:     internal.NewStore[E](capacity),
		occupied: Go_BSet.NewBitArray(capacity),
		graves:   Go_BSet.NewBitArray(capacity),
		hash:     hash,
		cfg:      cfg,
		log:      log,
		mask:     capacity - 1,
		probe:    p,
	}
}

// Size of the set.
func (u *ProbeSet[E]) Size() uint {
	return u.sz
}

// Capacity is the number of slots, a power of two.
func (u *ProbeSet[E]) Capacity() uint {
	return u.mask + 1
}

func (u *ProbeSet[E]) LoadFactor() float64 {
	return float64(u.sz) / float64(u.mask+1)
}

// Tombstones is the number of slots vacated by Remove and not yet reclaimed.
func (u *ProbeSet[E]) Tombstones() uint {
	return u.dead
}

// find probes for e starting at its home slot. It returns the slot holding e and true,
// or the first empty or tombstoned slot met on the way and false.
// The probe stops at an empty slot, or after visiting every slot, in which case the slot may be noSlot.
func (u *ProbeSet[E]) find(e E) (uint, bool) {
	free := noSlot
	i := u.hash(e) & u.mask
	for step := uint(1); step <= u.mask+1; step++ {
		if u.occupied.Get(i) {
			if Sets.Equal(u.vals.Get(i), e) {
				return i, true
			}
		} else if u.graves.Get(i) {
			if free == noSlot {
				free = i
			}
		} else {
			if free == noSlot {
				free = i
			}
			return free, false
		}
		i = u.probe.Next(i, step, u.mask)
	}
	return free, false
}

// Has e in the set.
func (u *ProbeSet[E]) Has(e E) bool {
	_, found := u.find(e)
	return found
}

// Put e into the set. Returns false if e is already present.
// Expands afterwards while the load factor exceeds the ceiling.
func (u *ProbeSet[E]) Put(e E) bool {
	i, found := u.find(e)
	if found {
		return false
	}
	if i == noSlot {
		u.rehash(u.cfg.Grown(u.Capacity()), "exhausted probe")
		i, _ = u.find(e)
	}
	u.place(i, e)
	for Sets.Overloaded(u.sz, u.Capacity(), u.cfg.MaxLoad) {
		u.rehash(u.cfg.Grown(u.Capacity()), "expand")
	}
	if Sets.Overloaded(u.sz+u.dead, u.Capacity(), u.cfg.MaxUsed) {
		u.rehash(u.Capacity(), "compact")
	}
	return true
}

func (u *ProbeSet[E]) place(i uint, e E) {
	if u.graves.Get(i) {
		u.graves.Down(i)
		u.dead--
	}
	u.vals.Set(i, e)
	u.occupied.Up(i)
	u.sz++
}

// Remove e from the set. Fails with Go_BSet.ErrNotFound if e isn't present.
// Shrinks if the load factor falls under the low-water mark.
func (u *ProbeSet[E]) Remove(e E) error {
	i, found := u.find(e)
	if !found {
		return errors.Wrapf(Go_BSet.ErrNotFound, "remove %v", e)
	}
	u.occupied.Down(i)
	u.graves.Up(i)
	u.vals.Clr(i)
	u.sz--
	u.dead++
	if Sets.Sparse(u.sz, u.Capacity(), u.cfg.MinLoad) && u.Capacity() > 1 {
		u.rehash(u.cfg.Shrunk(u.Capacity()), "shrink")
	} else if Sets.Overloaded(u.sz+u.dead, u.Capacity(), u.cfg.MaxUsed) {
		u.rehash(u.Capacity(), "compact")
	}
	return nil
}

// rehash rebuilds the table with capacity slots and re-inserts every value, dropping all tombstones.
func (u *ProbeSet[E]) rehash(capacity uint, why string) {
	from := u.Capacity()
	M := newTable(capacity, u.cfg, u.hash, u.probe, u.log)
	u.Range(func(e E) bool {
		i := M.hash(e) & M.mask
		for step := uint(1); M.occupied.Get(i); step++ {
			i = M.probe.Next(i, step, M.mask)
		}
		M.place(i, e)
		return true
	})
	u.vals, u.occupied, u.graves, u.mask, u.dead = M.vals, M.occupied, M.graves, M.mask, 0
	u.log.Debug(why, zap.Uint("from", from), zap.Uint("to", capacity), zap.Uint("size", u.sz))
}

// Take an arbitrary element from the set. Faster than iterating with Range.
func (u *ProbeSet[E]) Take() (e E, ok bool) {
	for i := uint(0); i <= u.mask; i++ {
		if u.occupied.Get(i) {
			return u.vals.Get(i), true
		}
	}
	return
}

// Range over the values in slot order. Stops when f returns false.
// The set must not be modified during the iteration.
func (u *ProbeSet[E]) Range(f func(E) bool) {
	for i := uint(0); i <= u.mask; i++ {
		if u.occupied.Get(i) && !f(u.vals.Get(i)) {
			return
		}
	}
}

// Iter walks the values in the same order as Range, one per call.
func (u *ProbeSet[E]) Iter() func() (E, bool) {
	i := uint(0)
	return func() (e E, ok bool) {
		for ; i <= u.mask; i++ {
			if u.occupied.Get(i) {
				e, ok = u.vals.Get(i), true
				i++
				return
			}
		}
		return
	}
}

// Footprint is an estimate of the bytes held by the set.
func (u *ProbeSet[E]) Footprint() uintptr {
	return unsafe.Sizeof(*u) + u.vals.Footprint() + u.occupied.Footprint() + u.graves.Footprint()
}

// String draws one rune per slot: F for occupied, x for tombstoned, . for empty.
func (u *ProbeSet[E]) String() string {
	var b strings.Builder
	b.Grow(int(u.mask + 1))
	for i := uint(0); i <= u.mask; i++ {
		switch {
		case u.occupied.Get(i):
			b.WriteByte('F')
		case u.graves.Get(i):
			b.WriteByte('x')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

func (u *ProbeSet[E]) empty() *ProbeSet[E] {
	return newTable(u.cfg.InitialCapacity, u.cfg, u.hash, u.probe, u.log)
}

// Union returns a new ProbeSet holding the values of u and other.
func (u *ProbeSet[E]) Union(other Sets.Table[E]) Sets.Table[E] {
	M := u.empty()
	Sets.Fill[E](M, u)
	Sets.Fill[E](M, other)
	return M
}

// Intersect returns a new ProbeSet holding the values present in both u and other.
func (u *ProbeSet[E]) Intersect(other Sets.Table[E]) Sets.Table[E] {
	M := u.empty()
	Sets.Common[E](M, u, other)
	return M
}
