package ChainSet

import (
	"unsafe"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/g-m-twostay/go-bset/Sets"
	"github.com/g-m-twostay/go-bset/Sets/internal"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ Sets.Table[int64] = (*ChainSet[int64])(nil)

// DefaultConfig tolerates long chains: an average of 10 values per slot before expanding.
func DefaultConfig() Sets.Config {
	return Sets.Config{
		InitialCapacity: 1,
		MaxLoad:         10,
		MinLoad:         0.05,
		Grow:            10,
		LateGrow:        2.5,
		GrowKnee:        10000,
		Shrink:          10,
	}
}

// ChainSet is a separate chaining hash set of fixed width values.
// A slot holds nothing, or its first value in a packed store. Further values of the slot
// go to a chain in a pool shared by all slots, so slots without collisions pay no chain header.
// It isn't safe for concurrent use.
type ChainSet[E Sets.Number] struct {
	slots  []slot
	single internal.Store[E]
	chains [][]E // never holds an empty chain
	hash   func(E) uint
	cfg    *Sets.Config
	log    *zap.Logger
	sz     uint
}

// New ChainSet of type E. Returns Go_BSet.ErrInvalidConfig if cfg can't be used.
func New[E Sets.Number](cfg Sets.Config) (*ChainSet[E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, _ := Go_BSet.ParseHashKind(cfg.Hash)
	return newTable(cfg.InitialCapacity, &cfg, Sets.HashFunc[E](k, cfg.Seed), cfg.Log()), nil
}

// Default is New with DefaultConfig.
func Default[E Sets.Number]() *ChainSet[E] {
	u, err := New[E](DefaultConfig())
	if err != nil {
		panic(err)
	}
	return u
}

func newTable[E Sets.Number](capacity uint, cfg *Sets.Config, hash func(E) uint, log *zap.Logger) *ChainSet[E] {
	return &ChainSet[E]{
		slots:  make([]slot, capacity),
		single: internal.NewStore[E](capacity),
		hash:   hash,
		cfg:    cfg,
		log:    log,
	}
}

func (u *ChainSet[E]) slot(e E) uint {
	return u.hash(e) % uint(len(u.slots))
}

// Size of the set.
func (u *ChainSet[E]) Size() uint {
	return u.sz
}

// Capacity is the number of slots.
func (u *ChainSet[E]) Capacity() uint {
	return uint(len(u.slots))
}

func (u *ChainSet[E]) LoadFactor() float64 {
	return float64(u.sz) / float64(len(u.slots))
}

// Has e in the set.
func (u *ChainSet[E]) Has(e E) bool {
	i := u.slot(e)
	s := u.slots[i]
	if s == emptySlot {
		return false
	}
	if Sets.Equal(u.single.Get(i), e) {
		return true
	}
	return s.kind() == overflow && indexOf(u.chains[s.chain()], e) >= 0
}

// Put e into the set. Returns false if e is already present.
// Expands first if holding one more value would exceed the load factor ceiling.
func (u *ChainSet[E]) Put(e E) bool {
	if u.Has(e) {
		return false
	}
	for Sets.Overloaded(u.sz+1, u.Capacity(), u.cfg.MaxLoad) {
		u.rehash(u.cfg.Grown(u.Capacity()), "expand")
	}
	u.insert(e)
	return true
}

// insert e, known to be absent, without resizing.
func (u *ChainSet[E]) insert(e E) {
	i := u.slot(e)
	switch s := u.slots[i]; s.kind() {
	case empty:
		u.single.Set(i, e)
		u.slots[i] = singleSlot
	case single:
		u.chains = append(u.chains, []E{e})
		u.slots[i] = chainSlot(len(u.chains) - 1)
	case overflow:
		u.chains[s.chain()] = append(u.chains[s.chain()], e)
	}
	u.sz++
}

// Remove e from the set. Fails with Go_BSet.ErrNotFound if e isn't present.
// Shrinks if the load factor falls under the low-water mark.
func (u *ChainSet[E]) Remove(e E) error {
	i := u.slot(e)
	s := u.slots[i]
	if s == emptySlot {
		return notFound(e)
	}
	head := Sets.Equal(u.single.Get(i), e)
	switch {
	case head && s == singleSlot:
		u.single.Clr(i)
		u.slots[i] = emptySlot
	case s.kind() == overflow:
		k := s.chain()
		c := u.chains[k]
		j := len(c) - 1
		if !head {
			if j = indexOf(c, e); j < 0 {
				return notFound(e)
			}
		}
		// the last chained value fills the hole, in the store or in the chain
		last := len(c) - 1
		if head {
			u.single.Set(i, c[last])
		} else {
			c[j] = c[last]
		}
		var zero E
		c[last] = zero
		if last == 0 {
			u.dropChain(k)
			u.slots[i] = singleSlot
		} else {
			u.chains[k] = c[:last]
		}
	default:
		return notFound(e)
	}
	u.sz--
	if Sets.Sparse(u.sz, u.Capacity(), u.cfg.MinLoad) {
		if n := u.cfg.Shrunk(u.Capacity()); n < u.Capacity() {
			u.rehash(n, "shrink")
		}
	}
	return nil
}

// dropChain frees pool entry k by moving the last chain into it.
func (u *ChainSet[E]) dropChain(k int) {
	last := len(u.chains) - 1
	if k != last {
		u.chains[k] = u.chains[last]
		u.slots[u.slot(u.chains[k][0])] = chainSlot(k)
	}
	u.chains[last] = nil
	u.chains = u.chains[:last]
}

func notFound[E Sets.Number](e E) error {
	return errors.Wrapf(Go_BSet.ErrNotFound, "remove %v", e)
}

// rehash rebuilds the table with capacity slots and re-inserts every value.
// The new chain pool keeps a quarter of headroom.
func (u *ChainSet[E]) rehash(capacity uint, why string) {
	from := u.Capacity()
	M := newTable(capacity, u.cfg, u.hash, u.log)
	u.Range(func(e E) bool {
		M.insert(e)
		return true
	})
	n := len(M.chains)
	u.chains = append(make([][]E, 0, n+n/4+1), M.chains...)
	u.slots, u.single = M.slots, M.single
	u.log.Debug(why, zap.Uint("from", from), zap.Uint("to", capacity), zap.Uint("size", u.sz))
}

// Take an arbitrary element from the set. Faster than iterating with Range.
func (u *ChainSet[E]) Take() (e E, ok bool) {
	if len(u.chains) > 0 {
		return u.chains[0][0], true
	}
	for i, s := range u.slots {
		if s != emptySlot {
			return u.single.Get(uint(i)), true
		}
	}
	return
}

// Range over the values in slot order. Stops when f returns false.
// The set must not be modified during the iteration.
func (u *ChainSet[E]) Range(f func(E) bool) {
	for i, s := range u.slots {
		if s == emptySlot {
			continue
		}
		if !f(u.single.Get(uint(i))) {
			return
		}
		if s.kind() == overflow {
			for _, e := range u.chains[s.chain()] {
				if !f(e) {
					return
				}
			}
		}
	}
}

// Iter walks the values in the same order as Range, one per call.
// j is 0 before a slot's stored value is yielded, then 1 + the chain position.
func (u *ChainSet[E]) Iter() func() (E, bool) {
	i, j := 0, 0
	return func() (e E, ok bool) {
		for ; i < len(u.slots); i, j = i+1, 0 {
			s := u.slots[i]
			if s == emptySlot {
				continue
			}
			if j == 0 {
				j++
				return u.single.Get(uint(i)), true
			}
			if s.kind() == overflow {
				if c := u.chains[s.chain()]; j <= len(c) {
					j++
					return c[j-2], true
				}
			}
		}
		return
	}
}

// Footprint is an estimate of the bytes held by the set.
func (u *ChainSet[E]) Footprint() uintptr {
	n := unsafe.Sizeof(*u) + uintptr(cap(u.slots))*unsafe.Sizeof(slot(0)) + u.single.Footprint() +
		uintptr(cap(u.chains))*unsafe.Sizeof([]E(nil))
	for _, c := range u.chains {
		n += uintptr(cap(c)) * unsafe.Sizeof(*new(E))
	}
	return n
}

func (u *ChainSet[E]) empty() *ChainSet[E] {
	return newTable(u.cfg.InitialCapacity, u.cfg, u.hash, u.log)
}

// Union returns a new ChainSet holding the values of u and other.
func (u *ChainSet[E]) Union(other Sets.Table[E]) Sets.Table[E] {
	M := u.empty()
	Sets.Fill[E](M, u)
	Sets.Fill[E](M, other)
	return M
}

// Intersect returns a new ChainSet holding the values present in both u and other.
func (u *ChainSet[E]) Intersect(other Sets.Table[E]) Sets.Table[E] {
	M := u.empty()
	Sets.Common[E](M, u, other)
	return M
}
