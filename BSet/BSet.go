package BSet

import (
	"math"
	"unsafe"

	"github.com/google/btree"
)

// BSet holds values of mixed kinds, each kind in its own bucket.
// Not safe for concurrent use: callers serialize mutation, and iteration that may overlap it, behind their own lock.
type BSet struct {
	buckets [numKinds]bucket
	cfg     Config
}

// New BSet configured by cfg. Returns Go_BSet.ErrInvalidConfig if a numeric table rejects its parameters.
func New(cfg Config) (*BSet, error) {
	if cfg.Logger != nil {
		if cfg.Int.Logger == nil {
			cfg.Int.Logger = cfg.Logger
		}
		if cfg.Float.Logger == nil {
			cfg.Float.Logger = cfg.Logger
		}
	}
	ints, err := newTable[int64](cfg.IntTable, cfg.Int)
	if err != nil {
		return nil, err
	}
	floats, err := newTable[float64](cfg.FloatTable, cfg.Float)
	if err != nil {
		return nil, err
	}
	u := &BSet{cfg: cfg}
	u.buckets[Int] = &numBucket[int64]{
		t:    ints,
		from: Value.Int,
		to:   IntValue,
	}
	u.buckets[Float] = &numBucket[float64]{
		t:    floats,
		from: Value.Float,
		to:   FloatValue,
	}
	u.buckets[Text] = textBucket()
	u.buckets[Object] = objectBucket()
	return u, nil
}

// Default is New with DefaultConfig.
func Default() *BSet {
	u, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return u
}

// From builds a default BSet holding items, each classified with Of.
func From(items ...any) (*BSet, error) {
	u := Default()
	for _, x := range items {
		if err := u.Add(Of(x)); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Add v. Adding a member again does nothing. Only an unhashable opaque value fails, with Go_BSet.ErrUnhashable.
func (u *BSet) Add(v Value) error {
	_, err := u.buckets[v.kind].put(v)
	return err
}

// Remove v, or return Go_BSet.ErrNotFound if it isn't a member.
func (u *BSet) Remove(v Value) error {
	return u.buckets[v.kind].remove(v)
}

func (u *BSet) Contains(v Value) bool {
	return u.buckets[v.kind].has(v)
}

func (u *BSet) Len() int {
	n := uint(0)
	for _, b := range u.buckets {
		n += b.size()
	}
	return int(n)
}

// Range calls f on every member, kind by kind in Kind order, until f returns false.
func (u *BSet) Range(f func(Value) bool) {
	for _, b := range u.buckets {
		if !b.each(f) {
			return
		}
	}
}

// Iter is a lazy Range. The returned function yields members until its second result is false.
func (u *BSet) Iter() func() (Value, bool) {
	k, next := Int, u.buckets[Int].iter()
	return func() (Value, bool) {
		for k < numKinds {
			if v, ok := next(); ok {
				return v, true
			}
			if k++; k < numKinds {
				next = u.buckets[k].iter()
			}
		}
		return Value{}, false
	}
}

// peer views other as a BSet shaped like u. A BSet is used as is; anything else is copied into a new one,
// dropping the values it can't hold.
func (u *BSet) peer(other Ranger) *BSet {
	if o, ok := other.(*BSet); ok {
		return o
	}
	o, err := New(u.cfg)
	if err != nil {
		panic(err) // u was built from the same config
	}
	other.Range(func(v Value) bool {
		_ = o.Add(v)
		return true
	})
	return o
}

// combine builds a BSet whose buckets are f applied to the like buckets of u and other.
func (u *BSet) combine(other Ranger, f func(a, b bucket) bucket) *BSet {
	o := u.peer(other)
	M := &BSet{cfg: u.cfg}
	for k := range M.buckets {
		M.buckets[k] = f(u.buckets[k], o.buckets[k])
	}
	return M
}

// Union is a new BSet with the members of u and other. other is any Ranger, such as a Slice.
func (u *BSet) Union(other Ranger) *BSet {
	return u.combine(other, bucket.union)
}

// Intersect is a new BSet with the members common to u and other.
func (u *BSet) Intersect(other Ranger) *BSet {
	return u.combine(other, bucket.intersect)
}

// Capacity sums the slots of the numeric tables.
func (u *BSet) Capacity() uint {
	return u.buckets[Int].capacity() + u.buckets[Float].capacity()
}

// Footprint estimates the bytes held by u. Meant for diagnostics only.
func (u *BSet) Footprint() uintptr {
	n := unsafe.Sizeof(*u)
	for _, b := range u.buckets {
		n += b.footprint()
	}
	return n
}

func lessValue(a, b Value) bool {
	if a.kind == Float {
		x, y := a.Float(), b.Float()
		if math.IsNaN(y) {
			return !math.IsNaN(x)
		}
		return x < y
	}
	return a.Int() < b.Int()
}

// Sorted lists the members of a numeric kind in ascending order, NaN last. Other kinds give nil.
func (u *BSet) Sorted(k Kind) []Value {
	if k != Int && k != Float {
		return nil
	}
	b := u.buckets[k]
	t := btree.NewG[Value](32, lessValue)
	b.each(func(v Value) bool {
		t.ReplaceOrInsert(v)
		return true
	})
	vs := make([]Value, 0, t.Len())
	t.Ascend(func(v Value) bool {
		vs = append(vs, v)
		return true
	})
	return vs
}
