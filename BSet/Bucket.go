package BSet

import (
	"reflect"
	"unsafe"

	"github.com/emirpasic/gods/sets/hashset"
	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/g-m-twostay/go-bset/Sets"
	"github.com/pkg/errors"
)

// bucket holds the members of one Kind.
type bucket interface {
	put(Value) (bool, error)
	has(Value) bool
	remove(Value) error
	size() uint
	capacity() uint
	footprint() uintptr
	each(func(Value) bool) bool
	iter() func() (Value, bool)
	union(bucket) bucket
	intersect(bucket) bucket
}

// numBucket stores one numeric Kind in a typed table.
type numBucket[E Sets.Number] struct {
	t    Sets.Table[E]
	from func(Value) E
	to   func(E) Value
}

func (b *numBucket[E]) put(v Value) (bool, error) {
	return b.t.Put(b.from(v)), nil
}

func (b *numBucket[E]) has(v Value) bool {
	return b.t.Has(b.from(v))
}

func (b *numBucket[E]) remove(v Value) error {
	return b.t.Remove(b.from(v))
}

func (b *numBucket[E]) size() uint {
	return b.t.Size()
}

func (b *numBucket[E]) capacity() uint {
	return b.t.Capacity()
}

func (b *numBucket[E]) footprint() uintptr {
	return unsafe.Sizeof(*b) + b.t.Footprint()
}

func (b *numBucket[E]) each(f func(Value) bool) (done bool) {
	done = true
	b.t.Range(func(e E) bool {
		done = f(b.to(e))
		return done
	})
	return
}

func (b *numBucket[E]) iter() func() (Value, bool) {
	next := b.t.Iter()
	return func() (Value, bool) {
		if e, ok := next(); ok {
			return b.to(e), true
		}
		return Value{}, false
	}
}

func (b *numBucket[E]) union(o bucket) bucket {
	return &numBucket[E]{t: b.t.Union(o.(*numBucket[E]).t), from: b.from, to: b.to}
}

func (b *numBucket[E]) intersect(o bucket) bucket {
	return &numBucket[E]{t: b.t.Intersect(o.(*numBucket[E]).t), from: b.from, to: b.to}
}

// setBucket stores text or opaque values in a gods hashset.
type setBucket struct {
	s     *hashset.Set
	from  func(Value) any
	to    func(any) Value
	weigh func(any) uintptr // bytes a member holds outside the set
	extra uintptr
}

func textBucket() bucket {
	return &setBucket{
		s:     hashset.New(),
		from:  func(v Value) any { return v.text },
		to:    func(x any) Value { return TextValue(x.(string)) },
		weigh: func(x any) uintptr { return uintptr(len(x.(string))) },
	}
}

func objectBucket() bucket {
	return &setBucket{
		s:     hashset.New(),
		from:  func(v Value) any { return v.obj },
		to:    ObjectValue,
		weigh: func(any) uintptr { return 0 },
	}
}

// hashable reports whether x can be a key of a Go map without panicking.
func hashable(x any) bool {
	return x == nil || reflect.ValueOf(x).Comparable()
}

// add x, known to be hashable.
func (b *setBucket) add(x any) bool {
	if b.s.Contains(x) {
		return false
	}
	b.s.Add(x)
	b.extra += b.weigh(x)
	return true
}

func (b *setBucket) put(v Value) (bool, error) {
	x := b.from(v)
	if !hashable(x) {
		return false, errors.Wrapf(Go_BSet.ErrUnhashable, "add %T", x)
	}
	return b.add(x), nil
}

func (b *setBucket) has(v Value) bool {
	x := b.from(v)
	return hashable(x) && b.s.Contains(x)
}

func (b *setBucket) remove(v Value) error {
	x := b.from(v)
	if !hashable(x) {
		return errors.Wrapf(Go_BSet.ErrUnhashable, "remove %T", x)
	}
	if !b.s.Contains(x) {
		return errors.Wrapf(Go_BSet.ErrNotFound, "remove %v", v)
	}
	b.s.Remove(x)
	b.extra -= b.weigh(x)
	return nil
}

func (b *setBucket) size() uint {
	return uint(b.s.Size())
}

// capacity is zero: gods sets are Go maps, sized by the runtime.
func (b *setBucket) capacity() uint {
	return 0
}

// footprint assumes a Go map spends about two interface words and a tophash byte per entry.
func (b *setBucket) footprint() uintptr {
	return unsafe.Sizeof(*b) + uintptr(b.s.Size())*(2*unsafe.Sizeof(any(nil))+1) + b.extra
}

func (b *setBucket) each(f func(Value) bool) bool {
	next := b.iter()
	for v, ok := next(); ok; v, ok = next() {
		if !f(v) {
			return false
		}
	}
	return true
}

// iter walks a snapshot of the members taken when it is called, since a Go map can't be walked a step at a time.
// The snapshot costs one interface per member.
func (b *setBucket) iter() func() (Value, bool) {
	vs, i := b.s.Values(), 0
	return func() (Value, bool) {
		if i < len(vs) {
			i++
			return b.to(vs[i-1]), true
		}
		return Value{}, false
	}
}

func (b *setBucket) empty() *setBucket {
	return &setBucket{s: hashset.New(), from: b.from, to: b.to, weigh: b.weigh}
}

func (b *setBucket) union(o bucket) bucket {
	M := b.empty()
	for _, x := range b.s.Values() {
		M.add(x)
	}
	for _, x := range o.(*setBucket).s.Values() {
		M.add(x)
	}
	return M
}

func (b *setBucket) intersect(o bucket) bucket {
	M, small, large := b.empty(), b.s, o.(*setBucket).s
	if small.Size() > large.Size() {
		small, large = large, small
	}
	for _, x := range small.Values() {
		if large.Contains(x) {
			M.add(x)
		}
	}
	return M
}
