package Sets

import (
	"unsafe"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"golang.org/x/exp/constraints"
)

// Number is the set of fixed width element types a typed table can store.
type Number interface {
	constraints.Integer | constraints.Float
}

type Set[E any] interface {
	// Put e into the set. Returns true if e wasn't a member.
	Put(E) bool
	Has(E) bool
	// Remove e from the set. Fails with Go_BSet.ErrNotFound if e isn't a member.
	Remove(E) error
	Size() uint
	// Take an arbitrary member. The bool is false if the set is empty.
	Take() (E, bool)
	// Range calls f on members until f returns false.
	Range(func(E) bool)
}

// Table is a Set over fixed width values backed by a single hash table.
type Table[E Number] interface {
	Set[E]
	// Iter returns a closure acting like an iterator: val, valid = f(). val is meaningful only if valid is true.
	// The table must not be modified while f is in use.
	Iter() func() (E, bool)
	Capacity() uint
	LoadFactor() float64
	// Footprint is an estimate of the bytes held by the table.
	Footprint() uintptr
	// Union returns a new table with the receiver's configuration holding members of either table.
	Union(Table[E]) Table[E]
	// Intersect returns a new table with the receiver's configuration holding members of both tables.
	Intersect(Table[E]) Table[E]
}

// Equal is == except that all NaNs are equal to each other.
func Equal[E Number](a, b E) bool {
	return a == b || a != a && b != b
}

const nanHash uint = 0x7ff80001

// HashFunc returns the hash of E under kind k.
// -0 and +0 hash alike and every NaN hashes to the same value, agreeing with Equal.
func HashFunc[E Number](k Go_BSet.HashKind, seed uint64) func(E) uint {
	s := Go_BSet.Hasher(seed)
	return func(e E) uint {
		if e != e {
			return nanHash
		}
		if e == 0 {
			e = 0
		}
		return k.Sum(s, unsafe.Pointer(&e), unsafe.Sizeof(e))
	}
}

// Fill puts every member of src into dst.
func Fill[E Number](dst, src Table[E]) {
	src.Range(func(e E) bool {
		dst.Put(e)
		return true
	})
}

// Common puts members of a that are also in b into dst, iterating over the smaller one.
func Common[E Number](dst, a, b Table[E]) {
	if a.Size() > b.Size() {
		a, b = b, a
	}
	a.Range(func(e E) bool {
		if b.Has(e) {
			dst.Put(e)
		}
		return true
	})
}
