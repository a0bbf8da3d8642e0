package internal

import "unsafe"

// Store is a packed array of fixed width values indexed by slot, with no per element header.
type Store[E any] struct {
	vs []E
}

func NewStore[E any](n uint) Store[E] {
	return Store[E]{vs: make([]E, n)}
}

func (s Store[E]) Len() uint {
	return uint(len(s.vs))
}

func (s Store[E]) Get(i uint) E {
	return s.vs[i]
}

func (s Store[E]) Set(i uint, e E) {
	s.vs[i] = e
}

// Clr zeroes slot i.
func (s Store[E]) Clr(i uint) {
	s.vs[i] = *new(E)
}

// Footprint is the number of bytes held by the values.
func (s Store[E]) Footprint() uintptr {
	return uintptr(cap(s.vs)) * unsafe.Sizeof(*new(E))
}
