package Go_BSet

import (
	"math/bits"
	"unsafe"
)

// NewBitArray returns a BitArray holding at least size bits, all down.
func NewBitArray(size uint) BitArray {
	return BitArray{bits: make([]uint, (size+bits.UintSize-1)/bits.UintSize)}
}

// BitArray is a fixed length array of flags packed into machine words.
type BitArray struct {
	bits []uint
}

func (u BitArray) Len() uint {
	return uint(len(u.bits)) * bits.UintSize
}

func (u BitArray) Get(i uint) bool {
	return (u.bits[i/bits.UintSize]>>(i%bits.UintSize))&1 == 1
}

func (u BitArray) Up(i uint) {
	u.bits[i/bits.UintSize] |= 1 << (i % bits.UintSize)
}

func (u BitArray) Down(i uint) {
	u.bits[i/bits.UintSize] &^= 1 << (i % bits.UintSize)
}

// Count of bits that are up.
func (u BitArray) Count() (n uint) {
	for _, w := range u.bits {
		n += uint(bits.OnesCount(w))
	}
	return
}

// Footprint is the number of bytes held by the words.
func (u BitArray) Footprint() uintptr {
	return uintptr(cap(u.bits)) * unsafe.Sizeof(uint(0))
}
