package ChainSet

import "github.com/g-m-twostay/go-bset/Sets"

// slotKind tags what a slot of the table holds.
type slotKind byte

const (
	empty    slotKind = iota // nothing hashes here
	single                   // one value, kept in the packed store
	overflow                 // one value in the packed store, the rest in a chain
)

func (k slotKind) String() string {
	switch k {
	case single:
		return "single"
	case overflow:
		return "overflow"
	}
	return "empty"
}

// slot is the tag of one table slot. Tags from firstChain on address the chain pool,
// so at most 1<<32 - 2 slots may overflow at once.
type slot uint32

const (
	emptySlot slot = iota
	singleSlot
	firstChain
)

func chainSlot(k int) slot {
	return slot(k) + firstChain
}

func (s slot) kind() slotKind {
	switch s {
	case emptySlot:
		return empty
	case singleSlot:
		return single
	}
	return overflow
}

// chain is the pool index of an overflow slot.
func (s slot) chain() int {
	return int(s - firstChain)
}

func indexOf[E Sets.Number](chain []E, e E) int {
	for i, x := range chain {
		if Sets.Equal(x, e) {
			return i
		}
	}
	return -1
}
