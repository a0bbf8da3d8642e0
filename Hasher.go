package Go_BSet

import (
	_ "runtime"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

//go:linkname rtHash runtime.memhash
//go:noescape
func rtHash(ptr unsafe.Pointer, seed uint, len uintptr) uint

//go:linkname rtHash64 runtime.memhash64
//go:noescape
func rtHash64(ptr unsafe.Pointer, seed uint) uint

//go:linkname rtHash32 runtime.memhash32
//go:noescape
func rtHash32(ptr unsafe.Pointer, seed uint) uint

// Hasher is a hash seed. The receivers are thread-safe, but the memory contents aren't read in a thread-safe way, so only use it on synchronized memory.
type Hasher uint

// HashMem hashes the memory contents in the range [addr, addr+size) with the runtime's map hash.
func (u Hasher) HashMem(addr unsafe.Pointer, size uintptr) uint {
	if size == 4 {
		return rtHash32(addr, uint(u))
	} else if size == 8 {
		return rtHash64(addr, uint(u))
	}
	return rtHash(addr, uint(u), size)
}

// HashBytes hashes the given byte slice with the runtime's map hash.
func (u Hasher) HashBytes(b []byte) uint {
	if len(b) == 0 {
		return rtHash(nil, uint(u), 0)
	}
	return u.HashMem(unsafe.Pointer(&b[0]), uintptr(len(b)))
}

// HashKind selects the function used to hash fixed width values.
type HashKind byte

const (
	XXHash HashKind = iota
	XXH3
	Runtime
)

var hashNames = [...]string{XXHash: "xxhash", XXH3: "xxh3", Runtime: "runtime"}

func (k HashKind) String() string {
	if int(k) < len(hashNames) {
		return hashNames[k]
	}
	return "unknown"
}

// ParseHashKind maps a config name to a HashKind. The empty string means XXHash.
func ParseHashKind(name string) (HashKind, error) {
	if name == "" {
		return XXHash, nil
	}
	for k, n := range hashNames {
		if strings.EqualFold(n, name) {
			return HashKind(k), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown hash %q", name)
}

// Sum hashes the size bytes at addr using k, mixed with seed.
func (k HashKind) Sum(seed Hasher, addr unsafe.Pointer, size uintptr) uint {
	switch k {
	case Runtime:
		return seed.HashMem(addr, size)
	case XXH3:
		return uint(xxh3.Hash(unsafe.Slice((*byte)(addr), size)) ^ mix(uint64(seed)))
	default:
		return uint(xxhash.Sum64(unsafe.Slice((*byte)(addr), size)) ^ mix(uint64(seed)))
	}
}

// mix is the splitmix64 finalizer; a zero seed stays zero.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	return x ^ x>>31
}
