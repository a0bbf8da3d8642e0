package Sets

import (
	"math"
	"math/bits"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config holds the construction parameters of a typed table.
// Unset fields are not defaulted by the tables; start from the table package's DefaultConfig.
type Config struct {
	// InitialCapacity is the number of slots of a new table.
	InitialCapacity uint `toml:"initial-capacity"`
	// MaxLoad is the load factor ceiling. A table expands rather than exceed it.
	MaxLoad float64 `toml:"max-load"`
	// MinLoad is the low-water mark. A remove leaving the load factor under it shrinks the table.
	MinLoad float64 `toml:"min-load"`
	// Grow multiplies the capacity on expansion.
	Grow float64 `toml:"grow"`
	// LateGrow replaces Grow once the capacity reaches GrowKnee. Zero disables it.
	LateGrow float64 `toml:"late-grow"`
	GrowKnee uint    `toml:"grow-knee"`
	// Shrink divides the capacity on shrinking.
	Shrink float64 `toml:"shrink"`
	// MaxUsed bounds live plus tombstoned slots in open addressing tables.
	MaxUsed float64 `toml:"max-used"`
	// Probe names the probe sequence of open addressing tables: "linear" or "triangular".
	Probe string `toml:"probe"`
	// Hash names the hash function: "xxhash", "xxh3" or "runtime".
	Hash string `toml:"hash"`
	Seed uint64 `toml:"seed"`

	Logger *zap.Logger `toml:"-"`
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(Go_BSet.ErrInvalidConfig, format, args...)
}

func bad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Validate checks the parameters shared by every table kind.
func (c *Config) Validate() error {
	switch {
	case c.InitialCapacity == 0:
		return invalid("initial capacity must be positive")
	case bad(c.MaxLoad) || c.MaxLoad <= 0:
		return invalid("max load %v must be positive", c.MaxLoad)
	case bad(c.MinLoad) || c.MinLoad < 0:
		return invalid("min load %v must not be negative", c.MinLoad)
	case c.MinLoad >= c.MaxLoad:
		return invalid("min load %v must be below max load %v", c.MinLoad, c.MaxLoad)
	case bad(c.Grow) || c.Grow <= 1:
		return invalid("grow %v must exceed 1", c.Grow)
	case c.LateGrow != 0 && (bad(c.LateGrow) || c.LateGrow <= 1):
		return invalid("late grow %v must exceed 1", c.LateGrow)
	case bad(c.Shrink) || c.Shrink <= 1:
		return invalid("shrink %v must exceed 1", c.Shrink)
	case c.MinLoad*c.Shrink > c.MaxLoad:
		return invalid("min load %v times shrink %v exceeds max load %v", c.MinLoad, c.Shrink, c.MaxLoad)
	}
	if _, err := Go_BSet.ParseHashKind(c.Hash); err != nil {
		return err
	}
	return nil
}

// ValidateOpen additionally checks the parameters that open addressing depends on.
func (c *Config) ValidateOpen() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch {
	case !pow2(float64(c.InitialCapacity)):
		return invalid("initial capacity %d must be a power of two", c.InitialCapacity)
	case c.MaxLoad >= 1:
		return invalid("max load %v must be below 1", c.MaxLoad)
	case !pow2(c.Grow) || c.LateGrow != 0 && !pow2(c.LateGrow):
		return invalid("growth factors must be powers of two")
	case !pow2(c.Shrink):
		return invalid("shrink %v must be a power of two", c.Shrink)
	case bad(c.MaxUsed) || c.MaxUsed < c.MaxLoad || c.MaxUsed >= 1:
		return invalid("max used %v must be in [max load, 1)", c.MaxUsed)
	}
	_, err := ParseProbe(c.Probe)
	return err
}

func pow2(f float64) bool {
	if f < 1 || f > math.MaxUint32 || f != math.Trunc(f) {
		return false
	}
	return bits.OnesCount64(uint64(f)) == 1
}

// Log returns the configured logger, or a no-op one.
func (c *Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Grown is the capacity after one expansion from capacity. It always exceeds capacity.
func (c *Config) Grown(capacity uint) uint {
	f := c.Grow
	if c.LateGrow != 0 && c.GrowKnee != 0 && capacity >= c.GrowKnee {
		f = c.LateGrow
	}
	if n := uint(float64(capacity) * f); n > capacity {
		return n
	}
	return capacity + 1
}

// Shrunk is the capacity after one shrink from capacity, at least 1.
// It rounds up so that a shrink started under MinLoad ends at most at MinLoad*Shrink.
func (c *Config) Shrunk(capacity uint) uint {
	if n := uint(math.Ceil(float64(capacity) / c.Shrink)); n > 1 {
		return n
	}
	return 1
}

// Overloaded reports whether size/capacity > max.
func Overloaded(size, capacity uint, max float64) bool {
	return float64(size) > max*float64(capacity)
}

// Sparse reports whether size/capacity < min.
func Sparse(size, capacity uint, min float64) bool {
	return float64(size) < min*float64(capacity)
}
