package Sets

import (
	"strings"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/pkg/errors"
)

// ProbeKind is the probe sequence of an open addressing table.
type ProbeKind byte

const (
	// Linear probes home, home+1, home+2, ...
	Linear ProbeKind = iota
	// Triangular probes home, home+1, home+3, home+6, ... which visits every slot of a power of two table once.
	Triangular
)

func (p ProbeKind) String() string {
	if p == Triangular {
		return "triangular"
	}
	return "linear"
}

// ParseProbe maps a config name to a ProbeKind. The empty string means Linear.
func ParseProbe(name string) (ProbeKind, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear, nil
	case "triangular", "quadratic":
		return Triangular, nil
	}
	return 0, errors.Wrapf(Go_BSet.ErrInvalidConfig, "unknown probe %q", name)
}

// Next is the slot probed after i, where step counts the probes made so far starting at 1.
// mask is capacity-1 of a power of two table.
func (p ProbeKind) Next(i, step, mask uint) uint {
	if p == Triangular {
		return (i + step) & mask
	}
	return (i + 1) & mask
}
