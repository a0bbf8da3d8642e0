package BSet

import (
	"strings"

	"github.com/BurntSushi/toml"
	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/g-m-twostay/go-bset/Sets"
	"github.com/g-m-twostay/go-bset/Sets/ChainSet"
	"github.com/g-m-twostay/go-bset/Sets/ProbeSet"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Engine names of the numeric tables.
const (
	Chain = "chain"
	Probe = "probe"
)

// Config selects and configures the numeric tables of a BSet.
// Text and opaque values always live in equality based sets and take no parameters.
type Config struct {
	IntTable   string      `toml:"int-table"`
	FloatTable string      `toml:"float-table"`
	Int        Sets.Config `toml:"int"`
	Float      Sets.Config `toml:"float"`

	Logger *zap.Logger `toml:"-"`
}

// DefaultConfig uses open addressing for both numeric kinds.
func DefaultConfig() Config {
	return Config{
		IntTable:   Probe,
		FloatTable: Probe,
		Int:        ProbeSet.DefaultConfig(),
		Float:      ProbeSet.DefaultConfig(),
	}
}

func defaultsFor(engine string) (Sets.Config, error) {
	switch strings.ToLower(engine) {
	case Chain:
		return ChainSet.DefaultConfig(), nil
	case Probe, "":
		return ProbeSet.DefaultConfig(), nil
	}
	return Sets.Config{}, errors.Wrapf(Go_BSet.ErrInvalidConfig, "unknown table engine %q", engine)
}

// LoadConfig reads a TOML file. Table parameters the file leaves out take the defaults of the engine it names.
// Keys that match no parameter are rejected with Go_BSet.ErrInvalidConfig.
func LoadConfig(path string) (Config, error) {
	var head struct {
		IntTable   string `toml:"int-table"`
		FloatTable string `toml:"float-table"`
	}
	if _, err := toml.DecodeFile(path, &head); err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := Config{IntTable: strings.ToLower(head.IntTable), FloatTable: strings.ToLower(head.FloatTable)}
	if cfg.IntTable == "" {
		cfg.IntTable = Probe
	}
	if cfg.FloatTable == "" {
		cfg.FloatTable = Probe
	}
	var err error
	if cfg.Int, err = defaultsFor(cfg.IntTable); err != nil {
		return Config{}, err
	}
	if cfg.Float, err = defaultsFor(cfg.FloatTable); err != nil {
		return Config{}, err
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.Wrapf(Go_BSet.ErrInvalidConfig, "unknown keys %v in %s", keys, path)
	}
	return cfg, nil
}

func newTable[E Sets.Number](engine string, cfg Sets.Config) (Sets.Table[E], error) {
	switch strings.ToLower(engine) {
	case Chain:
		t, err := ChainSet.New[E](cfg)
		if err != nil {
			return nil, errors.WithMessage(err, "chain table")
		}
		return t, nil
	case Probe, "":
		t, err := ProbeSet.New[E](cfg)
		if err != nil {
			return nil, errors.WithMessage(err, "probe table")
		}
		return t, nil
	}
	return nil, errors.Wrapf(Go_BSet.ErrInvalidConfig, "unknown table engine %q", engine)
}
