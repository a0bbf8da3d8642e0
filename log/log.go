package log

import (
	"strings"

	Go_BSet "github.com/g-m-twostay/go-bset"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger at level ("debug", "info", "warn", "error"; empty means info).
// dev selects zap's development config with colored levels.
func New(level string, dev bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, errors.Wrapf(Go_BSet.ErrInvalidConfig, "log level %q", level)
		}
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if dev {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// Must is New that panics on an error.
func Must(level string, dev bool) *zap.Logger {
	logger, err := New(level, dev)
	if err != nil {
		panic(err)
	}
	return logger
}
