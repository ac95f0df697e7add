package primset

import (
	"github.com/cyraxred/primset/internal/core"
	"go.uber.org/zap"
)

// NewLogger returns a plain-text logger which writes to stdout and stderr
// through the standard log package.
func NewLogger() Logger {
	return core.NewLogger()
}

// NewZapLogger adapts a zap logger.
func NewZapLogger(logger *zap.Logger) Logger {
	return core.NewZapLogger(logger)
}

// NewNopLogger returns a logger which discards everything. Sets use it by default.
func NewNopLogger() Logger {
	return core.NewNopLogger()
}
