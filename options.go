package primset

import (
	"github.com/cyraxred/primset/internal/core"
	"github.com/cyraxred/primset/internal/rbtree"
)

// Option tunes a Set at construction time.
type Option func(*config)

type config struct {
	capacity        int
	coloring        Coloring
	shrinkThreshold float64
	logger          core.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		coloring:        ColoringBalanced,
		shrinkThreshold: rbtree.DefaultShrinkThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = core.NewNopLogger()
	}
	return cfg
}

// WithCapacity preallocates room for the given number of keys.
func WithCapacity(capacity int) Option {
	return func(cfg *config) {
		if capacity > 0 {
			cfg.capacity = capacity
		}
	}
}

// WithColoring sets the coloring applied by the automatic shrink compactions.
func WithColoring(coloring Coloring) Option {
	return func(cfg *config) {
		cfg.coloring = coloring
	}
}

// WithShrinkThreshold sets the ratio of live keys to the allocated slots below
// which removals compact the storage. Zero disables shrinking.
func WithShrinkThreshold(threshold float64) Option {
	return func(cfg *config) {
		cfg.shrinkThreshold = threshold
	}
}

// WithLogger sets the logger which reports the automatic compactions.
func WithLogger(logger core.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
