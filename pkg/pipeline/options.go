package pipeline

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	seed     uint64
	seeded   bool
	progress func(done, total int)
}

// Option configures Run and Inspect.
type Option func(*options)

// WithLogger sets the logger for stage transitions and engine debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSeed makes the run reproducible: the same seed, configuration and
// input always produce the same output.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = uint64(seed)
		o.seeded = true
	}
}

// WithProgress registers a callback invoked after every targeted frame.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if !o.seeded {
		o.seed = uint64(time.Now().UnixNano())
	}
	return o
}

func (o *options) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(o.seed, o.seed))
}
