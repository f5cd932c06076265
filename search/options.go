package search

import (
	"fmt"

	"github.com/maxjeanfavre/grover/simulator"
)

// Option configures the search driver; see WithShots, WithSeed and
// WithBackend.
type Option func(*options) error

type options struct {
	shots   int
	seed    int64
	backend Backend
}

func defaultOptions(opts ...Option) (options, error) {
	opt := options{
		shots:   1024,
		seed:    1,
		backend: simulator.New(),
	}
	for _, o := range opts {
		if err := o(&opt); err != nil {
			return options{}, err
		}
	}
	return opt, nil
}

// WithShots sets the number of measurement repetitions (default 1024).
func WithShots(shots int) Option {
	return func(opt *options) error {
		if shots < 1 {
			return fmt.Errorf("shots must be at least 1, got %d", shots)
		}
		opt.shots = shots
		return nil
	}
}

// WithSeed sets the sampling seed (default 1). The backend is deterministic
// under a fixed seed.
func WithSeed(seed int64) Option {
	return func(opt *options) error {
		opt.seed = seed
		return nil
	}
}

// WithBackend sets the execution backend (default: the bundled state-vector
// simulator).
func WithBackend(b Backend) Option {
	return func(opt *options) error {
		if b == nil {
			return fmt.Errorf("backend must not be nil")
		}
		opt.backend = b
		return nil
	}
}
