package save

import "github.com/caresync/crosswalk/pkg/constants"

// Options is the configuration for plan writing.
type Options struct {
	dir    string
	dryRun bool
}

// Dir returns the plan root directory.
func (o *Options) Dir() string {
	return o.dir
}

// DryRun reports whether writes are suppressed.
func (o *Options) DryRun() bool {
	return o.dryRun
}

// DefaultOptions returns the default plan writing options.
func DefaultOptions() *Options {
	return &Options{
		dir: constants.DefaultPlanDir,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// Option is a function that configures plan writing.
type Option func(*Options)

// WithDir sets the plan root directory.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.dir = dir
	}
}

// WithDryRun suppresses filesystem writes.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.dryRun = dryRun
	}
}
