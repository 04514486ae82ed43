package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/jfenner/leasesync/pkg/logging"
)

// options configures a Reconcile pass.
type options struct {
	logger zerolog.Logger
	dryRun bool
}

// Option configures the reconciler.
type Option func(*options)

// newOptions builds options from defaults and the given overrides.
func newOptions(opts ...Option) *options {
	o := &options{
		logger: *logging.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report per-IP decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDryRun makes the pass count and log decisions without issuing any
// write against the IPAM system.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}
