package spargo

import (
	"github.com/hupe1980/spargo/blobstore"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	store            blobstore.Store
	multiplyWorkers  int
	scatterAudit     bool
}

// Option configures engine behavior.
type Option func(*options)

// WithLogger configures the logger. Only the coordinator emits
// user-facing diagnostics; worker ranks stay silent regardless of the
// configured logger, except at debug level.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector.
//
// If nil is passed, metrics collection is disabled.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithStore configures the blob store the coordinator reads inputs
// from and writes the result to. Defaults to the local filesystem
// relative to the working directory.
func WithStore(s blobstore.Store) Option {
	return func(o *options) {
		if s == nil {
			s = blobstore.NewLocalStore("")
		}
		o.store = s
	}
}

// WithMultiplyWorkers configures how many goroutines the local multiply
// may use per rank. Values below 2 keep the multiply sequential.
func WithMultiplyWorkers(n int) Option {
	return func(o *options) {
		o.multiplyWorkers = n
	}
}

// WithScatterAudit enables a coordinator-side consistency check before
// scattering: the per-worker nonzero patterns must partition the global
// pattern. Costs one bitmap pass over the entries.
func WithScatterAudit(enabled bool) Option {
	return func(o *options) {
		o.scatterAudit = enabled
	}
}
