package vamana

import (
	"github.com/hupe1980/vamana/resource"
	"github.com/hupe1980/vamana/scratch"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	ioContexts       []scratch.IOContext
}

// Option configures constructor behavior.
type Option func(*options)

// WithLogger injects a logger. Defaults to a text logger at info level.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector injects a metrics sink. Defaults to no-op.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithResourceController injects a shared resource controller. By default
// one is built from the Config limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithIOContexts supplies the opaque I/O handles bound 1:1 to the disk
// scratch pool slots. The slice length must equal Config.PoolSize; the
// handles stay owned by the I/O subsystem that created them.
func WithIOContexts(ctxs []scratch.IOContext) Option {
	return func(o *options) {
		o.ioContexts = ctxs
	}
}
