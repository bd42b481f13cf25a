package trackgo

import (
	"github.com/hupe1980/trackgo/model"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	featureCounts    map[model.ViewID]uint32
}

// Option configures a TracksBuilder.
type Option func(*options)

// WithLogger configures the logger used for phase summaries.
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

// WithMetricsCollector configures the metrics collector invoked after each
// phase. If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithDeclaredFeatureCounts declares, per view, the number of features the
// caller extracted. When set, Build rejects matches whose feature index is
// at or beyond the declared count of its view. Without it, indices are
// trusted.
func WithDeclaredFeatureCounts(counts map[model.ViewID]uint32) Option {
	return func(o *options) {
		o.featureCounts = counts
	}
}

// FilterOptions controls the filter phase.
type FilterOptions struct {
	// MinTrackLength is the minimum number of distinct observations a class
	// needs to survive. Classes below it are dropped.
	MinTrackLength int

	// Parallel partitions classes across workers. It is a tuning knob with
	// no behavioral effect: the same set of classes survives either way.
	Parallel bool

	// Workers is the worker count used when Parallel is set.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int
}

// FilterOption mutates FilterOptions.
type FilterOption func(*FilterOptions)

// WithMinTrackLength sets the minimum surviving track length (default 2).
func WithMinTrackLength(n int) FilterOption {
	return func(o *FilterOptions) {
		o.MinTrackLength = n
	}
}

// WithParallelFilter toggles parallel class scanning (default true).
func WithParallelFilter(parallel bool) FilterOption {
	return func(o *FilterOptions) {
		o.Parallel = parallel
	}
}

// WithFilterWorkers sets the worker count for the parallel filter.
func WithFilterWorkers(n int) FilterOption {
	return func(o *FilterOptions) {
		o.Workers = n
	}
}
