package pointgraph

import (
	"log/slog"
	"runtime"

	"golang.org/x/time/rate"
)

// options holds engine-wide settings.
type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	workers          int
	chunkSize        int
	batchLimit       int
	batchLimiter     *rate.Limiter
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the structured logger.
// If not set, logging is disabled.
//
// Example:
//
//	engine := pointgraph.New(pointgraph.WithLogger(pointgraph.NewJSONLogger(slog.LevelInfo)))
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLogLevel installs a text logger at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics collector.
// If not set, metrics are not collected.
//
// Example:
//
//	metrics := &pointgraph.BasicMetricsCollector{}
//	engine := pointgraph.New(pointgraph.WithMetricsCollector(metrics))
//	// ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithWorkers bounds the number of concurrently running scopes inside one
// unit of work. Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets the number of points per scope. Values <= 0 select
// the default of 256.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithBatchLimit bounds the number of units processed concurrently by the
// batch APIs. Values <= 0 mean one unit per worker.
func WithBatchLimit(n int) Option {
	return func(o *options) {
		o.batchLimit = n
	}
}

// WithBatchRate throttles the batch APIs to start at most perSecond units per
// second, with bursts of up to burst units. A non-positive rate disables
// throttling.
func WithBatchRate(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond <= 0 {
			o.batchLimiter = nil
			return
		}
		o.batchLimiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

const defaultChunkSize = 256

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = &NoopMetricsCollector{}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.chunkSize <= 0 {
		o.chunkSize = defaultChunkSize
	}
	if o.batchLimit <= 0 {
		o.batchLimit = o.workers
	}
	return o
}
