package squarelist

import (
	"log/slog"

	"github.com/hupe1980/squarelist/resource"
)

// DefaultCapacity is the capacity used when WithCapacity is not given.
const DefaultCapacity = 16

type options struct {
	capacity         int
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures a SquareList at construction.
type Option func(*options)

// WithCapacity sizes the initial backing store for about capacity values.
// The store holds maxDepth × (maxDepth+1) cells with maxDepth = ⌈√capacity⌉,
// so the reported Capacity is usually a little larger.
// Negative values are treated as 0.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = max(capacity, 0)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &squarelist.BasicMetricsCollector{}
//	sq, _ := squarelist.New[int](squarelist.WithMetricsCollector(metrics))
//	// ... use sq ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for relayouts and bulk loads.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := squarelist.NewJSONLogger(slog.LevelInfo)
//	sq, _ := squarelist.New[int](squarelist.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the bytes this list may spend on its backing store.
// Growth beyond the limit makes Insert fail with resource.ErrMemoryLimitExceeded.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.rc = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

// WithResourceController charges backing-store memory to rc, which may be
// shared between lists to enforce a common budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		capacity:         DefaultCapacity,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
