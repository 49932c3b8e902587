package extjson

import (
	"log/slog"
	"runtime"
)

// DefaultMaxDepth is the default limit on array/document nesting.
const DefaultMaxDepth = 1000

type options struct {
	strategies       Strategies
	metricsCollector MetricsCollector
	logger           *Logger
	maxDepth         int
	concurrency      int
}

// Option configures an Encoder or Decoder.
type Option func(*options)

// WithStrategies configures the per-type encoding strategies.
// The default is ExtendedJSON().
//
// Example with relaxed output for generic JSON consumers:
//
//	enc := extjson.NewEncoder(extjson.WithStrategies(extjson.Plain()))
//
// Or a custom combination:
//
//	s := extjson.ExtendedJSON().
//	    WithDate(extjson.DateMillisecondsSinceEpoch()).
//	    WithKeyedNil(extjson.KeyedNilNull)
func WithStrategies(s Strategies) Option {
	return func(o *options) {
		o.strategies = s
	}
}

// WithMaxDepth limits how deeply arrays and documents may nest.
// Values <= 0 restore DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		o.maxDepth = depth
	}
}

// WithConcurrency limits the number of goroutines used by EncodeBatch and
// DecodeBatch. Values <= 0 restore the default of runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &extjson.BasicMetricsCollector{}
//	enc := extjson.NewEncoder(extjson.WithMetricsCollector(metrics))
//	// ... use enc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Encodes: %d, Avg latency: %dns\n", stats.EncodeCount, stats.EncodeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := extjson.NewJSONLogger(slog.LevelDebug)
//	dec := extjson.NewDecoder(extjson.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		strategies:       ExtendedJSON(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		maxDepth:         DefaultMaxDepth,
		concurrency:      runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
