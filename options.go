package shadercache

import (
	"log/slog"

	"github.com/hupe1980/shadercache/format"
	"github.com/hupe1980/shadercache/internal/fs"
)

// DefaultPath is the backing file used when WithPath is not given.
const DefaultPath = format.DefaultPath

type options struct {
	path             string
	fs               fs.FileSystem
	logger           *Logger
	metricsCollector MetricsCollector
	memoryLimit      int64
	flushRateLimit   int64
	checkpointSpec   string
	disabled         bool
	lock             bool
}

// Option configures Open.
type Option func(*options)

// WithPath sets the backing file location.
// Relative paths resolve against the working directory.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &shadercache.BasicMetricsCollector{}
//	c, _ := shadercache.Open(shadercache.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("hit ratio: %.2f\n", stats.HitRatio)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := shadercache.NewJSONLogger(slog.LevelInfo)
//	c, _ := shadercache.Open(shadercache.WithLogger(logger))
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

// WithMemoryLimit caps the bytes retained by the table (keys plus bytecode).
// Entries that do not fit are dropped; the caller simply sees a miss later.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithFlushRateLimit throttles writes of the backing file to bytesPerSec.
// The throttled write runs outside the table lock, so only Flush and Close
// wait for it. Zero means unlimited.
func WithFlushRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.flushRateLimit = bytesPerSec
	}
}

// WithCheckpoint flushes the table on a cron schedule in addition to Close,
// e.g. "@every 5m" or "0 * * * *". An invalid spec makes Open fail.
func WithCheckpoint(spec string) Option {
	return func(o *options) {
		o.checkpointSpec = spec
	}
}

// WithDisabled opens the cache in the disabled state. See SetEnabled.
func WithDisabled() Option {
	return func(o *options) {
		o.disabled = true
	}
}

// WithoutLock skips the advisory lock on the backing file.
// Only use this when another mechanism guarantees a single owner.
func WithoutLock() Option {
	return func(o *options) {
		o.lock = false
	}
}

func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		path:             DefaultPath,
		fs:               fs.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		lock:             true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
