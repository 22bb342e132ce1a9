// Package resource implements the Controller for memory, worker and IO limits.
//
// The Controller manages three resource types:
//
//   - Memory: Track and limit bytes retained by the cache table (non-blocking, fail-fast)
//   - Workers: Limit concurrent shader compilations during a pipeline reload
//   - IO: Rate-limit writes of the cache file
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory never blocks:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(int64(len(data))); err != nil {
//	    // ErrMemoryLimitExceeded - do not retain the entry
//	}
//	defer rc.ReleaseMemory(int64(len(data)))
//
// # Worker Limits
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 4})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO Rate Limiting
//
// Token bucket rate limiter. RateLimitedWriter splits large writes into
// burst-sized chunks:
//
//	w := resource.NewRateLimitedWriter(ctx, file, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
