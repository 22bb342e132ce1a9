package shadercache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting cache metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each lookup on an enabled cache.
	RecordLookup(hit bool)

	// RecordStore is called after each store on an enabled cache.
	// admitted is false when the entry did not fit the memory limit.
	RecordStore(size int, admitted bool)

	// RecordLoad is called after each load of the backing file.
	RecordLoad(entries int, duration time.Duration, err error)

	// RecordFlush is called after each write of the backing file.
	RecordFlush(entries int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(bool)                            {}
func (NoopMetricsCollector) RecordStore(int, bool)                        {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordFlush(int, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Hits            atomic.Int64
	Misses          atomic.Int64
	Stores          atomic.Int64
	StoresRejected  atomic.Int64
	StoredBytes     atomic.Int64
	Loads           atomic.Int64
	LoadErrors      atomic.Int64
	LoadedEntries   atomic.Int64
	Flushes         atomic.Int64
	FlushErrors     atomic.Int64
	FlushedBytes    atomic.Int64
	FlushTotalNanos atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(hit bool) {
	if hit {
		b.Hits.Add(1)
	} else {
		b.Misses.Add(1)
	}
}

// RecordStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStore(size int, admitted bool) {
	b.Stores.Add(1)
	if !admitted {
		b.StoresRejected.Add(1)
		return
	}
	b.StoredBytes.Add(int64(size))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(entries int, _ time.Duration, err error) {
	b.Loads.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedEntries.Add(int64(entries))
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(_ int, bytes int64, duration time.Duration, err error) {
	b.Flushes.Add(1)
	b.FlushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlushErrors.Add(1)
		return
	}
	b.FlushedBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Hits:           b.Hits.Load(),
		Misses:         b.Misses.Load(),
		HitRatio:       b.hitRatio(),
		Stores:         b.Stores.Load(),
		StoresRejected: b.StoresRejected.Load(),
		StoredBytes:    b.StoredBytes.Load(),
		Loads:          b.Loads.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadedEntries:  b.LoadedEntries.Load(),
		Flushes:        b.Flushes.Load(),
		FlushErrors:    b.FlushErrors.Load(),
		FlushedBytes:   b.FlushedBytes.Load(),
		FlushAvgNanos:  b.getAvgFlushNanos(),
	}
}

func (b *BasicMetricsCollector) hitRatio() float64 {
	hits := b.Hits.Load()
	total := hits + b.Misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (b *BasicMetricsCollector) getAvgFlushNanos() int64 {
	count := b.Flushes.Load()
	if count == 0 {
		return 0
	}
	return b.FlushTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Hits           int64
	Misses         int64
	HitRatio       float64
	Stores         int64
	StoresRejected int64
	StoredBytes    int64
	Loads          int64
	LoadErrors     int64
	LoadedEntries  int64
	Flushes        int64
	FlushErrors    int64
	FlushedBytes   int64
	FlushAvgNanos  int64
}
