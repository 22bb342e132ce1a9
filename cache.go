package shadercache

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/shadercache/format"
	"github.com/hupe1980/shadercache/internal/fs"
	"github.com/hupe1980/shadercache/internal/resource"
	"github.com/robfig/cron/v3"
)

// Entry is a copy of one cached artifact.
type Entry struct {
	Key       string
	Timestamp int64 // source modification time, FILETIME ticks
	Data      []byte
}

// Stats summarizes the table.
type Stats struct {
	Entries int
	Bytes   int64 // keys plus bytecode
	Enabled bool
}

type entry struct {
	timestamp int64
	data      []byte
}

func entryCost(key string, size int) int64 {
	return int64(len(key) + size)
}

// Cache maps a source path to the bytecode last compiled from it.
//
// A hit requires the caller-supplied source timestamp to equal the one stored
// with the entry. The cache never stats source files itself.
//
// All methods are safe for concurrent use.
type Cache struct {
	path    string
	fs      fs.FileSystem
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller

	enabled atomic.Bool

	// flushMu orders backing file writes; it is taken before mu.
	flushMu sync.Mutex

	mu      sync.Mutex
	entries map[string]entry
	closed  bool

	lock io.Closer
	cron *cron.Cron
}

// Open creates the backing directory if needed, claims the backing file and
// loads it. A missing file yields an empty cache. A corrupt file is logged and
// also yields an empty cache; it is overwritten on the next flush.
//
// The returned cache must be closed; Close persists the table.
func Open(optFns ...Option) (*Cache, error) {
	o := applyOptions(optFns)

	c := &Cache{
		path:    o.path,
		fs:      o.fs,
		logger:  o.logger.WithPath(o.path),
		metrics: o.metricsCollector,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   o.memoryLimit,
			IOLimitBytesPerSec: o.flushRateLimit,
		}),
		entries: make(map[string]entry),
	}
	c.enabled.Store(!o.disabled)

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return nil, fmt.Errorf("shadercache: create cache directory: %w", err)
	}

	if o.lock {
		l, err := c.fs.Lock(c.path + ".lock")
		if err != nil {
			return nil, fmt.Errorf("shadercache: lock %s: %w", c.path, err)
		}
		c.lock = l
	}

	if err := c.Load(); err != nil && !errors.Is(err, ErrCorruptFormat) {
		c.releaseLock()
		return nil, err
	}

	if o.checkpointSpec != "" {
		if err := c.startCheckpoints(o.checkpointSpec); err != nil {
			c.releaseLock()
			return nil, err
		}
	}

	return c, nil
}

// Path returns the backing file location.
func (c *Cache) Path() string { return c.path }

// SetEnabled turns the cache on or off. While disabled, Lookup always misses
// and Store does nothing; the table itself is kept, so re-enabling serves
// whatever was there before.
func (c *Cache) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Enabled reports whether Lookup and Store are active.
func (c *Cache) Enabled() bool {
	return c.enabled.Load()
}

// Store records data as the bytecode compiled from key's source at timestamp,
// replacing any previous entry for key. data is copied.
//
// Store does nothing when the cache is disabled or closed, or when key is
// empty. If a memory limit is set and the entry does not fit, the entry is
// not retained and any older entry for key is dropped.
func (c *Cache) Store(key string, timestamp int64, data []byte) {
	if key == "" || !c.enabled.Load() {
		return
	}

	buf := bytes.Clone(data)
	if buf == nil {
		buf = []byte{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.removeLocked(key)

	admitted := c.admitLocked(key, entry{timestamp: timestamp, data: buf})
	if !admitted {
		c.logger.LogStoreRejected(context.Background(), key, len(buf), c.rc.MemoryLimit())
	}
	c.metrics.RecordStore(len(buf), admitted)
}

// Lookup returns a copy of the bytecode stored for key if the cache is
// enabled and the entry's timestamp equals timestamp exactly. Any other
// outcome is a miss.
func (c *Cache) Lookup(key string, timestamp int64) ([]byte, bool) {
	if !c.enabled.Load() {
		return nil, false
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	ok = ok && !c.closed && e.timestamp == timestamp
	var data []byte
	if ok {
		data = bytes.Clone(e.data)
	}
	c.mu.Unlock()

	c.metrics.RecordLookup(ok)
	return data, ok
}

// Delete removes the entry for key and reports whether one existed.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(key)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a summary of the table.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries: len(c.entries),
		Bytes:   c.rc.MemoryUsage(),
		Enabled: c.enabled.Load(),
	}
}

// Entries returns copies of all entries sorted by key.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for key, e := range c.entries {
		out = append(out, Entry{Key: key, Timestamp: e.timestamp, Data: bytes.Clone(e.data)})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Load replaces the table with the contents of the backing file.
//
// A missing file empties the table and is not an error. A corrupt file also
// empties the table and returns an error wrapping ErrCorruptFormat. Any other
// read failure leaves the table unchanged.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	return c.loadLocked(context.Background())
}

func (c *Cache) loadLocked(ctx context.Context) error {
	start := time.Now()

	records, err := format.ReadFile(c.fs, c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.resetLocked()
		c.logger.LogLoad(ctx, 0, nil)
		c.metrics.RecordLoad(0, time.Since(start), nil)
		return nil
	case errors.Is(err, ErrCorruptFormat):
		c.resetLocked()
		c.logger.LogCorrupt(ctx, err)
		c.metrics.RecordLoad(0, time.Since(start), err)
		return fmt.Errorf("shadercache: load %s: %w", c.path, err)
	case err != nil:
		c.logger.LogLoad(ctx, 0, err)
		c.metrics.RecordLoad(0, time.Since(start), err)
		return fmt.Errorf("shadercache: load %s: %w", c.path, err)
	}

	c.resetLocked()
	for _, r := range records {
		// Later records for the same key win, as with Store.
		c.removeLocked(r.Key)
		if !c.admitLocked(r.Key, entry{timestamp: r.Timestamp, data: r.Data}) {
			c.logger.LogStoreRejected(ctx, r.Key, len(r.Data), c.rc.MemoryLimit())
		}
	}

	c.logger.LogLoad(ctx, len(c.entries), nil)
	c.metrics.RecordLoad(len(c.entries), time.Since(start), nil)
	return nil
}

// Flush writes the whole table to the backing file, replacing its contents.
// The table is written even if it did not change since Load.
//
// The table lock is held only while the entries are collected, so Lookup and
// Store proceed during a slow or rate-limited write.
func (c *Cache) Flush() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	records := c.snapshotLocked()
	c.mu.Unlock()

	return c.write(context.Background(), records)
}

// snapshotLocked returns the table as records sorted by key. Entry buffers are
// never modified once stored, so the records share them.
func (c *Cache) snapshotLocked() []format.Record {
	records := make([]format.Record, 0, len(c.entries))
	for key, e := range c.entries {
		records = append(records, format.Record{Key: key, Timestamp: e.timestamp, Data: e.data})
	}
	slices.SortFunc(records, func(a, b format.Record) int { return cmp.Compare(a.Key, b.Key) })
	return records
}

// write replaces the backing file with records. The caller holds flushMu.
func (c *Cache) write(ctx context.Context, records []format.Record) error {
	start := time.Now()

	var written int64
	err := format.WriteFile(c.fs, c.path, func(w io.Writer) error {
		if c.rc.IOBurst() > 0 {
			w = resource.NewRateLimitedWriter(ctx, w, c.rc)
		}
		enc := format.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		written = enc.Written()
		return nil
	})

	c.logger.LogFlush(ctx, len(records), written, err)
	c.metrics.RecordFlush(len(records), written, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("shadercache: flush %s: %w", c.path, err)
	}
	return nil
}

// admitLocked inserts e for key if it fits the memory limit.
// The caller must have removed any previous entry for key.
func (c *Cache) admitLocked(key string, e entry) bool {
	if err := c.rc.AcquireMemory(entryCost(key, len(e.data))); err != nil {
		return false
	}
	c.entries[key] = e
	return true
}

func (c *Cache) removeLocked(key string) bool {
	old, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	c.rc.ReleaseMemory(entryCost(key, len(old.data)))
	return true
}

func (c *Cache) resetLocked() {
	c.rc.ReleaseMemory(c.rc.MemoryUsage())
	c.entries = make(map[string]entry)
}
