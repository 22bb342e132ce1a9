package shadercache

import (
	"context"
	"errors"
)

// Close persists the table and releases the backing file.
//
// Close always attempts the flush, even if nothing changed since Open. A flush
// failure is logged and returned but never panics, so Close is safe to call
// from shutdown paths. Close is idempotent; after it returns, Store and Lookup
// behave as on a disabled cache and Load and Flush return ErrClosed.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	c.stopCheckpoints()

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	records := c.snapshotLocked()
	c.closed = true
	c.mu.Unlock()

	c.enabled.Store(false)

	err := c.write(context.Background(), records)
	return errors.Join(err, c.releaseLock())
}

func (c *Cache) releaseLock() error {
	if c.lock == nil {
		return nil
	}
	err := c.lock.Close()
	c.lock = nil
	return err
}

// Use opens a cache, passes it to fn and closes it on every exit path,
// including a panic in fn. The panic continues after the cache is flushed.
//
// Example:
//
//	err := shadercache.Use(func(c *shadercache.Cache) error {
//	    return renderer.Run(c)
//	}, shadercache.WithPath("cache/shader_bytecode.bin"))
func Use(fn func(*Cache) error, optFns ...Option) (err error) {
	c, err := Open(optFns...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()
	return fn(c)
}
