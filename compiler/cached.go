package compiler

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/shadercache"
	"github.com/hupe1980/shadercache/internal/fs"
	"golang.org/x/sync/singleflight"
)

// Result is the bytecode for one source path.
type Result struct {
	Path      string
	Timestamp int64 // source modification time the bytecode belongs to
	Data      []byte
	Hit       bool // served from the cache without compiling
}

// Cached compiles through a shadercache.Cache.
type Cached struct {
	cache    *shadercache.Cache
	compiler Compiler
	fs       fs.FileSystem
	group    singleflight.Group
}

// NewCached returns a Cached that compiles with comp and remembers results in cache.
func NewCached(cache *shadercache.Cache, comp Compiler) *Cached {
	return &Cached{
		cache:    cache,
		compiler: comp,
		fs:       fs.Default,
	}
}

// Compile returns bytecode for the source at path, compiling only if the cache
// has no entry matching the source's current modification time. A failed
// compilation is returned as an error and nothing is stored.
//
// The shared compilation is detached from the cancellation of whichever
// caller started it; each caller stops waiting when its own ctx is done.
func (c *Cached) Compile(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path, func() (any, error) {
		return c.compile(flightCtx, path)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		res := r.Val.(Result)
		// Callers sharing a flight must not share a buffer.
		res.Data = bytes.Clone(res.Data)
		return res, nil
	}
}

func (c *Cached) compile(ctx context.Context, path string) (Result, error) {
	// Stat before reading: if the file changes while we compile, the entry is
	// stored under the older time and misses on the next call.
	info, err := c.fs.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("compiler: %s is a directory", path)
	}
	ts := shadercache.FileTime(info.ModTime())

	if data, ok := c.cache.Lookup(path, ts); ok {
		return Result{Path: path, Timestamp: ts, Data: data, Hit: true}, nil
	}

	source, err := fs.ReadFile(c.fs, path)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: read %s: %w", path, err)
	}

	data, err := c.compiler.Compile(ctx, path, source)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: %w", err)
	}

	c.cache.Store(path, ts, data)
	return Result{Path: path, Timestamp: ts, Data: data}, nil
}
