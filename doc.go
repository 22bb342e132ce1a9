// Package shadercache provides a persistent shader bytecode cache.
//
// The cache maps a source path to the bytecode most recently compiled from it,
// together with the source's modification time at compile time. A renderer
// about to recompile a shader asks the cache first and skips the compiler on
// a hit. The table lives in memory; it is read from a single binary file when
// the cache is opened and written back when it is closed.
//
// # Quick Start
//
//	c, err := shadercache.Open(shadercache.WithPath("cache/shader_bytecode.bin"))
//	if err != nil {
//	    return err
//	}
//	defer c.Close() // persists the table
//
//	info, _ := os.Stat(path)
//	ts := shadercache.FileTime(info.ModTime())
//
//	if spirv, ok := c.Lookup(path, ts); ok {
//	    return spirv, nil
//	}
//	spirv, err := compile(path)
//	if err != nil {
//	    return nil, err
//	}
//	c.Store(path, ts, spirv)
//
// The compiler package wraps exactly this sequence (stat, lookup, compile,
// store) around a Compiler.
//
// # Invalidation
//
// A lookup hits only if the timestamp supplied by the caller equals the stored
// one. Any change, including a clock moving backwards, is a miss. The cache
// never stats files itself: callers obtain the timestamp right before the
// call.
//
// # Durability
//
// There is no write-through. Close (or an explicit Flush, or a WithCheckpoint
// schedule) writes the full table; a crash loses everything stored since the
// last write. A missing or corrupt file degrades to "always recompile", never
// to wrong output.
//
// # File Format
//
// See package format. Timestamps are FILETIME ticks (100ns since 1601), kept
// verbatim.
package shadercache
