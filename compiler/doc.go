// Package compiler puts a shader compiler behind the bytecode cache.
//
// A [Compiler] turns source text into bytecode. [WGSL] is the built-in
// implementation, compiling WGSL to SPIR-V with github.com/gogpu/naga.
//
// [Cached] performs the full cache protocol for one source path: stat the
// source, look it up under its current modification time, and on a miss read,
// compile and store. Concurrent requests for the same path share a single
// compilation.
//
//	c, _ := shadercache.Open()
//	defer c.Close()
//
//	cc := compiler.NewCached(c, compiler.NewWGSL())
//	res, err := cc.Compile(ctx, "shaders/lit.wgsl")
//	if err != nil {
//	    return err
//	}
//	if res.Hit {
//	    // compilation skipped
//	}
package compiler
