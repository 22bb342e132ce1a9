// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, rename, stat, lock)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate a full disk while the cache file is
// being written:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("shader_bytecode.bin", fs.Fault{FailAfterBytes: 16})
//	// inject ffs into the cache under test
//
// # Locking
//
// [FileSystem.Lock] takes an exclusive, non-blocking advisory lock: flock(2)
// on Unix, LockFileEx on Windows. The cache uses it to claim single-process
// ownership of its backing file.
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Filesystem operations are typically fast (microseconds for local NVMe) and
// non-interruptible at the syscall level.
package fs
