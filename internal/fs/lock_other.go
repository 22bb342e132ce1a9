//go:build !unix && !windows

package fs

import "os"

// Platforms without advisory locking rely on single-process ownership.
func lockExclusive(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
