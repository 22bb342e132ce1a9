package shadercache

import (
	"errors"

	"github.com/hupe1980/shadercache/format"
	"github.com/hupe1980/shadercache/internal/fs"
)

var (
	// ErrClosed is returned by Load and Flush after Close.
	ErrClosed = errors.New("shadercache: cache is closed")

	// ErrCorruptFormat is returned by Load when the backing file cannot be decoded.
	// The cache is left empty when this happens.
	ErrCorruptFormat = format.ErrCorruptFormat

	// ErrLocked is returned by Open when another process owns the backing file.
	ErrLocked = fs.ErrLocked
)
