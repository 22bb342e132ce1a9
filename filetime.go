package shadercache

import (
	"time"

	"github.com/hupe1980/shadercache/format"
)

// FileTime converts a modification time to the FILETIME ticks used as the
// staleness fingerprint.
func FileTime(t time.Time) int64 {
	return format.FileTime(t)
}

// Time converts FILETIME ticks back to a UTC time.
func Time(ticks int64) time.Time {
	return format.Time(ticks)
}
