package format

import "time"

const (
	// ticksPerSecond is the number of 100ns FILETIME ticks per second.
	ticksPerSecond = 10_000_000

	// unixEpochTicks is 1970-01-01 UTC expressed in FILETIME ticks.
	unixEpochTicks = 116_444_736_000_000_000
)

// FileTime converts t to FILETIME ticks (100ns intervals since 1601-01-01 UTC).
// Precision below 100ns is truncated.
func FileTime(t time.Time) int64 {
	return t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100 + unixEpochTicks
}

// Time converts FILETIME ticks back to a UTC time.
func Time(ticks int64) time.Time {
	d := ticks - unixEpochTicks
	sec, rem := d/ticksPerSecond, d%ticksPerSecond
	return time.Unix(sec, rem*100).UTC()
}
