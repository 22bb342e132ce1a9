package format

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultPath is the backing file location relative to the working directory.
const DefaultPath = "cache/shader_bytecode.bin"

const (
	lengthSize    = 4 // int32 length prefix
	timestampSize = 8 // int64 FILETIME

	// MinRecordSize is the size of a record with an empty key and no data.
	MinRecordSize = lengthSize + timestampSize + lengthSize
)

var byteOrder = binary.LittleEndian

// ErrCorruptFormat is returned when the backing file cannot be decoded as a
// sequence of well-formed records.
var ErrCorruptFormat = errors.New("corrupt cache file")

// CorruptError describes where decoding failed.
type CorruptError struct {
	Offset int    // byte offset of the record that failed
	Reason string // what was wrong
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%v: record at offset %d: %s", ErrCorruptFormat, e.Offset, e.Reason)
}

func (e *CorruptError) Unwrap() error { return ErrCorruptFormat }

// Record is one decoded cache entry.
type Record struct {
	Key       string
	Timestamp int64
	Data      []byte
}

// Size returns the encoded size of the record in bytes.
func (r Record) Size() int {
	return MinRecordSize + len(r.Key) + len(r.Data)
}
