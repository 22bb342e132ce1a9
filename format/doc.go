// Package format implements the shader cache backing file.
//
// The file is a flat, little-endian sequence of records with no header,
// version tag, entry count or checksum:
//
//	int32  keyLength
//	[]byte key         (keyLength bytes)
//	int64  timestamp   (FILETIME: 100ns ticks since 1601-01-01 UTC)
//	int32  dataLength
//	[]byte data        (dataLength bytes)
//
// Records repeat until end of file. The decoder is a cursor over the whole
// file that checks every length prefix against the bytes that remain, so a
// truncated or garbled file yields ErrCorruptFormat rather than an
// out-of-range read or a fabricated record.
package format
