package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/shadercache/internal/conv"
	"github.com/hupe1980/shadercache/internal/fs"
)

// Decoder reads records from an in-memory copy of the backing file.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder creates a decoder over data. The decoder does not retain data
// past the records it returns; every record owns a copy of its bytes.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// More reports whether unread bytes remain.
func (d *Decoder) More() bool { return d.off < len(d.buf) }

// Next decodes the next record. It returns io.EOF when the input is exhausted
// on a record boundary and a *CorruptError for anything else that does not fit.
func (d *Decoder) Next() (Record, error) {
	if !d.More() {
		return Record{}, io.EOF
	}

	start := d.off
	corrupt := func(msg string, args ...any) error {
		return &CorruptError{Offset: start, Reason: fmt.Sprintf(msg, args...)}
	}

	keyLen, err := d.length()
	if err != nil {
		return Record{}, corrupt("key length: %v", err)
	}
	key, err := d.take(keyLen)
	if err != nil {
		return Record{}, corrupt("key: %v", err)
	}
	ts, err := d.take(timestampSize)
	if err != nil {
		return Record{}, corrupt("timestamp: %v", err)
	}
	dataLen, err := d.length()
	if err != nil {
		return Record{}, corrupt("data length: %v", err)
	}
	data, err := d.take(dataLen)
	if err != nil {
		return Record{}, corrupt("data: %v", err)
	}

	return Record{
		Key:       string(key),
		Timestamp: int64(byteOrder.Uint64(ts)),
		Data:      bytes.Clone(data),
	}, nil
}

func (d *Decoder) remaining() int { return len(d.buf) - d.off }

func (d *Decoder) length() (int, error) {
	raw, err := d.take(lengthSize)
	if err != nil {
		return 0, err
	}
	return conv.LengthToInt(int32(byteOrder.Uint32(raw)))
}

// take returns the next n bytes after checking they are present.
func (d *Decoder) take(n int) ([]byte, error) {
	if n > d.remaining() {
		return nil, fmt.Errorf("need %d bytes, %d remain", n, d.remaining())
	}
	p := d.buf[d.off : d.off+n : d.off+n]
	d.off += n
	return p, nil
}

// DecodeAll decodes every record in data. On error no records are returned.
func DecodeAll(data []byte) ([]Record, error) {
	d := NewDecoder(data)
	var records []Record
	for {
		r, err := d.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
}

// ReadFile reads and decodes the file at path.
// A missing file is reported as an error satisfying errors.Is(err, os.ErrNotExist).
func ReadFile(fsys fs.FileSystem, path string) ([]Record, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return DecodeAll(data)
}
