package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/shadercache/internal/conv"
	"github.com/hupe1980/shadercache/internal/fs"
)

// Encoder writes records in the backing file format.
type Encoder struct {
	w       io.Writer
	scratch [timestampSize]byte
	written int64
}

// NewEncoder creates a new encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes a single record.
func (e *Encoder) Encode(r Record) error {
	keyLen, err := conv.IntToInt32(len(r.Key))
	if err != nil {
		return fmt.Errorf("key %q: %w", r.Key, err)
	}
	dataLen, err := conv.IntToInt32(len(r.Data))
	if err != nil {
		return fmt.Errorf("data for %q: %w", r.Key, err)
	}

	if err := e.writeInt32(keyLen); err != nil {
		return err
	}
	if err := e.write([]byte(r.Key)); err != nil {
		return err
	}
	byteOrder.PutUint64(e.scratch[:], uint64(r.Timestamp))
	if err := e.write(e.scratch[:timestampSize]); err != nil {
		return err
	}
	if err := e.writeInt32(dataLen); err != nil {
		return err
	}
	return e.write(r.Data)
}

// Written returns the number of bytes written so far.
func (e *Encoder) Written() int64 { return e.written }

func (e *Encoder) writeInt32(v int32) error {
	byteOrder.PutUint32(e.scratch[:lengthSize], uint32(v))
	return e.write(e.scratch[:lengthSize])
}

func (e *Encoder) write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := e.w.Write(p)
	e.written += int64(n)
	return err
}

// EncodeAll writes records in order.
func EncodeAll(w io.Writer, records []Record) (int64, error) {
	enc := NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return enc.Written(), err
		}
	}
	return enc.Written(), nil
}

// WriteFile replaces the file at path with whatever writeFunc produces.
//
// The content goes to a sibling temp file which is synced and renamed over
// path, so a failed write leaves the previous file untouched.
func WriteFile(fsys fs.FileSystem, path string, writeFunc func(io.Writer) error) error {
	if fsys == nil {
		fsys = fs.Default
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpName := path + ".tmp"
	tmp, err := fsys.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := fsys.OpenFile(dir, os.O_RDONLY, 0); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}
