package cursor

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Writer is a sequential binary writer. Len doubles as the write cursor.
type Writer struct {
	file   *os.File // set when the writer owns its destination
	writer *bufio.Writer
	offset int64
	closed bool
}

// Create creates (or truncates) the file at path, making parent directories as
// needed. The returned Writer owns the file and Close releases it.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "create directory for %s", path), ErrOpen)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "create %s", path), ErrOpen)
	}

	w := NewWriter(file)
	w.file = file
	return w, nil
}

// NewWriter creates a buffered writer onto out. Close flushes but does not
// close out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{writer: bufio.NewWriter(out)}
}

// WriteBytes appends buf.
func (w *Writer) WriteBytes(buf []byte) error {
	if w.closed {
		return errors.Wrap(ErrIO, "writer closed")
	}
	n, err := w.writer.Write(buf)
	w.offset += int64(n)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "write %d bytes at offset %d", len(buf), w.offset-int64(n)), ErrIO)
	}
	return nil
}

// WriteFill appends n copies of v.
func (w *Writer) WriteFill(v byte, n int) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	if v != 0 {
		for i := range buf {
			buf[i] = v
		}
	}
	return w.WriteBytes(buf)
}

func (w *Writer) WriteU8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

func (w *Writer) WriteI8(v int8) error {
	return w.WriteU8(uint8(v))
}

func (w *Writer) WriteU16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) WriteI16(v int16) error {
	return w.WriteU16(uint16(v))
}

func (w *Writer) WriteU32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v))
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 {
	return w.offset
}

// Flush pushes buffered bytes to the destination.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		return errors.Mark(errors.Wrap(err, "flush"), ErrIO)
	}
	return nil
}

// Close flushes buffered bytes and releases the destination if the writer
// owns it. It is safe to call more than once; the file is released even when
// the flush fails.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	flushErr := w.Flush()
	w.closed = true

	if w.file == nil {
		return flushErr
	}
	if err := w.file.Close(); err != nil && flushErr == nil {
		return errors.Mark(errors.Wrap(err, "close"), ErrIO)
	}
	return flushErr
}
