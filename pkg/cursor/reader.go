package cursor

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// Source is a random-access byte source of fixed length. *bytes.Reader
// satisfies it directly.
type Source interface {
	io.ReaderAt
	Size() int64
}

// fileSource adapts an open file to Source using the size observed at open.
type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 { return f.size }

// Reader is a sequential binary reader over a Source.
type Reader struct {
	src    Source
	closer io.Closer
	pos    int64
	size   int64
	err    error
	closed bool
}

// Open opens the file at path for reading. The returned Reader owns the file
// and Close releases it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open %s", path), ErrOpen)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Mark(errors.Wrapf(err, "stat %s", path), ErrOpen)
	}

	return NewReader(&fileSource{File: f, size: stat.Size()}), nil
}

// NewReader creates a reader positioned at the start of src. If src also
// implements io.Closer, the reader takes ownership of it.
func NewReader(src Source) *Reader {
	r := &Reader{
		src:  src,
		size: src.Size(),
	}
	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// FromBytes creates a reader over an in-memory buffer.
func FromBytes(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// ReadBytes consumes and returns the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf, err := r.PeekBytes(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// PeekBytes returns the next n bytes without advancing the cursor.
func (r *Reader) PeekBytes(n int) ([]byte, error) {
	if r.closed {
		return nil, r.fail(errors.Wrap(ErrRead, "reader closed"))
	}
	if n < 0 {
		return nil, r.fail(errors.Wrapf(ErrRead, "invalid read length %d", n))
	}
	if int64(n) > r.Remaining() {
		return nil, r.fail(errors.Wrapf(ErrRead, "need %d bytes at offset %d, %d remain", n, r.pos, r.Remaining()))
	}

	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	m, err := r.src.ReadAt(buf, r.pos)
	if m < n {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, r.fail(errors.Mark(errors.Wrapf(err, "read %d bytes at offset %d", n, r.pos), ErrRead))
	}
	return buf, nil
}

// Match reports whether the next len(b) bytes equal b. The cursor never moves.
func (r *Reader) Match(b []byte) bool {
	next, err := r.PeekBytes(len(b))
	if err != nil {
		return false
	}
	return bytes.Equal(next, b)
}

// Skip advances the cursor by n bytes without checking that they exist. A
// later read fails if the skip ran past the end of the source.
func (r *Reader) Skip(n int) {
	r.pos += int64(n)
}

// SetPos moves the cursor to an absolute offset within the source.
func (r *Reader) SetPos(pos int64) error {
	if pos < 0 || pos > r.size {
		return r.fail(errors.Wrapf(ErrRead, "position %d outside [0,%d]", pos, r.size))
	}
	r.pos = pos
	return nil
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Size returns the total length of the source.
func (r *Reader) Size() int64 {
	return r.size
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.size {
		return 0
	}
	return r.size - r.pos
}

// AtEnd reports whether the cursor has reached or passed the end of the source.
func (r *Reader) AtEnd() bool {
	return r.pos >= r.size
}

// Err returns the last error recorded by the reader, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying source when the reader owns it. It is safe to
// call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) PeekU8() (uint8, error) {
	b, err := r.PeekBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) PeekI8() (int8, error) {
	v, err := r.PeekU8()
	return int8(v), err
}

func (r *Reader) PeekU16() (uint16, error) {
	b, err := r.PeekBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) PeekI16() (int16, error) {
	v, err := r.PeekU16()
	return int16(v), err
}

func (r *Reader) PeekU32() (uint32, error) {
	b, err := r.PeekBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) PeekI32() (int32, error) {
	v, err := r.PeekU32()
	return int32(v), err
}
