package rec

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/shadowrec/pkg/cursor"
)

var (
	// ErrInvalidInput reports a nil or out-of-range argument.
	ErrInvalidInput = errors.New("rec: invalid input")
	// ErrFileParse reports a structurally invalid file.
	ErrFileParse = errors.New("rec: file parse error")
	// ErrOutOfMemory reports that the move list cannot grow.
	ErrOutOfMemory = errors.New("rec: out of memory")

	// Cursor-level kinds, re-exported so callers only need this package.
	ErrOpen = cursor.ErrOpen
	ErrRead = cursor.ErrRead
	ErrIO   = cursor.ErrIO
)
