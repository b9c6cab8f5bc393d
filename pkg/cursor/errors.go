package cursor

import "github.com/cockroachdb/errors"

// Error kinds shared by Reader and Writer. Returned errors carry context and
// can be tested with errors.Is.
var (
	ErrOpen = errors.New("cursor: open failed")
	ErrRead = errors.New("cursor: short read")
	ErrIO   = errors.New("cursor: write failed")
)
