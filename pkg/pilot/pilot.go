// Package pilot holds the player-profile sub-record embedded in REC files.
//
// The profile layout belongs to the game, not to the replay container, so this
// package treats it as an opaque block behind the Codec interface. RawCodec is
// the default implementation: it consumes exactly BlockSize bytes and keeps
// them verbatim.
package pilot

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/shadowrec/pkg/cursor"
)

// BlockSize is the serialized size of a profile as stored in a REC file.
const BlockSize = 428

// ErrInvalidProfile is returned when a profile cannot be encoded as a block.
var ErrInvalidProfile = errors.New("pilot: invalid profile")

// Profile is an opaque player profile.
type Profile struct {
	Raw []byte
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	raw := make([]byte, len(p.Raw))
	copy(raw, p.Raw)
	return &Profile{Raw: raw}
}

// Codec decodes and encodes profiles at a cursor. Decode must advance the
// reader by exactly the number of bytes Encode writes for the same profile.
type Codec interface {
	Decode(r *cursor.Reader) (*Profile, error)
	Encode(w *cursor.Writer, p *Profile) error
}

// RawCodec stores profiles as uninterpreted BlockSize-byte blocks.
type RawCodec struct{}

// Decode reads one block.
func (RawCodec) Decode(r *cursor.Reader) (*Profile, error) {
	raw, err := r.ReadBytes(BlockSize)
	if err != nil {
		return nil, errors.Wrap(err, "decode profile")
	}
	return &Profile{Raw: raw}, nil
}

// Encode writes p back as one block.
func (RawCodec) Encode(w *cursor.Writer, p *Profile) error {
	if p == nil {
		return errors.Wrap(ErrInvalidProfile, "nil profile")
	}
	if len(p.Raw) != BlockSize {
		return errors.Wrapf(ErrInvalidProfile, "profile is %d bytes, want %d", len(p.Raw), BlockSize)
	}
	return w.WriteBytes(p.Raw)
}
