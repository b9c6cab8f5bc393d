package rec

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/shadowrec/pkg/cursor"
	"github.com/ssargent/shadowrec/pkg/logging"
	"github.com/ssargent/shadowrec/pkg/pilot"
)

// Codec loads and saves REC files.
type Codec struct {
	profiles pilot.Codec
	logger   *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithProfileCodec replaces the default opaque profile codec.
func WithProfileCodec(pc pilot.Codec) Option {
	return func(c *Codec) {
		if pc != nil {
			c.profiles = pc
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCodec creates a codec using pilot.RawCodec unless overridden.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		profiles: pilot.RawCodec{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load decodes the REC file at path.
func (c *Codec) Load(path string) (*File, error) {
	r, err := cursor.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := c.read(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return f, nil
}

// LoadBytes decodes a REC file held in memory.
func (c *Codec) LoadBytes(data []byte) (*File, error) {
	return c.read(cursor.FromBytes(data))
}

// Decode decodes a REC file from src. If src implements io.Closer it is
// closed before Decode returns.
func (c *Codec) Decode(src cursor.Source) (*File, error) {
	if src == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil source")
	}
	return c.read(cursor.NewReader(src))
}

// read consumes r and always closes it.
func (c *Codec) read(r *cursor.Reader) (*File, error) {
	defer func() { _ = r.Close() }()

	if r.Size() < MinFileSize {
		return nil, errors.Wrapf(ErrFileParse, "file is %d bytes, need at least %d", r.Size(), MinFileSize)
	}

	f := NewFile()
	for i := range f.Profiles {
		start := r.Pos()
		raw, err := r.ReadBytes(HackTimeSize)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d hack time", i)
		}
		copy(f.HackTime[i][:], raw)

		if err := r.SetPos(start); err != nil {
			return nil, err
		}
		profile, err := c.profiles.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d profile", i)
		}
		f.Profiles[i] = profile
		r.Skip(slotPadding)
	}

	for i := range f.Scores {
		score, err := r.ReadU32()
		if err != nil {
			return nil, errors.Wrapf(err, "score %d", i)
		}
		f.Scores[i] = score
	}

	if err := readHeader(r, &f.Header); err != nil {
		return nil, errors.Wrap(err, "header")
	}

	f.Moves = NewMoveList(int(r.Remaining() / moveHeaderSize))
	for r.Remaining() >= moveHeaderSize {
		at := r.Pos()
		m, err := readMove(r)
		if err != nil {
			return nil, errors.Wrapf(err, "move %d at offset %d", f.Moves.Len(), at)
		}
		f.Moves.Append(m)
	}
	f.Moves.ShrinkToFit()

	if n := r.Remaining(); n > 0 {
		trailer, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, errors.Wrap(err, "trailer")
		}
		f.Trailer = trailer
	}

	c.logger.Debug("decoded replay",
		"bytes", r.Size(),
		"moves", f.Moves.Len(),
		"trailer", len(f.Trailer))
	return f, nil
}

func readHeader(r *cursor.Reader, h *Header) error {
	var err error
	i8 := func(dst *int8) {
		if err == nil {
			*dst, err = r.ReadI8()
		}
	}
	i16 := func(dst *int16) {
		if err == nil {
			*dst, err = r.ReadI16()
		}
	}

	i8(&h.UnknownA)
	i8(&h.UnknownB)
	i8(&h.UnknownC)
	i16(&h.UnknownD)
	i16(&h.UnknownE)
	i16(&h.UnknownF)
	i16(&h.UnknownG)
	i16(&h.UnknownH)
	i16(&h.UnknownI)
	i16(&h.UnknownJ)
	i16(&h.UnknownK)
	if err == nil {
		h.UnknownL, err = r.ReadI32()
	}
	i8(&h.UnknownM)
	return err
}

func readMove(r *cursor.Reader) (Move, error) {
	var m Move
	var err error

	if m.Tick, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.Extra, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.PlayerID, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.RawAction, err = r.ReadU8(); err != nil {
		return m, err
	}
	m.Action = DecodeAction(m.RawAction)

	if m.Extended() {
		extra, err := r.ReadBytes(extraDataSize)
		if err != nil {
			return m, errors.Wrap(err, "extra data")
		}
		copy(m.ExtraData[:], extra)
	}
	return m, nil
}

// Save encodes f to the file at path, replacing it.
func (c *Codec) Save(f *File, path string) (err error) {
	if f == nil {
		return errors.Wrap(ErrInvalidInput, "nil file")
	}

	w, err := cursor.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := c.write(f, w); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// Encode writes f to out.
func (c *Codec) Encode(f *File, out io.Writer) error {
	if f == nil {
		return errors.Wrap(ErrInvalidInput, "nil file")
	}
	if out == nil {
		return errors.Wrap(ErrInvalidInput, "nil writer")
	}

	w := cursor.NewWriter(out)
	if err := c.write(f, w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// EncodeBytes returns f as a byte slice.
func (c *Codec) EncodeBytes(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) write(f *File, w *cursor.Writer) error {
	for i := range f.HackTime {
		if err := w.WriteBytes(f.HackTime[i][:]); err != nil {
			return errors.Wrapf(err, "slot %d hack time", i)
		}
		if err := w.WriteFill(0, slotPadding); err != nil {
			return errors.Wrapf(err, "slot %d padding", i)
		}
	}

	for i, score := range f.Scores {
		if err := w.WriteU32(score); err != nil {
			return errors.Wrapf(err, "score %d", i)
		}
	}

	if err := writeHeader(w, &f.Header); err != nil {
		return errors.Wrap(err, "header")
	}

	for i, m := range f.Moves.All() {
		if err := writeMove(w, m); err != nil {
			return errors.Wrapf(err, "move %d", i)
		}
	}

	if len(f.Trailer) > 0 {
		if err := w.WriteBytes(f.Trailer); err != nil {
			return errors.Wrap(err, "trailer")
		}
	}

	c.logger.Debug("encoded replay",
		"bytes", w.Len(),
		"moves", f.Moves.Len())
	return nil
}

func writeHeader(w *cursor.Writer, h *Header) error {
	var err error
	i8 := func(v int8) {
		if err == nil {
			err = w.WriteI8(v)
		}
	}
	i16 := func(v int16) {
		if err == nil {
			err = w.WriteI16(v)
		}
	}

	i8(h.UnknownA)
	i8(h.UnknownB)
	i8(h.UnknownC)
	i16(h.UnknownD)
	i16(h.UnknownE)
	i16(h.UnknownF)
	i16(h.UnknownG)
	i16(h.UnknownH)
	i16(h.UnknownI)
	i16(h.UnknownJ)
	i16(h.UnknownK)
	if err == nil {
		err = w.WriteI32(h.UnknownL)
	}
	i8(h.UnknownM)
	return err
}

func writeMove(w *cursor.Writer, m Move) error {
	if err := w.WriteU32(m.Tick); err != nil {
		return err
	}
	if err := w.WriteU8(m.Extra); err != nil {
		return err
	}
	if err := w.WriteU8(m.PlayerID); err != nil {
		return err
	}

	if m.Extended() {
		if err := w.WriteU8(m.RawAction); err != nil {
			return err
		}
		return w.WriteBytes(m.ExtraData[:])
	}
	return w.WriteU8(EncodeAction(m.Action))
}
