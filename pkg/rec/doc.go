// Package rec decodes, edits and re-encodes REC replay files.
//
// A REC file holds two player profiles, legacy scratch data, a fixed block of
// header scalars and the ordered list of timestamped inputs recorded during a
// match. The format is sequential rather than fixed-offset, so every field is
// read in order through a cursor.Reader.
//
// # File Format
//
// All integers are little-endian.
//
//	for each of the two player slots:
//	    [profile (pilot.BlockSize = 428 bytes)][168 bytes of palette/photo remnants]
//	[Score0 u32][Score1 u32]
//	[A i8][B i8][C i8][D..K i16 x8][L i32][M i8]
//	[move records...]
//
// The first 428 bytes of each slot are captured twice: once verbatim as the
// slot's HackTime block and once through the profile codec. Save writes the
// HackTime blocks back and zero-fills the 168-byte remnant, so the profile
// values are never re-serialized. Callers that change a profile must update the
// matching HackTime block themselves.
//
// # Move Records
//
//	[Tick u32][Extra u8][PlayerID u8][Action u8]                   7 bytes, Extra <= 2
//	[Tick u32][Extra u8][PlayerID u8][Action u8][ExtraData 7 bytes] 14 bytes, Extra > 2
//
// The action byte packs Punch in bit 0, Kick in bit 1 and one of eight
// directions in the high nibble (see DecodeAction). Records with Extra > 2 keep
// the action byte verbatim in RawAction.
//
// Up to six bytes left after the last whole record are kept in File.Trailer and
// written back unchanged.
//
// # Usage
//
//	codec := rec.NewCodec()
//
//	f, err := codec.Load("MATCH1.REC")
//	if err != nil {
//	    return err
//	}
//
//	if err := f.Moves.DeleteAction(0); err != nil {
//	    return err
//	}
//
//	if err := codec.Save(f, "MATCH1-edited.REC"); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Every error matches one of ErrInvalidInput, ErrOpen, ErrFileParse, ErrRead,
// ErrOutOfMemory or ErrIO under errors.Is. Load and Save release their file
// handles on every path.
//
// # Thread Safety
//
// Codec is safe for concurrent use. File and MoveList are not.
package rec
