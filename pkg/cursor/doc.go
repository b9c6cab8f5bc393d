// Package cursor provides sequential, position-tracked binary I/O over a
// finite byte source and a growing byte destination.
//
// All multi-byte integers are little-endian in both directions, independent of
// the host byte order:
//
//	r, err := cursor.Open("MATCH1.REC")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	tick, err := r.ReadU32()
//
// Reads fail with ErrRead when fewer bytes remain than requested. Peek and
// Match never move the cursor, on success or failure. Writes fail with ErrIO
// and the caller is expected to abort; there is no partial retry.
//
// Neither Reader nor Writer is safe for concurrent use.
package cursor
