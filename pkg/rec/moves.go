package rec

import "github.com/cockroachdb/errors"

// MaxMoves caps the move list so a grow failure is reported as ErrOutOfMemory
// rather than a runtime panic.
const MaxMoves = 1 << 24

// MoveList is an ordered, index-addressable sequence of moves.
type MoveList struct {
	moves []Move
	limit int // 0 means MaxMoves
}

// NewMoveList creates an empty list. hint only pre-sizes capacity.
func NewMoveList(hint int) *MoveList {
	if hint < 0 {
		hint = 0
	}
	if hint > MaxMoves {
		hint = MaxMoves
	}
	return &MoveList{moves: make([]Move, 0, hint)}
}

// Len returns the number of moves.
func (l *MoveList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.moves)
}

// Cap returns the capacity of the backing storage.
func (l *MoveList) Cap() int {
	if l == nil {
		return 0
	}
	return cap(l.moves)
}

// Append adds m at the end.
func (l *MoveList) Append(m Move) {
	l.moves = append(l.moves, m)
}

// At returns the move at index i.
func (l *MoveList) At(i int) (Move, error) {
	if i < 0 || i >= l.Len() {
		return Move{}, errors.Wrapf(ErrInvalidInput, "index %d out of range [0,%d)", i, l.Len())
	}
	return l.moves[i], nil
}

// Set replaces the move at index i.
func (l *MoveList) Set(i int, m Move) error {
	if i < 0 || i >= l.Len() {
		return errors.Wrapf(ErrInvalidInput, "index %d out of range [0,%d)", i, l.Len())
	}
	l.moves[i] = m
	return nil
}

// All returns a copy of the moves in order.
func (l *MoveList) All() []Move {
	out := make([]Move, l.Len())
	if l != nil {
		copy(out, l.moves)
	}
	return out
}

// DeleteAction removes the move at index i, shifting later moves one slot
// earlier. Backing storage shrinks to exactly the new length.
func (l *MoveList) DeleteAction(i int) error {
	if i < 0 || i >= l.Len() {
		return errors.Wrapf(ErrInvalidInput, "delete index %d out of range [0,%d)", i, l.Len())
	}

	next := make([]Move, len(l.moves)-1)
	copy(next, l.moves[:i])
	copy(next[i:], l.moves[i+1:])
	l.moves = next
	return nil
}

// InsertAction inserts m at index i, shifting moves at or after i one slot
// later. An index past the end appends. Backing storage grows by exactly one
// slot. On error the list is unchanged.
func (l *MoveList) InsertAction(i int, m Move) error {
	if l == nil {
		return errors.Wrap(ErrInvalidInput, "nil move list")
	}
	if i < 0 {
		return errors.Wrapf(ErrInvalidInput, "insert index %d is negative", i)
	}
	if len(l.moves) >= l.maxLen() {
		return errors.Wrapf(ErrOutOfMemory, "move list is full (%d moves)", len(l.moves))
	}
	if i > len(l.moves) {
		i = len(l.moves)
	}

	next := make([]Move, len(l.moves)+1)
	copy(next, l.moves[:i])
	next[i] = m
	copy(next[i+1:], l.moves[i:])
	l.moves = next
	return nil
}

func (l *MoveList) maxLen() int {
	if l.limit > 0 {
		return l.limit
	}
	return MaxMoves
}

// ShrinkToFit drops unused capacity so Cap equals Len.
func (l *MoveList) ShrinkToFit() {
	if l == nil || cap(l.moves) == len(l.moves) {
		return
	}
	next := make([]Move, len(l.moves))
	copy(next, l.moves)
	l.moves = next
}
