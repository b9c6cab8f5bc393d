package rec

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList(n int) *MoveList {
	l := NewMoveList(n)
	for i := 0; i < n; i++ {
		l.Append(Move{Tick: uint32(i * 10), PlayerID: uint8(i % 2), Action: ActionUp})
	}
	return l
}

func TestNewMoveList_Hint(t *testing.T) {
	l := NewMoveList(16)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 16, l.Cap())

	assert.Equal(t, 0, NewMoveList(-1).Cap())
}

func TestMoveList_DeleteAction(t *testing.T) {
	l := sampleList(4)

	require.NoError(t, l.DeleteAction(1))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, l.Len(), l.Cap())

	ticks := []uint32{}
	for _, m := range l.All() {
		ticks = append(ticks, m.Tick)
	}
	assert.Equal(t, []uint32{0, 20, 30}, ticks)
}

func TestMoveList_DeleteAction_OutOfRange(t *testing.T) {
	l := sampleList(2)

	for _, i := range []int{-1, 2, 100} {
		err := l.DeleteAction(i)
		assert.True(t, errors.Is(err, ErrInvalidInput), "index %d", i)
	}
	assert.Equal(t, 2, l.Len())

	var empty *MoveList
	assert.True(t, errors.Is(empty.DeleteAction(0), ErrInvalidInput))
}

func TestMoveList_DeleteLast(t *testing.T) {
	l := sampleList(1)
	require.NoError(t, l.DeleteAction(0))
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Cap())
}

func TestMoveList_InsertAction(t *testing.T) {
	l := sampleList(3)
	m := Move{Tick: 5, PlayerID: 1, Action: ActionKick}

	require.NoError(t, l.InsertAction(1, m))
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, 4, l.Cap())

	got, err := l.At(1)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	next, err := l.At(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), next.Tick)
}

func TestMoveList_InsertAction_ClampedAppend(t *testing.T) {
	m := Move{Tick: 999}

	for _, idx := range []int{3, 4, 1000} {
		inserted := sampleList(3)
		require.NoError(t, inserted.InsertAction(idx, m))

		appended := sampleList(3)
		appended.Append(m)

		assert.Equal(t, appended.All(), inserted.All(), "index %d", idx)
	}
}

func TestMoveList_InsertDeleteInverse(t *testing.T) {
	original := sampleList(5)

	for i := 0; i < original.Len(); i++ {
		l := sampleList(5)
		m, err := l.At(i)
		require.NoError(t, err)

		require.NoError(t, l.DeleteAction(i))
		require.NoError(t, l.InsertAction(i, m))
		assert.Equal(t, original.All(), l.All(), "index %d", i)
	}
}

func TestMoveList_InsertAction_Invalid(t *testing.T) {
	l := sampleList(2)
	assert.True(t, errors.Is(l.InsertAction(-1, Move{}), ErrInvalidInput))

	var nilList *MoveList
	assert.True(t, errors.Is(nilList.InsertAction(0, Move{}), ErrInvalidInput))
}

func TestMoveList_InsertAction_Full(t *testing.T) {
	l := &MoveList{limit: 2}
	require.NoError(t, l.InsertAction(0, Move{Tick: 1}))
	require.NoError(t, l.InsertAction(1, Move{Tick: 2}))

	err := l.InsertAction(0, Move{Tick: 3})
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Equal(t, []Move{{Tick: 1}, {Tick: 2}}, l.All())
}

func TestMoveList_AtSet(t *testing.T) {
	l := sampleList(2)

	require.NoError(t, l.Set(1, Move{Tick: 42}))
	m, err := l.At(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), m.Tick)

	_, err = l.At(2)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(l.Set(-1, Move{}), ErrInvalidInput))
}

func TestMoveList_AllIsCopy(t *testing.T) {
	l := sampleList(2)
	all := l.All()
	all[0].Tick = 12345

	m, err := l.At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), m.Tick)
}

func TestMoveList_ShrinkToFit(t *testing.T) {
	l := NewMoveList(100)
	l.Append(Move{Tick: 1})
	l.ShrinkToFit()

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Cap())
}
