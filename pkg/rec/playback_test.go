package rec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFile_Playback(t *testing.T) {
	f := NewFile()
	f.Moves.Append(Move{Tick: 30, PlayerID: 0, Action: ActionUp})
	f.Moves.Append(Move{Tick: 10, PlayerID: 1, Action: ActionKick})
	f.Moves.Append(Move{Tick: 20, Extra: 5, PlayerID: 0})
	f.Moves.Append(Move{Tick: 10, PlayerID: 0, Action: ActionPunch})
	f.Moves.Append(Move{Tick: 5, Extra: 2, PlayerID: 1, Action: ActionLeft})

	expected := []Input{
		{Tick: 5, PlayerID: 1, Action: ActionLeft},
		{Tick: 10, PlayerID: 1, Action: ActionKick},
		{Tick: 10, PlayerID: 0, Action: ActionPunch},
		{Tick: 30, PlayerID: 0, Action: ActionUp},
	}
	assert.Equal(t, expected, f.Playback())
}

func TestFile_PlaybackEmpty(t *testing.T) {
	assert.Empty(t, NewFile().Playback())
	assert.Empty(t, (&File{}).Playback())
}

func TestFile_Summary(t *testing.T) {
	f := NewFile()
	f.Scores = [2]uint32{700, 300}
	f.Trailer = []byte{1, 2}
	f.Moves.Append(Move{Tick: 40, PlayerID: 0})
	f.Moves.Append(Move{Tick: 15, PlayerID: 1, Extra: 3})
	f.Moves.Append(Move{Tick: 90, PlayerID: 1})

	s := f.Summary()
	assert.Equal(t, [2]uint32{700, 300}, s.Scores)
	assert.Equal(t, 3, s.Moves)
	assert.Equal(t, 1, s.ExtendedMoves)
	assert.Equal(t, map[uint8]int{0: 1, 1: 2}, s.PlayerMoves)
	assert.Equal(t, uint32(15), s.FirstTick)
	assert.Equal(t, uint32(90), s.LastTick)
	assert.Equal(t, MinFileSize+2+7+14+7, s.EncodedSize)
}
