package rec

// Summary describes a replay without its move payload.
type Summary struct {
	Scores        [2]uint32     `json:"scores" yaml:"scores"`
	Moves         int           `json:"moves" yaml:"moves"`
	ExtendedMoves int           `json:"extended_moves" yaml:"extended_moves"`
	PlayerMoves   map[uint8]int `json:"player_moves" yaml:"player_moves"`
	FirstTick     uint32        `json:"first_tick" yaml:"first_tick"`
	LastTick      uint32        `json:"last_tick" yaml:"last_tick"`
	EncodedSize   int           `json:"encoded_size" yaml:"encoded_size"`
	Header        Header        `json:"header" yaml:"header"`
}

// Summary computes a Summary for f.
func (f *File) Summary() Summary {
	s := Summary{
		Scores:      f.Scores,
		PlayerMoves: make(map[uint8]int),
		EncodedSize: MinFileSize + len(f.Trailer),
		Header:      f.Header,
	}

	for i, m := range f.Moves.All() {
		s.Moves++
		s.EncodedSize += m.Size()
		if m.Extended() {
			s.ExtendedMoves++
		}
		s.PlayerMoves[m.PlayerID]++
		if i == 0 || m.Tick < s.FirstTick {
			s.FirstTick = m.Tick
		}
		if m.Tick > s.LastTick {
			s.LastTick = m.Tick
		}
	}
	return s
}
