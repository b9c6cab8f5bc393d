package rec

import "github.com/ssargent/shadowrec/pkg/pilot"

const (
	// HackTimeSize is the size of each slot's raw legacy block.
	HackTimeSize = pilot.BlockSize
	// MinFileSize is the smallest file Load accepts.
	MinFileSize = 1224

	slotPadding     = 168
	moveHeaderSize  = 7
	extraDataSize   = 7
	extendedMinimum = 3
)

// Move is one timestamped input event.
type Move struct {
	Tick     uint32 `json:"tick" yaml:"tick"`
	Extra    uint8  `json:"extra" yaml:"extra"`
	PlayerID uint8  `json:"player_id" yaml:"player_id"`
	// RawAction is the action byte as read from disk. Save writes it back
	// verbatim for extended records.
	RawAction uint8 `json:"raw_action" yaml:"raw_action"`
	// Action is meaningful only when the record is not extended.
	Action    Action              `json:"action" yaml:"action"`
	ExtraData [extraDataSize]byte `json:"extra_data" yaml:"extra_data"`
}

// Extended reports whether the record carries an auxiliary payload.
func (m Move) Extended() bool {
	return m.Extra >= extendedMinimum
}

// Size returns the on-disk size of the record.
func (m Move) Size() int {
	if m.Extended() {
		return moveHeaderSize + extraDataSize
	}
	return moveHeaderSize
}

// Header holds the scalar fields between the scores and the move records.
// Their meaning is unknown; they are kept so files round-trip exactly.
type Header struct {
	UnknownA int8  `json:"unknown_a" yaml:"unknown_a"`
	UnknownB int8  `json:"unknown_b" yaml:"unknown_b"`
	UnknownC int8  `json:"unknown_c" yaml:"unknown_c"`
	UnknownD int16 `json:"unknown_d" yaml:"unknown_d"`
	UnknownE int16 `json:"unknown_e" yaml:"unknown_e"`
	UnknownF int16 `json:"unknown_f" yaml:"unknown_f"`
	UnknownG int16 `json:"unknown_g" yaml:"unknown_g"`
	UnknownH int16 `json:"unknown_h" yaml:"unknown_h"`
	UnknownI int16 `json:"unknown_i" yaml:"unknown_i"`
	UnknownJ int16 `json:"unknown_j" yaml:"unknown_j"`
	UnknownK int16 `json:"unknown_k" yaml:"unknown_k"`
	UnknownL int32 `json:"unknown_l" yaml:"unknown_l"`
	UnknownM int8  `json:"unknown_m" yaml:"unknown_m"`
}

// File is a decoded replay.
type File struct {
	Profiles [2]*pilot.Profile
	HackTime [2][HackTimeSize]byte
	Scores   [2]uint32
	Header   Header
	Moves    *MoveList
	// Trailer holds bytes after the last whole move record.
	Trailer []byte
}

// NewFile returns an empty replay.
func NewFile() *File {
	return &File{Moves: NewMoveList(0)}
}
