package rec

import "sort"

// Input is one playback event handed to a simulation.
type Input struct {
	Tick     uint32 `json:"tick" yaml:"tick"`
	PlayerID uint8  `json:"player_id" yaml:"player_id"`
	Action   Action `json:"action" yaml:"action"`
}

// Playback returns the non-extended moves as inputs in ascending tick order.
// Moves sharing a tick keep their file order.
func (f *File) Playback() []Input {
	moves := f.Moves.All()
	inputs := make([]Input, 0, len(moves))
	for _, m := range moves {
		if m.Extended() {
			continue
		}
		inputs = append(inputs, Input{Tick: m.Tick, PlayerID: m.PlayerID, Action: m.Action})
	}
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].Tick < inputs[j].Tick
	})
	return inputs
}
