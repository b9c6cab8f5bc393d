package rec

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Action is a set of input flags.
type Action uint8

const (
	ActionNone  Action = 0
	ActionPunch Action = 1 << 0
	ActionKick  Action = 1 << 1
	ActionUp    Action = 1 << 2
	ActionDown  Action = 1 << 3
	ActionLeft  Action = 1 << 4
	ActionRight Action = 1 << 5

	directionMask = ActionUp | ActionDown | ActionLeft | ActionRight
)

const (
	rawPunch         = 0x01
	rawKick          = 0x02
	rawDirectionMask = 0xF0
)

// directionCodes maps the high nibble of an action byte to its directions.
var directionCodes = [...]struct {
	code uint8
	dir  Action
}{
	{16, ActionUp},
	{32, ActionUp | ActionRight},
	{48, ActionRight},
	{64, ActionDown | ActionRight},
	{80, ActionDown},
	{96, ActionDown | ActionLeft},
	{112, ActionLeft},
	{128, ActionUp | ActionLeft},
}

var actionNames = [...]struct {
	flag Action
	name string
}{
	{ActionUp, "up"},
	{ActionDown, "down"},
	{ActionLeft, "left"},
	{ActionRight, "right"},
	{ActionPunch, "punch"},
	{ActionKick, "kick"},
}

// DecodeAction converts an on-disk action byte to an Action. Unlisted
// direction nibbles decode to no direction.
func DecodeAction(raw uint8) Action {
	a := ActionNone
	if raw&rawPunch != 0 {
		a |= ActionPunch
	}
	if raw&rawKick != 0 {
		a |= ActionKick
	}
	nibble := raw & rawDirectionMask
	for _, dc := range directionCodes {
		if dc.code == nibble {
			a |= dc.dir
			break
		}
	}
	return a
}

// EncodeAction converts a to an on-disk action byte. Direction combinations
// outside the table, including none, encode as 0.
func EncodeAction(a Action) uint8 {
	var raw uint8
	dir := a.Direction()
	for _, dc := range directionCodes {
		if dc.dir == dir {
			raw = dc.code
			break
		}
	}
	if a.Has(ActionPunch) {
		raw |= rawPunch
	}
	if a.Has(ActionKick) {
		raw |= rawKick
	}
	return raw
}

// Has reports whether every flag in flags is set.
func (a Action) Has(flags Action) bool {
	return a&flags == flags
}

// Direction returns only the directional flags.
func (a Action) Direction() Action {
	return a & directionMask
}

// String renders a as "+"-joined flag names, e.g. "up+right+punch".
func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	parts := make([]string, 0, len(actionNames))
	for _, n := range actionNames {
		if a.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseAction parses the format produced by String.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return ActionNone, nil
	}

	a := ActionNone
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		found := false
		for _, n := range actionNames {
			if n.name == part {
				a |= n.flag
				found = true
				break
			}
		}
		if !found {
			return ActionNone, errors.Wrapf(ErrInvalidInput, "unknown action %q", part)
		}
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
