package effects

import "arcade-go/errcode"

// Mode selects what the strips show.
type Mode uint8

const (
	Sync Mode = iota
	Rainbow
	Solid
	Oscillating
	Strobe

	ModeCount = 5
)

var modeNames = [ModeCount]string{"sync", "rainbow", "solid", "oscillating", "strobe"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

func (m Mode) Valid() bool { return m < ModeCount }

// Next and Prev cycle through the modes, wrapping at either end.
func (m Mode) Next() Mode { return (m + 1) % ModeCount }
func (m Mode) Prev() Mode { return (m + ModeCount - 1) % ModeCount }

func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, errcode.New(errcode.InvalidParams, "effects.mode", "unknown mode "+s)
}

// MarshalText and UnmarshalText let modes appear by name in JSON configs.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// State is everything the renderer reads besides the palette and the
// optional passthrough pixels. The loop owns it and mutates it between
// frames.
type State struct {
	Mode         Mode
	PaletteIndex int
	Offset       uint16
}

// Advance steps the animation counter; it wraps from 65535 to 0.
func (s *State) Advance() { s.Offset++ }
