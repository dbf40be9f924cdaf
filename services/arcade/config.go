package arcade

import (
	"time"

	"arcade-go/effects"
	"arcade-go/errcode"
	"arcade-go/led"
)

// StripConfig describes one physical strip.
type StripConfig struct {
	Name   string
	Pin    int
	Length int
}

type Config struct {
	Tick        time.Duration
	ReadTimeout time.Duration
	Debounce    time.Duration

	Mode         effects.Mode
	PaletteIndex int
	// PaletteModes lists the modes in which the middle button steps the palette.
	PaletteModes []effects.Mode

	Strips []StripConfig

	QueueDepth   int
	BlockSymbols int
	MaxPixels    int
	ScanBudget   int

	// StatsEvery is the number of ticks between arcade/tick publications.
	StatsEvery    int
	InvertButtons bool
}

// DefaultConfig matches the two-strip cabinet.
func DefaultConfig() Config {
	return Config{
		Tick:         10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		Debounce:     200 * time.Millisecond,
		Mode:         effects.Sync,
		PaletteIndex: led.DefaultPaletteIndex,
		PaletteModes: []effects.Mode{effects.Solid, effects.Oscillating, effects.Strobe},
		Strips: []StripConfig{
			{Name: "strip0", Pin: 32, Length: 15},
			{Name: "strip1", Pin: 14, Length: 15},
		},
		QueueDepth:   4,
		BlockSymbols: 64,
		MaxPixels:    led.MaxLen,
		ScanBudget:   1024,
		StatsEvery:   100,
	}
}

func (c *Config) Validate() error {
	fail := func(msg string) error { return errcode.New(errcode.InvalidConfig, "arcade.config", msg) }
	switch {
	case c.Tick <= 0:
		return fail("tick must be positive")
	case c.ReadTimeout <= 0:
		return fail("read timeout must be positive")
	case c.Debounce < 0:
		return fail("debounce must not be negative")
	case !c.Mode.Valid():
		return fail("unknown mode")
	case c.PaletteIndex < 0:
		return fail("palette index must not be negative")
	case len(c.Strips) == 0:
		return fail("no strips")
	case c.QueueDepth < 0, c.BlockSymbols < 0, c.ScanBudget < 0, c.StatsEvery < 0:
		return fail("sizes must not be negative")
	case c.MaxPixels < 0 || c.MaxPixels > led.MaxLen:
		return fail("max pixels out of range")
	}
	for _, m := range c.PaletteModes {
		if !m.Valid() {
			return fail("unknown palette mode")
		}
	}
	for _, s := range c.Strips {
		if s.Length < 0 || s.Length > led.MaxLen {
			return fail("strip " + s.Name + " length out of range")
		}
	}
	return nil
}

func (c *Config) cyclesPalette(m effects.Mode) bool {
	for _, pm := range c.PaletteModes {
		if pm == m {
			return true
		}
	}
	return false
}
