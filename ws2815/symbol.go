// Package ws2815 turns wire-ordered pixel bytes into the pulse symbols a
// WS2812/WS2815 strip decodes, and queues them onto a transmit channel.
package ws2815

import (
	"time"

	"arcade-go/errcode"
	"arcade-go/x/timex"
)

// MaxDuration is the widest phase a symbol can describe (15-bit counter).
const MaxDuration = 1<<15 - 1

// Symbol is one pulse: a level held for Duration0 ticks, then a level held
// for Duration1 ticks.
type Symbol struct {
	Level0    bool
	Duration0 uint16
	Level1    bool
	Duration1 uint16
}

// Bit decodes a data symbol: a long high phase is a 1. ok is false for
// anything that does not start high (such as the reset symbol).
func (s Symbol) Bit() (bit, ok bool) {
	if !s.Level0 || s.Level1 {
		return false, false
	}
	return s.Duration0 > s.Duration1, true
}

func (s Symbol) IsReset() bool { return !s.Level0 && !s.Level1 }

// Ticks is the total length of the symbol.
func (s Symbol) Ticks() uint32 { return uint32(s.Duration0) + uint32(s.Duration1) }

// Timing describes the protocol in wall-clock terms for a channel clocked at
// ResolutionHz.
type Timing struct {
	ResolutionHz uint32
	T0H, T0L     time.Duration
	T1H, T1L     time.Duration
	// Reset is the full latch interval, split evenly across both phases of
	// the terminal symbol.
	Reset time.Duration
}

// DefaultTiming matches WS2815 strips on a 10 MHz channel clock.
var DefaultTiming = Timing{
	ResolutionHz: 10_000_000,
	T0H:          300 * time.Nanosecond,
	T0L:          time.Microsecond,
	T1H:          time.Microsecond,
	T1L:          300 * time.Nanosecond,
	Reset:        300 * time.Microsecond,
}

// SymbolSet is the precomputed zero, one and reset symbols for a Timing.
type SymbolSet struct {
	Zero, One, Reset Symbol
}

// Symbols converts t into channel ticks.
func (t Timing) Symbols() (SymbolSet, error) {
	if t.ResolutionHz == 0 {
		return SymbolSet{}, errcode.New(errcode.InvalidParams, "timing", "zero resolution")
	}
	var err error
	ticks := func(d time.Duration) uint16 {
		n := timex.Ticks(d, t.ResolutionHz)
		if n == 0 || n > MaxDuration {
			err = errcode.New(errcode.InvalidParams, "timing", "phase duration out of range")
			return 0
		}
		return uint16(n)
	}
	half := ticks(t.Reset / 2)
	set := SymbolSet{
		Zero:  Symbol{Level0: true, Duration0: ticks(t.T0H), Level1: false, Duration1: ticks(t.T0L)},
		One:   Symbol{Level0: true, Duration0: ticks(t.T1H), Level1: false, Duration1: ticks(t.T1L)},
		Reset: Symbol{Duration0: half, Duration1: half},
	}
	if err != nil {
		return SymbolSet{}, err
	}
	return set, nil
}

// Duration converts a tick count at hz back into wall-clock time.
func Duration(ticks uint32, hz uint32) time.Duration {
	return timex.FromTicks(uint64(ticks), hz)
}
