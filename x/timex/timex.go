package timex

import (
	"time"

	"arcade-go/x/mathx"
)

// Ticks converts d into counts of a clock running at hz, rounded to nearest.
// Negative durations and hz==0 yield 0.
func Ticks(d time.Duration, hz uint32) uint64 {
	if d <= 0 || hz == 0 {
		return 0
	}
	return mathx.RoundDiv(uint64(d)*uint64(hz), uint64(time.Second))
}

// FromTicks is the inverse of Ticks.
func FromTicks(ticks uint64, hz uint32) time.Duration {
	if hz == 0 {
		return 0
	}
	return time.Duration(ticks * uint64(time.Second) / uint64(hz))
}
