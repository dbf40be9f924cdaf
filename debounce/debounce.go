// Package debounce implements a cooldown filter for polled button levels.
//
// A press fires immediately when the line is active and the cooldown has
// expired; further activity within the cooldown is ignored, not queued.
package debounce

import (
	"time"

	"arcade-go/x/mathx"
)

type Filter struct {
	cooldown  time.Duration
	remaining time.Duration
	active    bool
}

type Option func(*Filter)

// Inverted makes a low level count as pressed (pull-up wiring).
func Inverted() Option { return func(f *Filter) { f.active = false } }

// New returns a filter that is ready to fire on its first active sample.
func New(cooldown time.Duration, opts ...Option) *Filter {
	if cooldown < 0 {
		cooldown = 0
	}
	f := &Filter{cooldown: cooldown, active: true}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Check accounts for elapsed time since the previous call and reports whether
// level counts as a new press.
func (f *Filter) Check(elapsed time.Duration, level bool) bool {
	if elapsed > 0 {
		f.remaining = mathx.SubFloor(f.remaining, elapsed)
	}
	if level != f.active || f.remaining > 0 {
		return false
	}
	f.remaining = f.cooldown
	return true
}

func (f *Filter) Remaining() time.Duration { return f.remaining }

func (f *Filter) Cooldown() time.Duration { return f.cooldown }
