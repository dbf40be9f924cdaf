package platform

import (
	"sync"

	"arcade-go/led"
	"arcade-go/ws2815"
)

// RecordSink decodes the symbol stream back into strip frames. The host
// simulator renders them; tests inspect them.
type RecordSink struct {
	mu      sync.Mutex
	un      ws2815.Unpacker
	pending []byte
	last    []byte
	frames  int

	// OnFrame, when set, receives each completed frame in logical order.
	// It runs on the channel worker goroutine.
	OnFrame func(px []led.Pixel)
}

func (r *RecordSink) WriteSymbols(syms []ws2815.Symbol) error {
	r.mu.Lock()
	var done [][]byte
	err := r.un.Feed(syms,
		func(b byte) error { r.pending = append(r.pending, b); return nil },
		func(ws2815.Symbol) error {
			r.last = append(r.last[:0], r.pending...)
			r.pending = r.pending[:0]
			r.frames++
			done = append(done, append([]byte(nil), r.last...))
			return nil
		})
	cb := r.OnFrame
	r.mu.Unlock()

	if cb != nil {
		for _, f := range done {
			cb(wireToPixels(f))
		}
	}
	return err
}

// Last returns the most recent complete frame in logical order.
func (r *RecordSink) Last() []led.Pixel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return wireToPixels(r.last)
}

func (r *RecordSink) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func wireToPixels(b []byte) []led.Pixel {
	px := make([]led.Pixel, len(b)/3)
	for i := range px {
		px[i] = led.Pixel{G: b[3*i], R: b[3*i+1], B: b[3*i+2]}
	}
	return px
}
