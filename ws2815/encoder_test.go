package ws2815

import (
	"testing"
	"time"

	"arcade-go/errcode"
)

func defaultSet(t *testing.T) SymbolSet {
	t.Helper()
	set, err := DefaultTiming.Symbols()
	if err != nil {
		t.Fatalf("DefaultTiming.Symbols: %v", err)
	}
	return set
}

func TestDefaultTimingTicks(t *testing.T) {
	set := defaultSet(t)
	if set.Zero != (Symbol{Level0: true, Duration0: 3, Duration1: 10}) {
		t.Errorf("zero = %+v", set.Zero)
	}
	if set.One != (Symbol{Level0: true, Duration0: 10, Duration1: 3}) {
		t.Errorf("one = %+v", set.One)
	}
	if set.Reset != (Symbol{Duration0: 1500, Duration1: 1500}) {
		t.Errorf("reset = %+v", set.Reset)
	}
	if got := Duration(set.Reset.Ticks(), DefaultTiming.ResolutionHz); got != 300*time.Microsecond {
		t.Errorf("reset interval = %v, want 300µs", got)
	}
}

func TestTimingRejectsOverflowAndZeroClock(t *testing.T) {
	bad := DefaultTiming
	bad.Reset = 10 * time.Millisecond // 50000 ticks per phase
	if _, err := bad.Symbols(); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("overflow err = %v", err)
	}
	bad = DefaultTiming
	bad.ResolutionHz = 0
	if _, err := bad.Symbols(); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("zero clock err = %v", err)
	}
}

func TestEveryByteRoundTripsMSBFirst(t *testing.T) {
	set := defaultSet(t)
	for v := 0; v < 256; v++ {
		enc := NewEncoder([]byte{byte(v)}, set)
		dst := make([]Symbol, 8)
		n, done := enc.Encode(dst)
		if n != 8 || done {
			t.Fatalf("byte %#x: n=%d done=%v", v, n, done)
		}
		var got byte
		for i, s := range dst {
			bit, ok := s.Bit()
			if !ok {
				t.Fatalf("byte %#x symbol %d not a data symbol", v, i)
			}
			want := byte(v)&(0x80>>i) != 0
			if bit != want {
				t.Fatalf("byte %#x symbol %d: bit %v, want %v", v, i, bit, want)
			}
			got <<= 1
			if bit {
				got |= 1
			}
		}
		if got != byte(v) {
			t.Fatalf("decoded %#x, want %#x", got, v)
		}
	}
}

func TestEncoderNeedsEightSlots(t *testing.T) {
	set := defaultSet(t)
	enc := NewEncoder([]byte{0xA5, 0x0F}, set)
	if n, done := enc.Encode(make([]Symbol, 7)); n != 0 || done {
		t.Fatalf("7 slots: n=%d done=%v, want 0,false", n, done)
	}
	if enc.Emitted() != 0 {
		t.Fatalf("no progress expected, emitted=%d", enc.Emitted())
	}
	// 15 slots fit exactly one byte.
	if n, done := enc.Encode(make([]Symbol, 15)); n != 8 || done {
		t.Fatalf("15 slots: n=%d done=%v", n, done)
	}
	// The reset also waits for 8 free slots.
	if n, _ := enc.Encode(make([]Symbol, 8)); n != 8 {
		t.Fatalf("second byte: n=%d", n)
	}
	if n, done := enc.Encode(make([]Symbol, 7)); n != 0 || done {
		t.Fatalf("reset with 7 slots: n=%d done=%v", n, done)
	}
	dst := make([]Symbol, 8)
	n, done := enc.Encode(dst)
	if n != 1 || !done || !dst[0].IsReset() {
		t.Fatalf("reset: n=%d done=%v sym=%+v", n, done, dst[0])
	}
	if n, done := enc.Encode(dst); n != 0 || !done {
		t.Fatalf("after done: n=%d done=%v", n, done)
	}
}

func TestEncoderSymbolCountIndependentOfBatching(t *testing.T) {
	set := defaultSet(t)
	data := []byte{0x00, 0xff, 0x12, 0x34, 0x56, 0x78, 0x9a}
	for _, block := range []int{8, 9, 16, 23, 64, 1024} {
		enc := NewEncoder(data, set)
		var all []Symbol
		buf := make([]Symbol, block)
		for guard := 0; guard < 1000; guard++ {
			n, done := enc.Encode(buf)
			all = append(all, buf[:n]...)
			if done {
				break
			}
		}
		if len(all) != Total(len(data)) {
			t.Fatalf("block %d: %d symbols, want %d", block, len(all), Total(len(data)))
		}
		got, complete := Decode(all)
		if !complete || string(got) != string(data) {
			t.Fatalf("block %d: decoded %x complete=%v", block, got, complete)
		}
	}
}

func TestEmptyDataIsJustReset(t *testing.T) {
	enc := NewEncoder(nil, defaultSet(t))
	dst := make([]Symbol, 8)
	n, done := enc.Encode(dst)
	if n != 1 || !done || !dst[0].IsReset() {
		t.Fatalf("n=%d done=%v", n, done)
	}
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	set := defaultSet(t)
	syms := []Symbol{set.One, set.Zero, set.Reset}
	if _, complete := Decode(syms); complete {
		t.Fatalf("partial byte before reset must not be complete")
	}
	if _, complete := Decode([]Symbol{set.One}); complete {
		t.Fatalf("missing reset must not be complete")
	}
}

func TestUnpackerAcrossBatches(t *testing.T) {
	set := defaultSet(t)
	data := []byte{0xA5, 0x00, 0xFF, 0x3C}
	enc := NewEncoder(data, set)
	var syms []Symbol
	block := make([]Symbol, 16)
	for done := false; !done; {
		var n int
		n, done = enc.Encode(block)
		if n == 0 && !done {
			t.Fatalf("encoder stalled after %d symbols", len(syms))
		}
		syms = append(syms, block[:n]...)
	}
	if len(syms) != Total(len(data)) {
		t.Fatalf("encoded %d symbols, want %d", len(syms), Total(len(data)))
	}

	var got []byte
	resets := 0
	var u Unpacker
	onByte := func(b byte) error { got = append(got, b); return nil }
	onReset := func(Symbol) error { resets++; return nil }
	// Odd batch sizes split bytes across calls.
	for off := 0; off < len(syms); off += 5 {
		end := min(off+5, len(syms))
		if err := u.Feed(syms[off:end], onByte, onReset); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if string(got) != string(data) || resets != 1 {
		t.Fatalf("got %x resets=%d", got, resets)
	}

	// A reset after three data bits is reported.
	bad := append(append([]Symbol{}, syms[:3]...), set.Reset)
	if err := u.Feed(bad, onByte, onReset); err == nil {
		t.Fatal("expected error for reset inside a byte")
	}
}
