package protocol

import (
	"context"
	"errors"
	"testing"
	"time"

	"arcade-go/errcode"
	"arcade-go/led"
)

// scriptPort replays reads in order. A nil chunk stands for a quiet line: the
// read blocks until its context expires. Once the script is exhausted every
// read is quiet.
type scriptPort struct {
	reads [][]byte
	err   error // returned instead of blocking once the script is exhausted
	calls int
}

func (s *scriptPort) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	s.calls++
	if len(s.reads) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		<-ctx.Done()
		return 0, ctx.Err()
	}
	chunk := s.reads[0]
	if chunk == nil {
		s.reads = s.reads[1:]
		<-ctx.Done()
		return 0, ctx.Err()
	}
	n := copy(p, chunk)
	if n < len(chunk) {
		s.reads[0] = chunk[n:]
	} else {
		s.reads = s.reads[1:]
	}
	return n, nil
}

func newTestParser(t *testing.T, port Port, cfg Config) *Parser {
	t.Helper()
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 2 * time.Millisecond
	}
	p, err := NewParser(port, cfg)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func TestPollDecodesFrame(t *testing.T) {
	wire := []byte{'A', 'R', 'C', 'A', 'D', 'E', 1, 2, 10, 20, 30, 40, 50, 60}
	p := newTestParser(t, &scriptPort{reads: [][]byte{wire}}, Config{})

	f, ok, err := p.Poll(context.Background())
	if err != nil || !ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if !f.Trigger {
		t.Errorf("trigger not set")
	}
	want := []led.Pixel{{R: 10, G: 20, B: 30}, {R: 40, G: 50, B: 60}}
	if len(f.Pixels) != len(want) {
		t.Fatalf("pixels = %d, want %d", len(f.Pixels), len(want))
	}
	for i := range want {
		if f.Pixels[i] != want[i] {
			t.Errorf("pixel %d = %+v, want %+v", i, f.Pixels[i], want[i])
		}
	}
	if w := p.Window(); w != [6]byte{} {
		t.Errorf("window not cleared: %q", w[:])
	}
}

func TestPollResyncsAfterNearMiss(t *testing.T) {
	// "ARCAXE" must not match; the real marker follows one byte later.
	wire := []byte("ARCAXEARCADE")
	wire = append(wire, 0, 1, 7, 8, 9)
	p := newTestParser(t, &scriptPort{reads: [][]byte{wire}}, Config{})

	f, ok, err := p.Poll(context.Background())
	if err != nil || !ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if f.Trigger || len(f.Pixels) != 1 || f.Pixels[0] != (led.Pixel{R: 7, G: 8, B: 9}) {
		t.Fatalf("unexpected frame %+v", f)
	}
}

func TestPushMatchesOnlyExactWindow(t *testing.T) {
	p := newTestParser(t, &scriptPort{}, Config{})
	hits := 0
	for _, b := range []byte("xxARCAXEARCADEARCAD") {
		if p.Push(b) {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestTimeoutMidPayloadDropsFrame(t *testing.T) {
	partial := []byte{'A', 'R', 'C', 'A', 'D', 'E', 0, 3, 1, 2, 3}
	good := []byte{'A', 'R', 'C', 'A', 'D', 'E', 1, 1, 4, 5, 6}
	port := &scriptPort{reads: [][]byte{partial, nil, good}}
	p := newTestParser(t, port, Config{})

	f, ok, err := p.Poll(context.Background())
	if err != nil || ok {
		t.Fatalf("first Poll: ok=%v err=%v frame=%+v", ok, err, f)
	}
	if p.Stats().Drops != 1 {
		t.Fatalf("drops = %d, want 1", p.Stats().Drops)
	}

	f, ok, err = p.Poll(context.Background())
	if err != nil || !ok {
		t.Fatalf("second Poll: ok=%v err=%v", ok, err)
	}
	if !f.Trigger || len(f.Pixels) != 1 || f.Pixels[0] != (led.Pixel{R: 4, G: 5, B: 6}) {
		t.Fatalf("unexpected frame %+v", f)
	}
}

func TestQuietLineYieldsNoFrame(t *testing.T) {
	p := newTestParser(t, &scriptPort{reads: [][]byte{[]byte("noise")}}, Config{})
	_, ok, err := p.Poll(context.Background())
	if err != nil || ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
}

func TestScanBudgetBoundsPoll(t *testing.T) {
	noise := make([]byte, 100)
	port := &scriptPort{reads: [][]byte{noise}}
	p := newTestParser(t, port, Config{ScanBudget: 10})
	if _, ok, err := p.Poll(context.Background()); ok || err != nil {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if got := p.Stats().Scanned; got != 10 {
		t.Fatalf("scanned = %d, want 10", got)
	}
}

func TestOversizedCountIsFatal(t *testing.T) {
	wire := []byte{'A', 'R', 'C', 'A', 'D', 'E', 0, 5}
	p := newTestParser(t, &scriptPort{reads: [][]byte{wire}}, Config{MaxPixels: 4})
	_, ok, err := p.Poll(context.Background())
	if ok || errcode.Of(err) != errcode.PayloadTooLarge || !errcode.IsFatal(err) {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
}

func TestPortErrorsPropagate(t *testing.T) {
	boom := errors.New("uart overrun")
	p := newTestParser(t, &scriptPort{err: boom}, Config{})
	_, _, err := p.Poll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Poll err = %v, want %v", err, boom)
	}
	if errcode.IsFatal(err) {
		t.Fatalf("plain port error must not be fatal: %v", err)
	}

	gone := errcode.New(errcode.ChannelFault, "serial.recv", "closed")
	p = newTestParser(t, &scriptPort{err: gone}, Config{})
	if _, _, err := p.Poll(context.Background()); errcode.Of(err) != errcode.ChannelFault {
		t.Fatalf("closed port err = %v, want channel_fault", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = newTestParser(t, &scriptPort{}, Config{})
	if _, _, err := p.Poll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled Poll err = %v", err)
	}
}

func TestNewParserValidation(t *testing.T) {
	if _, err := NewParser(nil, Config{}); errcode.Of(err) != errcode.InvalidParams {
		t.Errorf("nil port: %v", err)
	}
	if _, err := NewParser(&scriptPort{}, Config{MaxPixels: 256}); errcode.Of(err) != errcode.InvalidParams {
		t.Errorf("max pixels 256: %v", err)
	}
}

func TestAppendFrameRoundTrip(t *testing.T) {
	in := Frame{Trigger: true, Pixels: []led.Pixel{{R: 1, G: 2, B: 3}, {R: 250}}}
	wire, err := AppendFrame(nil, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(wire) != headerLen+6 {
		t.Fatalf("encoded length = %d", len(wire))
	}
	p := newTestParser(t, &scriptPort{reads: [][]byte{wire}}, Config{})
	out, ok, err := p.Poll(context.Background())
	if err != nil || !ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if out.Trigger != in.Trigger || len(out.Pixels) != 2 || out.Pixels[1] != in.Pixels[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	if _, err := AppendFrame(nil, Frame{Pixels: make([]led.Pixel, 256)}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("oversized frame: %v", err)
	}
}
