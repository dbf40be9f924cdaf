//go:build !(rp2040 || rp2350)

package platform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arcade-go/errcode"
	"arcade-go/led"
	"arcade-go/protocol"
	"arcade-go/services/arcade"
	"arcade-go/services/config"
	"arcade-go/ws2815"
	"arcade-go/x/shmring"
)

func TestLoopbackFeedsParser(t *testing.T) {
	lb := NewLoopback(64)
	wire, _ := protocol.AppendFrame(nil, protocol.Frame{Trigger: true, Pixels: []led.Pixel{{R: 3, G: 2, B: 1}}})
	if _, err := lb.Write(wire); err != nil {
		t.Fatal(err)
	}
	p, err := protocol.NewParser(lb, protocol.Config{ReadTimeout: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	f, ok, err := p.Poll(context.Background())
	if err != nil || !ok || !f.Trigger || f.Pixels[0] != (led.Pixel{R: 3, G: 2, B: 1}) {
		t.Fatalf("Poll: ok=%v err=%v frame=%+v", ok, err, f)
	}
	if lb.Buffered() != 0 {
		t.Fatalf("buffered = %d", lb.Buffered())
	}
}

func TestRecordSinkDecodesFrames(t *testing.T) {
	var mu sync.Mutex
	var seen [][]led.Pixel
	rs := &RecordSink{OnFrame: func(px []led.Pixel) {
		mu.Lock()
		seen = append(seen, px)
		mu.Unlock()
	}}
	ch, err := ws2815.NewChannel(rs, ws2815.ChannelConfig{Name: "t", BlockSymbols: 16})
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()

	s, _ := led.NewStrip(3)
	s.Fill(led.Pixel{R: 10, G: 20, B: 30})
	ctx := context.Background()
	if err := ch.Send(ctx, s.Bytes()); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if err := ch.Send(ctx, s.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := ch.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	if rs.Frames() != 2 {
		t.Fatalf("frames = %d", rs.Frames())
	}
	if last := rs.Last(); len(last) != 3 || last[0] != led.Black {
		t.Fatalf("last = %+v", last)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0][2] != (led.Pixel{R: 10, G: 20, B: 30}) {
		t.Fatalf("seen = %+v", seen)
	}
}

func TestFakePin(t *testing.T) {
	var f HostPinFactory
	p := f.ByNumber(15)
	if f.ByNumber(15) != p || p.Number() != 15 {
		t.Fatal("factory not stable")
	}
	p.ConfigureOutput(true)
	if !p.Get() || !p.IsOutput() {
		t.Fatal("initial output level lost")
	}
	p.Set(false)
	if p.Get() || p.Writes() != 1 {
		t.Fatalf("level=%v writes=%d", p.Get(), p.Writes())
	}
}

func TestHostBoardEndToEnd(t *testing.T) {
	b, err := config.Load("host-sim")
	if err != nil {
		t.Fatal(err)
	}
	b.Arcade.Mode = 0 // sync
	h, err := OpenHost(b, HostOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	chs, err := arcade.OpenChannels(b.Arcade, h.Sinks)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		for _, c := range chs {
			c.Close()
		}
	}()
	loop, err := arcade.New(b.Arcade, h.Hardware(arcade.Transmitters(chs)))
	if err != nil {
		t.Fatal(err)
	}

	px := []led.Pixel{{R: 1}, {G: 2}, {B: 3}}
	wire, _ := protocol.AppendFrame(nil, protocol.Frame{Trigger: true, Pixels: px})
	if _, err := h.Link.Write(wire); err != nil {
		t.Fatal(err)
	}
	if err := loop.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, c := range chs {
		if err := c.Flush(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if !h.Pins.ByNumber(b.Pins.Haptic).Get() {
		t.Error("haptic pin not raised")
	}
	for i, rs := range h.Records {
		got := rs.Last()
		if len(got) != b.Arcade.Strips[i].Length {
			t.Fatalf("strip %d: %d pixels", i, len(got))
		}
		for j, want := range px {
			if got[j] != want {
				t.Errorf("strip %d pixel %d = %+v, want %+v", i, j, got[j], want)
			}
		}
	}

	if err := h.Press(b.Pins.Right, true, false); err != nil {
		t.Fatal(err)
	}
	if err := loop.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if loop.State().Mode.String() != "rainbow" {
		t.Fatalf("mode = %v", loop.State().Mode)
	}
	if err := h.Press(b.Pins.Haptic, true, false); err == nil {
		t.Fatal("pressing an output should fail")
	}
}

func TestStoppedSerialReaderIsFatal(t *testing.T) {
	done := make(chan struct{})
	s := &SerialPort{name: "ttyTEST", ring: shmring.New(16), done: done}
	s.ring.TryWriteFrom([]byte{7})
	s.setErr(errors.New("device removed"))
	close(done)

	buf := make([]byte, 4)
	if n, err := s.RecvSomeContext(context.Background(), buf); n != 1 || err != nil || buf[0] != 7 {
		t.Fatalf("buffered byte: n=%d err=%v", n, err)
	}
	_, err := s.RecvSomeContext(context.Background(), buf)
	if !errcode.IsFatal(err) || errcode.Of(err) != errcode.ChannelFault {
		t.Fatalf("err = %v, want fatal channel_fault", err)
	}
}
