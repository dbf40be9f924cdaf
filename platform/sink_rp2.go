//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ws2812"

	"arcade-go/errcode"
	"arcade-go/led"
	"arcade-go/ws2815"
)

// WS2812Sink drives one strip through the bit-banged ws2812 driver. Symbols
// are unpacked back to bytes and the whole frame is clocked out when the
// reset symbol arrives, followed by the reset low time.
type WS2812Sink struct {
	dev ws2812.Device
	un  ws2815.Unpacker
	buf []byte
	hz  uint32
}

func NewWS2812Sink(pin machine.Pin, length int) *WS2812Sink {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812Sink{
		dev: ws2812.New(pin),
		buf: make([]byte, 0, length*3),
		hz:  ws2815.DefaultTiming.ResolutionHz,
	}
}

func (s *WS2812Sink) WriteSymbols(syms []ws2815.Symbol) error {
	return s.un.Feed(syms, s.stage, s.latch)
}

func (s *WS2812Sink) stage(b byte) error {
	if len(s.buf) == led.MaxLen*3 {
		return errcode.New(errcode.ChannelFault, "ws2812", "frame longer than a strip")
	}
	s.buf = append(s.buf, b)
	return nil
}

func (s *WS2812Sink) latch(reset ws2815.Symbol) error {
	_, err := s.dev.Write(s.buf)
	s.buf = s.buf[:0]
	time.Sleep(ws2815.Duration(reset.Ticks(), s.hz))
	if err != nil {
		return errcode.Wrap(errcode.ChannelFault, "ws2812", err)
	}
	return nil
}
