//go:build !(rp2040 || rp2350)

package platform

import (
	"errors"

	"arcade-go/led"
	"arcade-go/services/config"
	"arcade-go/ws2815"
	"arcade-go/x/logx"
)

// HostOptions selects the host-side stand-ins.
type HostOptions struct {
	// SerialName opens a real serial device; empty uses an in-memory link.
	SerialName string
	// OnFrame observes every frame each strip outputs.
	OnFrame func(strip int, px []led.Pixel)
}

// Host is a board brought up on a workstation.
type Host struct {
	Peripherals
	Pins    *HostPinFactory
	Link    *Loopback   // nil when a serial device is used
	Port    *SerialPort // nil when the loopback is used
	Records []*RecordSink
}

// OpenHost builds host peripherals for b.
func OpenHost(b config.Board, opt HostOptions) (*Host, error) {
	log := logx.New("platform")
	h := &Host{Pins: &HostPinFactory{}}

	if opt.SerialName != "" {
		sp, err := OpenSerial(opt.SerialName, int(b.Baud))
		if err != nil {
			return nil, err
		}
		h.Port = sp
		h.Serial = sp
	} else {
		h.Link = NewLoopback(4096)
		h.Serial = h.Link
	}

	h.Left = h.Pins.ByNumber(b.Pins.Left)
	h.Mid = h.Pins.ByNumber(b.Pins.Mid)
	h.Right = h.Pins.ByNumber(b.Pins.Right)
	haptic := h.Pins.ByNumber(b.Pins.Haptic)
	haptic.ConfigureOutput(false)
	h.Haptic = haptic
	if b.Arcade.InvertButtons {
		for _, p := range []*FakePin{h.Pins.ByNumber(b.Pins.Left), h.Pins.ByNumber(b.Pins.Mid), h.Pins.ByNumber(b.Pins.Right)} {
			p.Set(true)
		}
	}

	for i := range b.Arcade.Strips {
		rs := &RecordSink{}
		if opt.OnFrame != nil {
			idx := i
			rs.OnFrame = func(px []led.Pixel) { opt.OnFrame(idx, px) }
		}
		h.Records = append(h.Records, rs)
		h.Sinks = append(h.Sinks, ws2815.Sink(rs))
	}
	log.Info("opened", "board", b.ID, "serial", opt.SerialName, "strips", len(h.Sinks))
	return h, nil
}

func (h *Host) Close() error {
	if h.Port != nil {
		return h.Port.Close()
	}
	return nil
}

// Press drives a button input to its active level.
func (h *Host) Press(pin int, down bool, inverted bool) error {
	p := h.Pins.ByNumber(pin)
	if p.IsOutput() {
		return errors.New("pin is an output")
	}
	p.Set(down != inverted)
	return nil
}
