package arcade

import (
	"context"

	"arcade-go/errcode"
	"arcade-go/protocol"
	"arcade-go/ws2815"
)

type InputPin interface {
	Get() bool
}

type OutputPin interface {
	Set(high bool)
}

// Transmitter queues one strip's wire bytes for output. ws2815.Channel is
// the usual implementation.
type Transmitter interface {
	Send(ctx context.Context, data []byte) error
}

// Hardware is the set of peripherals the loop drives. Strips pairs by index
// with Config.Strips.
type Hardware struct {
	Serial protocol.Port
	Left   InputPin
	Mid    InputPin
	Right  InputPin
	Haptic OutputPin
	Strips []Transmitter
}

func (h *Hardware) validate(strips int) error {
	if h.Serial == nil || h.Left == nil || h.Mid == nil || h.Right == nil || h.Haptic == nil {
		return errcode.New(errcode.InvalidParams, "arcade.hardware", "missing peripheral")
	}
	if len(h.Strips) != strips {
		return errcode.New(errcode.InvalidConfig, "arcade.hardware", "transmitter count does not match strips")
	}
	for _, t := range h.Strips {
		if t == nil {
			return errcode.New(errcode.InvalidParams, "arcade.hardware", "nil transmitter")
		}
	}
	return nil
}

// OpenChannels starts one transmit channel per configured strip, pairing
// sinks by index. On error, channels already started are closed.
func OpenChannels(cfg Config, sinks []ws2815.Sink) ([]*ws2815.Channel, error) {
	if len(sinks) != len(cfg.Strips) {
		return nil, errcode.New(errcode.InvalidConfig, "arcade.channels", "sink count does not match strips")
	}
	out := make([]*ws2815.Channel, 0, len(sinks))
	for i, s := range sinks {
		ch, err := ws2815.NewChannel(s, ws2815.ChannelConfig{
			Name:         cfg.Strips[i].Name,
			QueueDepth:   cfg.QueueDepth,
			BlockSymbols: cfg.BlockSymbols,
		})
		if err != nil {
			for _, c := range out {
				c.Close()
			}
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// Transmitters adapts channels to the loop's hardware view.
func Transmitters(chs []*ws2815.Channel) []Transmitter {
	out := make([]Transmitter, len(chs))
	for i, c := range chs {
		out[i] = c
	}
	return out
}
