//go:build rp2040 || rp2350

package platform

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"arcade-go/errcode"
	"arcade-go/services/config"
	"arcade-go/ws2815"
	"arcade-go/x/logx"
)

// uartFor picks the UART instance whose default pins match the board.
func uartFor(p config.Pins) *uartx.UART {
	if p.UARTTx == 4 || p.UARTTx == 8 {
		return uartx.UART1
	}
	return uartx.UART0
}

func input(n int, pullUp bool) machine.Pin {
	pin := machine.Pin(n)
	mode := machine.PinInputPulldown
	if pullUp {
		mode = machine.PinInputPullup
	}
	pin.Configure(machine.PinConfig{Mode: mode})
	return pin
}

// Open configures the board's UART, buttons, haptic output and one ws2812
// sink per strip.
func Open(b config.Board) (*Peripherals, error) {
	log := logx.New("platform")

	u := uartFor(b.Pins)
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: b.Baud,
		TX:       machine.Pin(b.Pins.UARTTx),
		RX:       machine.Pin(b.Pins.UARTRx),
	}); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "platform.uart", err)
	}

	pullUp := b.Arcade.InvertButtons
	haptic := machine.Pin(b.Pins.Haptic)
	haptic.Configure(machine.PinConfig{Mode: machine.PinOutput})
	haptic.Low()

	p := &Peripherals{
		Serial: u,
		Left:   input(b.Pins.Left, pullUp),
		Mid:    input(b.Pins.Mid, pullUp),
		Right:  input(b.Pins.Right, pullUp),
		Haptic: haptic,
	}
	for _, s := range b.Arcade.Strips {
		p.Sinks = append(p.Sinks, ws2815.Sink(NewWS2812Sink(machine.Pin(s.Pin), s.Length)))
	}
	log.Info("opened", "board", b.ID, "baud", b.Baud, "strips", len(p.Sinks))
	return p, nil
}
