// Package platform binds the render loop to concrete peripherals. MCU builds
// use machine pins, tinygo-uartx and the ws2812 driver; host builds use
// go.bug.st/serial or an in-memory link, fake pins and recording sinks.
package platform

import (
	"arcade-go/protocol"
	"arcade-go/services/arcade"
	"arcade-go/ws2815"
)

// Peripherals are the devices opened for one board.
type Peripherals struct {
	Serial protocol.Port
	Left   arcade.InputPin
	Mid    arcade.InputPin
	Right  arcade.InputPin
	Haptic arcade.OutputPin
	Sinks  []ws2815.Sink
}

// Hardware pairs the peripherals with the strip transmitters.
func (p *Peripherals) Hardware(tx []arcade.Transmitter) arcade.Hardware {
	return arcade.Hardware{
		Serial: p.Serial,
		Left:   p.Left,
		Mid:    p.Mid,
		Right:  p.Right,
		Haptic: p.Haptic,
		Strips: tx,
	}
}
