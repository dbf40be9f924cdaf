// Package led holds pixel storage for one strip of WS2812/WS2815 LEDs.
package led

import "image/color"

// Pixel is one logical RGB colour.
type Pixel struct {
	R, G, B uint8
}

var (
	Black = Pixel{}
	White = Pixel{R: 0xff, G: 0xff, B: 0xff}
)

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff}.RGBA()
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) Pixel {
	r, g, b, _ := c.RGBA()
	return Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
