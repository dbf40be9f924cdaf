package effects

import (
	"math"

	"arcade-go/led"
	"arcade-go/x/mathx"
)

// HSV converts hue in degrees and saturation/value in percent to a pixel.
// Channels are truncated, not rounded, after scaling to 0..255.
func HSV(h, s, v float64) led.Pixel {
	s /= 100
	v /= 100
	h6 := math.Mod(h, 360) / 60
	if h6 < 0 {
		h6 += 6
	}
	sector := math.Floor(h6)
	f := h6 - sector
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return led.Pixel{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(x float64) uint8 { return uint8(mathx.Clamp(x, 0, 1) * 255) }
