// Package effects computes strip contents for each render mode. Rendering is
// a pure function of the State, the palette and the passthrough pixels.
package effects

import (
	"arcade-go/errcode"
	"arcade-go/led"
)

const (
	rainbowSpread   = 5 // degrees of hue between neighbouring pixels
	oscillateFrames = 5
	strobeFrames    = 3
)

// Render writes one frame of st.Mode into dst. src is only read in Sync mode;
// pixels past the end of src keep whatever dst already held.
func Render(dst *led.Strip, st State, pal led.Palette, src []led.Pixel) error {
	switch st.Mode {
	case Sync:
		return renderSync(dst, src)
	case Rainbow:
		return renderRainbow(dst, st.Offset)
	case Solid, Oscillating, Strobe:
		c, err := pal.At(st.PaletteIndex)
		if err != nil {
			return err
		}
		switch st.Mode {
		case Solid:
			dst.Fill(c)
			return nil
		case Oscillating:
			return renderOscillating(dst, c, st.Offset)
		default:
			renderStrobe(dst, c, st.Offset)
			return nil
		}
	}
	return errcode.New(errcode.InvalidParams, "effects.render", "unknown mode")
}

func renderSync(dst *led.Strip, src []led.Pixel) error {
	n := min(dst.Len(), len(src))
	for i := 0; i < n; i++ {
		if err := dst.SetPixel(i, src[i]); err != nil {
			return err
		}
	}
	return nil
}

func renderRainbow(dst *led.Strip, offset uint16) error {
	for i := 0; i < dst.Len(); i++ {
		hue := (rainbowSpread*i + int(offset)) % 360
		if err := dst.SetPixel(i, HSV(float64(hue), 100, 100)); err != nil {
			return err
		}
	}
	return nil
}

// Even pixels show the palette colour on phase 0, odd pixels show white on
// phase 1; the other half is dark.
func renderOscillating(dst *led.Strip, c led.Pixel, offset uint16) error {
	phase := (offset / oscillateFrames) % 2
	for i := 0; i < dst.Len(); i++ {
		p := led.Black
		switch {
		case i%2 == 0 && phase == 0:
			p = c
		case i%2 == 1 && phase == 1:
			p = led.White
		}
		if err := dst.SetPixel(i, p); err != nil {
			return err
		}
	}
	return nil
}

func renderStrobe(dst *led.Strip, c led.Pixel, offset uint16) {
	if (offset/strobeFrames)%2 == 0 {
		dst.Fill(led.Black)
		return
	}
	dst.Fill(c)
}
