package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"arcade-go/effects"
	"arcade-go/host/ambient"
	"arcade-go/led"
)

// source produces the pixels for frame i.
type source interface {
	next(i int) ([]led.Pixel, error)
}

func newSource(name string) (source, error) {
	switch name {
	case "off":
		return fixed(make([]led.Pixel, count)), nil
	case "solid":
		idx, ok := led.DefaultPalette.Lookup(colourName)
		if !ok {
			return nil, fmt.Errorf("unknown colour %q", colourName)
		}
		px := make([]led.Pixel, count)
		for i := range px {
			px[i] = led.DefaultPalette[idx].Pixel
		}
		return fixed(px), nil
	case "rainbow":
		return &rainbow{px: make([]led.Pixel, count)}, nil
	case "image":
		return loadImage(imagePath)
	}
	return nil, fmt.Errorf("unknown pattern %q", name)
}

type fixed []led.Pixel

func (f fixed) next(int) ([]led.Pixel, error) { return f, nil }

type rainbow struct{ px []led.Pixel }

func (r *rainbow) next(i int) ([]led.Pixel, error) {
	for j := range r.px {
		r.px[j] = effects.HSV(float64((i*3+j*360/len(r.px))%360), 100, 100)
	}
	return r.px, nil
}

func loadImage(path string) (source, error) {
	if path == "" {
		return nil, fmt.Errorf("--image is required for the image pattern")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	g, err := ambient.FromImage(img, cellSize)
	if err != nil {
		return nil, err
	}
	return fixed(g.Perimeter(count)), nil
}
