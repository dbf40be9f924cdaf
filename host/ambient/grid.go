// Package ambient reduces a screen image to one colour per LED by averaging
// square cells and walking the cell grid's perimeter.
package ambient

import (
	"image"

	"arcade-go/errcode"
	"arcade-go/led"
)

// DefaultCell is the cell edge in source pixels.
const DefaultCell = 120

// Grid holds per-cell average colours, rows stored contiguously.
type Grid struct {
	Cols, Rows int
	cells      []led.Pixel
}

// FromImage averages img over cell×cell squares. Pixels beyond the last
// whole cell on either axis are ignored.
func FromImage(img image.Image, cell int) (*Grid, error) {
	if cell <= 0 {
		return nil, errcode.New(errcode.InvalidParams, "ambient.grid", "cell must be positive")
	}
	r := img.Bounds()
	cols, rows := r.Dx()/cell, r.Dy()/cell
	if cols == 0 || rows == 0 {
		return nil, errcode.New(errcode.InvalidParams, "ambient.grid", "image smaller than one cell")
	}

	type acc struct{ r, g, b uint64 }
	sums := make([]acc, cols*rows)
	for y := 0; y < rows*cell; y++ {
		for x := 0; x < cols*cell; x++ {
			p := led.FromColor(img.At(r.Min.X+x, r.Min.Y+y))
			a := &sums[x/cell+(y/cell)*cols]
			a.r += uint64(p.R)
			a.g += uint64(p.G)
			a.b += uint64(p.B)
		}
	}

	n := uint64(cell * cell)
	g := &Grid{Cols: cols, Rows: rows, cells: make([]led.Pixel, len(sums))}
	for i, a := range sums {
		g.cells[i] = led.Pixel{R: uint8(a.r / n), G: uint8(a.g / n), B: uint8(a.b / n)}
	}
	return g, nil
}

// At returns the cell at column x, row y.
func (g *Grid) At(x, y int) led.Pixel { return g.cells[x+y*g.Cols] }

// Perimeter samples count cells at an even stride clockwise from the top
// left corner: top edge, right edge, bottom edge right to left, then left
// edge bottom to top.
func (g *Grid) Perimeter(count int) []led.Pixel {
	if count <= 0 {
		return nil
	}
	w, h := g.Cols, g.Rows
	perim := 2 * (w + h)
	stride := max(perim/count, 1)

	out := make([]led.Pixel, count)
	for i := range out {
		pos := (i * stride) % perim
		var x, y int
		switch {
		case pos < w:
			x, y = pos, 0
		case pos < w+h:
			x, y = w-1, pos-w
		case pos < 2*w+h:
			x, y = 2*w+h-pos-1, h-1
		default:
			x, y = 0, perim-pos-1
		}
		out[i] = g.At(x, y)
	}
	return out
}
