package led

import (
	"arcade-go/errcode"
	"arcade-go/x/conv"
)

// MaxLen is the longest strip a single frame can address.
const MaxLen = 255

// Channel offsets inside one pixel in wire order. The WS281x datasheet
// mandates GRB.
const (
	offG = 0
	offR = 1
	offB = 2

	bytesPerPixel = 3
)

// Strip owns one strip's pixels in wire order. Its length is fixed at
// construction.
type Strip struct {
	buf []byte
	n   int
}

func NewStrip(n int) (*Strip, error) {
	if n < 0 || n > MaxLen {
		return nil, errcode.New(errcode.InvalidParams, "strip.new", "length out of range")
	}
	return &Strip{buf: make([]byte, n*bytesPerPixel), n: n}, nil
}

func (s *Strip) Len() int { return s.n }

// Set stores r,g,b at index i. Out-of-range indices are rejected with
// errcode.IndexOutOfRange and leave the buffer untouched.
func (s *Strip) Set(i int, r, g, b uint8) error {
	if i < 0 || i >= s.n {
		return s.rangeErr("strip.set", i)
	}
	o := i * bytesPerPixel
	s.buf[o+offG] = g
	s.buf[o+offR] = r
	s.buf[o+offB] = b
	return nil
}

func (s *Strip) SetPixel(i int, p Pixel) error { return s.Set(i, p.R, p.G, p.B) }

// At returns the pixel at i in logical RGB order.
func (s *Strip) At(i int) (Pixel, error) {
	if i < 0 || i >= s.n {
		return Pixel{}, s.rangeErr("strip.at", i)
	}
	o := i * bytesPerPixel
	return Pixel{R: s.buf[o+offR], G: s.buf[o+offG], B: s.buf[o+offB]}, nil
}

func (s *Strip) Fill(p Pixel) {
	for o := 0; o < len(s.buf); o += bytesPerPixel {
		s.buf[o+offG] = p.G
		s.buf[o+offR] = p.R
		s.buf[o+offB] = p.B
	}
}

func (s *Strip) Clear() { clear(s.buf) }

// Bytes exposes the wire-ordered buffer. Callers must not modify it and must
// not hold it across a mutation of the strip.
func (s *Strip) Bytes() []byte { return s.buf }

func (s *Strip) rangeErr(op string, i int) error {
	return errcode.New(errcode.IndexOutOfRange, op, conv.Itoa(i)+" not in [0,"+conv.Itoa(s.n)+")")
}
