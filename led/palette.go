package led

import "arcade-go/errcode"

// Swatch is a named palette colour.
type Swatch struct {
	Name string
	Pixel
}

// Palette is an ordered, read-only set of swatches picked by index.
type Palette []Swatch

// DefaultPaletteIndex selects green.
const DefaultPaletteIndex = 8

// DefaultPalette is the colour set cycled by the middle button.
var DefaultPalette = Palette{
	{"white", Pixel{0xff, 0xff, 0xff}},
	{"yellow", Pixel{0xfc, 0xf4, 0x00}},
	{"orange", Pixel{0xff, 0x64, 0x00}},
	{"red", Pixel{0xdd, 0x02, 0x02}},
	{"magenta", Pixel{0xf0, 0x02, 0x85}},
	{"purple", Pixel{0x46, 0x00, 0xa5}},
	{"blue", Pixel{0x00, 0x00, 0xd5}},
	{"cyan", Pixel{0x00, 0xae, 0xe9}},
	{"green", Pixel{0x1a, 0xb9, 0x0c}},
	{"dark_green", Pixel{0x00, 0x64, 0x08}},
}

func (p Palette) Len() int { return len(p) }

func (p Palette) At(i int) (Pixel, error) {
	if i < 0 || i >= len(p) {
		return Pixel{}, errcode.New(errcode.IndexOutOfRange, "palette.at", "palette index out of range")
	}
	return p[i].Pixel, nil
}

// Lookup finds a swatch by name.
func (p Palette) Lookup(name string) (int, bool) {
	for i, s := range p {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}
