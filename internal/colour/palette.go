// Package colour provides paint parsing, luminance and shade reduction for
// recolouring vector artwork onto a single theme colour.
package colour

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}.Hex()
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBToColor converts an RGB value to a color.Color (RGBA).
func RGBToColor(rgb RGB) color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// KeyedColour is one distinct colour found in a document.
type KeyedColour struct {
	// Key is the case-normalised original text, e.g. "#ff0000".
	Key string
	RGB RGB
}

// Palette collects the distinct paintable colours of one document in
// first-encounter order.
type Palette struct {
	colours []KeyedColour
	index   map[string]int
}

// NewPalette creates an empty Palette.
func NewPalette() *Palette {
	return &Palette{index: make(map[string]int)}
}

// Add records a paint value and reports how it was classified.
// Only paintable values are stored; repeated keys keep their first position.
func (p *Palette) Add(value string) PaintKind {
	rgb, kind := ParsePaint(value)
	if kind != Paintable {
		return kind
	}
	key := Key(value)
	if _, ok := p.index[key]; ok {
		return kind
	}
	p.index[key] = len(p.colours)
	p.colours = append(p.colours, KeyedColour{Key: key, RGB: rgb})
	return kind
}

// Len returns the number of distinct colours.
func (p *Palette) Len() int {
	return len(p.colours)
}

// Colours returns a copy of the distinct colours in encounter order.
func (p *Palette) Colours() []KeyedColour {
	out := make([]KeyedColour, len(p.colours))
	copy(out, p.colours)
	return out
}

// All returns an iterator over the distinct colours.
func (p *Palette) All() func(func(int, KeyedColour) bool) {
	return func(yield func(int, KeyedColour) bool) {
		for i, c := range p.colours {
			if !yield(i, c) {
				return
			}
		}
	}
}
