package colour

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// PaintKind classifies a fill or stroke value.
type PaintKind int

const (
	// Paintable values resolve to an RGB sample.
	Paintable PaintKind = iota
	// NotPaintable values (none, transparent, currentColor) are never rewritten.
	NotPaintable
	// Unparseable values are colours we cannot confidently resolve (url(), hsl(), unknown names).
	Unparseable
)

// String returns the kind name.
func (k PaintKind) String() string {
	switch k {
	case Paintable:
		return "paintable"
	case NotPaintable:
		return "not-paintable"
	default:
		return "unparseable"
	}
}

var rgbFunctionPattern = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// namedColours is the small fixed table of names resolved to RGB before analysis.
var namedColours = map[string]RGB{
	"black": {R: 0, G: 0, B: 0},
	"white": {R: 255, G: 255, B: 255},
	"gray":  {R: 128, G: 128, B: 128},
	"grey":  {R: 128, G: 128, B: 128},
	"red":   {R: 255, G: 0, B: 0},
	"green": {R: 0, G: 128, B: 0},
	"blue":  {R: 0, G: 0, B: 255},
}

// Key returns the case-normalised form of a colour value used for map lookups.
func Key(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ParsePaint parses a fill or stroke value.
// Supported forms are #rgb, #rrggbb, rgb(r, g, b) and a few colour names.
func ParsePaint(value string) (RGB, PaintKind) {
	s := Key(value)

	switch s {
	case "none", "transparent", "currentcolor":
		return RGB{}, NotPaintable
	case "":
		return RGB{}, Unparseable
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	if m := rgbFunctionPattern.FindStringSubmatch(s); m != nil {
		return RGB{
			R: channel(m[1]),
			G: channel(m[2]),
			B: channel(m[3]),
		}, Paintable
	}

	if rgb, ok := namedColours[s]; ok {
		return rgb, Paintable
	}

	return RGB{}, Unparseable
}

// ParseHex parses a #rgb or #rrggbb colour.
func ParseHex(value string) (RGB, bool) {
	rgb, kind := parseHex(Key(value))
	return rgb, kind == Paintable
}

func parseHex(s string) (RGB, PaintKind) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 || !isHex(digits) {
		return RGB{}, Unparseable
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return RGB{}, Unparseable
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, Paintable
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// channel converts a decimal rgb() component, clamping to 255.
func channel(s string) uint8 {
	v, err := strconv.Atoi(s)
	if err != nil || v > 255 {
		return 255
	}
	return uint8(v)
}
