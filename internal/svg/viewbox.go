package svg

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultExtent is used when a document declares neither a view box nor a size.
const DefaultExtent = 100.0

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ViewBox is the user-space rectangle of a document.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// String formats the view box as an attribute value.
func (v ViewBox) String() string {
	return strings.Join([]string{
		FormatNumber(v.MinX),
		FormatNumber(v.MinY),
		FormatNumber(v.Width),
		FormatNumber(v.Height),
	}, " ")
}

// Fit returns the uniform scale and scaled size that fit the view box inside
// a square of side maxSize while keeping its aspect ratio.
func (v ViewBox) Fit(maxSize float64) (scale, width, height float64) {
	scale = math.Min(maxSize/v.Width, maxSize/v.Height)
	return scale, v.Width * scale, v.Height * scale
}

// ViewBox returns the declared view box, or one synthesised from the width
// and height attributes when none is declared.
func (d *Document) ViewBox() ViewBox {
	root := d.Root()
	if vb, ok := ParseViewBox(root.SelectAttrValue("viewBox", "")); ok {
		return vb
	}
	return ViewBox{
		Width:  parseLength(root.SelectAttrValue("width", "")),
		Height: parseLength(root.SelectAttrValue("height", "")),
	}
}

// ParseViewBox parses "min-x min-y width height" separated by spaces or commas.
func ParseViewBox(s string) (ViewBox, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, false
	}

	var nums [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, false
		}
		nums[i] = n
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return ViewBox{}, false
	}
	return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, true
}

// parseLength reads a width or height attribute, discarding units.
func parseLength(s string) float64 {
	s = nonNumeric.ReplaceAllString(s, "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return DefaultExtent
	}
	return n
}

// FormatNumber renders a float without trailing zeros, rounded to 3 places.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
