package sprite

import (
	"fmt"
	"image/color"
	"strings"
	"text/template"

	"github.com/jmylchreest/spritetint/internal/colour"
	"github.com/jmylchreest/spritetint/internal/svg"
)

// Default ink colours for light and dark backgrounds.
const (
	DefaultLightInk = "#2d2d2d"
	DefaultDarkInk  = "#cccccc"
)

// MinInkContrast is the WCAG contrast ratio for graphical objects.
const MinInkContrast = 3.0

// Theme holds the two ink colours the theme colour resolves to.
type Theme struct {
	// LightInk is drawn on light backgrounds.
	LightInk string
	// DarkInk is drawn on dark backgrounds.
	DarkInk string
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{LightInk: DefaultLightInk, DarkInk: DefaultDarkInk}
}

// Validate checks that both inks are hex colours.
func (t Theme) Validate() error {
	if _, ok := colour.ParseHex(t.LightInk); !ok {
		return fmt.Errorf("invalid light ink colour: %q", t.LightInk)
	}
	if _, ok := colour.ParseHex(t.DarkInk); !ok {
		return fmt.Errorf("invalid dark ink colour: %q", t.DarkInk)
	}
	return nil
}

// Contrast returns the contrast of the light ink against white and the dark
// ink against black.
func (t Theme) Contrast() (light, dark float64) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	if rgb, ok := colour.ParseHex(t.LightInk); ok {
		light = colour.ContrastRatio(colour.RGBToColor(rgb), white)
	}
	if rgb, ok := colour.ParseHex(t.DarkInk); ok {
		dark = colour.ContrastRatio(colour.RGBToColor(rgb), black)
	}
	return light, dark
}

var stylesheetTemplate = template.Must(template.New("stylesheet").Parse(`
    /* Default: dark ink for light backgrounds */
    .{{.Class}} { --sprite-ink-light: {{.Light}}; --sprite-ink-dark: {{.Dark}}; color: var(--sprite-ink-light); }
    .{{.Class}} .{{.RasterRoot}} .{{.RasterImage}} { filter: url(#{{.FilterLight}}); }

    /* Dark mode: light ink for dark backgrounds */
    @media (prefers-color-scheme: dark) {
        .{{.Class}} { color: var(--sprite-ink-dark); }
        .{{.Class}} .{{.RasterRoot}} .{{.RasterImage}} { filter: url(#{{.FilterDark}}); }
    }

    /* Explicit theme classes */
    .{{.Class}}.theme-light { color: var(--sprite-ink-light); }
    .{{.Class}}.theme-light .{{.RasterRoot}} .{{.RasterImage}} { filter: url(#{{.FilterLight}}); }
    .{{.Class}}.theme-dark { color: var(--sprite-ink-dark); }
    .{{.Class}}.theme-dark .{{.RasterRoot}} .{{.RasterImage}} { filter: url(#{{.FilterDark}}); }
`))

// Stylesheet renders the embedded CSS for a sprite document with the given root class.
func (t Theme) Stylesheet(class string) string {
	var b strings.Builder
	// strings.Builder never returns write errors.
	_ = stylesheetTemplate.Execute(&b, map[string]string{
		"Class":       class,
		"Light":       t.LightInk,
		"Dark":        t.DarkInk,
		"RasterRoot":  svg.RasterRootClass,
		"RasterImage": svg.RasterImageClass,
		"FilterLight": svg.FilterLight,
		"FilterDark":  svg.FilterDark,
	})
	return b.String()
}
