package colour

import (
	"fmt"
	"math"
	"slices"
)

// Mode selects how colours are turned into opacities.
type Mode string

const (
	// ModeClustered maps colours onto up to three representative shade tiers.
	ModeClustered Mode = "clustered"
	// ModeLuminance gives every colour its own opacity derived directly from luminance.
	ModeLuminance Mode = "luminance"
)

// Default shade tiers, darkest first.
var (
	ThreeTierOpacities = []float64{1.0, 0.7, 0.35}
	TwoTierOpacities   = []float64{1.0, 0.7}
)

// DefaultShades is used when no shade count is requested.
const DefaultShades = 3

// ReduceOptions configures Reduce.
type ReduceOptions struct {
	// Shades is the requested tier count (1, 2 or 3). Zero means DefaultShades.
	Shades int
	// Mode defaults to ModeClustered.
	Mode Mode
}

// Validate checks the options.
func (o ReduceOptions) Validate() error {
	if o.Shades < 0 || o.Shades > 3 {
		return fmt.Errorf("shades must be between 1 and 3, got %d", o.Shades)
	}
	switch o.Mode {
	case "", ModeClustered, ModeLuminance:
	default:
		return fmt.Errorf("invalid mode: %s (valid: clustered, luminance)", o.Mode)
	}
	return nil
}

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if err := (ReduceOptions{Mode: m}).Validate(); err != nil {
		return "", err
	}
	if m == "" {
		return ModeClustered, nil
	}
	return m, nil
}

// Assignment maps colour keys to opacities for one document.
type Assignment struct {
	// Opacities holds one entry per distinct paintable colour key.
	Opacities map[string]float64
	// SingleTone means every paint is drawn at full strength and no
	// opacity attribute should be written.
	SingleTone bool
	// NeedsDuplication means two shades were requested but the colours
	// collapsed to a single tier; the recolourer alternates opacities instead.
	NeedsDuplication bool
	// Representatives lists the anchor colours, darkest first (clustered mode).
	Representatives []KeyedColour
}

// Lookup returns the opacity for a colour value.
func (a Assignment) Lookup(value string) (float64, bool) {
	op, ok := a.Opacities[Key(value)]
	return op, ok
}

// Tiers returns the number of distinct opacity values in the assignment.
func (a Assignment) Tiers() int {
	seen := make(map[float64]struct{}, len(a.Opacities))
	for _, op := range a.Opacities {
		seen[op] = struct{}{}
	}
	return len(seen)
}

type rankedColour struct {
	KeyedColour
	lum float64
}

// Reduce builds the shade assignment for the distinct colours of a document.
func Reduce(colours []KeyedColour, opts ReduceOptions) Assignment {
	shades := opts.Shades
	if shades < 1 || shades > 3 {
		shades = DefaultShades
	}

	if opts.Mode == ModeLuminance {
		return reduceByLuminance(colours)
	}

	a := Assignment{Opacities: make(map[string]float64, len(colours))}

	if shades == 1 || (len(colours) <= 1 && shades != 2) {
		a.SingleTone = true
		for _, c := range colours {
			a.Opacities[c.Key] = 1.0
		}
		return a
	}

	ranked := make([]rankedColour, len(colours))
	for i, c := range colours {
		ranked[i] = rankedColour{KeyedColour: c, lum: RelativeLuminance(c.RGB)}
	}
	slices.SortStableFunc(ranked, func(x, y rankedColour) int {
		switch {
		case x.lum < y.lum:
			return -1
		case x.lum > y.lum:
			return 1
		}
		return 0
	})

	var reps []rankedColour
	var tiers []float64
	switch {
	case len(ranked) == 0:
	case shades == 2:
		reps = []rankedColour{ranked[0], ranked[len(ranked)-1]}
		tiers = TwoTierOpacities
	case len(ranked) <= 3:
		reps = ranked
		tiers = ThreeTierOpacities
	default:
		reps = []rankedColour{ranked[0], ranked[len(ranked)/2], ranked[len(ranked)-1]}
		tiers = ThreeTierOpacities
	}

	for _, r := range reps {
		a.Representatives = append(a.Representatives, r.KeyedColour)
	}

	for _, c := range ranked {
		a.Opacities[c.Key] = tiers[nearest(reps, c.lum)]
	}

	if shades == 2 && a.Tiers() < 2 {
		a.NeedsDuplication = true
	}
	return a
}

// tieEpsilon absorbs float noise so equal distances count as ties.
const tieEpsilon = 1e-9

// nearest returns the index of the representative closest in luminance.
// Ties go to the earlier (darker) representative.
func nearest(reps []rankedColour, lum float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, r := range reps {
		if d := math.Abs(r.lum - lum); d < bestDist-tieEpsilon {
			best, bestDist = i, d
		}
	}
	return best
}

// reduceByLuminance assigns each colour an opacity equal to its ink
// coverage (1 - luminance) rounded to three places.
func reduceByLuminance(colours []KeyedColour) Assignment {
	a := Assignment{Opacities: make(map[string]float64, len(colours))}
	for _, c := range colours {
		a.Opacities[c.Key] = roundTo(1-RelativeLuminance(c.RGB), 3)
	}
	return a
}
