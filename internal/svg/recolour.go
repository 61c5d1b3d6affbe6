package svg

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/jmylchreest/spritetint/internal/colour"
)

// ThemeColour is the paint value every recoloured fill and stroke receives.
const ThemeColour = "currentColor"

// paintProperties are the properties rewritten onto the theme colour.
var paintProperties = []string{"fill", "stroke"}

// alternateOpacities is cycled across elements when a two-tone result is forced.
var alternateOpacities = []float64{1.0, 0.7}

// Options configures Normalise.
type Options struct {
	Reduce  colour.ReduceOptions
	Unknown colour.UnknownPolicy
}

// Stats describes what recolouring did to a document.
type Stats struct {
	// Colours is the number of distinct paintable colours found.
	Colours int
	// Tiers is the number of distinct opacity values written.
	Tiers int
	// Painted is the number of elements moved onto the theme colour.
	Painted int
	// Cloned is set when the single paintable element was duplicated.
	Cloned bool
	// SingleTone, Duplicated and Mode echo the assignment that was applied.
	SingleTone bool
	Duplicated bool
	Mode       colour.Mode
}

// Collect gathers the distinct paintable colours of a document in document order.
func Collect(doc *Document) *colour.Palette {
	p := colour.NewPalette()
	for _, el := range doc.Elements() {
		for _, prop := range paintProperties {
			if v := el.SelectAttrValue(prop, ""); v != "" {
				p.Add(v)
			}
		}
		if s := el.SelectAttrValue("style", ""); s != "" {
			st := ParseStyle(s)
			for _, prop := range paintProperties {
				if v, ok := st.Get(prop); ok {
					p.Add(v)
				}
			}
		}
	}
	return p
}

// Normalise analyses the document colours, reduces them to shade tiers and
// recolours the document in place.
func Normalise(doc *Document, opts Options) (colour.Assignment, Stats) {
	palette := Collect(doc)
	a := colour.Reduce(palette.Colours(), opts.Reduce)

	_, stats := Recolour(doc, a, opts.Unknown)
	stats.Colours = palette.Len()
	stats.Mode = opts.Reduce.Mode
	if stats.Mode == "" {
		stats.Mode = colour.ModeClustered
	}
	return a, stats
}

// Recolour rewrites every fill and stroke onto the theme colour with the
// opacity given by the assignment. The document is modified in place and returned.
func Recolour(doc *Document, a colour.Assignment, unknown colour.UnknownPolicy) (*Document, Stats) {
	stats := Stats{SingleTone: a.SingleTone, Duplicated: a.NeedsDuplication}

	if a.NeedsDuplication {
		stats.Cloned = cloneSolePaintable(doc, unknown)
	}

	r := recolourer{assignment: a, unknown: unknown, tiers: make(map[float64]struct{})}
	for _, el := range doc.Elements() {
		if r.element(el) {
			stats.Painted++
		}
	}
	stats.Tiers = len(r.tiers)
	return doc, stats
}

// cloneSolePaintable duplicates the only paintable element, inserting the
// copy right after the original, so alternating opacities have two targets.
func cloneSolePaintable(doc *Document, unknown colour.UnknownPolicy) bool {
	var sole *etree.Element
	count := 0
	for _, el := range doc.Elements() {
		if isPaintable(el, unknown) {
			sole = el
			count++
		}
	}
	if count != 1 {
		return false
	}

	parent := sole.Parent()
	if parent == nil {
		return false
	}
	clone := sole.Copy()
	dropIDs(clone)
	parent.InsertChildAt(sole.Index()+1, clone)
	return true
}

// dropIDs removes id attributes from el and its descendants so a copy does
// not repeat identifiers already in the document.
func dropIDs(el *etree.Element) {
	el.RemoveAttr("id")
	for _, child := range el.ChildElements() {
		dropIDs(child)
	}
}

// isPaintable reports whether an element carries a paint that will be rewritten.
func isPaintable(el *etree.Element, unknown colour.UnknownPolicy) bool {
	_, rewriteUnknown := unknown.Opacity()
	rewritable := func(v string) bool {
		_, kind := colour.ParsePaint(v)
		return kind == colour.Paintable || (kind == colour.Unparseable && rewriteUnknown)
	}

	for _, prop := range paintProperties {
		if attr := el.SelectAttr(prop); attr != nil && rewritable(attr.Value) {
			return true
		}
	}
	if s := el.SelectAttrValue("style", ""); s != "" {
		st := ParseStyle(s)
		for _, prop := range paintProperties {
			if v, ok := st.Get(prop); ok && rewritable(v) {
				return true
			}
		}
	}
	return false
}

type recolourer struct {
	assignment colour.Assignment
	unknown    colour.UnknownPolicy
	alternate  int
	tiers      map[float64]struct{}
}

// element rewrites the paints of one element and reports whether any changed.
func (r *recolourer) element(el *etree.Element) bool {
	alt := alternateOpacities[r.alternate%len(alternateOpacities)]
	changed := false

	for _, prop := range paintProperties {
		attr := el.SelectAttr(prop)
		if attr == nil {
			continue
		}
		op, ok := r.opacity(attr.Value, alt)
		if !ok {
			continue
		}
		el.CreateAttr(prop, ThemeColour)
		if r.omitOpacity(op) {
			el.RemoveAttr(prop + "-opacity")
		} else {
			el.CreateAttr(prop+"-opacity", formatOpacity(op))
		}
		changed = true
	}

	if s := el.SelectAttrValue("style", ""); s != "" {
		st := ParseStyle(s)
		styled := false
		for _, prop := range paintProperties {
			v, found := st.Get(prop)
			if !found {
				continue
			}
			op, ok := r.opacity(v, alt)
			if !ok {
				continue
			}
			st.Set(prop, ThemeColour)
			if r.omitOpacity(op) {
				st.Remove(prop + "-opacity")
			} else {
				st.Set(prop+"-opacity", formatOpacity(op))
			}
			styled = true
		}
		if styled {
			el.CreateAttr("style", st.String())
			changed = true
		}
	}

	if changed && r.assignment.NeedsDuplication {
		r.alternate++
	}
	return changed
}

// opacity decides whether a paint value is rewritten and at what opacity.
func (r *recolourer) opacity(value string, alt float64) (float64, bool) {
	_, kind := colour.ParsePaint(value)

	var op float64
	switch kind {
	case colour.NotPaintable:
		return 0, false
	case colour.Unparseable:
		var rewrite bool
		if op, rewrite = r.unknown.Opacity(); !rewrite {
			return 0, false
		}
	default:
		var found bool
		if op, found = r.assignment.Lookup(value); !found {
			op = 1.0
		}
	}

	if r.assignment.NeedsDuplication {
		op = alt
	}
	r.tiers[op] = struct{}{}
	return op, true
}

// omitOpacity reports whether a full-strength single-tone paint needs no opacity.
func (r *recolourer) omitOpacity(op float64) bool {
	return r.assignment.SingleTone && op == 1.0
}

func formatOpacity(op float64) string {
	return strconv.FormatFloat(op, 'f', -1, 64)
}
