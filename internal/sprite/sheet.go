package sprite

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/jmylchreest/spritetint/internal/svg"
)

// SheetConfig configures a grid sprite sheet.
type SheetConfig struct {
	Grid
	// Width is the fixed sheet width.
	Width float64
	// MaxItem is the side of the square each item is scaled to fit.
	MaxItem float64
	// Class is the root class the stylesheet targets.
	Class       string
	Title       string
	Description string
	Theme       Theme
}

// DefaultSheetConfig returns the stock logo sheet layout.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Grid: Grid{
			Cell:   150,
			Margin: 50,
			WrapAt: 1100,
		},
		Width:       1200,
		MaxItem:     100,
		Class:       "logo-sprite",
		Title:       "Open Source Platform Logos",
		Description: "Monochrome logos for open source content management systems, frameworks, and platforms",
		Theme:       DefaultTheme(),
	}
}

// Validate checks the configuration.
func (c SheetConfig) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Width <= 0 {
		return fmt.Errorf("sheet width must be positive, got %v", c.Width)
	}
	if c.MaxItem <= 0 {
		return fmt.Errorf("max item size must be positive, got %v", c.MaxItem)
	}
	if c.Class == "" {
		return fmt.Errorf("sheet class cannot be empty")
	}
	return c.Theme.Validate()
}

// Placement records where an item landed on the sheet.
type Placement struct {
	ID            string
	X, Y          float64
	Width, Height float64
	Scale         float64
}

// Sheet is a grid sprite sheet under construction.
type Sheet struct {
	cfg    SheetConfig
	doc    *etree.Document
	root   *etree.Element
	cursor Cursor
	ids    *IDSet
	defs   *hoister
	count  int
}

// NewSheet starts an empty sheet.
func NewSheet(cfg SheetConfig) *Sheet {
	doc, root := newRoot()
	root.CreateAttr("class", cfg.Class)

	root.CreateElement("style").SetText(cfg.Theme.Stylesheet(cfg.Class))
	addMetadata(root, cfg.Title, cfg.Description)

	return &Sheet{
		cfg:    cfg,
		doc:    doc,
		root:   root,
		cursor: cfg.Grid.Start(),
		ids:    NewIDSet(),
		defs:   &hoister{root: root, after: len(root.Child)},
	}
}

// Add places a normalised document in the next grid cell.
func (s *Sheet) Add(item Item) (Placement, error) {
	if item.Doc == nil {
		return Placement{}, ErrNoDocument
	}

	vb := item.Doc.ViewBox()
	scale, w, h := vb.Fit(s.cfg.MaxItem)
	x, y, next := s.cursor.Place(s.cfg.Grid)
	s.cursor = next

	id := s.ids.Claim(item.ID)
	g := s.root.CreateElement("g")
	g.CreateAttr("id", id)
	g.CreateAttr("transform", fmt.Sprintf("translate(%s, %s)", svg.FormatNumber(x), svg.FormatNumber(y)))
	addMetadata(g, item.Name, item.Description)

	nested := g.CreateElement("svg")
	embed(nested, item.Doc, s.defs)
	nested.CreateAttr("width", svg.FormatNumber(w))
	nested.CreateAttr("height", svg.FormatNumber(h))
	nested.CreateAttr("viewBox", vb.String())
	nested.CreateAttr("preserveAspectRatio", "xMidYMid meet")

	s.count++
	return Placement{ID: id, X: x, Y: y, Width: w, Height: h, Scale: scale}, nil
}

// Len returns the number of items placed.
func (s *Sheet) Len() int {
	return s.count
}

// Height returns the sheet height for the items placed so far.
func (s *Sheet) Height() float64 {
	return s.cursor.Height(s.cfg.Grid)
}

// Rows returns the number of rows holding items.
func (s *Sheet) Rows() int {
	return s.cursor.Rows
}

// Document finalises the root dimensions and returns the output tree.
func (s *Sheet) Document() *etree.Document {
	width := svg.FormatNumber(s.cfg.Width)
	height := svg.FormatNumber(s.Height())
	s.root.CreateAttr("viewBox", "0 0 "+width+" "+height)
	s.root.CreateAttr("width", width)
	s.root.CreateAttr("height", height)
	s.doc.Indent(2)
	return s.doc
}

// WriteTo writes the finalised sheet.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	return s.Document().WriteTo(w)
}
