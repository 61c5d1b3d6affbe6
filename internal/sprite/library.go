package sprite

import (
	"io"

	"github.com/beevik/etree"
)

// LibraryConfig configures a hidden <symbol> library document.
type LibraryConfig struct {
	// Prefix is prepended to every symbol id.
	Prefix      string
	Class       string
	Title       string
	Description string
	Theme       Theme
}

// DefaultLibraryConfig returns the stock symbol library settings.
func DefaultLibraryConfig() LibraryConfig {
	return LibraryConfig{
		Prefix:      "druplicon-",
		Class:       "symbol-sprite",
		Title:       "Druplicons",
		Description: "Theme-aware druplicon symbols",
		Theme:       DefaultTheme(),
	}
}

// Validate checks the configuration.
func (c LibraryConfig) Validate() error {
	return c.Theme.Validate()
}

// Library is a symbol library under construction. Each item becomes a
// <symbol> referenced elsewhere with <use href="#id">.
type Library struct {
	cfg   LibraryConfig
	doc   *etree.Document
	root  *etree.Element
	ids   *IDSet
	defs  *hoister
	count int
}

// NewLibrary starts an empty library.
func NewLibrary(cfg LibraryConfig) *Library {
	doc, root := newRoot()
	root.CreateAttr("style", "display:none")
	if cfg.Class != "" {
		root.CreateAttr("class", cfg.Class)
		root.CreateElement("style").SetText(cfg.Theme.Stylesheet(cfg.Class))
	}
	addMetadata(root, cfg.Title, cfg.Description)

	return &Library{
		cfg:  cfg,
		doc:  doc,
		root: root,
		ids:  NewIDSet(),
		defs: &hoister{root: root, after: len(root.Child)},
	}
}

// Add appends a symbol and returns its id.
func (l *Library) Add(item Item) (string, error) {
	if item.Doc == nil {
		return "", ErrNoDocument
	}

	id := l.ids.Claim(l.cfg.Prefix + item.ID)
	sym := l.root.CreateElement("symbol")
	sym.CreateAttr("id", id)
	sym.CreateAttr("viewBox", item.Doc.ViewBox().String())
	addMetadata(sym, item.Name, item.Description)
	embed(sym, item.Doc, l.defs)

	l.count++
	return id, nil
}

// Len returns the number of symbols.
func (l *Library) Len() int {
	return l.count
}

// Document returns the output tree.
func (l *Library) Document() *etree.Document {
	l.doc.Indent(2)
	return l.doc
}

// WriteTo writes the library.
func (l *Library) WriteTo(w io.Writer) (int64, error) {
	return l.Document().WriteTo(w)
}
