// Package sprite composes normalised documents into sprite sheets and
// symbol libraries.
package sprite

import (
	"errors"

	"github.com/beevik/etree"

	"github.com/jmylchreest/spritetint/internal/svg"
)

// Namespaces declared on every output document.
const (
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
)

// ErrNoDocument is returned when an item carries no document.
var ErrNoDocument = errors.New("item has no document")

// Item is one normalised document with its display metadata.
type Item struct {
	// ID is the preferred identifier; a suffix is added on collision.
	ID          string
	Name        string
	Description string
	Doc         *svg.Document
}

// droppedRootAttrs are source root attributes replaced by the composer.
var droppedRootAttrs = map[string]bool{
	"width":               true,
	"height":              true,
	"viewBox":             true,
	"x":                   true,
	"y":                   true,
	"id":                  true,
	"version":             true,
	"baseProfile":         true,
	"preserveAspectRatio": true,
}

// droppedRootChildren are replaced by the item's own metadata.
var droppedRootChildren = map[string]bool{
	"title":    true,
	"desc":     true,
	"metadata": true,
}

// newRoot creates an output document with an <svg> root.
func newRoot() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", NamespaceSVG)
	root.CreateAttr("xmlns:xlink", NamespaceXLink)
	return doc, root
}

// addMetadata appends <title> and <desc> children.
func addMetadata(el *etree.Element, title, desc string) {
	if title != "" {
		el.CreateElement("title").SetText(title)
	}
	if desc != "" {
		el.CreateElement("desc").SetText(desc)
	}
}

// hoister collects the raster filter definitions into a single <defs>.
type hoister struct {
	root    *etree.Element
	defs    *etree.Element
	after   int
	hoisted bool
}

// take moves the filters of a raster <defs> into the shared defs once.
func (h *hoister) take(defs *etree.Element) {
	if h.hoisted {
		return
	}
	if h.defs == nil {
		h.defs = etree.NewElement("defs")
		h.root.InsertChildAt(h.after, h.defs)
	}
	for _, f := range defs.SelectElements("filter") {
		h.defs.AddChild(f)
	}
	h.hoisted = true
}

// embed copies the source root presentation attributes onto dst and moves
// the source children under it.
func embed(dst *etree.Element, doc *svg.Document, h *hoister) {
	src := doc.Root()

	for _, attr := range src.Attr {
		if attr.Space == "" && (attr.Key == "xmlns" || droppedRootAttrs[attr.Key]) {
			continue
		}
		dst.CreateAttr(attr.FullKey(), attr.Value)
	}
	if doc.Kind() == svg.Vector && src.SelectAttr("fill") == nil {
		dst.CreateAttr("fill", svg.ThemeColour)
	}

	children := append([]etree.Token(nil), src.Child...)
	for _, tok := range children {
		if el, ok := tok.(*etree.Element); ok {
			if el.Space == "" && droppedRootChildren[el.Tag] {
				continue
			}
			if doc.Kind() == svg.Raster && el.Tag == "defs" {
				h.take(el)
				continue
			}
		}
		dst.AddChild(tok)
	}
}
