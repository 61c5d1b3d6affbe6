// Package svg provides a small document model over SVG markup: parsing,
// paint accessors, recolouring onto the theme colour and raster wrapping.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// ErrMalformedInput is returned when a source cannot be parsed as SVG markup.
var ErrMalformedInput = errors.New("malformed input")

var utf8BOM = []byte("\xef\xbb\xbf")

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// Kind describes where a document came from.
type Kind int

const (
	// Vector documents were parsed from SVG markup.
	Vector Kind = iota
	// Raster documents wrap an embedded bitmap.
	Raster
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Raster {
		return "raster"
	}
	return "svg"
}

// Document is a parsed SVG tree.
type Document struct {
	tree *etree.Document
	kind Kind
}

// Parse parses SVG markup. The root element must be <svg>.
func Parse(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(stripBOM(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedInput)
	}
	if root.Tag != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>, not <svg>", ErrMalformedInput, root.Tag)
	}

	return &Document{tree: tree, kind: Vector}, nil
}

// LooksLikeSVG reports whether data is XML markup whose root element is
// <svg>. Any prolog before the root is skipped, however long.
func LooksLikeSVG(data []byte) bool {
	data = bytes.TrimLeft(stripBOM(data), " \t\r\n")
	if !bytes.HasPrefix(data, []byte("<")) {
		return false
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	for {
		tok, err := dec.RawToken()
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t.Name.Local == "svg"
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return false
			}
		}
	}
}

// Root returns the <svg> root element.
func (d *Document) Root() *etree.Element {
	return d.tree.Root()
}

// Kind returns whether the document is vector or raster.
func (d *Document) Kind() Kind {
	return d.kind
}

// Elements returns every element in document order, root first.
func (d *Document) Elements() []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		out = append(out, el)
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	if root := d.Root(); root != nil {
		walk(root)
	}
	return out
}

// Bytes serialises the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.tree.WriteToBytes()
}
