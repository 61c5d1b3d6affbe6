package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/spritetint/internal/colour"
	"github.com/jmylchreest/spritetint/internal/source"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/svg"
)

const (
	redLogo   = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect fill="#ff0000"/></svg>`
	threeTone = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect fill="#000"/><rect fill="#808080"/><rect fill="#fff"/></svg>`
	blueLogo  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10"><circle fill="blue"/></svg>`
	greenLogo = `<svg xmlns="http://www.w3.org/2000/svg"><g><path stroke="rgb(0, 128, 0)"/></g></svg>`
)

func defaultOptions() Options {
	return Options{
		Recolour: svg.Options{
			Reduce:  colour.ReduceOptions{Shades: colour.DefaultShades, Mode: colour.ModeClustered},
			Unknown: colour.UnknownBlack,
		},
		RasterSize: 100,
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBuildSheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "red.svg", []byte(redLogo))
	writeFile(t, dir, "three.svg", []byte(threeTone))
	writeFile(t, dir, "blue.svg.gz", gzipBytes(t, blueLogo))
	writeFile(t, dir, "green.svg", []byte(greenLogo))
	writeFile(t, dir, "copy.svg", []byte(redLogo))
	writeFile(t, dir, "broken.svg", []byte(`<svg><g></svg>`))
	writeFile(t, dir, "photo.png", pngBytes(t, 40, 20))

	manifest := `{
	  "Vector": [
	    {"name": "Red", "description": "red logo", "url": "red.svg"},
	    {"name": "Three", "description": "three tones", "url": "three.svg"},
	    {"name": "Red Again", "description": "same bytes", "url": "copy.svg"},
	    {"name": "Broken", "description": "malformed", "url": "broken.svg"}
	  ],
	  "Other": [
	    {"name": "Blue", "description": "gzipped", "url": "blue.svg.gz"},
	    {"name": "Green", "description": "forced two", "url": "green.svg", "shades": 2},
	    {"name": "Missing", "description": "not there", "url": "missing.svg"},
	    {"name": "No URL", "description": "invalid"},
	    {"name": "Photo", "description": "bitmap", "url": "photo.png"}
	  ]
	}`
	writeFile(t, dir, "sources.json", []byte(manifest))

	m, err := source.LoadManifest(filepath.Join(dir, "sources.json"))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	b := NewBuilder(hclog.NewNullLogger(), source.NewFetcher(source.FetcherConfig{BaseDir: m.Dir}), defaultOptions())
	sheet := sprite.NewSheet(sprite.DefaultSheetConfig())

	res, err := b.BuildSheet(context.Background(), m, sheet)
	if err != nil {
		t.Fatalf("BuildSheet() error = %v", err)
	}

	if res.Added != 5 || sheet.Len() != 5 {
		t.Errorf("Added = %d, sheet Len = %d, want 5", res.Added, sheet.Len())
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	if len(res.Skipped) != 4 {
		t.Errorf("Skipped = %+v, want 4 entries", res.Skipped)
	}
	if res.Skipped[0].Name != "No URL" {
		t.Errorf("invalid entries should be reported first, got %q", res.Skipped[0].Name)
	}

	want := []sprite.ManifestEntry{
		{ID: "red", Source: "red.svg", Mode: "svg, single-tone"},
		{ID: "three", Source: "three.svg", Mode: "svg, 3 shades"},
		{ID: "blue", Source: "blue.svg.gz", Mode: "svg, single-tone, gzip"},
		{ID: "green", Source: "green.svg", Mode: "svg, 2 shades, duplicated"},
		{ID: "photo", Source: "photo.png", Mode: ModeRaster},
	}
	got := res.Manifest.Entries()
	if len(got) != len(want) {
		t.Fatalf("manifest = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("manifest[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	var out bytes.Buffer
	if _, err := sheet.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	doc, err := svg.Parse(out.Bytes())
	if err != nil {
		t.Fatalf("sheet output does not parse: %v", err)
	}
	for _, el := range doc.Elements() {
		for _, prop := range []string{"fill", "stroke"} {
			v := el.SelectAttrValue(prop, "")
			if v == "" || v == "none" || v == svg.ThemeColour {
				continue
			}
			t.Errorf("<%s %s=%q> escaped recolouring", el.Tag, prop, v)
		}
	}
	if !strings.Contains(out.String(), "data:image/png;base64,") {
		t.Error("raster not embedded")
	}
}

func TestBuildLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-drop.svg", []byte(threeTone))
	writeFile(t, dir, "b-drop.svg", []byte(threeTone))
	writeFile(t, dir, "c-drop.png", pngBytes(t, 8, 8))
	writeFile(t, dir, "d-drop.svg", []byte(`not svg at all`))

	files, err := source.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	opts := defaultOptions()
	opts.Recolour.Reduce.Mode = colour.ModeLuminance
	opts.Recolour.Unknown = colour.UnknownGrey

	b := NewBuilder(nil, source.NewFetcher(source.FetcherConfig{}), opts)
	lib := sprite.NewLibrary(sprite.DefaultLibraryConfig())

	res, err := b.BuildLibrary(context.Background(), files, lib)
	if err != nil {
		t.Fatalf("BuildLibrary() error = %v", err)
	}

	if res.Added != 2 || lib.Len() != 2 {
		t.Errorf("Added = %d, Len = %d, want 2", res.Added, lib.Len())
	}
	if res.Duplicates != 1 || len(res.Skipped) != 2 {
		t.Errorf("Duplicates = %d, Skipped = %+v", res.Duplicates, res.Skipped)
	}

	got := res.Manifest.Entries()
	if got[0].ID != "druplicon-a-drop" || got[0].Mode != "svg, luminance" || got[0].Source != "a-drop.svg" {
		t.Errorf("manifest[0] = %+v", got[0])
	}
	if got[1].ID != "druplicon-c-drop" || got[1].Mode != ModeRaster {
		t.Errorf("manifest[1] = %+v", got[1])
	}
}

func TestBuildCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", []byte(redLogo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(nil, source.NewFetcher(source.FetcherConfig{}), defaultOptions())
	_, err := b.BuildLibrary(ctx, []string{filepath.Join(dir, "a.svg")}, sprite.NewLibrary(sprite.DefaultLibraryConfig()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BuildLibrary() error = %v, want context.Canceled", err)
	}
}

func TestPrepareRejectsText(t *testing.T) {
	b := NewBuilder(nil, nil, defaultOptions())
	_, err := b.Prepare([]byte("hello world"), "notes.txt", 0)
	if !errors.Is(err, svg.ErrMalformedInput) {
		t.Errorf("Prepare() error = %v, want ErrMalformedInput", err)
	}
}

func TestPrepareByteOrderMark(t *testing.T) {
	b := NewBuilder(nil, nil, defaultOptions())
	data := append([]byte("\xef\xbb\xbf"), redLogo...)

	p, err := b.Prepare(data, "logo.svg", 0)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if p.Mode != "svg, single-tone" || p.Doc.Kind() != svg.Vector {
		t.Errorf("Prepare() mode = %q kind = %v", p.Mode, p.Doc.Kind())
	}
}

func TestDescribeMode(t *testing.T) {
	tests := []struct {
		name  string
		stats svg.Stats
		want  string
	}{
		{"luminance", svg.Stats{Mode: colour.ModeLuminance, Tiers: 4}, "svg, luminance"},
		{"single", svg.Stats{Mode: colour.ModeClustered, SingleTone: true, Tiers: 1, Painted: 2}, "svg, single-tone"},
		{"duplicated", svg.Stats{Mode: colour.ModeClustered, Duplicated: true, Tiers: 2, Painted: 2}, "svg, 2 shades, duplicated"},
		{"duplicated nothing painted", svg.Stats{Mode: colour.ModeClustered, Duplicated: true}, "svg, single-tone"},
		{"tiers", svg.Stats{Mode: colour.ModeClustered, Tiers: 3, Painted: 3}, "svg, 3 shades"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeMode(tt.stats); got != tt.want {
				t.Errorf("DescribeMode() = %q, want %q", got, tt.want)
			}
		})
	}
}
