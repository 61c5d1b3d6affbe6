// Package pipeline sequences a sprite run: fetch, deduplicate, decompress,
// classify, normalise and compose. Per-item failures are logged and skipped.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/spritetint/internal/colour"
	"github.com/jmylchreest/spritetint/internal/compression"
	"github.com/jmylchreest/spritetint/internal/source"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/svg"
)

// ModeRaster is the manifest mode of an embedded bitmap.
const ModeRaster = "embedded raster"

// Options configures normalisation for a run.
type Options struct {
	// Recolour holds the default shade, mode and unknown-colour settings.
	Recolour svg.Options
	// RasterSize is the box assumed for bitmaps whose header cannot be read.
	RasterSize float64
}

// Skip records an input left out of the output.
type Skip struct {
	Name   string
	Reason string
}

// Result summarises a run.
type Result struct {
	Added      int
	Duplicates int
	Skipped    []Skip
	Manifest   sprite.Manifest
}

// Builder runs inputs through normalisation into a sprite document.
type Builder struct {
	logger  hclog.Logger
	fetcher source.Fetcher
	opts    Options
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(logger hclog.Logger, fetcher source.Fetcher, opts Options) *Builder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.RasterSize <= 0 {
		opts.RasterSize = svg.DefaultExtent
	}
	return &Builder{
		logger:  logger.Named("pipeline"),
		fetcher: fetcher,
		opts:    opts,
	}
}

// Prepared is one normalised input ready for composition.
type Prepared struct {
	Doc  *svg.Document
	Mode string
}

// Prepare unwraps, classifies and normalises raw source bytes. shades
// overrides the configured shade count when positive.
func (b *Builder) Prepare(data []byte, name string, shades int) (Prepared, error) {
	raw, format, err := compression.Decompress(data)
	if err != nil {
		return Prepared{}, err
	}

	if !svg.LooksLikeSVG(raw) {
		doc, info, err := svg.WrapRaster(raw, name, b.opts.RasterSize)
		if err != nil {
			return Prepared{}, err
		}
		b.logger.Debug("wrapped raster", "name", name, "mime", info.MIME,
			"width", info.Width, "height", info.Height, "decoded", info.Decoded)
		return Prepared{Doc: doc, Mode: ModeRaster}, nil
	}

	doc, err := svg.Parse(raw)
	if err != nil {
		return Prepared{}, err
	}

	opts := b.opts.Recolour
	if shades > 0 {
		opts.Reduce.Shades = shades
	}
	_, stats := svg.Normalise(doc, opts)
	b.logger.Debug("normalised", "name", name, "colours", stats.Colours,
		"tiers", stats.Tiers, "painted", stats.Painted, "cloned", stats.Cloned)

	mode := DescribeMode(stats)
	if format != compression.None {
		mode += ", " + string(format)
	}
	return Prepared{Doc: doc, Mode: mode}, nil
}

// DescribeMode renders recolouring stats as a manifest mode.
func DescribeMode(stats svg.Stats) string {
	switch {
	case stats.Mode == colour.ModeLuminance:
		return "svg, luminance"
	case stats.SingleTone, stats.Painted == 0:
		return "svg, single-tone"
	case stats.Duplicated:
		return "svg, 2 shades, duplicated"
	default:
		return fmt.Sprintf("svg, %d shades", stats.Tiers)
	}
}

// input is one source waiting to be processed.
type input struct {
	location    string
	name        string
	id          string
	description string
	shades      int
	// display is the source recorded in the manifest.
	display string
}

// run processes inputs in order and hands each prepared item to add.
func (b *Builder) run(ctx context.Context, inputs []input, add func(sprite.Item) (string, error)) (*Result, error) {
	res := &Result{}
	dedup := source.NewDeduper()

	skip := func(in input, err error) {
		b.logger.Warn("skipping source", "name", in.name, "error", err)
		res.Skipped = append(res.Skipped, Skip{Name: in.name, Reason: err.Error()})
	}

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fetched, err := b.fetcher.Fetch(ctx, in.location, in.name)
		if err != nil {
			skip(in, err)
			continue
		}
		if fetched.Cached {
			b.logger.Debug("using cached source", "name", in.name, "path", fetched.Path)
		}

		if err := dedup.Check(fetched.Data, in.name); err != nil {
			res.Duplicates++
			skip(in, err)
			continue
		}

		prepared, err := b.Prepare(fetched.Data, in.location, in.shades)
		if err != nil {
			skip(in, err)
			continue
		}

		id, err := add(sprite.Item{
			ID:          in.id,
			Name:        in.name,
			Description: in.description,
			Doc:         prepared.Doc,
		})
		if err != nil {
			skip(in, err)
			continue
		}

		res.Added++
		res.Manifest.Append(sprite.ManifestEntry{ID: id, Source: in.display, Mode: prepared.Mode})
		b.logger.Info("added", "id", id, "mode", prepared.Mode)
	}

	return res, nil
}

// BuildSheet adds every manifest entry to the sheet in manifest order.
func (b *Builder) BuildSheet(ctx context.Context, m *source.Manifest, sheet *sprite.Sheet) (*Result, error) {
	var inputs []input
	var invalid []Skip
	for _, e := range m.Entries() {
		if err := e.Validate(); err != nil {
			b.logger.Warn("skipping source", "name", e.Name, "error", err)
			invalid = append(invalid, Skip{Name: e.Name, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, input{
			location:    e.URL,
			name:        e.Name,
			id:          sprite.Slug(e.Name),
			description: e.Description,
			shades:      e.Shades,
			display:     e.URL,
		})
	}

	b.logger.Info("building sheet", "entries", len(inputs), "categories", len(m.Categories))
	res, err := b.run(ctx, inputs, func(item sprite.Item) (string, error) {
		p, err := sheet.Add(item)
		return p.ID, err
	})
	res.Skipped = append(invalid, res.Skipped...)
	return res, err
}

// BuildLibrary adds every file to the symbol library in the given order.
func (b *Builder) BuildLibrary(ctx context.Context, files []string, lib *sprite.Library) (*Result, error) {
	inputs := make([]input, 0, len(files))
	for _, path := range files {
		name := source.BaseName(path)
		inputs = append(inputs, input{
			location: path,
			name:     name,
			id:       sprite.Slug(name),
			display:  filepath.Base(path),
		})
	}

	b.logger.Info("building library", "files", len(inputs))
	return b.run(ctx, inputs, lib.Add)
}
