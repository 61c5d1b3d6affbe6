package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/spritetint/internal/colour"
	"github.com/jmylchreest/spritetint/internal/pipeline"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/svg"
)

// colourOptions are the normalisation flags shared by both builders.
type colourOptions struct {
	shades  int
	mode    string
	unknown string
	light   string
	dark    string
}

func (o *colourOptions) register(fs *pflag.FlagSet, mode, unknown string) {
	fs.IntVar(&o.shades, "shades", colour.DefaultShades, "shade tiers per document (1-3); source entries may override")
	fs.StringVar(&o.mode, "mode", mode, "opacity mode (clustered, luminance)")
	fs.StringVar(&o.unknown, "unknown-colours", unknown, "handling of unparseable colours (keep, black, grey)")
	fs.StringVar(&o.light, "light-colour", envOr(EnvLightColour, sprite.DefaultLightInk), "ink colour on light backgrounds")
	fs.StringVar(&o.dark, "dark-colour", envOr(EnvDarkColour, sprite.DefaultDarkInk), "ink colour on dark backgrounds")
}

// pipelineOptions validates the flags and converts them for the pipeline.
func (o *colourOptions) pipelineOptions(rasterSize float64) (pipeline.Options, error) {
	mode, err := colour.ParseMode(o.mode)
	if err != nil {
		return pipeline.Options{}, err
	}
	unknown, err := colour.ParseUnknownPolicy(o.unknown)
	if err != nil {
		return pipeline.Options{}, err
	}
	if o.shades < 1 {
		return pipeline.Options{}, fmt.Errorf("shades must be between 1 and 3, got %d", o.shades)
	}
	reduce := colour.ReduceOptions{Shades: o.shades, Mode: mode}
	if err := reduce.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Recolour:   svg.Options{Reduce: reduce, Unknown: unknown},
		RasterSize: rasterSize,
	}, nil
}

func (o *colourOptions) theme() sprite.Theme {
	return sprite.Theme{LightInk: o.light, DarkInk: o.dark}
}

// writeOutput writes a document to path, creating parent directories.
func writeOutput(path string, doc io.WriterTo) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) // #nosec G304 - Output path chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	_, writeErr := doc.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return nil
}
