package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spritetint/internal/pipeline"
	"github.com/jmylchreest/spritetint/internal/source"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/svg"
)

type libraryOptions struct {
	colourOptions

	input    string
	output   string
	manifest string

	library sprite.LibraryConfig
}

func newLibraryCmd() *cobra.Command {
	o := &libraryOptions{library: sprite.DefaultLibraryConfig()}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Build a hidden <symbol> library from a directory",
		Long: `Build a hidden SVG symbol library from every supported file in a directory.

Files are read in name order. Identical files are included once. Each symbol
is referenced elsewhere with <use href="#<prefix><name>">.

Supported inputs: .svg .svgz .svg.gz .svg.xz .svg.bz2 .png .jpg .jpeg .gif .webp .bmp

Examples:
  spritetint library --input originals --output druplicon-sprite.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibrary(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.input, "input", "i", "originals", "directory of source files")
	fs.StringVarP(&o.output, "output", "o", "druplicon-sprite.svg", "output symbol library")
	fs.StringVar(&o.manifest, "manifest", "druplicon-manifest.txt", "output run manifest")
	fs.StringVar(&o.library.Prefix, "prefix", o.library.Prefix, "symbol id prefix")
	fs.StringVar(&o.library.Class, "class", o.library.Class, "root class for the embedded stylesheet (empty to omit)")
	fs.StringVar(&o.library.Title, "title", o.library.Title, "library title")

	o.colourOptions.register(fs, "luminance", "grey")

	return cmd
}

func runLibrary(cmd *cobra.Command, o *libraryOptions) error {
	logger := newLogger(cmd)

	o.library.Theme = o.theme()
	if err := o.library.Validate(); err != nil {
		return err
	}
	opts, err := o.pipelineOptions(svg.DefaultExtent)
	if err != nil {
		return err
	}
	warnContrast(logger, o.library.Theme)

	files, err := source.Scan(o.input)
	if err != nil {
		return err
	}

	lib := sprite.NewLibrary(o.library)
	fetcher := source.NewFetcher(source.FetcherConfig{})
	res, err := pipeline.NewBuilder(logger, fetcher, opts).BuildLibrary(cmd.Context(), files, lib)
	if err != nil {
		return err
	}

	if err := writeOutput(o.output, lib); err != nil {
		return err
	}
	if err := writeOutput(o.manifest, &res.Manifest); err != nil {
		return err
	}

	summary := fmt.Sprintf("Wrote symbol library with %d symbols to %s", res.Added, o.output)
	printReport(cmd.OutOrStdout(), res, summary, isQuiet(cmd))
	return nil
}
