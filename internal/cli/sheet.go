package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spritetint/internal/pipeline"
	"github.com/jmylchreest/spritetint/internal/security"
	"github.com/jmylchreest/spritetint/internal/source"
	"github.com/jmylchreest/spritetint/internal/sprite"
	httputil "github.com/jmylchreest/spritetint/internal/util/http"
)

type sheetOptions struct {
	colourOptions

	sources      string
	output       string
	manifest     string
	cacheDir     string
	allowPrivate bool
	timeout      time.Duration

	layout sprite.SheetConfig
}

func newSheetCmd() *cobra.Command {
	o := &sheetOptions{layout: sprite.DefaultSheetConfig()}

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Build a grid sprite sheet from a source manifest",
		Long: `Build a grid sprite sheet from a JSON source manifest.

The manifest groups entries by category:

  {"Content Management": [{"name": "Drupal", "description": "...",
    "url": "https://example.org/drupal.svg", "shades": 2}]}

Remote sources are downloaded once into the cache directory; local paths
are resolved relative to the manifest. Sources that fail to download or
parse are skipped and reported.

Examples:
  # Build with defaults (logo-sources.json -> cms-logos.svg)
  spritetint sheet

  # Two shade tiers with custom inks
  spritetint sheet --shades 2 --light-colour '#111111' --dark-colour '#eeeeee'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.sources, "sources", "logo-sources.json", "source manifest (JSON)")
	fs.StringVarP(&o.output, "output", "o", "cms-logos.svg", "output sprite sheet")
	fs.StringVar(&o.manifest, "manifest", "cms-logos.manifest.txt", "output run manifest")
	fs.StringVar(&o.cacheDir, "cache-dir", envOr(EnvCacheDir, "temp_logos"), "download cache directory")
	fs.BoolVar(&o.allowPrivate, "allow-private-hosts", false, "allow downloads from localhost and private networks")
	fs.DurationVar(&o.timeout, "timeout", httputil.DefaultTimeout, "per-request download timeout")

	fs.Float64Var(&o.layout.Width, "width", o.layout.Width, "sheet width")
	fs.Float64Var(&o.layout.Cell, "cell", o.layout.Cell, "grid cell spacing")
	fs.Float64Var(&o.layout.MaxItem, "max-size", o.layout.MaxItem, "maximum logo width and height")
	fs.Float64Var(&o.layout.Margin, "margin", o.layout.Margin, "offset of the first cell")
	fs.Float64Var(&o.layout.WrapAt, "wrap-at", o.layout.WrapAt, "start a new row once x exceeds this")
	fs.StringVar(&o.layout.Title, "title", o.layout.Title, "sheet title")
	fs.StringVar(&o.layout.Description, "description", o.layout.Description, "sheet description")

	o.colourOptions.register(fs, "clustered", "black")

	return cmd
}

func runSheet(cmd *cobra.Command, o *sheetOptions) error {
	logger := newLogger(cmd)

	o.layout.Theme = o.theme()
	if err := o.layout.Validate(); err != nil {
		return err
	}
	opts, err := o.pipelineOptions(o.layout.MaxItem)
	if err != nil {
		return err
	}
	warnContrast(logger, o.layout.Theme)

	m, err := source.LoadManifest(o.sources)
	if err != nil {
		return err
	}
	logger.Info("loaded sources", "entries", m.Len(), "categories", len(m.Categories))

	fetcher := source.NewFetcher(source.FetcherConfig{
		BaseDir:  m.Dir,
		CacheDir: o.cacheDir,
		Policy:   security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: o.allowPrivate},
		Timeout:  o.timeout,
	})

	sheet := sprite.NewSheet(o.layout)
	res, err := pipeline.NewBuilder(logger, fetcher, opts).BuildSheet(cmd.Context(), m, sheet)
	if err != nil {
		return err
	}

	if err := writeOutput(o.output, sheet); err != nil {
		return err
	}
	if err := writeOutput(o.manifest, &res.Manifest); err != nil {
		return err
	}

	summary := fmt.Sprintf("Wrote sprite sheet with %d logos to %s (%s x %s, %d rows)",
		res.Added, o.output, formatSize(o.layout.Width), formatSize(sheet.Height()), sheet.Rows())
	printReport(cmd.OutOrStdout(), res, summary, isQuiet(cmd))
	return nil
}
