package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spritetint/internal/crawl"
	"github.com/jmylchreest/spritetint/internal/security"
)

type downloadOptions struct {
	output       string
	metadata     string
	baseURL      string
	topics       []string
	pages        int
	allowPrivate bool
	timeout      time.Duration
}

func newDownloadCmd() *cobra.Command {
	o := &downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download druplicon artwork for the library builder",
		Long: `Download druplicon artwork from druplicon.org into a local directory.

Topic listing pages are crawled first, then the paginated index. For every
item page the best artwork is saved (SVG, then PNG, then JPEG) under the
item's slug. Files already present are not downloaded again. A CSV record of
page, image and saved path is written alongside.

Examples:
  spritetint download --output originals
  spritetint download --topic 11 --pages 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.output, "output", "o", "originals", "directory for downloaded artwork")
	fs.StringVar(&o.metadata, "metadata", crawl.MetadataFile, "download record, relative to the output directory")
	fs.StringVar(&o.baseURL, "base-url", crawl.DefaultBaseURL, "site to crawl")
	fs.StringSliceVar(&o.topics, "topic", crawl.DefaultTopics(), "topic ids crawled before the index")
	fs.IntVar(&o.pages, "pages", crawl.DefaultPages, "paginated index pages to visit")
	fs.BoolVar(&o.allowPrivate, "allow-private-hosts", false, "allow fetching from localhost and private networks")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "per-request timeout")

	return cmd
}

func runDownload(cmd *cobra.Command, o *downloadOptions) error {
	logger := newLogger(cmd)

	policy := security.DefaultURLPolicy()
	policy.AllowPrivateHosts = o.allowPrivate

	c, err := crawl.New(logger, crawl.Config{
		BaseURL: o.baseURL,
		Topics:  o.topics,
		Pages:   o.pages,
		OutDir:  o.output,
		Policy:  policy,
		Timeout: o.timeout,
	})
	if err != nil {
		return err
	}

	meta, err := c.Run(cmd.Context())
	if err != nil {
		return err
	}

	metaPath := o.metadata
	if !filepath.IsAbs(metaPath) {
		metaPath = filepath.Join(o.output, metaPath)
	}
	if err := writeOutput(metaPath, meta); err != nil {
		return err
	}

	if !isQuiet(cmd) {
		saved := 0
		for _, r := range meta {
			if r.SavedPath != "" {
				saved++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d of %d druplicons to %s\n", saved, len(meta), o.output)
	}
	return nil
}
