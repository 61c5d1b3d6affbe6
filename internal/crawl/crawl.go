// Package crawl downloads druplicon artwork from druplicon.org style index
// pages into a local directory for the library builder.
package crawl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/spritetint/internal/security"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/util/filecache"
	httputil "github.com/jmylchreest/spritetint/internal/util/http"
)

const (
	// DefaultBaseURL is the site crawled when none is configured.
	DefaultBaseURL = "https://www.druplicon.org"

	// DefaultPages is the number of paginated index pages visited.
	DefaultPages = 10

	// MetadataFile is the default name of the download record.
	MetadataFile = "druplicons_metadata.csv"

	itemMarker    = "/druplicon/"
	artworkMarker = "/files/druplicons/"
	fallbackSlug  = "druplicon"
	acceptHTML    = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5"
)

// DefaultTopics are the topic ids crawled before the paginated index.
func DefaultTopics() []string {
	return []string{"11", "13", "1", "18"}
}

// Config configures a crawl.
type Config struct {
	BaseURL string
	// Topics are topic ids whose listing pages are crawled first.
	Topics []string
	// Pages bounds the paginated index walk. Zero skips it.
	Pages int
	// OutDir receives the downloaded artwork.
	OutDir  string
	Policy  security.URLPolicy
	Timeout time.Duration
}

// Record describes one item page that yielded artwork.
type Record struct {
	PageURL  string
	ImageURL string
	// SavedPath is empty when the download failed.
	SavedPath string
	// Cached is true when the file was already present in OutDir.
	Cached bool
}

// Metadata is the ordered download record written next to the artwork.
type Metadata []Record

// WriteTo writes the record as CSV with a page_url,image_url,saved_path header.
func (m Metadata) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	out := csv.NewWriter(cw)
	if err := out.Write([]string{"page_url", "image_url", "saved_path"}); err != nil {
		return cw.n, err
	}
	for _, r := range m {
		if err := out.Write([]string{r.PageURL, r.ImageURL, r.SavedPath}); err != nil {
			return cw.n, err
		}
	}
	out.Flush()
	return cw.n, out.Error()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Crawler walks topic and index pages and downloads one image per item.
type Crawler struct {
	cfg    Config
	base   *url.URL
	logger hclog.Logger

	seen  map[string]struct{}
	names map[string]struct{}
}

// New creates a Crawler. The base URL is validated against the policy.
func New(logger hclog.Logger, cfg Config) (*Crawler, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if err := security.ValidateHTTPURL(cfg.BaseURL, cfg.Policy); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Pages < 0 {
		return nil, fmt.Errorf("pages must not be negative, got %d", cfg.Pages)
	}

	return &Crawler{
		cfg:    cfg,
		base:   base,
		logger: logger.Named("crawl"),
		seen:   make(map[string]struct{}),
		names:  make(map[string]struct{}),
	}, nil
}

// TopicURL returns the listing page of a topic id.
func (c *Crawler) TopicURL(topic string) string {
	q := url.Values{"item[0]": {"topics:" + topic}}
	return c.base.JoinPath("druplicons").String() + "?" + q.Encode()
}

// IndexURL returns the nth page of the paginated index.
func (c *Crawler) IndexURL(page int) string {
	return c.base.JoinPath("druplicons").String() + "?page=" + strconv.Itoa(page)
}

// Run crawls every topic, then the paginated index, downloading artwork for
// each item page seen for the first time. Per-page failures are logged and
// skipped; only cancellation aborts the run.
func (c *Crawler) Run(ctx context.Context) (Metadata, error) {
	var meta Metadata

	for _, topic := range c.cfg.Topics {
		if err := ctx.Err(); err != nil {
			return meta, err
		}
		topicURL := c.TopicURL(topic)
		c.logger.Info("fetching topic", "url", topicURL)
		page, err := c.page(ctx, topicURL)
		if err != nil {
			c.logger.Warn("failed to fetch topic", "url", topicURL, "error", err)
			continue
		}
		links := ItemLinks(page, c.base)
		c.logger.Debug("found item links", "url", topicURL, "count", len(links))
		if meta, err = c.items(ctx, links, meta); err != nil {
			return meta, err
		}
	}

	links, err := c.index(ctx)
	if err != nil {
		return meta, err
	}
	return c.items(ctx, links, meta)
}

// index gathers item links from the paginated index, stopping at the first
// page that fails or lists nothing.
func (c *Crawler) index(ctx context.Context) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for n := 0; n < c.cfg.Pages; n++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		pageURL := c.IndexURL(n)
		page, err := c.page(ctx, pageURL)
		if err != nil {
			c.logger.Debug("index walk stopped", "url", pageURL, "error", err)
			break
		}
		links := ItemLinks(page, c.base)
		if len(links) == 0 {
			break
		}
		for _, l := range links {
			if _, dup := seen[l]; !dup {
				seen[l] = struct{}{}
				all = append(all, l)
			}
		}
	}
	c.logger.Debug("found index links", "count", len(all))
	return all, nil
}

func (c *Crawler) items(ctx context.Context, links []string, meta Metadata) (Metadata, error) {
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return meta, err
		}
		if _, dup := c.seen[link]; dup {
			continue
		}
		c.seen[link] = struct{}{}

		if rec, ok := c.item(ctx, link); ok {
			meta = append(meta, rec)
		}
	}
	return meta, nil
}

// item fetches one item page and downloads its best image.
func (c *Crawler) item(ctx context.Context, link string) (Record, bool) {
	page, err := c.page(ctx, link)
	if err != nil {
		c.logger.Warn("failed to fetch item page", "url", link, "error", err)
		return Record{}, false
	}
	pageURL, err := url.Parse(link)
	if err != nil {
		return Record{}, false
	}

	img := BestImage(page, pageURL)
	if img == "" {
		c.logger.Info("no image found", "url", link)
		return Record{}, false
	}

	rec := Record{PageURL: link, ImageURL: img}
	if err := security.ValidateHTTPURL(img, c.cfg.Policy); err != nil {
		c.logger.Warn("image rejected", "url", img, "error", err)
		return rec, true
	}

	res, err := filecache.DownloadAndCache(ctx, img, filecache.CacheOptions{
		CacheDir: c.cfg.OutDir,
		Filename: c.claimName(pageURL, img),
		Fetch: func(ctx context.Context, u string) ([]byte, error) {
			return httputil.Fetch(ctx, u, httputil.FetchOptions{Timeout: c.cfg.Timeout})
		},
	})
	if err != nil {
		c.logger.Warn("download failed", "url", img, "error", err)
		return rec, true
	}

	c.logger.Info("saved", "image", img, "path", res.Path, "cached", res.Hit)
	rec.SavedPath = res.Path
	rec.Cached = res.Hit
	return rec, true
}

// claimName derives the file name from the item page slug and the image
// extension. A counter is appended when a name was already used this run.
func (c *Crawler) claimName(pageURL *url.URL, img string) string {
	slug := sprite.Slug(path.Base(strings.TrimRight(pageURL.Path, "/")))
	if slug == "item" {
		slug = fallbackSlug
	}
	ext := filecache.Extension(img)
	if ext == "" {
		ext = ".svg"
	}

	name := slug + ext
	for i := 1; ; i++ {
		if _, taken := c.names[name]; !taken {
			break
		}
		name = slug + "-" + strconv.Itoa(i) + ext
	}
	c.names[name] = struct{}{}
	return name
}

func (c *Crawler) page(ctx context.Context, pageURL string) ([]byte, error) {
	if err := security.ValidateHTTPURL(pageURL, c.cfg.Policy); err != nil {
		return nil, err
	}
	return httputil.Fetch(ctx, pageURL, httputil.FetchOptions{
		Timeout: c.cfg.Timeout,
		Headers: map[string]string{"Accept": acceptHTML},
	})
}
