package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/spritetint/internal/security"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/util/filecache"
	httputil "github.com/jmylchreest/spritetint/internal/util/http"
)

// MaxSourceSize bounds a single local source file.
const MaxSourceSize = 16 * 1024 * 1024

// Fetched is the raw content of one source.
type Fetched struct {
	Data []byte
	// Path is the local file the data was read from.
	Path string
	// Cached is true when a remote source was served from the cache.
	Cached bool
}

// Fetcher retrieves the raw bytes of a source location.
type Fetcher interface {
	Fetch(ctx context.Context, location, name string) (Fetched, error)
}

// FetcherConfig configures the default fetcher.
type FetcherConfig struct {
	// BaseDir resolves relative local paths.
	BaseDir string
	// CacheDir holds downloaded remote sources.
	CacheDir string
	Policy   security.URLPolicy
	// Timeout is the per-request timeout; zero uses the HTTP default.
	Timeout time.Duration
}

// DefaultFetcher downloads http(s) sources through the file cache and reads
// everything else from disk.
type DefaultFetcher struct {
	cfg FetcherConfig
}

// NewFetcher creates a DefaultFetcher.
func NewFetcher(cfg FetcherConfig) *DefaultFetcher {
	return &DefaultFetcher{cfg: cfg}
}

// Fetch implements Fetcher.
func (f *DefaultFetcher) Fetch(ctx context.Context, location, name string) (Fetched, error) {
	if security.IsRemote(location) {
		return f.fetchRemote(ctx, location, name)
	}
	return f.readLocal(location)
}

func (f *DefaultFetcher) fetchRemote(ctx context.Context, url, name string) (Fetched, error) {
	if err := security.ValidateHTTPURL(url, f.cfg.Policy); err != nil {
		return Fetched{}, err
	}

	res, err := filecache.DownloadAndCache(ctx, url, filecache.CacheOptions{
		CacheDir: f.cfg.CacheDir,
		Filename: CacheName(name, url),
		Fetch: func(ctx context.Context, url string) ([]byte, error) {
			return httputil.Fetch(ctx, url, httputil.FetchOptions{Timeout: f.cfg.Timeout})
		},
	})
	if err != nil {
		return Fetched{}, err
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to read cached source: %w", err)
	}
	return Fetched{Data: data, Path: res.Path, Cached: res.Hit}, nil
}

func (f *DefaultFetcher) readLocal(path string) (Fetched, error) {
	if !filepath.IsAbs(path) && f.cfg.BaseDir != "" {
		path = filepath.Join(f.cfg.BaseDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Fetched{}, fmt.Errorf("source file not found: %s", path)
		}
		return Fetched{}, fmt.Errorf("failed to stat source file: %w", err)
	}
	if info.IsDir() {
		return Fetched{}, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if info.Size() > MaxSourceSize {
		return Fetched{}, fmt.Errorf("source file too large: %s (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path) // #nosec G304 - Source path listed by the user, intended to be read
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to read source file: %w", err)
	}
	return Fetched{Data: data, Path: path}, nil
}

// CacheName returns the cache file name for a named remote source. A short
// hash of the URL keeps names that slug alike apart.
func CacheName(name, url string) string {
	ext := filecache.Extension(url)
	if ext == "" {
		ext = ".bin"
	}
	sum := sha256.Sum256([]byte(url))
	return sprite.Slug(name) + "-" + hex.EncodeToString(sum[:4]) + ext
}
