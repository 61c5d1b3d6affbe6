// Package filecache provides an idempotent on-disk cache for downloaded sources.
package filecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/spritetint/internal/security"
	httputil "github.com/jmylchreest/spritetint/internal/util/http"
)

// FetchFunc retrieves the content behind a URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// CacheOptions configures caching behaviour.
type CacheOptions struct {
	// CacheDir is the directory where downloads are kept.
	// If empty, defaults to ~/.cache/spritetint/sources
	CacheDir string

	// Filename is the name to cache under.
	// If empty, uses a hash of the URL + original extension.
	Filename string

	// AllowOverwrite determines if existing cached files can be overwritten.
	// Default: false (reuse existing cached files).
	AllowOverwrite bool

	// Fetch downloads the content. Defaults to an HTTP GET with the default timeout.
	Fetch FetchFunc
}

// Result describes a cached download.
type Result struct {
	Path string
	// Hit is true when the file was already present and no download happened.
	Hit bool
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "spritetint", "sources"), nil
	}
	return filepath.Join(cacheDir, "spritetint", "sources"), nil
}

// Extension returns the file extension of a URL path, without query or fragment.
// Compound compressed extensions such as ".svg.gz" are kept whole.
func Extension(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx != -1 {
		url = url[:idx]
	}
	base := strings.ToLower(filepath.Base(url))
	ext := filepath.Ext(base)
	switch ext {
	case ".gz", ".xz", ".bz2":
		if inner := filepath.Ext(strings.TrimSuffix(base, ext)); inner != "" && len(inner) <= 5 {
			return inner + ext
		}
	}
	if len(ext) > 5 {
		return ""
	}
	return ext
}

// generateFilename creates a deterministic filename from a URL.
// Uses SHA256 hash of URL + original file extension.
func generateFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	hashStr := fmt.Sprintf("%x", hash[:16])

	ext := Extension(url)
	if ext == "" {
		ext = ".bin"
	}
	return hashStr + ext
}

// DownloadAndCache downloads a remote source into the cache directory unless
// it is already present. Returns the local file path.
func DownloadAndCache(ctx context.Context, url string, opts CacheOptions) (Result, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return Result{}, fmt.Errorf("failed to determine cache directory: %w", err)
		}
		cacheDir = defaultDir
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return Result{}, fmt.Errorf("failed to create cache directory: %w", err)
	}

	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(url)
	}
	if err := security.ValidateFilePath(filename, cacheDir); err != nil {
		return Result{}, fmt.Errorf("invalid cache filename: %w", err)
	}

	cachedPath := filepath.Join(cacheDir, filename)

	if !opts.AllowOverwrite {
		if info, err := os.Stat(cachedPath); err == nil && info.Size() > 0 {
			return Result{Path: cachedPath, Hit: true}, nil
		}
	}

	fetch := opts.Fetch
	if fetch == nil {
		fetch = func(ctx context.Context, url string) ([]byte, error) {
			return httputil.Fetch(ctx, url, httputil.FetchOptions{})
		}
	}

	data, err := fetch(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if err := os.WriteFile(cachedPath, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return Result{}, fmt.Errorf("failed to write cached file: %w", err)
	}

	return Result{Path: cachedPath}, nil
}
