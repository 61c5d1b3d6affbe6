package filecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadAndCache(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		calls++
		return []byte("<svg/>"), nil
	}
	opts := CacheOptions{CacheDir: dir, Filename: "drupal.svg", Fetch: fetch}

	first, err := DownloadAndCache(context.Background(), "https://example.org/drupal.svg", opts)
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if first.Hit {
		t.Error("first download reported as cache hit")
	}
	if first.Path != filepath.Join(dir, "drupal.svg") {
		t.Errorf("Path = %s", first.Path)
	}

	second, err := DownloadAndCache(context.Background(), "https://example.org/drupal.svg", opts)
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if !second.Hit || calls != 1 {
		t.Errorf("second call Hit = %v, fetch calls = %d; want cache hit and 1 call", second.Hit, calls)
	}

	opts.AllowOverwrite = true
	if _, err := DownloadAndCache(context.Background(), "https://example.org/drupal.svg", opts); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("overwrite did not refetch, calls = %d", calls)
	}

	data, err := os.ReadFile(first.Path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("cached content = %q, err = %v", data, err)
	}
}

func TestDownloadAndCacheErrors(t *testing.T) {
	dir := t.TempDir()
	failing := func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("boom")
	}

	_, err := DownloadAndCache(context.Background(), "https://example.org/a.svg", CacheOptions{CacheDir: dir, Fetch: failing})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want wrapped fetch failure", err)
	}

	_, err = DownloadAndCache(context.Background(), "https://example.org/a.svg", CacheOptions{CacheDir: dir, Filename: "../a.svg", Fetch: failing})
	if err == nil {
		t.Error("expected error for traversal filename")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.org/logo.svg", ".svg"},
		{"https://example.org/logo.PNG?v=2", ".png"},
		{"https://example.org/logo.svg.gz", ".svg.gz"},
		{"https://example.org/archive.gz", ".gz"},
		{"https://example.org/download", ""},
		{"https://example.org/file.toolongext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Extension(tt.url); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestGenerateFilename(t *testing.T) {
	a := generateFilename("https://example.org/a.svg")
	b := generateFilename("https://example.org/b.svg")
	if a == b || !strings.HasSuffix(a, ".svg") || len(a) != 36 {
		t.Errorf("generateFilename() = %q, %q", a, b)
	}
	if !strings.HasSuffix(generateFilename("https://example.org/x"), ".bin") {
		t.Error("expected .bin fallback")
	}
}
