package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/spritetint/internal/security"
)

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "logos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logos", "a.svg"), []byte("<svg/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(FetcherConfig{BaseDir: dir})

	got, err := f.Fetch(context.Background(), "logos/a.svg", "A")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got.Data) != "<svg/>" || got.Cached {
		t.Errorf("Fetch() = %+v", got)
	}

	if _, err := f.Fetch(context.Background(), "logos/missing.svg", "M"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := f.Fetch(context.Background(), "logos", "dir"); err == nil {
		t.Error("expected error for directory")
	}
}

func TestFetchRemoteCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	}))
	defer srv.Close()

	cache := t.TempDir()
	f := NewFetcher(FetcherConfig{
		CacheDir: cache,
		Policy:   security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: true},
	})

	url := srv.URL + "/logo.svg"
	first, err := f.Fetch(context.Background(), url, "Craft CMS")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if first.Cached || first.Path != filepath.Join(cache, CacheName("Craft CMS", url)) {
		t.Errorf("first fetch = %+v", first)
	}

	second, err := f.Fetch(context.Background(), url, "Craft CMS")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !second.Cached || hits != 1 {
		t.Errorf("second fetch Cached = %v, server hits = %d", second.Cached, hits)
	}
}

func TestFetchRemoteRejectsPrivateHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{CacheDir: t.TempDir(), Policy: security.DefaultURLPolicy()})
	if _, err := f.Fetch(context.Background(), srv.URL+"/a.svg", "a"); err == nil {
		t.Error("expected private host rejection")
	}
}

func TestCacheName(t *testing.T) {
	node := CacheName("Node.js", "https://example.org/node.svg?x=1")
	if !strings.HasPrefix(node, "node-js-") || !strings.HasSuffix(node, ".svg") || len(node) != len("node-js-")+8+len(".svg") {
		t.Errorf("CacheName() = %q", node)
	}
	if got := CacheName("Thing", "https://example.org/download"); !strings.HasSuffix(got, ".bin") {
		t.Errorf("CacheName() = %q", got)
	}
	if CacheName("Node.js", "https://example.org/node.svg?x=1") != node {
		t.Error("CacheName() is not stable")
	}
}

func TestFetchRemoteSameSlugDifferentURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{
		CacheDir: t.TempDir(),
		Policy:   security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: true},
	})

	upper, err := f.Fetch(context.Background(), srv.URL+"/upper.svg", "Drupal")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	lower, err := f.Fetch(context.Background(), srv.URL+"/lower.svg", "drupal")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if lower.Cached || string(upper.Data) != "/upper.svg" || string(lower.Data) != "/lower.svg" {
		t.Errorf("fetches collided: %q cached=%v, %q", upper.Data, lower.Cached, lower.Data)
	}
}

func TestDeduper(t *testing.T) {
	d := NewDeduper()
	if err := d.Check([]byte("a"), "one"); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if err := d.Check([]byte("b"), "two"); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	err := d.Check([]byte("a"), "three")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Check() error = %v, want ErrDuplicate", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("hash collision")
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.svg", "a.png", "c.svg.gz", "notes.txt", "d.SVG", "e.tar.gz"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.svg"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"a.png", "b.svg", "c.svg.gz", "d.SVG"}
	if len(files) != len(want) {
		t.Fatalf("Scan() = %v, want %v", files, want)
	}
	for i, name := range want {
		if files[i] != filepath.Join(dir, name) {
			t.Errorf("files[%d] = %s, want %s", i, files[i], name)
		}
	}

	if _, err := Scan(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"dir/logo.svg":   "logo",
		"logo.svg.gz":    "logo",
		"Logo.SVG.XZ":    "Logo",
		"druplicon.png":  "druplicon",
		"archive.tar.gz": "archive.tar",
		"noext":          "noext",
	}
	for in, want := range tests {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
