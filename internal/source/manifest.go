// Package source loads the inputs of a sprite run: the source manifest,
// remote and local fetches, directory scans and content deduplication.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one logo listed in a source manifest.
type Entry struct {
	// Category is the manifest group the entry was listed under.
	Category    string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// URL is an http(s) URL or a path relative to the manifest.
	URL string `json:"url"`
	// Shades overrides the shade count for this entry; zero means unset.
	Shades int `json:"shades,omitempty"`
}

// Validate checks that the entry can be fetched.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("entry has no name")
	}
	if e.URL == "" {
		return fmt.Errorf("entry %q has no url", e.Name)
	}
	if e.Shades < 0 || e.Shades > 3 {
		return fmt.Errorf("entry %q: shades must be between 1 and 3, got %d", e.Name, e.Shades)
	}
	return nil
}

// Category is a named, ordered group of entries.
type Category struct {
	Name    string
	Entries []Entry
}

// Manifest is a parsed source manifest. Category order follows the file.
type Manifest struct {
	Categories []Category
	// Dir is the directory local entry paths are resolved against.
	Dir string
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified manifest path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read source manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// ParseManifest parses manifest JSON of the form
// {"category": [{"name", "description", "url", "shades"}]}.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalJSON decodes the category object while keeping key order.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid source manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("invalid source manifest: expected an object of categories")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid source manifest: %w", err)
		}
		name, _ := tok.(string)

		var entries []Entry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("invalid category %q: %w", name, err)
		}
		for i := range entries {
			entries[i].Category = name
		}
		m.Categories = append(m.Categories, Category{Name: name, Entries: entries})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid source manifest: %w", err)
	}
	return nil
}

// Entries returns every entry in manifest order.
func (m *Manifest) Entries() []Entry {
	var out []Entry
	for _, c := range m.Categories {
		out = append(out, c.Entries...)
	}
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Entries)
	}
	return n
}
