package sprite

import (
	"bufio"
	"fmt"
	"io"
)

// ManifestEntry records how one input was handled.
type ManifestEntry struct {
	ID     string
	Source string
	Mode   string
}

// String formats the entry as "{id}: {source} ({mode})".
func (e ManifestEntry) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.ID, e.Source, e.Mode)
}

// Manifest is the append-only list of entries for one run.
type Manifest struct {
	entries []ManifestEntry
}

// Append adds an entry.
func (m *Manifest) Append(e ManifestEntry) {
	m.entries = append(m.entries, e)
}

// Entries returns the recorded entries.
func (m *Manifest) Entries() []ManifestEntry {
	return m.entries
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// WriteTo writes one entry per line.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, e := range m.entries {
		written, err := fmt.Fprintln(bw, e.String())
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
