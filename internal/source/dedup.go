package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDuplicate is returned when content has already been seen in this run.
var ErrDuplicate = errors.New("duplicate content")

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Deduper tracks content hashes seen during a run.
type Deduper struct {
	seen map[string]string
}

// NewDeduper creates an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]string)}
}

// Check records data under name. It returns an error wrapping ErrDuplicate
// naming the first source if identical bytes were already recorded.
func (d *Deduper) Check(data []byte, name string) error {
	h := Hash(data)
	if first, ok := d.seen[h]; ok {
		return fmt.Errorf("%w: %s is identical to %s", ErrDuplicate, name, first)
	}
	d.seen[h] = name
	return nil
}

// Len returns the number of distinct contents seen.
func (d *Deduper) Len() int {
	return len(d.seen)
}
