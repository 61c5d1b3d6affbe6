package sprite

import (
	"regexp"
	"strconv"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// Slug converts a display name into an identifier safe for XML ids and CSS.
func Slug(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item"
	}
	return s
}

// IDSet hands out unique identifiers.
type IDSet struct {
	seen map[string]bool
}

// NewIDSet creates an empty IDSet.
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[string]bool)}
}

// Claim returns base, or base with a numeric suffix if base is taken.
func (s *IDSet) Claim(base string) string {
	if base == "" {
		base = "item"
	}
	id := base
	for n := 2; s.seen[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	s.seen[id] = true
	return id
}
