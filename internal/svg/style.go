package svg

import (
	"strings"
)

// Declaration is one property:value pair of an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// Style is an ordered list of inline style declarations.
// Only the flat property:value form of the style attribute is understood.
type Style struct {
	decls []Declaration
}

// ParseStyle parses the value of a style attribute.
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		st.decls = append(st.decls, Declaration{Property: prop, Value: strings.TrimSpace(value)})
	}
	return st
}

// Get returns the last value declared for prop.
func (s *Style) Get(prop string) (string, bool) {
	for i := len(s.decls) - 1; i >= 0; i-- {
		if s.decls[i].Property == prop {
			return s.decls[i].Value, true
		}
	}
	return "", false
}

// Set replaces every declaration of prop with a single one, appending if absent.
func (s *Style) Set(prop, value string) {
	found := false
	kept := s.decls[:0]
	for _, d := range s.decls {
		if d.Property != prop {
			kept = append(kept, d)
			continue
		}
		if !found {
			kept = append(kept, Declaration{Property: prop, Value: value})
			found = true
		}
	}
	s.decls = kept
	if !found {
		s.decls = append(s.decls, Declaration{Property: prop, Value: value})
	}
}

// Remove deletes all declarations of prop.
func (s *Style) Remove(prop string) {
	kept := s.decls[:0]
	for _, d := range s.decls {
		if d.Property != prop {
			kept = append(kept, d)
		}
	}
	s.decls = kept
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	return len(s.decls)
}

// String renders the declarations back into attribute form.
func (s *Style) String() string {
	parts := make([]string, len(s.decls))
	for i, d := range s.decls {
		parts[i] = d.Property + ":" + d.Value
	}
	return strings.Join(parts, ";")
}
