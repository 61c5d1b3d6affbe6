package svg

import "testing"

func TestParseStyle(t *testing.T) {
	st := ParseStyle(" FILL : #fff ;stroke-width:2;; bogus ;stroke:url(data:x)")

	if st.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", st.Len())
	}
	if v, ok := st.Get("fill"); !ok || v != "#fff" {
		t.Errorf("fill = %q, %v", v, ok)
	}
	if v, _ := st.Get("stroke"); v != "url(data:x)" {
		t.Errorf("stroke = %q", v)
	}
}

func TestStyleSetRemove(t *testing.T) {
	tests := []struct {
		name string
		in   string
		edit func(*Style)
		want string
	}{
		{
			name: "replace in place",
			in:   "fill:#000;stroke:#fff",
			edit: func(s *Style) { s.Set("fill", "currentColor") },
			want: "fill:currentColor;stroke:#fff",
		},
		{
			name: "append missing",
			in:   "fill:#000",
			edit: func(s *Style) { s.Set("fill-opacity", "0.7") },
			want: "fill:#000;fill-opacity:0.7",
		},
		{
			name: "collapse duplicates",
			in:   "fill:#000;fill:#111;stroke:none",
			edit: func(s *Style) { s.Set("fill", "currentColor") },
			want: "fill:currentColor;stroke:none",
		},
		{
			name: "remove",
			in:   "fill:#000;fill-opacity:0.3;stroke:none",
			edit: func(s *Style) { s.Remove("fill-opacity") },
			want: "fill:#000;stroke:none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ParseStyle(tt.in)
			tt.edit(st)
			if got := st.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleGetLastWins(t *testing.T) {
	st := ParseStyle("fill:#000;fill:#111")
	if v, _ := st.Get("fill"); v != "#111" {
		t.Errorf("Get() = %q, want #111", v)
	}
}
