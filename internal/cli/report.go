package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spritetint/internal/pipeline"
	"github.com/jmylchreest/spritetint/internal/sprite"
	"github.com/jmylchreest/spritetint/internal/svg"
)

// reasonWidth is where skip reasons wrap in the report.
const reasonWidth = 60

// table renders aligned columns. Columns with a width limit wrap at word
// boundaries.
type table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int
}

func newTable(headers ...string) *table {
	return &table{headers: headers, padding: 2, maxWidths: make(map[int]int)}
}

func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *table) render() string {
	wrapped := make([][][]string, len(t.rows))
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}

	for r, row := range t.rows {
		wrapped[r] = make([][]string, len(row))
		for c, cell := range row {
			lines := []string{cell}
			if limit := t.maxWidths[c]; limit > 0 {
				lines = wrapText(cell, limit)
			}
			wrapped[r][c] = lines
			for _, line := range lines {
				widths[c] = max(widths[c], len(line))
			}
		}
	}

	gap := strings.Repeat(" ", t.padding)
	var b strings.Builder
	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = padRight(cell, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, gap), " "))
		b.WriteString("\n")
	}

	writeLine(t.headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeLine(sep)

	for _, row := range wrapped {
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(cell))
		}
		for l := 0; l < lines; l++ {
			cells := make([]string, len(row))
			for c, cell := range row {
				if l < len(cell) {
					cells[c] = cell[l]
				}
			}
			writeLine(cells)
		}
	}
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// wrapText wraps text to width, breaking at word boundaries and splitting
// words longer than width.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if width <= 0 || len(text) <= width || len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// printReport writes the run summary and, unless quiet, the per-item tables.
func printReport(w io.Writer, res *pipeline.Result, summary string, quiet bool) {
	fmt.Fprintln(w, summary)
	if quiet {
		return
	}

	if res.Manifest.Len() > 0 {
		added := newTable("ID", "SOURCE", "MODE")
		for _, e := range res.Manifest.Entries() {
			added.addRow(e.ID, e.Source, e.Mode)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, added.render())
	}

	if len(res.Skipped) > 0 {
		skipped := newTable("SKIPPED", "REASON")
		skipped.maxWidths[1] = reasonWidth
		for _, s := range res.Skipped {
			skipped.addRow(s.Name, s.Reason)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, skipped.render())
	}
}

// warnContrast logs inks that fall below the graphical contrast minimum.
func warnContrast(logger hclog.Logger, theme sprite.Theme) {
	light, dark := theme.Contrast()
	if light < sprite.MinInkContrast {
		logger.Warn("light ink has low contrast against white", "colour", theme.LightInk, "ratio", fmt.Sprintf("%.2f", light))
	}
	if dark < sprite.MinInkContrast {
		logger.Warn("dark ink has low contrast against black", "colour", theme.DarkInk, "ratio", fmt.Sprintf("%.2f", dark))
	}
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

func formatSize(v float64) string {
	return svg.FormatNumber(v)
}
