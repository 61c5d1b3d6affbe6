package sprite

import "fmt"

// Grid describes the fixed cell layout of a sheet.
type Grid struct {
	// Cell is the spacing between item origins, horizontally and vertically.
	Cell float64
	// Margin is the offset of the first item from the top-left corner.
	Margin float64
	// WrapAt starts a new row once the running x offset exceeds it.
	WrapAt float64
}

// Validate checks the grid dimensions.
func (g Grid) Validate() error {
	if g.Cell <= 0 {
		return fmt.Errorf("cell size must be positive, got %v", g.Cell)
	}
	if g.Margin < 0 {
		return fmt.Errorf("margin cannot be negative, got %v", g.Margin)
	}
	if g.WrapAt < g.Margin {
		return fmt.Errorf("wrap width %v is smaller than the margin %v", g.WrapAt, g.Margin)
	}
	return nil
}

// Cursor is the running placement position on a sheet.
// It is a value: Place returns the next cursor rather than mutating.
type Cursor struct {
	X, Y float64
	// RowItems counts items placed on the current row.
	RowItems int
	// Rows counts rows that hold at least one item.
	Rows int
}

// Start returns the cursor for an empty sheet.
func (g Grid) Start() Cursor {
	return Cursor{X: g.Margin, Y: g.Margin}
}

// Place returns the position for the next item and the cursor after it.
func (c Cursor) Place(g Grid) (x, y float64, next Cursor) {
	x, y = c.X, c.Y

	next = c
	if next.RowItems == 0 {
		next.Rows++
	}
	next.X += g.Cell
	next.RowItems++

	if next.X > g.WrapAt {
		next.X = g.Margin
		next.Y += g.Cell
		next.RowItems = 0
	}
	return x, y, next
}

// Height returns the sheet height implied by the cursor: rows that hold
// items are given a full cell.
func (c Cursor) Height(g Grid) float64 {
	if c.RowItems > 0 {
		return c.Y + g.Cell
	}
	return c.Y
}
