package render

import (
	"math"

	"github.com/lixenwraith/cfart/geom"
)

// Viewport maps terminal cells onto the logical play area. Each axis is
// scaled independently so the whole area always fits the screen.
type Viewport struct {
	Cols, Rows    int
	Width, Height float64 // play-area size
}

// NewViewport creates a viewport for a cols x rows screen
func NewViewport(cols, rows int, width, height float64) Viewport {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return Viewport{Cols: cols, Rows: rows, Width: width, Height: height}
}

// CellWidth is the play-area width covered by one column
func (v Viewport) CellWidth() float64 {
	return v.Width / float64(v.Cols)
}

// CellHeight is the play-area height covered by one row
func (v Viewport) CellHeight() float64 {
	return v.Height / float64(v.Rows)
}

// ToWorld returns the play-area point at the center of a cell
func (v Viewport) ToWorld(col, row int) geom.Point {
	return geom.Point{
		X: (float64(col) + 0.5) * v.CellWidth(),
		Y: (float64(row) + 0.5) * v.CellHeight(),
	}
}

// ToCell returns the cell containing p, clamped to the screen
func (v Viewport) ToCell(p geom.Point) (col, row int) {
	col = clamp(int(math.Floor(p.X/v.CellWidth())), 0, v.Cols-1)
	row = clamp(int(math.Floor(p.Y/v.CellHeight())), 0, v.Rows-1)
	return col, row
}

// Resolve converts a clicked cell to a play-area point. A cell is the finest
// input unit, so a click on the cell holding one of anchors lands exactly on
// that anchor; anything else lands on the cell center.
func (v Viewport) Resolve(col, row int, anchors ...geom.Point) geom.Point {
	for _, a := range anchors {
		if c, r := v.ToCell(a); c == col && r == row {
			return a
		}
	}
	return v.ToWorld(col, row)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
