// Package zone classifies pitch locations against a fixed 3x3 strike-zone grid.
package zone

import "github.com/pable/go-pitch-metrics/internal/model"

// Grid geometry in inches. X is measured from the center of the plate, Y is
// height above the ground.
const (
	MinX       = -8.5
	MaxX       = 8.5
	MinY       = 18.0
	MaxY       = 42.0
	CellWidth  = 5.667
	CellHeight = 8.0
)

// Cell is one rectangular zone; bounds are inclusive on both ends.
type Cell struct {
	ID                     int
	MinX, MaxX, MinY, MaxY float64
}

func (c Cell) contains(x, y float64) bool {
	return x >= c.MinX && x <= c.MaxX && y >= c.MinY && y <= c.MaxY
}

// Cells are numbered 1-9 from the top row, left to right.
var Cells = buildCells()

func buildCells() [9]Cell {
	var cells [9]Cell
	for row := 0; row < 3; row++ {
		top := MaxY - float64(row)*CellHeight
		for col := 0; col < 3; col++ {
			left := MinX + float64(col)*CellWidth
			i := row*3 + col
			cells[i] = Cell{
				ID:   i + 1,
				MinX: left,
				MaxX: left + CellWidth,
				MinY: top - CellHeight,
				MaxY: top,
			}
		}
	}
	return cells
}

// Classify returns the id of the first cell containing (x, y), or 0 and false
// when the point is outside the grid. A point on a shared edge goes to the
// lower-numbered cell.
func Classify(x, y float64) (int, bool) {
	for _, c := range Cells {
		if c.contains(x, y) {
			return c.ID, true
		}
	}
	return 0, false
}

// InZone reports whether a location is present and inside the grid.
func InZone(loc *model.Location) bool {
	if loc == nil {
		return false
	}
	_, ok := Classify(loc.X, loc.Y)
	return ok
}
