package tui

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"touchpitch/sim"
)

// hudRows is the number of status rows above the field
const hudRows = 1

// Layout maps terminal cells to the field. The field fills every row below
// the HUD; each cell counts as one pixel of the pointer viewport.
type Layout struct {
	Cols, Rows int
}

// FieldRows returns the number of rows the field occupies
func (l Layout) FieldRows() int {
	return max(0, l.Rows-hudRows)
}

// CellToPointer converts a mouse cell into a pointer sample aimed at the
// cell's center. A click on the HUD row maps above the field and is clamped
// by the simulation like any out-of-range pointer.
func (l Layout) CellToPointer(x, y int, active bool) sim.Pointer {
	return sim.Pointer{
		Active:    active,
		X:         float64(x) + 0.5,
		Y:         float64(y-hudRows) + 0.5,
		ViewportW: l.Cols,
		ViewportH: l.FieldRows(),
	}
}

// FieldToCell returns the cell showing a field position, clamped to the field area
func (l Layout) FieldToCell(cfg sim.Config, pos mgl64.Vec3) (int, int) {
	sx, sy := cfg.FieldToScreen(pos, l.Cols, l.FieldRows())
	x := int(math.Floor(sx))
	y := int(math.Floor(sy))
	x = max(0, min(x, l.Cols-1))
	y = max(0, min(y, l.FieldRows()-1))
	return x, y + hudRows
}
