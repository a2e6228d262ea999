package sim

import "slices"

// Cell holds the roster indices whose centers fall inside one grid square.
type Cell struct {
	Players []PlayerID
}

// Clear empties the cell but keeps its capacity.
func (c *Cell) Clear() {
	c.Players = c.Players[:0]
}

// Grid is a uniform broad phase over the playable area. Players are stored
// only in the cell holding their center, so queries scan the 3x3 neighborhood.
// Cells must be at least one player size wide for that to find every overlap.
type Grid struct {
	cells    [][]Cell
	cellSize float64
	minX     float64
	minZ     float64
	countX   int
	countZ   int
	where    [][2]int
	found    []PlayerID
}

// NewGrid preallocates the cells covering the playable area of cfg.
func NewGrid(cfg Config, cellSize float64) *Grid {
	hw, hh := cfg.HalfExtents()
	countX := max(1, int(2*hw/cellSize)+1)
	countZ := max(1, int(2*hh/cellSize)+1)

	cells := make([][]Cell, countX)
	for x := range cells {
		cells[x] = make([]Cell, countZ)
	}

	return &Grid{
		cells:    cells,
		cellSize: cellSize,
		minX:     -hw,
		minZ:     -hh,
		countX:   countX,
		countZ:   countZ,
	}
}

// FieldToCell converts field coordinates to cell coordinates, clamped to the grid.
func (g *Grid) FieldToCell(x, z float64) (int, int) {
	cx := int((x - g.minX) / g.cellSize)
	cz := int((z - g.minZ) / g.cellSize)
	cx = max(0, min(cx, g.countX-1))
	cz = max(0, min(cz, g.countZ-1))
	return cx, cz
}

// Rebuild reassigns every player to the cell holding its center.
func (g *Grid) Rebuild(players []Player) {
	for x := range g.cells {
		for z := range g.cells[x] {
			g.cells[x][z].Clear()
		}
	}
	g.where = slices.Grow(g.where[:0], len(players))[:len(players)]
	for i := range players {
		cx, cz := g.FieldToCell(players[i].Position.X(), players[i].Position.Z())
		g.cells[cx][cz].Players = append(g.cells[cx][cz].Players, PlayerID(i))
		g.where[i] = [2]int{cx, cz}
	}
}

// Move refreshes the cell of a player after its position changed, so later
// queries in the same pass see where it ended up.
func (g *Grid) Move(id PlayerID, p Player) {
	cx, cz := g.FieldToCell(p.Position.X(), p.Position.Z())
	old := g.where[id]
	if old == [2]int{cx, cz} {
		return
	}
	cell := &g.cells[old[0]][old[1]]
	if k := slices.Index(cell.Players, id); k >= 0 {
		cell.Players = slices.Delete(cell.Players, k, k+1)
	}
	g.cells[cx][cz].Players = append(g.cells[cx][cz].Players, id)
	g.where[id] = [2]int{cx, cz}
}

// Neighbors returns the players above after in the 3x3 neighborhood of the
// cell at (x, z), in ascending order. The slice is reused by the next call.
func (g *Grid) Neighbors(x, z float64, after PlayerID) []PlayerID {
	g.found = g.found[:0]
	cx, cz := g.FieldToCell(x, z)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			nx, nz := cx+dx, cz+dz
			if nx < 0 || nx >= g.countX || nz < 0 || nz >= g.countZ {
				continue
			}
			for _, j := range g.cells[nx][nz].Players {
				if j > after {
					g.found = append(g.found, j)
				}
			}
		}
	}
	slices.Sort(g.found)
	return g.found
}
