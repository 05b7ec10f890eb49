package wall

// cellKey packs two cell indices into a single map key. Local
// coordinates are non-negative, but the encoding stays correct for any
// int32 index via the unsigned low half.
func cellKey(cx, cy int) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}

// grid is a uniform spatial index over the packed tile. Each bucket
// holds indices into the placed slice; an image is registered in every
// cell its bounding box overlaps, so one image can appear in many cells
// and one cell can hold many images.
type grid struct {
	cellSize float64
	cells    map[int64][]int
}

func buildGrid(placed []PlacedImage, cellSize float64) *grid {
	g := &grid{
		cellSize: cellSize,
		cells:    make(map[int64][]int),
	}
	for i, p := range placed {
		x0, x1 := g.cellRange(p.X, p.X+p.Width)
		y0, y1 := g.cellRange(p.Y, p.Y+p.Height)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				k := cellKey(cx, cy)
				g.cells[k] = append(g.cells[k], i)
			}
		}
	}
	return g
}

// cellRange returns the inclusive cell-index range covered by the
// half-open extent [lo, hi). An extent ending exactly on a cell
// boundary does not touch the next cell.
func (g *grid) cellRange(lo, hi float64) (int, int) {
	c0 := int(lo / g.cellSize)
	c1 := int(hi / g.cellSize)
	if float64(c1)*g.cellSize == hi {
		c1--
	}
	if c1 < c0 {
		c1 = c0
	}
	return c0, c1
}

// candidates calls fn with the index of every placed image registered
// in a cell overlapped by r. Indices repeat when an image spans several
// overlapped cells; the caller deduplicates.
func (g *grid) candidates(r Rect, fn func(idx int)) {
	x0, x1 := g.cellRange(r.X0, r.X1)
	y0, y1 := g.cellRange(r.Y0, r.Y1)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, idx := range g.cells[cellKey(cx, cy)] {
				fn(idx)
			}
		}
	}
}
