package wall

import "testing"

func TestCellKeyUnique(t *testing.T) {
	// Pairs that naive encodings (string concat, xor, addition)
	// collapse must stay distinct, including negative indices.
	pairs := [][2]int{
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
		{-1, 1}, {1, -1}, {-1, -1},
		{12, 3}, {1, 23}, {123, 0}, {0, 123},
	}
	seen := make(map[int64][2]int)
	for _, p := range pairs {
		k := cellKey(p[0], p[1])
		if prev, dup := seen[k]; dup {
			t.Errorf("cellKey%v == cellKey%v", p, prev)
		}
		seen[k] = p
	}
}

func TestCellRangeBoundaries(t *testing.T) {
	g := &grid{cellSize: 600}
	tests := []struct {
		name   string
		lo, hi float64
		c0, c1 int
	}{
		{"within one cell", 10, 500, 0, 0},
		{"spans two cells", 500, 700, 0, 1},
		{"ends exactly on boundary", 0, 600, 0, 0},
		{"starts exactly on boundary", 600, 700, 1, 1},
		{"zero extent stays in its cell", 600, 600, 1, 1},
		{"full world", 0, 12000, 0, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c0, c1 := g.cellRange(tt.lo, tt.hi)
			if c0 != tt.c0 || c1 != tt.c1 {
				t.Errorf("cellRange(%v, %v) = (%d, %d), want (%d, %d)", tt.lo, tt.hi, c0, c1, tt.c0, tt.c1)
			}
		})
	}
}

func TestBuildGridRegistersAllCoveredCells(t *testing.T) {
	placed := []PlacedImage{
		{ID: "small", X: 10, Y: 10, Width: 100, Height: 100},      // one cell
		{ID: "wide", X: 0, Y: 700, Width: 1500, Height: 100},      // three cells across
		{ID: "tall", X: 700, Y: 0, Width: 100, Height: 1500},      // three cells down
		{ID: "corner", X: 550, Y: 550, Width: 100, Height: 100},   // four cells
	}
	g := buildGrid(placed, 600)

	wantCells := map[int][]int64{
		0: {cellKey(0, 0)},
		1: {cellKey(0, 1), cellKey(1, 1), cellKey(2, 1)},
		2: {cellKey(1, 0), cellKey(1, 1), cellKey(1, 2)},
		3: {cellKey(0, 0), cellKey(1, 0), cellKey(0, 1), cellKey(1, 1)},
	}
	for idx, keys := range wantCells {
		for _, k := range keys {
			if !containsIndex(g.cells[k], idx) {
				t.Errorf("image %d missing from cell %d", idx, k)
			}
		}
	}

	// A cell holds every image overlapping it.
	if got := len(g.cells[cellKey(1, 1)]); got != 3 {
		t.Errorf("cell (1,1) holds %d images, want 3", got)
	}
}

func containsIndex(indices []int, want int) bool {
	for _, i := range indices {
		if i == want {
			return true
		}
	}
	return false
}
