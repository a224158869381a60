package simulation

import (
	"math"

	"github.com/paulmach/orb"
)

type gridKey struct {
	x, y int
}

// spatialGrid buckets agents by the cell holding their center.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]*Agent
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	// Clamp to a minimum of 10 to avoid tiny grids or div by zero
	return &spatialGrid{
		cellSize: math.Max(cellSize, 10.0),
		cells:    make(map[gridKey][]*Agent),
	}
}

func (g *spatialGrid) rebuild(agents []*Agent) {
	// reset slices to length 0 but keep capacity, so steady state stepping
	// reuses the same backing arrays. Cells left empty by the previous
	// rebuild are dropped, cars keep moving up an endless road.
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = bucket[:0]
	}
	for _, a := range agents {
		key := g.cellOf(a.Body.X, a.Body.Y)
		g.cells[key] = append(g.cells[key], a)
	}
}

func (g *spatialGrid) cellOf(x, y float64) gridKey {
	return gridKey{
		x: int(math.Floor(x / g.cellSize)),
		y: int(math.Floor(y / g.cellSize)),
	}
}

// visit calls fn for every agent whose center lies in a cell overlapping b.
func (g *spatialGrid) visit(b orb.Bound, fn func(*Agent)) {
	lo := g.cellOf(b.Min[0], b.Min[1])
	hi := g.cellOf(b.Max[0], b.Max[1])
	for gx := lo.x; gx <= hi.x; gx++ {
		for gy := lo.y; gy <= hi.y; gy++ {
			for _, a := range g.cells[gridKey{x: gx, y: gy}] {
				fn(a)
			}
		}
	}
}
