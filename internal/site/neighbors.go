package site

import (
	"math"

	"github.com/voronoimosaic/engine/internal/voronoi"
)

// nearestNeighborDists returns, for each site, the distance to its nearest
// other site, using the same expanding-ring grid search as the pixel
// kernel (see voronoi.GridDims/ForEachRingCell/RingCovers), but at f64
// precision since this never needs to match the pixel kernel bit-for-bit.
func nearestNeighborDists(sites []Site) []float64 {
	n := len(sites)
	dists := make([]float64, n)
	if n <= 1 {
		for i := range dists {
			dists[i] = math.Inf(1)
		}
		return dists
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range sites {
		minX = math.Min(minX, s.Pos.X)
		minY = math.Min(minY, s.Pos.Y)
		maxX = math.Max(maxX, s.Pos.X)
		maxY = math.Max(maxY, s.Pos.Y)
	}
	w := math.Max(maxX-minX, 1.0)
	h := math.Max(maxY-minY, 1.0)

	side, cellW, cellH := voronoi.GridDims(n, w, h)

	cellOf := func(p voronoi.Position) (int, int) {
		col := int((p.X - minX) / cellW)
		row := int((p.Y - minY) / cellH)
		return clampGrid(row, side), clampGrid(col, side)
	}

	cells := make([][]int, side*side)
	rows := make([]int, n)
	cols := make([]int, n)
	for i, s := range sites {
		r, c := cellOf(s.Pos)
		rows[i], cols[i] = r, c
		cells[r*side+c] = append(cells[r*side+c], i)
	}

	for i := 0; i < n; i++ {
		best := math.Inf(1)
		sx, sy := sites[i].Pos.X, sites[i].Pos.Y

		for r := 0; ; r++ {
			voronoi.ForEachRingCell(side, rows[i], cols[i], r, func(ri, ci int) {
				for _, j := range cells[ri*side+ci] {
					if j == i {
						continue
					}
					dx := sx - sites[j].Pos.X
					dy := sy - sites[j].Pos.Y
					d := math.Sqrt(dx*dx + dy*dy)
					if d < best {
						best = d
					}
				}
			})

			minRingDist := 0.0
			if r > 0 {
				minRingDist = float64(r-1) * math.Min(cellW, cellH)
			}
			if minRingDist > best {
				break
			}
			if voronoi.RingCovers(side, rows[i], cols[i], r) {
				break
			}
		}

		dists[i] = best
	}

	return dists
}

func clampGrid(i, side int) int {
	if i < 0 {
		return 0
	}
	if i >= side {
		return side - 1
	}
	return i
}
