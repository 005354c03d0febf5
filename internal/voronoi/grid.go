package voronoi

import "math"

// GridDims computes the spatial-grid side length and cell size for n points
// spread over a width x height area: s = ceil(sqrt(n)), cell size =
// (width/s, height/s).
func GridDims(n int, width, height float64) (side int, cellW, cellH float64) {
	side = int(math.Ceil(math.Sqrt(float64(n))))
	if side < 1 {
		side = 1
	}
	cellW = width / float64(side)
	cellH = height / float64(side)
	return side, cellW, cellH
}

// clampIndex clamps a grid coordinate into [0, side-1].
func clampIndex(i, side int) int {
	if i < 0 {
		return 0
	}
	if i >= side {
		return side - 1
	}
	return i
}

// ForEachRingCell visits every grid cell on the square ring of radius r
// around (gr, gc) in an s x s grid: for r == 0 that is just (gr, gc)
// itself; for r > 0 it is the boundary of the (2r+1) x (2r+1) box, with
// the interior already covered by smaller rings skipped. Cells outside
// [0, s) are silently skipped (no wraparound).
func ForEachRingCell(s, gr, gc, r int, visit func(ri, ci int)) {
	rStart, rEnd := gr-r, gr+r+1
	cStart, cEnd := gc-r, gc+r+1

	for ri := rStart; ri < rEnd; ri++ {
		if ri < 0 || ri >= s {
			continue
		}
		riInterior := r > 0 && ri > rStart && ri < rEnd-1
		for ci := cStart; ci < cEnd; ci++ {
			if ci < 0 || ci >= s {
				continue
			}
			ciInterior := ci > cStart && ci < cEnd-1
			if riInterior && ciInterior {
				continue
			}
			visit(ri, ci)
		}
	}
}

// RingCovers reports whether a ring of radius r around (gr, gc) in an
// s x s grid already encloses the entire grid, i.e. further rings would
// visit no new cells.
func RingCovers(s, gr, gc, r int) bool {
	return gr-r <= 0 && gr+r >= s-1 && gc-r <= 0 && gc+r >= s-1
}

// pixelGrid bins site positions into an s x s grid over the image bounds,
// for nearest-site queries during kernel computation.
type pixelGrid struct {
	side         int
	cellW, cellH float64
	cells        [][]int32
	sites        []Position
}

// buildPixelGrid constructs the grid for the given sites over a
// width x height image.
func buildPixelGrid(sites []Position, width, height float64) *pixelGrid {
	side, cellW, cellH := GridDims(len(sites), width, height)
	g := &pixelGrid{
		side:  side,
		cellW: cellW,
		cellH: cellH,
		cells: make([][]int32, side*side),
		sites: sites,
	}
	for i, s := range sites {
		col := clampIndex(int(s.X/cellW), side)
		row := clampIndex(int(s.Y/cellH), side)
		idx := row*side + col
		g.cells[idx] = append(g.cells[idx], int32(i))
	}
	return g
}

// nearest finds the nearest site to the pixel center (px, py), returning
// its index and the squared distance in single precision. Ties resolve to
// the lower-indexed site: a candidate replaces the best only when strictly
// closer, or equally close with a lower index.
func (g *pixelGrid) nearest(px, py float64) (int32, float32) {
	col := clampIndex(int(px/g.cellW), g.side)
	row := clampIndex(int(py/g.cellH), g.side)

	fpx, fpy := float32(px), float32(py)
	cellW32, cellH32 := float32(g.cellW), float32(g.cellH)

	ox := fpx - float32(col)*cellW32
	oy := fpy - float32(row)*cellH32

	var best int32 = -1
	var bestDistSq float32

	for r := 0; ; r++ {
		ForEachRingCell(g.side, row, col, r, func(ri, ci int) {
			for _, idx := range g.cells[ri*g.side+ci] {
				s := g.sites[idx]
				dx := fpx - float32(s.X)
				dy := fpy - float32(s.Y)
				d := dx*dx + dy*dy
				if best == -1 || d < bestDistSq || (d == bestDistSq && idx < best) {
					bestDistSq = d
					best = idx
				}
			}
		})

		if best != -1 {
			minUnchecked := min32(
				ox+float32(r)*cellW32,
				cellW32*float32(r+1)-ox,
				oy+float32(r)*cellH32,
				cellH32*float32(r+1)-oy,
			)
			if minUnchecked*minUnchecked > bestDistSq {
				break
			}
		}
		if RingCovers(g.side, row, col, r) {
			break
		}
	}

	return best, bestDistSq
}

func min32(vals ...float32) float32 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
