package voronoi

import "testing"

func TestGridDims(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		w, h       float64
		wantSide   int
	}{
		{"single site", 1, 100, 100, 1},
		{"four sites", 4, 100, 100, 2},
		{"five sites", 5, 100, 100, 3},
		{"zero sites floors to one", 0, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, cellW, cellH := GridDims(tt.n, tt.w, tt.h)
			if side != tt.wantSide {
				t.Errorf("side = %d, want %d", side, tt.wantSide)
			}
			if cellW != tt.w/float64(side) || cellH != tt.h/float64(side) {
				t.Errorf("cell size = (%v,%v), want (%v,%v)", cellW, cellH, tt.w/float64(side), tt.h/float64(side))
			}
		})
	}
}

func TestForEachRingCellRadiusZero(t *testing.T) {
	var visited []int
	ForEachRingCell(5, 2, 2, 0, func(ri, ci int) {
		visited = append(visited, ri*5+ci)
	})
	if len(visited) != 1 || visited[0] != 2*5+2 {
		t.Errorf("ring 0 should visit only the center cell, got %v", visited)
	}
}

func TestForEachRingCellSkipsInterior(t *testing.T) {
	var visited []int
	ForEachRingCell(7, 3, 3, 1, func(ri, ci int) {
		visited = append(visited, ri*7+ci)
	})
	// radius 1 ring around (3,3) is the boundary of a 3x3 box: 8 cells.
	if len(visited) != 8 {
		t.Errorf("ring 1 should visit 8 boundary cells, got %d: %v", len(visited), visited)
	}
	for _, v := range visited {
		if v == 3*7+3 {
			t.Errorf("ring 1 should not revisit the interior center cell")
		}
	}
}

func TestForEachRingCellClipsAtEdge(t *testing.T) {
	var visited []int
	ForEachRingCell(3, 0, 0, 1, func(ri, ci int) {
		visited = append(visited, ri*3+ci)
	})
	// corner cell's radius-1 ring only has 3 valid in-bounds neighbors.
	if len(visited) != 3 {
		t.Errorf("corner ring 1 should visit 3 cells, got %d: %v", len(visited), visited)
	}
}

func TestRingCovers(t *testing.T) {
	if RingCovers(5, 2, 2, 1) {
		t.Error("radius 1 should not cover a 5x5 grid from center")
	}
	if !RingCovers(5, 2, 2, 4) {
		t.Error("radius 4 should cover a 5x5 grid from center")
	}
	if !RingCovers(1, 0, 0, 0) {
		t.Error("a 1x1 grid is covered at radius 0")
	}
}

func TestPixelGridNearestTwoSites(t *testing.T) {
	sites := []Position{{25, 50}, {75, 50}}
	g := buildPixelGrid(sites, 100, 100)

	idx, _ := g.nearest(10, 50)
	if idx != 0 {
		t.Errorf("point near site 0 resolved to %d", idx)
	}

	idx, _ = g.nearest(90, 50)
	if idx != 1 {
		t.Errorf("point near site 1 resolved to %d", idx)
	}
}

func TestPixelGridNearestTieBreaksLowIndex(t *testing.T) {
	sites := []Position{{40, 50}, {60, 50}}
	g := buildPixelGrid(sites, 100, 100)

	// Exact midpoint is equidistant: the lower index must win.
	idx, _ := g.nearest(50, 50)
	if idx != 0 {
		t.Errorf("equidistant tie resolved to %d, want 0 (lower index)", idx)
	}
}

func TestPixelGridNearestManySites(t *testing.T) {
	sites := make([]Position, 0, 50)
	for i := 0; i < 50; i++ {
		sites = append(sites, Position{X: float64(i%10) * 10, Y: float64(i/10) * 10})
	}
	g := buildPixelGrid(sites, 100, 100)

	// brute force check against a handful of query points
	queries := []Position{{3, 3}, {91, 91}, {47, 22}, {0, 0}, {99, 0}}
	for _, q := range queries {
		gotIdx, gotDistSq := g.nearest(q.X, q.Y)

		var wantIdx int32 = -1
		var wantDistSq float32
		for i, s := range sites {
			dx := float32(q.X) - float32(s.X)
			dy := float32(q.Y) - float32(s.Y)
			d := dx*dx + dy*dy
			if wantIdx == -1 || d < wantDistSq {
				wantDistSq = d
				wantIdx = int32(i)
			}
		}

		if gotIdx != wantIdx {
			t.Errorf("query %+v: got site %d, want %d", q, gotIdx, wantIdx)
		}
		if gotDistSq != wantDistSq {
			t.Errorf("query %+v: got distSq %v, want %v", q, gotDistSq, wantDistSq)
		}
	}
}

func TestMin32(t *testing.T) {
	if got := min32(3, 1, 2); got != 1 {
		t.Errorf("min32(3,1,2) = %v, want 1", got)
	}
	if got := min32(5); got != 5 {
		t.Errorf("min32(5) = %v, want 5", got)
	}
}
