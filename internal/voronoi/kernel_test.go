package voronoi

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCPUKernelNoSites(t *testing.T) {
	img := solidImage(10, 10, color.NRGBA{255, 0, 0, 255})
	k := NewCPUKernel()
	if _, err := k.Compute(img, nil); err != ErrNoSites {
		t.Errorf("Compute with no sites: err = %v, want %v", err, ErrNoSites)
	}
}

func TestCPUKernelSolidColorTwoSites(t *testing.T) {
	img := solidImage(100, 100, color.NRGBA{10, 20, 30, 255})
	sites := []Position{{25, 50}, {75, 50}}

	k := &CPUKernel{Workers: 1}
	result, err := k.Compute(img, sites)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if result.NumCells() != 2 {
		t.Fatalf("NumCells() = %d, want 2", result.NumCells())
	}

	var total uint32
	for _, a := range result.CellAreas {
		total += a
	}
	if total != 100*100 {
		t.Errorf("total area = %d, want %d", total, 100*100)
	}

	for i, rgb := range result.CellColors {
		if rgb != (RGB{10, 20, 30}) {
			t.Errorf("cell %d color = %+v, want {10,20,30}", i, rgb)
		}
	}

	// left half belongs to site 0, right half to site 1
	leftCell := result.CellOf[50*100+10]
	rightCell := result.CellOf[50*100+90]
	if leftCell != 0 {
		t.Errorf("left pixel cell = %d, want 0", leftCell)
	}
	if rightCell != 1 {
		t.Errorf("right pixel cell = %d, want 1", rightCell)
	}
}

func TestCPUKernelDeterministicAcrossWorkerCounts(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 4), uint8(y * 4), uint8(x + y), 255})
		}
	}

	sites := []Position{
		{5, 5}, {30, 5}, {55, 5},
		{5, 30}, {30, 30}, {55, 30},
		{5, 55}, {30, 55}, {55, 55},
	}

	oneWorker := &CPUKernel{Workers: 1}
	r1, err := oneWorker.Compute(img, sites)
	if err != nil {
		t.Fatalf("Compute(1 worker) error = %v", err)
	}

	manyWorkers := &CPUKernel{Workers: 8}
	r2, err := manyWorkers.Compute(img, sites)
	if err != nil {
		t.Fatalf("Compute(8 workers) error = %v", err)
	}

	if len(r1.CellOf) != len(r2.CellOf) {
		t.Fatalf("CellOf length mismatch: %d vs %d", len(r1.CellOf), len(r2.CellOf))
	}
	for i := range r1.CellOf {
		if r1.CellOf[i] != r2.CellOf[i] {
			t.Fatalf("CellOf[%d] differs across worker counts: %d vs %d", i, r1.CellOf[i], r2.CellOf[i])
		}
	}
	for i := range r1.CellColors {
		if r1.CellColors[i] != r2.CellColors[i] {
			t.Errorf("CellColors[%d] differs across worker counts: %+v vs %+v", i, r1.CellColors[i], r2.CellColors[i])
		}
		if r1.CellAreas[i] != r2.CellAreas[i] {
			t.Errorf("CellAreas[%d] differs across worker counts: %d vs %d", i, r1.CellAreas[i], r2.CellAreas[i])
		}
	}
	if r1.FarthestPoint != r2.FarthestPoint {
		t.Errorf("FarthestPoint differs across worker counts: %+v vs %+v", r1.FarthestPoint, r2.FarthestPoint)
	}
}

func TestCPUKernelZeroDimension(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	k := NewCPUKernel()
	result, err := k.Compute(img, []Position{{0, 0}, {1, 1}})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if result.NumCells() != 2 {
		t.Errorf("NumCells() = %d, want 2", result.NumCells())
	}
	for _, a := range result.CellAreas {
		if a != 0 {
			t.Errorf("zero-dimension image should have zero area cells, got %d", a)
		}
	}
}

func TestCPUKernelEmptyCellGetsGray(t *testing.T) {
	img := solidImage(10, 10, color.NRGBA{0, 0, 0, 255})
	// Three sites stacked at the same spot: two of them can never win a pixel.
	sites := []Position{{5, 5}, {5, 5}, {5, 5}}

	k := &CPUKernel{Workers: 1}
	result, err := k.Compute(img, sites)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if result.CellColors[1] != grayCell || result.CellColors[2] != grayCell {
		t.Errorf("unreachable cells should render gray, got %+v and %+v", result.CellColors[1], result.CellColors[2])
	}
	if result.CellCentroids[1] != sites[1] {
		t.Errorf("empty cell centroid = %+v, want site position %+v", result.CellCentroids[1], sites[1])
	}
}
