package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/kelindar/bench"

	"github.com/voronoimosaic/engine/internal/site"
	"github.com/voronoimosaic/engine/internal/voronoi"
)

func main() {
	bench.Run(func(b *bench.B) {
		runCompute(b)
		runStep(b)
		runAdjustCount(b)
	}, bench.WithDuration(10*time.Millisecond), bench.WithSamples(100))
}

func runCompute(b *bench.B) {
	sizes := []int{256, 512, 1024}
	siteCounts := []int{16, 64, 256}

	for _, dim := range sizes {
		img := gradientImage(dim, dim)
		for _, n := range siteCounts {
			sites := site.Random(n, float64(dim), float64(dim), 1).Positions()
			kernel := voronoi.NewCPUKernel()

			name := fmt.Sprintf("compute %dx%d/%d sites", dim, dim, n)
			b.Run(name, func(i int) {
				_, _ = kernel.Compute(img, sites)
			})
		}
	}
}

func runStep(b *bench.B) {
	counts := []int{16, 256, 4096}
	for _, n := range counts {
		coll := site.Random(n, 1920, 1080, 2)
		name := fmt.Sprintf("step %d sites", n)
		b.Run(name, func(i int) {
			coll.Step(200, 1.0/60.0, 1920, 1080, nil, 0)
		})
	}
}

func runAdjustCount(b *bench.B) {
	counts := []int{16, 256, 4096}
	for _, n := range counts {
		coll := site.Random(n, 1920, 1080, 3)
		areas := make([]uint32, n)
		for i := range areas {
			areas[i] = uint32(i + 1)
		}

		name := fmt.Sprintf("adjust-count %d sites", n)
		b.Run(name, func(i int) {
			target := n + 1
			if i%2 == 1 {
				target = n
			}
			coll.AdjustCount(target, 2.0, 1.0/60.0, areas, site.SplitStrategy{Kind: site.StrategyMax}, nil, nil, 1920*1080)
		})
	}
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}
