package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/voronoimosaic/engine/internal/site"
	"github.com/voronoimosaic/engine/internal/voronoi"
)

var (
	refPath      string
	outDir       string
	backend      string
	seed         int64
	initialSites int
	targetSites  int
	doublingTime float64
	frames       int
	fps          float64
	speed        float64
	splitStrat   string
	centroidPull float64
	cpuProfile   string
	memProfile   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a Voronoi mosaic animation from a reference image",
	Long: `render loads a reference image, seeds a population of moving Voronoi
sites over it, and writes one PNG per simulated frame: each cell rendered
in the average color of the source pixels it currently covers.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&refPath, "ref", "", "Reference image path (required)")
	renderCmd.Flags().StringVar(&outDir, "out", "frames", "Output directory for rendered frames")
	renderCmd.Flags().StringVar(&backend, "backend", "cpu", "Compute backend: cpu, gpu")
	renderCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")

	renderCmd.Flags().IntVar(&initialSites, "initial-sites", 8, "Starting number of sites")
	renderCmd.Flags().IntVar(&targetSites, "target-sites", 200, "Site count the population grows/shrinks toward")
	renderCmd.Flags().Float64Var(&doublingTime, "doubling-time", 2.0, "Seconds for the site count to double (<=0 disables growth)")
	renderCmd.Flags().StringVar(&splitStrat, "split-strategy", "weighted", "Split/spawn strategy: max, weighted, isolated, centroid, farthest, poisson[(k,lambda)]")

	renderCmd.Flags().IntVar(&frames, "frames", 120, "Number of frames to render")
	renderCmd.Flags().Float64Var(&fps, "fps", 30, "Simulated frames per second")
	renderCmd.Flags().Float64Var(&speed, "speed", 40, "Site movement speed, pixels/sec")
	renderCmd.Flags().Float64Var(&centroidPull, "centroid-pull", 0, "Continuous Lloyd-relaxation steering strength (0 disables)")

	renderCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	renderCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")

	renderCmd.MarkFlagRequired("ref")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", cpuProfile)
	}

	strategy, err := site.ParseSplitStrategy(splitStrat)
	if err != nil {
		return err
	}

	ref, err := loadReference(refPath)
	if err != nil {
		return err
	}
	bounds := ref.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	kernel, cleanup, err := voronoi.NewKernel(backend)
	if err != nil {
		return fmt.Errorf("failed to select backend: %w", err)
	}
	defer cleanup()

	collection := site.Random(initialSites, width, height, uint64(seed))

	slog.Info("starting render",
		"ref", refPath,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"backend", backend,
		"initial_sites", initialSites,
		"target_sites", targetSites,
		"frames", frames,
		"strategy", strategy.String(),
	)

	dt := 1.0 / fps
	start := time.Now()

	for frame := 0; frame < frames; frame++ {
		result, err := kernel.Compute(ref, collection.Positions())
		if err != nil {
			return fmt.Errorf("compute failed at frame %d: %w", frame, err)
		}

		if err := writeFrame(outDir, frame, result); err != nil {
			return fmt.Errorf("write failed at frame %d: %w", frame, err)
		}

		farthest := result.FarthestPoint
		collection.AdjustCount(targetSites, doublingTime, dt, result.CellAreas, strategy, result.CellCentroids, &farthest, width*height)
		collection.Step(speed, dt, width, height, result.CellCentroids, centroidPull)

		if frame%30 == 0 {
			slog.Debug("frame rendered", "frame", frame, "sites", collection.Len())
		}
	}

	elapsed := time.Since(start)
	slog.Info("render complete",
		"frames", frames,
		"elapsed", elapsed,
		"frames_per_sec", fmt.Sprintf("%.1f", float64(frames)/elapsed.Seconds()),
		"final_sites", collection.Len(),
	)
	fmt.Printf("Wrote %d frames to %s (%s, final site count %d)\n", frames, outDir, elapsed, collection.Len())

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		slog.Info("memory profile written", "output", memProfile)
	}

	return nil
}

func loadReference(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	ref := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ref.Set(x, y, img.At(x, y))
		}
	}
	return ref, nil
}

func writeFrame(dir string, frame int, result *voronoi.Result) error {
	path := fmt.Sprintf("%s/frame_%05d.png", dir, frame)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, result.Render())
}
