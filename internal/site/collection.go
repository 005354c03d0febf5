package site

import (
	"math"
	"math/rand/v2"

	"github.com/kelindar/bitmap"

	"github.com/voronoimosaic/engine/internal/voronoi"
)

// Collection owns a set of sites plus the seeded RNG that drives their
// random behavior (initial placement, steering noise, split angles, and
// random split-source and removal choices), so that an entire animation run is reproducible
// from its seed alone.
type Collection struct {
	Sites []Site

	// OU parameterizes every site's heading-steering process; defaults to
	// DefaultOUParams() but can be overridden before the first Step.
	OU OUParams

	// fractionalSites accumulates the exponential growth/decay target
	// between whole-site adjustments (see AdjustCount).
	fractionalSites float64

	rng *rand.Rand
}

// NewCollection wraps an existing slice of sites with a seeded RNG.
func NewCollection(sites []Site, seed uint64) *Collection {
	return &Collection{Sites: sites, OU: DefaultOUParams(), rng: newSeededRand(seed)}
}

// Random builds a collection of count sites at uniformly random positions
// within [0,width) x [0,height), each with a random initial heading.
func Random(count int, width, height float64, seed uint64) *Collection {
	rng := newSeededRand(seed)
	sites := make([]Site, count)
	for i := range sites {
		pos := voronoi.Position{X: rng.Float64() * width, Y: rng.Float64() * height}
		sites[i] = NewSiteRandomVelocity(pos, rng)
	}
	return &Collection{Sites: sites, OU: DefaultOUParams(), rng: rng}
}

// newSeededRand builds a ChaCha8-backed RNG from a 64-bit seed: the seed
// fills the low 8 bytes of the 256-bit ChaCha8 key and the rest are zeroed,
// so the same seed always reproduces the same stream.
func newSeededRand(seed uint64) *rand.Rand {
	var key [32]byte
	for i := 0; i < 8; i++ {
		key[i] = byte(seed >> (8 * i))
	}
	return rand.New(rand.NewChaCha8(key))
}

// Len reports the current site count.
func (c *Collection) Len() int { return len(c.Sites) }

// IsEmpty reports whether the collection has no sites.
func (c *Collection) IsEmpty() bool { return len(c.Sites) == 0 }

// Positions returns the current position of every site, in site order, for
// handing to the Voronoi kernel.
func (c *Collection) Positions() []voronoi.Position {
	out := make([]voronoi.Position, len(c.Sites))
	for i, s := range c.Sites {
		out[i] = s.Pos
	}
	return out
}

// AverageVelocity returns the mean speed-scaled velocity across all sites,
// useful for detecting net drift.
func (c *Collection) AverageVelocity() (float64, float64) {
	if len(c.Sites) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, s := range c.Sites {
		sx += s.Vel.X * s.SpeedMult
		sy += s.Vel.Y * s.SpeedMult
	}
	n := float64(len(c.Sites))
	return sx / n, sy / n
}

// Step advances every site by one tick. When centroidPull > 0 and
// centroids is non-nil, each site's heading is first blended toward its
// cell's centroid (continuous Lloyd relaxation) before the usual
// OU-steered movement and edge bounce.
func (c *Collection) Step(speed, dt, width, height float64, centroids []voronoi.Position, centroidPull float64) {
	if centroidPull > 0 && centroids != nil {
		n := len(c.Sites)
		if len(centroids) < n {
			n = len(centroids)
		}
		for i := 0; i < n; i++ {
			steerTowardCentroid(&c.Sites[i], centroids[i], centroidPull, dt)
		}
	}

	for i := range c.Sites {
		c.Sites[i].Step(speed, dt, width, height, c.OU, c.rng)
	}
}

func steerTowardCentroid(s *Site, centroid voronoi.Position, centroidPull, dt float64) {
	dx := centroid.X - s.Pos.X
	dy := centroid.Y - s.Pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= 0.5 {
		return
	}

	targetAngle := math.Atan2(dy, dx)
	currentAngle := s.Vel.Angle()
	delta := voronoi.NormalizeAngle(targetAngle - currentAngle)
	steer := delta * centroidPull * dt
	s.Vel = voronoi.VelocityFromAngle(currentAngle + steer)
}

// AdjustCount gradually grows or shrinks the population toward target using
// exponential growth with the given doubling time, driven by a fractional
// accumulator so that fast and slow frame rates reach the same target at
// the same wall-clock rate. cellAreas and centroids come from the most
// recent Compute result and farthestPoint from its Result.FarthestPoint;
// imgArea is the image's pixel area, used to derive the Poisson density
// threshold. It returns the indices of sites added and removed this call.
func (c *Collection) AdjustCount(
	target int,
	doublingTime, dt float64,
	cellAreas []uint32,
	strategy SplitStrategy,
	centroids []voronoi.Position,
	farthestPoint *voronoi.Position,
	imgArea float64,
) (added, removed []int) {
	if doublingTime <= 0 || target == len(c.Sites) {
		return nil, nil
	}

	current := len(c.Sites)
	growing := target > current

	var poissonEligible []int
	poissonGated := false
	if strategy.Kind == StrategyPoisson && growing {
		poissonGated = true
		expectedSpacing := math.Sqrt(imgArea / float64(current))
		threshold := strategy.ThresholdK * expectedSpacing
		nnDists := nearestNeighborDists(c.Sites)
		for i, d := range nnDists {
			if d > threshold {
				poissonEligible = append(poissonEligible, i)
			}
		}
	}

	rate := math.Ln2 / doublingTime
	c.fractionalSites += float64(current) * rate * dt

	if strategy.Kind == StrategyPoisson {
		maxBuffered := math.Max(float64(current)*0.1, 2.0)
		c.fractionalSites = math.Min(c.fractionalSites, maxBuffered)
	}

	localAreas := make([]uint64, len(cellAreas))
	for i, a := range cellAreas {
		localAreas[i] = uint64(a)
	}
	// splitMask tracks which sites already produced a split/spawn this call,
	// so each source is sampled without replacement (max one split per frame).
	var splitMask bitmap.Bitmap
	if n := len(c.Sites); n > 0 {
		splitMask.Grow(uint32(n - 1))
	}

adjustLoop:
	for c.fractionalSites >= 1.0 {
		c.fractionalSites -= 1.0

		switch {
		case growing && len(c.Sites) < target:
			if poissonGated && len(poissonEligible) == 0 {
				c.fractionalSites += 1.0
				break adjustLoop
			}

			if strategy.isSpawning() {
				idx := c.spawn(strategy, cellAreas, centroids, farthestPoint, splitMask)
				added = append(added, idx)
			} else {
				idx := c.split(strategy, localAreas, centroids, splitMask)
				added = append(added, idx)
			}

		case !growing && len(c.Sites) > target:
			idx := c.removeClosestNeighbor()
			removed = append(removed, idx)

		default:
			break adjustLoop
		}
	}

	if len(c.Sites) == target {
		c.fractionalSites = 0
	}
	return added, removed
}

// spawn creates a brand-new site for a spawning strategy (Centroid,
// Farthest, or Poisson) and appends it, returning its new index.
func (c *Collection) spawn(
	strategy SplitStrategy,
	cellAreas []uint32,
	centroids []voronoi.Position,
	farthestPoint *voronoi.Position,
	splitMask bitmap.Bitmap,
) int {
	var pos voronoi.Position

	switch strategy.Kind {
	case StrategyFarthest:
		if farthestPoint != nil {
			pos = *farthestPoint
		} else {
			pos = voronoi.Position{X: c.rng.Float64() * 100, Y: c.rng.Float64() * 100}
		}
	default: // StrategyCentroid, StrategyPoisson
		pos = c.largestCellCentroid(cellAreas, centroids, splitMask)
	}

	c.Sites = append(c.Sites, NewSiteRandomVelocity(pos, c.rng))
	return len(c.Sites) - 1
}

// largestCellCentroid picks the centroid of the largest not-yet-split cell,
// falling back to a random position when areas or centroids are unavailable.
func (c *Collection) largestCellCentroid(cellAreas []uint32, centroids []voronoi.Position, splitMask bitmap.Bitmap) voronoi.Position {
	n := len(c.Sites)
	if len(cellAreas) < n {
		n = len(cellAreas)
	}
	if len(centroids) < n {
		n = len(centroids)
	}
	if n == 0 {
		return voronoi.Position{X: c.rng.Float64() * 100, Y: c.rng.Float64() * 100}
	}

	var maxArea uint32
	idx := 0
	for i := 0; i < n; i++ {
		if splitMask.Contains(uint32(i)) {
			continue
		}
		if cellAreas[i] > maxArea {
			maxArea = cellAreas[i]
			idx = i
		}
	}
	splitMask.Set(uint32(idx))
	return centroids[idx]
}

// split picks a source site per strategy, splits it into two, replaces the
// source in place with the first child and appends the second, returning
// the new child's index.
func (c *Collection) split(strategy SplitStrategy, localAreas []uint64, centroids []voronoi.Position, splitMask bitmap.Bitmap) int {
	srcIdx := c.pickSplitSource(strategy, localAreas, splitMask)

	var centroid *voronoi.Position
	if srcIdx < len(centroids) {
		cc := centroids[srcIdx]
		centroid = &cc
	}

	child1, child2 := c.Sites[srcIdx].Split(centroid, c.rng)
	c.Sites[srcIdx] = child1
	c.Sites = append(c.Sites, child2)

	splitMask.Set(uint32(srcIdx))
	if srcIdx < len(localAreas) {
		localAreas[srcIdx] = 0
	}

	return len(c.Sites) - 1
}

func (c *Collection) pickSplitSource(strategy SplitStrategy, localAreas []uint64, splitMask bitmap.Bitmap) int {
	if strategy.Kind == StrategyIsolated {
		return c.findMostIsolatedSite(splitMask)
	}

	if len(localAreas) == 0 {
		return c.rng.IntN(len(c.Sites))
	}

	n := len(c.Sites)
	if len(localAreas) < n {
		n = len(localAreas)
	}

	switch strategy.Kind {
	case StrategyMax:
		var maxArea uint64
		idx := 0
		for i, area := range localAreas[:n] {
			if area > maxArea {
				maxArea = area
				idx = i
			}
		}
		if maxArea > 0 {
			return idx
		}
		return c.rng.IntN(len(c.Sites))

	case StrategyWeighted:
		var total uint64
		for _, area := range localAreas[:n] {
			total += area
		}
		if total == 0 {
			return c.rng.IntN(len(c.Sites))
		}
		r := c.rng.Uint64N(total)
		var cum uint64
		for i, area := range localAreas[:n] {
			cum += area
			if r < cum {
				return i
			}
		}
		return n - 1

	default:
		return c.rng.IntN(len(c.Sites))
	}
}

// findMostIsolatedSite returns the index (outside splitMask) of the site
// with the largest nearest-neighbor distance.
func (c *Collection) findMostIsolatedSite(splitMask bitmap.Bitmap) int {
	n := len(c.Sites)
	if n <= 1 {
		return 0
	}

	maxNNDistSq := -1.0
	best := 0
	for i := 0; i < n; i++ {
		if splitMask.Contains(uint32(i)) {
			continue
		}
		nnDistSq := math.Inf(1)
		for j, other := range c.Sites {
			if i == j {
				continue
			}
			d := c.Sites[i].Pos.DistSq(other.Pos)
			if d < nnDistSq {
				nnDistSq = d
			}
		}
		if nnDistSq > maxNNDistSq {
			maxNNDistSq = nnDistSq
			best = i
		}
	}
	return best
}

// removeClosestNeighbor removes and returns the index of the site whose
// nearest neighbor is closest (the most spatially redundant site). Above
// 100 sites it samples instead of scanning every site, matching the
// original's scale-out behavior.
func (c *Collection) removeClosestNeighbor() int {
	idx := c.findClosestNeighborSite()
	c.Sites = append(c.Sites[:idx], c.Sites[idx+1:]...)
	return idx
}

const closestNeighborFullScanLimit = 100

func (c *Collection) findClosestNeighborSite() int {
	n := len(c.Sites)
	if n <= 1 {
		return 0
	}

	useFullScan := n <= closestNeighborFullScanLimit
	sampleSize := n
	if !useFullScan {
		sampleSize = closestNeighborFullScanLimit
	}

	minClosestDistSq := math.Inf(1)
	removeIdx := 0

	for i := 0; i < sampleSize; i++ {
		idx := i
		if !useFullScan {
			idx = c.rng.IntN(n)
		}

		closestDistSq := math.Inf(1)
		for j, other := range c.Sites {
			if idx == j {
				continue
			}
			d := c.Sites[idx].Pos.DistSq(other.Pos)
			if d < closestDistSq {
				closestDistSq = d
			}
		}

		if closestDistSq < minClosestDistSq {
			minClosestDistSq = closestDistSq
			removeIdx = idx
		}
	}

	return removeIdx
}
