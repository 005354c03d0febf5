// Package site implements the moving Voronoi sites that drive the mosaic
// animation: seeded random placement, Ornstein-Uhlenbeck steered drift,
// edge bouncing, and the split/spawn strategies that grow or shrink the
// site population over time.
package site

import (
	"math"
	"math/rand/v2"

	"github.com/voronoimosaic/engine/internal/voronoi"
)

const (
	// speedDecayRate sets the half-life (~0.14s) with which a post-split
	// speed boost decays back toward 1.0.
	speedDecayRate = 5.0

	// splitTurnRateMin/Max bound the opposite curving rate assigned to a
	// freshly split pair of sites.
	splitTurnRateMin = 1.0
	splitTurnRateMax = 4.0

	// splitSpeedBoost is the speed multiplier given to both children of a split.
	splitSpeedBoost = 3.0

	// centroidAimMinDist is the minimum distance to a cell centroid below
	// which a split aims in a random direction instead of toward it.
	centroidAimMinDist = 1.0
)

// OUParams configures the Ornstein-Uhlenbeck process steering a site's
// heading: Theta is the mean-reversion rate (how quickly TurnRate drifts
// back to 0), Sigma the volatility of the random perturbation applied
// every step.
type OUParams struct {
	Theta float64
	Sigma float64
}

// DefaultOUParams returns the steering parameters used throughout this
// package's tests and the demo CLI.
func DefaultOUParams() OUParams {
	return OUParams{Theta: 3.0, Sigma: 3.0}
}

// Site is a single moving Voronoi seed.
type Site struct {
	Pos voronoi.Position
	Vel voronoi.Velocity

	// TurnRate is the current angular velocity in rad/s, evolved by an
	// Ornstein-Uhlenbeck process each step for organic curved motion.
	TurnRate float64

	// SpeedMult scales movement speed; it decays toward 1.0 and is used
	// to give freshly split sites a temporary speed boost.
	SpeedMult float64
}

// NewSite creates a site at rest: zero turn rate, unit speed multiplier.
func NewSite(pos voronoi.Position, vel voronoi.Velocity) Site {
	return Site{Pos: pos, Vel: vel, SpeedMult: 1.0}
}

// NewSiteRandomVelocity creates a site at pos with a uniformly random heading.
func NewSiteRandomVelocity(pos voronoi.Position, rng *rand.Rand) Site {
	return NewSite(pos, randomVelocity(rng))
}

func randomVelocity(rng *rand.Rand) voronoi.Velocity {
	return voronoi.VelocityFromAngle(rng.Float64() * 2 * math.Pi)
}

// Step advances the site by one simulation tick: rotates its heading by the
// current turn rate, evolves the turn rate via an Ornstein-Uhlenbeck
// process, decays any speed boost, moves the site, and bounces it off the
// image bounds.
func (s *Site) Step(speed, dt, width, height float64, params OUParams, rng *rand.Rand) {
	angle := s.Vel.Angle() + s.TurnRate*dt
	s.Vel = voronoi.VelocityFromAngle(angle)

	noise := -1.73 + rng.Float64()*(1.73-(-1.73))
	s.TurnRate += -params.Theta*s.TurnRate*dt + params.Sigma*math.Sqrt(dt)*noise

	s.SpeedMult = 1.0 + (s.SpeedMult-1.0)*math.Exp(-speedDecayRate*dt)

	movement := speed * s.SpeedMult * dt
	s.Pos.X += s.Vel.X * movement
	s.Pos.Y += s.Vel.Y * movement

	if s.Pos.X < 0 || s.Pos.X >= width {
		s.Vel = s.Vel.ReflectX()
		s.TurnRate = -s.TurnRate
		s.Pos.X = clamp(s.Pos.X, 0, width-1)
	}
	if s.Pos.Y < 0 || s.Pos.Y >= height {
		s.Vel = s.Vel.ReflectY()
		s.TurnRate = -s.TurnRate
		s.Pos.Y = clamp(s.Pos.Y, 0, height-1)
	}
}

// Split divides a site into two children at the same position, curving away
// from each other. When centroid is non-nil and far enough away, one child
// aims toward it; otherwise one child takes a random heading. The other
// child always heads the opposite way.
func (s *Site) Split(centroid *voronoi.Position, rng *rand.Rand) (Site, Site) {
	var angle float64
	if centroid != nil {
		dx := centroid.X - s.Pos.X
		dy := centroid.Y - s.Pos.Y
		if math.Sqrt(dx*dx+dy*dy) > centroidAimMinDist {
			angle = math.Atan2(dy, dx)
		} else {
			angle = rng.Float64() * 2 * math.Pi
		}
	} else {
		angle = rng.Float64() * 2 * math.Pi
	}

	vel1 := voronoi.VelocityFromAngle(angle)
	vel2 := voronoi.VelocityFromAngle(angle + math.Pi)

	turn := splitTurnRateMin + rng.Float64()*(splitTurnRateMax-splitTurnRateMin)

	child1 := Site{Pos: s.Pos, Vel: vel1, TurnRate: turn, SpeedMult: splitSpeedBoost}
	child2 := Site{Pos: s.Pos, Vel: vel2, TurnRate: -turn, SpeedMult: splitSpeedBoost}
	return child1, child2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
