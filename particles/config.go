package particles

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid particle config")

// Range is a closed-open interval [Min, Max) used for uniform draws.
type Range struct {
	Min, Max float32
}

// Lerp maps u in [0,1) onto the range.
func (r Range) Lerp(u float32) float32 {
	return r.Min + (r.Max-r.Min)*u
}

// Config holds every tunable constant of a simulation.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	Count int // number of particles, fixed for the life of a Store

	TickStep       float64 // simulated time added per animating tick
	Lifespan       float64 // time a particle stays alive after birth
	RebirthEpsilon float64 // delay added to the death time before the next birth check

	// Initial population
	RingRadius      float32
	RingElevation   float32
	RingAngleStep   float32 // radians between consecutive particle indices
	InitialBirthMax float32 // birth times are drawn from [0, InitialBirthMax)

	// Birth velocity, one range per axis
	VelocityX Range
	VelocityY Range
	VelocityZ Range

	Acceleration mgl32.Vec3

	// Parallelism
	ChunkSize int // particles per work unit; also the random stream granularity
	Workers   int // max concurrent chunks, <= 0 means GOMAXPROCS

	Seed uint64
}

// DefaultConfig returns the fountain as it ships: half a million particles
// falling under earth gravity for one time unit each.
func DefaultConfig() Config {
	return Config{
		Count:           500_000,
		TickStep:        0.005,
		Lifespan:        1.0,
		RebirthEpsilon:  0.01,
		RingRadius:      0.05,
		RingElevation:   -0.5,
		RingAngleStep:   0.5,
		InitialBirthMax: 10,
		VelocityX:       Range{-1, 1},
		VelocityY:       Range{0, 8},
		VelocityZ:       Range{-0.5, 0.5},
		Acceleration:    mgl32.Vec3{0, -9.8, 0},
		ChunkSize:       4096,
		Workers:         0,
		Seed:            1,
	}
}

// Validate reports the first problem found in the config.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case !positiveFinite(c.TickStep):
		return fmt.Errorf("%w: tick step must be positive, got %v", ErrInvalidConfig, c.TickStep)
	case !positiveFinite(c.Lifespan):
		return fmt.Errorf("%w: lifespan must be positive, got %v", ErrInvalidConfig, c.Lifespan)
	case !positiveFinite(c.RebirthEpsilon):
		return fmt.Errorf("%w: rebirth epsilon must be positive, got %v", ErrInvalidConfig, c.RebirthEpsilon)
	case c.InitialBirthMax < 0:
		return fmt.Errorf("%w: initial birth window must not be negative, got %v", ErrInvalidConfig, c.InitialBirthMax)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}

	for _, r := range []struct {
		name string
		r    Range
	}{{"x", c.VelocityX}, {"y", c.VelocityY}, {"z", c.VelocityZ}} {
		if r.r.Max < r.r.Min {
			return fmt.Errorf("%w: velocity %s range is inverted (%v > %v)", ErrInvalidConfig, r.name, r.r.Min, r.r.Max)
		}
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
