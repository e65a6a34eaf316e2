// Package pipeline evaluates particles the way the fountain's vertex program
// does: positions are never stored, they are computed from the initial state
// and the age of the particle at draw time.
package pipeline

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/fountain/particles"
)

// BasePointSize is the fixed point size used when computed sizes are off.
const BasePointSize float32 = 4

// ClearColor is the background every frame starts from.
var ClearColor = color.RGBA{R: 0, G: 85, B: 98, A: 255}

// Age returns the time since the particle's current birth.
func Age(a particles.Attribute, u particles.Uniforms) float32 {
	return u.Time - a.BirthTime
}

// LifeFraction returns the age as a fraction of the lifespan, clamped to
// [0, 1].
func LifeFraction(a particles.Attribute, u particles.Uniforms) float32 {
	if u.Lifespan <= 0 {
		return 0
	}
	return mgl32.Clamp(Age(a, u)/u.Lifespan, 0, 1)
}

// Position evaluates p0 + v*t + a*t*t/2 for the particle's age t.
func Position(a particles.Attribute, u particles.Uniforms) mgl32.Vec3 {
	t := Age(a, u)
	return a.Position.
		Add(a.Velocity.Mul(t)).
		Add(u.Acceleration.Mul(0.5 * t * t))
}

// PointSize returns the diameter of a particle in pixels. Computed sizes
// swell through mid-life and grow with height.
func PointSize(age, y float32, computed bool) float32 {
	if !computed {
		return BasePointSize
	}
	return max(-8*age*age+8*age+0.1*y+1, 1)
}

// Color fades a particle from black at birth to white at the end of its
// life.
func Color(fraction float32) color.RGBA {
	g := uint8(mgl32.Clamp(fraction, 0, 1) * 255)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// Vertex is a particle after evaluation, in world space.
type Vertex struct {
	Position mgl32.Vec3
	Size     float32
	Color    color.RGBA
}

// Shade runs the vertex stage for one particle.
func Shade(a particles.Attribute, u particles.Uniforms) Vertex {
	pos := Position(a, u)
	age := Age(a, u)
	return Vertex{
		Position: pos,
		Size:     PointSize(age, pos.Y(), u.ComputedPointSize),
		Color:    Color(LifeFraction(a, u)),
	}
}
