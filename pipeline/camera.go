package pipeline

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits the origin at a fixed height, one revolution every 2π/Speed
// units of simulated time.
type Camera struct {
	Height float32 // eye elevation
	Radius float32 // orbit radius
	Speed  float32 // radians per unit of simulated time

	// FovY is the vertical field of view in radians. Zero selects an
	// orthographic view two units tall, which is what the fountain was tuned
	// for.
	FovY      float32
	Near, Far float32
}

// DefaultCamera returns the fountain's orbit: eye at (cos θ, 0.3, sin θ)
// with θ = 2.8·time.
func DefaultCamera() Camera {
	return Camera{
		Height: 0.3,
		Radius: 1,
		Speed:  2.8,
		Near:   0.01,
		Far:    100,
	}
}

// Eye returns the eye position at the given simulated time.
func (c Camera) Eye(time float32) mgl32.Vec3 {
	theta := float64(time * c.Speed)
	return mgl32.Vec3{
		c.Radius * float32(math.Cos(theta)),
		c.Height,
		c.Radius * float32(math.Sin(theta)),
	}
}

// View returns the look-at matrix toward the origin with +Y up.
func (c Camera) View(time float32) mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(time), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the projection for a viewport of the given aspect
// ratio (width / height).
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	if c.FovY == 0 {
		if aspect >= 1 {
			return mgl32.Ortho(-aspect, aspect, -1, 1, c.Near, c.Far)
		}
		return mgl32.Ortho(-1, 1, -1/aspect, 1/aspect, c.Near, c.Far)
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection combines Projection and View.
func (c Camera) ViewProjection(time, aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View(time))
}

// Project maps a world position into a w×h viewport. ok is false when the
// point falls outside the clip volume. Screen y grows downward.
func Project(mvp mgl32.Mat4, p mgl32.Vec3, w, h int) (x, y, depth float32, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X() + 1) * 0.5 * float32(w)
	y = (1 - ndc.Y()) * 0.5 * float32(h)
	return x, y, ndc.Z(), true
}
