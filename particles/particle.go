// Package particles implements the lifecycle core of a point particle fountain:
// a fixed arena of particles, the birth/death state machine that recycles them,
// the clock that drives it and the projector that hands live particles to a
// rendering stage.
package particles

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one recycled slot of the fountain.
//
// BirthTime is the time of the current birth while Alive, and the earliest
// time the next birth may happen otherwise.
type Particle struct {
	InitialPosition mgl32.Vec3
	InitialVelocity mgl32.Vec3
	BirthTime       float64
	Alive           bool

	// Lives counts births since the last reset.
	Lives uint32
}

// State is the lifecycle state derived from a particle's fields.
type State uint8

const (
	StateUnborn State = iota
	StateAlive
	StateAwaitingRebirth
)

func (s State) String() string {
	switch s {
	case StateUnborn:
		return "unborn"
	case StateAlive:
		return "alive"
	case StateAwaitingRebirth:
		return "awaiting-rebirth"
	default:
		return "unknown"
	}
}

// State classifies the particle.
func (p *Particle) State() State {
	switch {
	case p.Alive:
		return StateAlive
	case p.Lives == 0:
		return StateUnborn
	default:
		return StateAwaitingRebirth
	}
}

// Attribute returns the per-particle input of the rendering stage.
func (p *Particle) Attribute() Attribute {
	return Attribute{
		Position:  p.InitialPosition,
		Velocity:  p.InitialVelocity,
		BirthTime: float32(p.BirthTime),
	}
}
