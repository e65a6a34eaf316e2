package particles

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// Store is a fixed-capacity arena of particles addressed by index.
// Indices are stable for the lifetime of the store.
//
// Concurrent access to different indices is safe; two goroutines must never
// mutate the same index.
type Store struct {
	particles []Particle
}

// NewStore allocates a store of n particles, all zero.
func NewStore(n int) *Store {
	if n <= 0 {
		panic("particle store size must be positive")
	}
	return &Store{
		particles: make([]Particle, n),
	}
}

// Len returns the fixed particle count.
func (s *Store) Len() int {
	return len(s.particles)
}

// At returns a copy of the particle at index i.
func (s *Store) At(i int) Particle {
	return s.particles[i]
}

// Get returns a pointer to the particle at index i for in-place mutation.
func (s *Store) Get(i int) *Particle {
	return &s.particles[i]
}

// Range returns the particles in [lo, hi) as a slice aliasing the arena.
func (s *Store) Range(lo, hi int) []Particle {
	return s.particles[lo:hi:hi]
}

// All iterates over every particle in index order.
func (s *Store) All() iter.Seq2[int, Particle] {
	return func(yield func(int, Particle) bool) {
		for i := range s.particles {
			if !yield(i, s.particles[i]) {
				return
			}
		}
	}
}

// Census counts particles per lifecycle state.
type Census struct {
	Alive           int
	Unborn          int
	AwaitingRebirth int
}

// Total is the number of particles accounted for.
func (c Census) Total() int {
	return c.Alive + c.Unborn + c.AwaitingRebirth
}

// Census walks the store and counts states.
func (s *Store) Census() Census {
	var c Census
	for i := range s.particles {
		switch s.particles[i].State() {
		case StateAlive:
			c.Alive++
		case StateUnborn:
			c.Unborn++
		case StateAwaitingRebirth:
			c.AwaitingRebirth++
		}
	}
	return c
}

// Verify checks the lifecycle invariants that hold right after an Advance at
// simulated time now and returns every violation found, joined.
func (s *Store) Verify(now float64, cfg Config) error {
	var errs []error
	for i := range s.particles {
		p := &s.particles[i]
		switch {
		case math.IsNaN(p.BirthTime) || math.IsInf(p.BirthTime, 0):
			errs = append(errs, fmt.Errorf("particle %d: birth time %v", i, p.BirthTime))
		case p.Alive && p.BirthTime > now:
			errs = append(errs, fmt.Errorf("particle %d: alive with future birth time %v > %v", i, p.BirthTime, now))
		case p.Alive && p.BirthTime <= now-cfg.Lifespan:
			errs = append(errs, fmt.Errorf("particle %d: alive past its lifespan (born %v, now %v)", i, p.BirthTime, now))
		case p.Alive && p.Lives == 0:
			errs = append(errs, fmt.Errorf("particle %d: alive without a recorded birth", i))
		case !p.Alive && p.BirthTime <= now:
			errs = append(errs, fmt.Errorf("particle %d: missed its birth at %v (now %v)", i, p.BirthTime, now))
		}
		if len(errs) >= 16 {
			errs = append(errs, errors.New("too many violations, stopping"))
			break
		}
	}
	return errors.Join(errs...)
}
