package particles

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transition is a single birth or death observed during Advance.
type Transition struct {
	Index    int
	Kind     State // StateAlive for a birth, StateAwaitingRebirth for a death
	Time     float64
	Velocity mgl32.Vec3
}

// Observer receives the transitions of each Advance call after the phase
// barrier, in index order, on the goroutine that called Advance.
// Transitions are only recorded while at least one observer is enabled.
type Observer interface {
	Enabled() bool
	ObserveReset(generation uint64, count int)
	ObserveAdvance(pass uint64, now float64, transitions []Transition)
}

// AdvanceReport summarizes one Advance call.
type AdvanceReport struct {
	Pass   uint64
	Births int
	Deaths int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithObserver registers an observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// Engine applies the birth and death rules to a Store.
type Engine struct {
	cfg     Config
	workers int

	pass       uint64
	generation uint64

	observers []Observer
	journal   [][]Transition // per chunk, reused between passes
	tallies   []tally        // per chunk
}

// NewEngine builds an engine for the given configuration. The config is
// assumed valid.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:     cfg,
		workers: cfg.workers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pass returns the number of Advance calls since the last Reset.
func (e *Engine) Pass() uint64 {
	return e.pass
}

// Generation returns the number of Reset calls so far.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// AddObserver registers an observer after construction.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Reset places every particle on the emitter ring, marks it unborn and draws
// a fresh birth time. Positions are a pure function of the index; birth
// times come from a new random generation on every call.
func (e *Engine) Reset(store *Store) {
	e.generation++
	e.pass = 0

	cfg := e.cfg
	gen := e.generation
	_ = parallelFor(store.Len(), cfg.ChunkSize, e.workers, func(c chunk) error {
		rng := streamFor(cfg.Seed, gen<<1, c.index)
		for i := c.lo; i < c.hi; i++ {
			angle := float64(float32(i) * cfg.RingAngleStep)
			p := store.Get(i)
			p.InitialPosition = mgl32.Vec3{
				cfg.RingRadius * float32(math.Cos(angle)),
				cfg.RingElevation,
				cfg.RingRadius * float32(math.Sin(angle)),
			}
			p.InitialVelocity = mgl32.Vec3{}
			p.Alive = false
			p.Lives = 0
			p.BirthTime = float64(cfg.InitialBirthMax * rng.Float32())
		}
		return nil
	})

	for _, o := range e.observers {
		o.ObserveReset(e.generation, store.Len())
	}
}

// Advance moves every particle one generation forward at simulated time now.
// Every particle sees the same now and the same death threshold, so the
// outcome does not depend on iteration order.
func (e *Engine) Advance(store *Store, now float64) AdvanceReport {
	e.pass++

	cfg := e.cfg
	deathTime := now - cfg.Lifespan
	rebirth := now + cfg.RebirthEpsilon
	record := e.recording()
	e.prepare(store.Len())

	seed := cfg.Seed
	stream := e.generation<<1 | 1
	pass := e.pass
	_ = parallelFor(store.Len(), cfg.ChunkSize, e.workers, func(c chunk) error {
		rng := streamFor(seed^mix(pass), stream, c.index)
		journal := e.journal[c.index][:0]
		var births, deaths int

		for i, ps := c.lo, store.Range(c.lo, c.hi); i < c.hi; i++ {
			p := &ps[i-c.lo]
			if !p.Alive && p.BirthTime <= now {
				p.InitialVelocity = mgl32.Vec3{
					cfg.VelocityX.Lerp(rng.Float32()),
					cfg.VelocityY.Lerp(rng.Float32()),
					cfg.VelocityZ.Lerp(rng.Float32()),
				}
				p.BirthTime = now
				p.Alive = true
				p.Lives++
				births++
				if record {
					journal = append(journal, Transition{Index: i, Kind: StateAlive, Time: now, Velocity: p.InitialVelocity})
				}
			}
			if p.Alive && p.BirthTime <= deathTime {
				p.Alive = false
				p.BirthTime = rebirth
				deaths++
				if record {
					journal = append(journal, Transition{Index: i, Kind: StateAwaitingRebirth, Time: now})
				}
			}
		}

		e.journal[c.index] = journal
		e.tallies[c.index] = tally{births: births, deaths: deaths}
		return nil
	})

	report := AdvanceReport{Pass: e.pass}
	for _, t := range e.tallies {
		report.Births += t.births
		report.Deaths += t.deaths
	}

	if record {
		var all []Transition
		for _, j := range e.journal {
			all = append(all, j...)
		}
		for _, o := range e.observers {
			if o.Enabled() {
				o.ObserveAdvance(e.pass, now, all)
			}
		}
	}
	return report
}

func (e *Engine) recording() bool {
	for _, o := range e.observers {
		if o.Enabled() {
			return true
		}
	}
	return false
}

func (e *Engine) prepare(n int) {
	count := chunkCount(n, e.cfg.ChunkSize)
	if len(e.journal) == count {
		return
	}
	e.journal = make([][]Transition, count)
	e.tallies = make([]tally, count)
}

type tally struct {
	births, deaths int
}
