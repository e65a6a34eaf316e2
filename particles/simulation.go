package particles

import (
	"log/slog"

	"github.com/google/uuid"
)

// Simulation is the context object of one fountain: its particles, its
// engine, its clock and the flags of the control surface. Independent
// simulations share nothing.
type Simulation struct {
	id     uuid.UUID
	cfg    Config
	store  *Store
	engine *Engine

	time              float64
	animating         bool
	computedPointSize bool
	last              AdvanceReport

	level  *slog.LevelVar
	logger *slog.Logger
}

// SimulationOption configures a Simulation.
type SimulationOption func(*Simulation)

// WithLogger sets the logger and the level variable the verbose toggle
// drives. The logger's handler must read its level from lv. Without it the
// simulation logs nothing.
func WithLogger(logger *slog.Logger, lv *slog.LevelVar) SimulationOption {
	return func(s *Simulation) {
		s.logger = logger
		s.level = lv
	}
}

// WithEngineOptions forwards options to the simulation's engine.
func WithEngineOptions(opts ...EngineOption) SimulationOption {
	return func(s *Simulation) {
		for _, opt := range opts {
			opt(s.engine)
		}
	}
}

// NewSimulation validates cfg, allocates the particle arena, resets it and
// starts animating.
func NewSimulation(cfg Config, opts ...SimulationOption) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:        uuid.New(),
		cfg:       cfg,
		store:     NewStore(cfg.Count),
		engine:    NewEngine(cfg),
		animating: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.level == nil {
		s.level = new(slog.LevelVar)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.logger = s.logger.With("sim", s.id.String())
	s.engine.AddObserver(NewLogObserver(s.logger))

	s.Reset()
	return s, nil
}

// ID identifies the simulation in logs and streams.
func (s *Simulation) ID() uuid.UUID { return s.id }

func (s *Simulation) Config() Config       { return s.cfg }
func (s *Simulation) Store() *Store        { return s.store }
func (s *Simulation) Engine() *Engine      { return s.engine }
func (s *Simulation) Logger() *slog.Logger { return s.logger }

// Time returns the current simulated time.
func (s *Simulation) Time() float64 { return s.time }

// LastAdvance returns the report of the most recent Advance.
func (s *Simulation) LastAdvance() AdvanceReport { return s.last }

// Tick advances simulated time by one step and applies the lifecycle rules,
// if animating. A paused simulation is left untouched and Tick returns false.
func (s *Simulation) Tick() bool {
	if !s.animating {
		return false
	}
	s.time += s.cfg.TickStep
	s.last = s.engine.Advance(s.store, s.time)
	return true
}

// Reset rewinds the clock to zero and reinitializes every particle.
func (s *Simulation) Reset() {
	s.time = 0
	s.last = AdvanceReport{}
	s.engine.Reset(s.store)
}

func (s *Simulation) Animating() bool         { return s.animating }
func (s *Simulation) SetAnimating(on bool)    { s.animating = on }
func (s *Simulation) ToggleAnimating()        { s.animating = !s.animating }
func (s *Simulation) ComputedPointSize() bool { return s.computedPointSize }
func (s *Simulation) TogglePointSize()        { s.computedPointSize = !s.computedPointSize }

// Verbose reports whether debug diagnostics are being logged.
func (s *Simulation) Verbose() bool {
	return s.level.Level() <= slog.LevelDebug
}

// SetVerbose switches per-particle diagnostics on or off.
func (s *Simulation) SetVerbose(on bool) {
	if on {
		s.level.Set(slog.LevelDebug)
	} else {
		s.level.Set(slog.LevelInfo)
	}
}

func (s *Simulation) ToggleVerbose() {
	s.SetVerbose(!s.Verbose())
}
