// Package cli holds the flags and setup shared by the fountain commands.
package cli

import (
	"flag"
	"io"
	"log/slog"

	"github.com/plus3/fountain/particles"
)

// Flags are the simulation settings every command accepts.
type Flags struct {
	Particles int
	Seed      uint64
	Workers   int
	ChunkSize int
	TickStep  float64
	Verbose   bool
}

// Register adds the shared flags to fs, with defaults from DefaultConfig.
func Register(fs *flag.FlagSet) *Flags {
	cfg := particles.DefaultConfig()
	f := &Flags{}
	fs.IntVar(&f.Particles, "particles", cfg.Count, "Number of particles in the fountain.")
	fs.Uint64Var(&f.Seed, "seed", cfg.Seed, "Seed for every random draw.")
	fs.IntVar(&f.Workers, "workers", cfg.Workers, "Concurrent chunks per phase; 0 uses GOMAXPROCS.")
	fs.IntVar(&f.ChunkSize, "chunk", cfg.ChunkSize, "Particles per work unit.")
	fs.Float64Var(&f.TickStep, "step", cfg.TickStep, "Simulated time per tick.")
	fs.BoolVar(&f.Verbose, "verbose", false, "Log every birth, death and drawn particle.")
	return f
}

// Config applies the flags to DefaultConfig.
func (f *Flags) Config() particles.Config {
	cfg := particles.DefaultConfig()
	cfg.Count = f.Particles
	cfg.Seed = f.Seed
	cfg.Workers = f.Workers
	cfg.ChunkSize = f.ChunkSize
	cfg.TickStep = f.TickStep
	return cfg
}

// NewSimulation builds a simulation from the flags, logging to w.
func (f *Flags) NewSimulation(w io.Writer, opts ...particles.SimulationOption) (*particles.Simulation, error) {
	lv := new(slog.LevelVar)
	logger := particles.NewLogger(w, lv)
	opts = append([]particles.SimulationOption{particles.WithLogger(logger, lv)}, opts...)

	sim, err := particles.NewSimulation(f.Config(), opts...)
	if err != nil {
		return nil, err
	}
	sim.SetVerbose(f.Verbose)
	return sim, nil
}
