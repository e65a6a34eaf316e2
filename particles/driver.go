package particles

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// DriverStats provides statistics about frame execution.
type DriverStats struct {
	PhaseCount  int
	TotalFrames int64
	Phases      []PhaseStats
}

// PhaseStats provides execution statistics for the lifecycle phase or a
// single render system.
type PhaseStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type phaseStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newPhaseStats(name string) *phaseStatsInternal {
	return &phaseStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (s *phaseStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// AdvancePhase is the name of the lifecycle phase in DriverStats.
const AdvancePhase = "Advance"

// Driver runs frames of a Simulation: tick, then every registered System,
// then the queued commands.
type Driver struct {
	sim         *Simulation
	systems     []System
	phaseStats  []*phaseStatsInternal
	commands    *Commands
	totalFrames int64
}

// NewDriver creates a driver for the given simulation.
func NewDriver(sim *Simulation) *Driver {
	return &Driver{
		sim:        sim,
		systems:    make([]System, 0),
		phaseStats: []*phaseStatsInternal{newPhaseStats(AdvancePhase)},
		commands:   newCommands(),
	}
}

// Register adds a render-phase system.
func (d *Driver) Register(system System) {
	d.systems = append(d.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	d.phaseStats = append(d.phaseStats, newPhaseStats(systemType.Name()))
}

// Simulation returns the driven simulation.
func (d *Driver) Simulation() *Simulation { return d.sim }

// Commands returns the control queue flushed at the end of every frame.
func (d *Driver) Commands() *Commands { return d.commands }

// Once executes a single frame. The lifecycle phase completes for every
// particle before the first system runs.
func (d *Driver) Once() error {
	return d.frame(true)
}

// Redraw executes a frame without ticking, as if the simulation were
// paused. Hidden or unfocused windows use it to keep the control surface
// alive while simulated time stands still.
func (d *Driver) Redraw() error {
	return d.frame(false)
}

func (d *Driver) frame(tick bool) error {
	ticked := false
	if tick {
		start := time.Now()
		ticked = d.sim.Tick()
		if ticked {
			d.phaseStats[0].record(time.Since(start))
		}
	}

	frame := newUpdateFrame(d.sim, ticked, d.commands)
	for i, system := range d.systems {
		start := time.Now()
		err := system.Execute(frame)
		d.phaseStats[i+1].record(time.Since(start))
		if err != nil {
			return fmt.Errorf("%s: %w", d.phaseStats[i+1].name, err)
		}
	}

	d.commands.Flush(d.sim)
	d.totalFrames++
	return nil
}

// Run executes frames at the given interval until the context is cancelled
// or a system fails.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Once(); err != nil {
				return err
			}
		}
	}
}

// GetStats returns statistics about frame execution.
func (d *Driver) GetStats() *DriverStats {
	stats := &DriverStats{
		PhaseCount:  len(d.phaseStats),
		TotalFrames: d.totalFrames,
		Phases:      make([]PhaseStats, len(d.phaseStats)),
	}

	for i, internal := range d.phaseStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Phases[i] = PhaseStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}
	return stats
}
