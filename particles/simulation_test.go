package particles_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/plus3/fountain/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSimulation(t *testing.T, cfg particles.Config) (*particles.Simulation, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	lv := new(slog.LevelVar)
	sim, err := particles.NewSimulation(cfg, particles.WithLogger(particles.NewLogger(&out, lv), lv))
	require.NoError(t, err)
	return sim, &out
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*particles.Config)
	}{
		{"zero count", func(c *particles.Config) { c.Count = 0 }},
		{"zero tick step", func(c *particles.Config) { c.TickStep = 0 }},
		{"negative lifespan", func(c *particles.Config) { c.Lifespan = -1 }},
		{"zero rebirth epsilon", func(c *particles.Config) { c.RebirthEpsilon = 0 }},
		{"negative birth window", func(c *particles.Config) { c.InitialBirthMax = -1 }},
		{"zero chunk size", func(c *particles.Config) { c.ChunkSize = 0 }},
		{"inverted velocity range", func(c *particles.Config) { c.VelocityY = particles.Range{Min: 8, Max: 0} }},
	}

	assert.NoError(t, particles.DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := particles.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, particles.ErrInvalidConfig)

			_, err = particles.NewSimulation(cfg)
			assert.ErrorIs(t, err, particles.ErrInvalidConfig)
		})
	}
}

func TestSimulationTick(t *testing.T) {
	t.Run("animating advances time by one step", func(t *testing.T) {
		sim, _ := quietSimulation(t, testConfig(100))
		assert.True(t, sim.Animating())
		assert.Equal(t, 0.0, sim.Time())

		assert.True(t, sim.Tick())
		assert.True(t, sim.Tick())
		assert.InDelta(t, 0.01, sim.Time(), 1e-12)
		assert.Equal(t, uint64(2), sim.Engine().Pass())
	})

	t.Run("paused ticks change nothing", func(t *testing.T) {
		sim, _ := quietSimulation(t, testConfig(500))
		for range 400 {
			sim.Tick()
		}

		sim.SetAnimating(false)
		before := snapshot(sim.Store())
		now := sim.Time()
		pass := sim.Engine().Pass()

		for range 50 {
			assert.False(t, sim.Tick())
		}

		assert.Equal(t, before, snapshot(sim.Store()))
		assert.Equal(t, now, sim.Time())
		assert.Equal(t, pass, sim.Engine().Pass())

		sim.ToggleAnimating()
		assert.True(t, sim.Tick())
		assert.Greater(t, sim.Time(), now)
	})

	t.Run("reset rewinds the clock", func(t *testing.T) {
		sim, _ := quietSimulation(t, testConfig(300))
		layout := snapshot(sim.Store())
		for range 250 {
			sim.Tick()
		}

		sim.Reset()
		assert.Equal(t, 0.0, sim.Time())
		assert.Equal(t, uint64(0), sim.Engine().Pass())
		census := sim.Store().Census()
		assert.Equal(t, 300, census.Unborn)

		for i, p := range sim.Store().All() {
			assert.Equal(t, layout[i].InitialPosition, p.InitialPosition)
		}

		sim.Reset()
		assert.Equal(t, 0.0, sim.Time())
	})

	t.Run("simulations are independent", func(t *testing.T) {
		a, _ := quietSimulation(t, testConfig(100))
		b, _ := quietSimulation(t, testConfig(100))
		assert.NotEqual(t, a.ID(), b.ID())

		a.Tick()
		assert.Equal(t, 0.0, b.Time())
		assert.Equal(t, uint64(0), b.Engine().Pass())
	})
}

func TestSimulationVerbose(t *testing.T) {
	cfg := testConfig(64)
	cfg.InitialBirthMax = 0
	sim, out := quietSimulation(t, cfg)

	assert.False(t, sim.Verbose())
	assert.Contains(t, out.String(), "particles reset")

	sim.Tick()
	assert.NotContains(t, out.String(), "msg=birth")

	sim.ToggleVerbose()
	assert.True(t, sim.Verbose())
	sim.Reset()
	sim.Tick()
	assert.Contains(t, out.String(), "msg=birth")
	assert.Contains(t, out.String(), "particle=63")

	sim.SetVerbose(false)
	assert.False(t, sim.Verbose())
}

func TestPointSizeToggle(t *testing.T) {
	sim, _ := quietSimulation(t, testConfig(10))
	assert.False(t, sim.ComputedPointSize())
	sim.TogglePointSize()
	assert.True(t, sim.ComputedPointSize())
	assert.True(t, particles.UniformsOf(sim).ComputedPointSize)
}

func TestSimulationWithoutLogger(t *testing.T) {
	sim, err := particles.NewSimulation(testConfig(32))
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, sim.Logger().Enabled(ctx, slog.LevelError))

	sim.ToggleVerbose()
	assert.True(t, sim.Verbose())
	assert.False(t, sim.Logger().Enabled(ctx, slog.LevelDebug))
	assert.True(t, sim.Tick())
}
