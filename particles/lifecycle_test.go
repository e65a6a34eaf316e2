package particles_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/fountain/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(n int) particles.Config {
	cfg := particles.DefaultConfig()
	cfg.Count = n
	cfg.ChunkSize = 64
	cfg.Workers = 4
	cfg.Seed = 42
	return cfg
}

func TestAdvanceScenario(t *testing.T) {
	cfg := testConfig(4)
	cfg.TickStep = 0.5
	cfg.Lifespan = 1.0
	cfg.RebirthEpsilon = 0.01

	engine := particles.NewEngine(cfg)
	store := particles.NewStore(4)
	engine.Reset(store)
	for i, birth := range []float64{0, 0, 1, 1} {
		store.Get(i).BirthTime = birth
	}

	engine.Advance(store, 0)
	for _, i := range []int{0, 1} {
		p := store.At(i)
		assert.True(t, p.Alive, "particle %d should be born at t=0", i)
		assert.Equal(t, 0.0, p.BirthTime)
	}
	for _, i := range []int{2, 3} {
		p := store.At(i)
		assert.False(t, p.Alive, "particle %d should still be dormant", i)
		assert.Equal(t, 1.0, p.BirthTime)
	}

	before := snapshot(store)
	report := engine.Advance(store, 0.5)
	assert.Equal(t, before, snapshot(store), "no threshold is crossed at t=0.5")
	assert.Zero(t, report.Births)
	assert.Zero(t, report.Deaths)

	report = engine.Advance(store, 1.0)
	for _, i := range []int{0, 1} {
		p := store.At(i)
		assert.False(t, p.Alive, "particle %d should die at t=1", i)
		assert.InDelta(t, 1.01, p.BirthTime, 1e-12)
	}
	for _, i := range []int{2, 3} {
		p := store.At(i)
		assert.True(t, p.Alive, "particle %d should be born at t=1", i)
		assert.Equal(t, 1.0, p.BirthTime)
	}
	assert.Equal(t, 2, report.Births)
	assert.Equal(t, 2, report.Deaths)
	assert.Equal(t, uint64(3), report.Pass)
}

func TestBirthDrawsVelocityInRange(t *testing.T) {
	cfg := testConfig(1000)
	cfg.InitialBirthMax = 0

	engine := particles.NewEngine(cfg)
	store := particles.NewStore(cfg.Count)
	engine.Reset(store)
	engine.Advance(store, 0)

	for i, p := range store.All() {
		require.True(t, p.Alive, "particle %d", i)
		v := p.InitialVelocity
		assert.True(t, v.X() >= -1 && v.X() < 1, "vx %v", v.X())
		assert.True(t, v.Y() >= 0 && v.Y() < 8, "vy %v", v.Y())
		assert.True(t, v.Z() >= -0.5 && v.Z() < 0.5, "vz %v", v.Z())
		assert.Equal(t, uint32(1), p.Lives)
	}
}

func TestResetStructure(t *testing.T) {
	cfg := testConfig(500)
	engine := particles.NewEngine(cfg)
	store := particles.NewStore(cfg.Count)

	engine.Reset(store)
	first := snapshot(store)
	engine.Advance(store, 5)
	engine.Reset(store)
	second := snapshot(store)

	assert.Equal(t, uint64(0), engine.Pass())

	sameBirths := 0
	for i := range first {
		assert.Equal(t, first[i].InitialPosition, second[i].InitialPosition, "ring placement of %d", i)
		assert.False(t, second[i].Alive)
		assert.Equal(t, uint32(0), second[i].Lives)
		assert.GreaterOrEqual(t, second[i].BirthTime, 0.0)
		assert.Less(t, second[i].BirthTime, 10.0)
		if first[i].BirthTime == second[i].BirthTime {
			sameBirths++
		}
	}
	assert.Less(t, sameBirths, 5, "birth times should be drawn again on every reset")

	p := store.At(3)
	want := mgl32.Vec3{0.05 * cos32(1.5), -0.5, 0.05 * sin32(1.5)}
	assert.InDelta(t, want.X(), p.InitialPosition.X(), 1e-6)
	assert.InDelta(t, want.Y(), p.InitialPosition.Y(), 1e-6)
	assert.InDelta(t, want.Z(), p.InitialPosition.Z(), 1e-6)
}

func TestNoSameTickResurrection(t *testing.T) {
	cfg := testConfig(256)
	cfg.TickStep = 0.05
	sim, err := particles.NewSimulation(cfg)
	require.NoError(t, err)

	prev := snapshot(sim.Store())
	for tick := 0; tick < 400; tick++ {
		sim.Tick()
		cur := snapshot(sim.Store())
		for i := range cur {
			if prev[i].Alive && cur[i].Alive && cur[i].BirthTime != prev[i].BirthTime {
				t.Fatalf("particle %d died and was reborn within tick %d", i, tick)
			}
			if !prev[i].Alive && cur[i].Alive {
				assert.Equal(t, sim.Time(), cur[i].BirthTime, "particle %d born with a stale time", i)
			}
			if prev[i].Alive && !cur[i].Alive {
				assert.Greater(t, cur[i].BirthTime, sim.Time(), "particle %d rebirth must be in the future", i)
			}
		}
		prev = cur
	}
}

func TestLifespanBound(t *testing.T) {
	cfg := testConfig(2000)
	cfg.InitialBirthMax = 1

	audit := particles.NewAudit(cfg)
	sim, err := particles.NewSimulation(cfg, particles.WithEngineOptions(particles.WithObserver(audit)))
	require.NoError(t, err)

	for range 1200 {
		sim.Tick()
	}

	require.NoError(t, audit.Err())
	assert.Greater(t, audit.Lives, cfg.Count)
	assert.GreaterOrEqual(t, audit.MinLifetime, cfg.Lifespan-1e-9)
	assert.Less(t, audit.MaxLifetime, cfg.Lifespan+cfg.TickStep+1e-9)
}

func TestPopulationConservation(t *testing.T) {
	cfg := testConfig(3000)
	sim, err := particles.NewSimulation(cfg)
	require.NoError(t, err)

	census := sim.Store().Census()
	assert.Equal(t, cfg.Count, census.Unborn)

	for tick := range 2500 {
		sim.Tick()
		if tick%50 == 0 {
			census := sim.Store().Census()
			require.Equal(t, cfg.Count, census.Total(), "tick %d", tick)
			require.NoError(t, sim.Store().Verify(sim.Time(), cfg), "tick %d", tick)
		}
	}

	census = sim.Store().Census()
	assert.Zero(t, census.Unborn, "every particle is born within the initial window")
	assert.Greater(t, census.Alive, 0)
	assert.Greater(t, census.AwaitingRebirth, 0)
}

func TestAdvanceIsDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) []particles.Particle {
		cfg := testConfig(5000)
		cfg.Workers = workers
		sim, err := particles.NewSimulation(cfg)
		require.NoError(t, err)
		for range 300 {
			sim.Tick()
		}
		return snapshot(sim.Store())
	}

	assert.Equal(t, run(1), run(8))
}

func TestObserverSeesTransitionsInIndexOrder(t *testing.T) {
	cfg := testConfig(1000)
	cfg.InitialBirthMax = 0
	rec := &recordingObserver{enabled: true}

	engine := particles.NewEngine(cfg, particles.WithObserver(rec))
	store := particles.NewStore(cfg.Count)
	engine.Reset(store)
	engine.Advance(store, 0)

	require.Equal(t, 1, rec.resets)
	require.Len(t, rec.transitions, cfg.Count)
	for i, tr := range rec.transitions {
		assert.Equal(t, i, tr.Index)
		assert.Equal(t, particles.StateAlive, tr.Kind)
		assert.Equal(t, store.At(i).InitialVelocity, tr.Velocity)
	}

	rec.enabled = false
	rec.transitions = nil
	engine.Advance(store, 2)
	assert.Empty(t, rec.transitions, "disabled observers receive nothing")
}

type recordingObserver struct {
	enabled     bool
	resets      int
	transitions []particles.Transition
}

func (r *recordingObserver) Enabled() bool { return r.enabled }

func (r *recordingObserver) ObserveReset(generation uint64, count int) { r.resets++ }

func (r *recordingObserver) ObserveAdvance(pass uint64, now float64, transitions []particles.Transition) {
	r.transitions = append(r.transitions, transitions...)
}

func snapshot(store *particles.Store) []particles.Particle {
	out := make([]particles.Particle, 0, store.Len())
	for _, p := range store.All() {
		out = append(out, p)
	}
	return out
}

func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }
func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
