package particles_test

import (
	"math"
	"testing"

	"github.com/plus3/fountain/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("fixed size", func(t *testing.T) {
		store := particles.NewStore(10)
		assert.Equal(t, 10, store.Len())

		n := 0
		for i, p := range store.All() {
			assert.Equal(t, n, i)
			assert.Equal(t, particles.StateUnborn, p.State())
			n++
		}
		assert.Equal(t, 10, n)
	})

	t.Run("rejects an empty arena", func(t *testing.T) {
		assert.Panics(t, func() { particles.NewStore(0) })
		assert.Panics(t, func() { particles.NewStore(-3) })
	})

	t.Run("get mutates in place", func(t *testing.T) {
		store := particles.NewStore(4)
		store.Get(2).BirthTime = 3.5
		store.Get(2).Alive = true

		assert.Equal(t, 3.5, store.At(2).BirthTime)
		assert.True(t, store.At(2).Alive)
		assert.False(t, store.At(1).Alive)
	})

	t.Run("range aliases the arena", func(t *testing.T) {
		store := particles.NewStore(8)
		chunk := store.Range(2, 5)
		require.Len(t, chunk, 3)
		assert.Equal(t, 3, cap(chunk), "appending must not spill into the next chunk")

		chunk[0].BirthTime = 7
		assert.Equal(t, 7.0, store.At(2).BirthTime)
	})

	t.Run("early break", func(t *testing.T) {
		store := particles.NewStore(100)
		seen := 0
		for i := range store.All() {
			if i == 9 {
				break
			}
			seen++
		}
		assert.Equal(t, 9, seen)
	})
}

func TestParticleState(t *testing.T) {
	tests := []struct {
		name string
		p    particles.Particle
		want particles.State
	}{
		{"zero", particles.Particle{}, particles.StateUnborn},
		{"scheduled first birth", particles.Particle{BirthTime: 4}, particles.StateUnborn},
		{"alive", particles.Particle{Alive: true, Lives: 1}, particles.StateAlive},
		{"dead", particles.Particle{BirthTime: 2.01, Lives: 1}, particles.StateAwaitingRebirth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.State())
		})
	}
	assert.Equal(t, "awaiting-rebirth", particles.StateAwaitingRebirth.String())
}

func TestCensus(t *testing.T) {
	store := particles.NewStore(6)
	*store.Get(0) = particles.Particle{Alive: true, Lives: 1}
	*store.Get(1) = particles.Particle{Alive: true, Lives: 3}
	*store.Get(2) = particles.Particle{BirthTime: 1.2, Lives: 2}

	census := store.Census()
	assert.Equal(t, particles.Census{Alive: 2, Unborn: 3, AwaitingRebirth: 1}, census)
	assert.Equal(t, 6, census.Total())
}

func TestVerify(t *testing.T) {
	cfg := particles.DefaultConfig()

	tests := []struct {
		name    string
		p       particles.Particle
		wantErr string
	}{
		{"healthy", particles.Particle{Alive: true, BirthTime: 4.5, Lives: 1}, ""},
		{"scheduled rebirth", particles.Particle{BirthTime: 5.01, Lives: 1}, ""},
		{"nan birth", particles.Particle{BirthTime: math.NaN()}, "birth time NaN"},
		{"future birth", particles.Particle{Alive: true, BirthTime: 6, Lives: 1}, "future birth time"},
		{"outlived", particles.Particle{Alive: true, BirthTime: 3.5, Lives: 1}, "past its lifespan"},
		{"never born", particles.Particle{Alive: true, BirthTime: 4.8}, "without a recorded birth"},
		{"missed first birth", particles.Particle{BirthTime: 5}, "missed its birth"},
		{"missed rebirth", particles.Particle{BirthTime: 4.2, Lives: 3}, "missed its birth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := particles.NewStore(3)
			for i := range store.Len() {
				store.Get(i).BirthTime = 7
			}
			*store.Get(1) = tt.p

			err := store.Verify(5, cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "particle 1")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("stops after many violations", func(t *testing.T) {
		store := particles.NewStore(100)
		for i := range store.Len() {
			store.Get(i).BirthTime = math.Inf(1)
		}
		err := store.Verify(0, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too many violations")
		assert.NotContains(t, err.Error(), "particle 50")
	})
}
