package cli_test

import (
	"bytes"
	"flag"
	"testing"

	"github.com/plus3/fountain/internal/cli"
	"github.com/plus3/fountain/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		f := cli.Register(fs)
		require.NoError(t, fs.Parse(nil))
		assert.Equal(t, particles.DefaultConfig(), f.Config())
	})

	t.Run("overrides", func(t *testing.T) {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		f := cli.Register(fs)
		require.NoError(t, fs.Parse([]string{"-particles", "100", "-seed", "9", "-workers", "2", "-chunk", "16", "-step", "0.01", "-verbose"}))

		cfg := f.Config()
		assert.Equal(t, 100, cfg.Count)
		assert.Equal(t, uint64(9), cfg.Seed)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, 16, cfg.ChunkSize)
		assert.Equal(t, 0.01, cfg.TickStep)

		var out bytes.Buffer
		sim, err := f.NewSimulation(&out)
		require.NoError(t, err)
		assert.True(t, sim.Verbose())
		assert.Equal(t, 100, sim.Store().Len())
		assert.Contains(t, out.String(), "particles reset")
	})

	t.Run("invalid", func(t *testing.T) {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		f := cli.Register(fs)
		require.NoError(t, fs.Parse([]string{"-particles", "0"}))

		_, err := f.NewSimulation(&bytes.Buffer{})
		assert.ErrorIs(t, err, particles.ErrInvalidConfig)
	})
}
