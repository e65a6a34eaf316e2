package term_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/render/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := range w {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, ' ', term.Glyph(0))
	assert.Equal(t, '.', term.Glyph(1))
	assert.Equal(t, ':', term.Glyph(2))
	assert.Equal(t, ':', term.Glyph(3))
	assert.Equal(t, '-', term.Glyph(4))
	assert.Equal(t, '@', term.Glyph(1<<20))
}

func TestSinkDrawsParticles(t *testing.T) {
	screen := newScreen(t, 40, 21)
	sink := term.NewSink(screen)

	u := particles.Uniforms{Time: 1, Lifespan: 1}
	require.NoError(t, sink.BeginFrame(u))
	require.NoError(t, sink.Submit([]particles.Attribute{
		{BirthTime: 1},
		{BirthTime: 1},
		{BirthTime: 1},
		{Position: mgl32.Vec3{0, 10, 0}, BirthTime: 1},
	}))
	require.NoError(t, sink.EndFrame())

	assert.Equal(t, 3, sink.Drawn())

	var cells []rune
	for y := range 20 {
		for _, r := range rowText(screen, y) {
			if r != ' ' {
				cells = append(cells, r)
			}
		}
	}
	assert.Equal(t, []rune{':'}, cells, "three particles at the origin share one cell")

	status := rowText(screen, 20)
	assert.True(t, strings.HasPrefix(status, " t=1.000 pass=0 drawn=3"), status)

	require.NoError(t, sink.BeginFrame(u))
	require.NoError(t, sink.EndFrame())
	for y := range 20 {
		assert.Equal(t, strings.Repeat(" ", 40), rowText(screen, y), "row %d should be cleared", y)
	}
}

func TestSinkFollowsResize(t *testing.T) {
	screen := newScreen(t, 20, 10)
	sink := term.NewSink(screen)
	sink.Status = false

	require.NoError(t, sink.BeginFrame(particles.Uniforms{}))
	require.NoError(t, sink.EndFrame())

	screen.SetSize(30, 12)
	require.NoError(t, sink.BeginFrame(particles.Uniforms{}))
	require.NoError(t, sink.Submit([]particles.Attribute{{}}))
	require.NoError(t, sink.EndFrame())
	assert.Equal(t, 1, sink.Drawn())
}

func TestSinkWithDriver(t *testing.T) {
	cfg := particles.DefaultConfig()
	cfg.Count = 5000
	cfg.InitialBirthMax = 0.1
	lv := new(slog.LevelVar)
	sim, err := particles.NewSimulation(cfg, particles.WithLogger(particles.NewLogger(io.Discard, lv), lv))
	require.NoError(t, err)

	screen := newScreen(t, 80, 25)
	sink := term.NewSink(screen)
	driver := particles.NewDriver(sim)
	render := particles.NewRenderSystem(sink)
	driver.Register(render)

	for range 60 {
		require.NoError(t, driver.Once())
	}
	assert.Greater(t, sink.Drawn(), 0)
	assert.LessOrEqual(t, sink.Drawn(), render.Submitted)
}

func TestHandleEvent(t *testing.T) {
	screen := newScreen(t, 10, 5)
	cfg := particles.DefaultConfig()
	cfg.Count = 8
	lv := new(slog.LevelVar)
	sim, err := particles.NewSimulation(cfg, particles.WithLogger(particles.NewLogger(io.Discard, lv), lv))
	require.NoError(t, err)
	driver := particles.NewDriver(sim)
	commands := driver.Commands()

	for _, r := range " prv" {
		assert.False(t, term.HandleEvent(screen, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), commands))
	}
	assert.False(t, term.HandleEvent(screen, tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), commands))
	assert.Equal(t, 4, commands.Pending())

	assert.False(t, term.HandleEvent(screen, tcell.NewEventResize(10, 5), commands))

	assert.True(t, term.HandleEvent(screen, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), commands))
	assert.True(t, term.HandleEvent(screen, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), commands))
	assert.True(t, term.HandleEvent(screen, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), commands))
}
