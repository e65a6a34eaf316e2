package ebitenview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/particles/debugui"
	"golang.org/x/image/font/basicfont"
)

// Overlay is drawn on top of the fountain, typically a Dear ImGui backend.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Game implements ebiten.Game around a Driver whose render systems include
// Sink.
type Game struct {
	Driver  *particles.Driver
	Sink    *Sink
	Overlay Overlay             // optional
	Input   *debugui.InputState // optional; keys are ignored while it captures the keyboard
	HUD     bool

	// PauseWhenUnfocused stops simulated time while the window is in the
	// background. Frames are still drawn.
	PauseWhenUnfocused bool
}

// NewGame creates a game for driver, registering a render system that feeds
// a sink of the given size.
func NewGame(driver *particles.Driver, width, height int) *Game {
	sink := NewSink(width, height)
	driver.Register(particles.NewRenderSystem(sink))
	return &Game{
		Driver:             driver,
		Sink:               sink,
		HUD:                true,
		PauseWhenUnfocused: true,
	}
}

func (g *Game) Update() error {
	if g.Overlay != nil {
		g.Overlay.BeginFrame()
		defer g.Overlay.EndFrame()
	}

	if g.Input == nil || !g.Input.WantCaptureKeyboard {
		if PollKeys(g.Driver.Commands(), inpututil.IsKeyJustPressed) {
			return ebiten.Termination
		}
	}

	if g.PauseWhenUnfocused && !ebiten.IsFocused() {
		return g.Driver.Redraw()
	}
	return g.Driver.Once()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.Sink.Clear)
	if img := g.Sink.Image(); img != nil {
		screen.DrawImage(img, nil)
	}

	if g.HUD {
		for i, line := range HUDLines(g.Driver.Simulation(), g.Sink.Drawn()) {
			text.Draw(screen, line, basicfont.Face7x13, 8, screen.Bounds().Dy()-8-13*(2-i), color.White)
		}
	}

	if g.Overlay != nil {
		g.Overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Sink.Resize(outsideWidth, outsideHeight)
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// HUDLines returns the status lines shown in the corner of the window.
func HUDLines(sim *particles.Simulation, drawn int) []string {
	state := "running"
	if !sim.Animating() {
		state = "paused"
	}
	size := "fixed"
	if sim.ComputedPointSize() {
		size = "computed"
	}
	return []string{
		fmt.Sprintf("t=%.3f pass=%d %s", sim.Time(), sim.Engine().Pass(), state),
		fmt.Sprintf("drawn %d of %d, point size %s", drawn, sim.Store().Len(), size),
		"[space] animate [p] point size [r] reset [v] verbose [esc] quit",
	}
}
