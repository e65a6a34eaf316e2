package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/fountain/internal/cli"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/particles/debugui"
	debugui_ebiten "github.com/plus3/fountain/particles/debugui/ebiten"
	"github.com/plus3/fountain/render/ebitenview"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	shared := cli.Register(flag.CommandLine)
	noUI := flag.Bool("no-ui", false, "Hide the Dear ImGui panels.")
	keepRunning := flag.Bool("keep-running", false, "Keep ticking while the window is unfocused.")
	flag.Parse()

	sim, err := shared.NewSimulation(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	driver := particles.NewDriver(sim)

	var overlay ebitenview.Overlay
	if *noUI {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("Fountain")
	} else {
		backend := debugui_ebiten.NewImguiBackend("Fountain", ScreenWidth, ScreenHeight)
		overlay = debugui_ebiten.Overlay{Backend: backend}
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := ebitenview.NewGame(driver, ScreenWidth, ScreenHeight)
	game.PauseWhenUnfocused = !*keepRunning
	if overlay != nil {
		ui := debugui.NewSystem(driver, debugui.DefaultPanels()...)
		driver.Register(ui)
		game.Overlay = overlay
		game.Input = &ui.Input
	}

	sim.Logger().Info("fountain started", "particles", sim.Store().Len())
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
