package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/fountain/particles"
)

// Control is a menu entry bound to a key.
type Control struct {
	Key   rune
	Label string
}

// Controls lists the fountain's key bindings in menu order.
var Controls = []Control{
	{' ', "Animate"},
	{'p', "Toggle point size computation"},
	{'r', "Reset particles"},
	{'v', "Toggle verbose output"},
}

// MenuLabel renders a control the way the fountain's menu shows it.
func (c Control) MenuLabel() string {
	return fmt.Sprintf("[%c] %s", c.Key, c.Label)
}

// ControlsPanel offers a button per key binding and shows the toggles.
type ControlsPanel struct{}

func NewControlsPanel() *ControlsPanel {
	return &ControlsPanel{}
}

func (cp *ControlsPanel) Render(frame *Frame) {
	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(280, 200), imgui.CondOnce)
	if !imgui.BeginV("Controls", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sim := frame.Sim
	if sim.Animating() {
		imgui.TextColored(imgui.NewVec4(0.0, 1.0, 0.0, 1.0), "RUNNING")
	} else {
		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
	}
	imgui.Text(fmt.Sprintf("Point size: %s", pointSizeMode(sim)))
	imgui.Text(fmt.Sprintf("Verbose: %v", sim.Verbose()))
	imgui.Separator()

	for _, c := range Controls {
		if imgui.Button(c.MenuLabel()) {
			frame.Commands.Key(c.Key)
		}
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Simulation %s", sim.ID()))
	imgui.End()
}

func pointSizeMode(sim *particles.Simulation) string {
	if sim.ComputedPointSize() {
		return "computed"
	}
	return "fixed"
}
