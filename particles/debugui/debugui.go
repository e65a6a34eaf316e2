// Package debugui provides Dear ImGui panels for inspecting and steering a
// running fountain. Panels are rendered through the Driver's command buffer,
// so they draw after the frame's render systems have run.
package debugui

import (
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/fountain/particles"
)

// Panel is one ImGui window.
type Panel interface {
	Render(frame *Frame)
}

// Frame is what a panel sees when it renders.
type Frame struct {
	Sim       *particles.Simulation
	Stats     *particles.DriverStats
	Commands  *particles.Commands
	Advance   particles.AdvanceReport
	DeltaTime float32 // wall-clock seconds since the previous frame
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Key bindings should be ignored while WantCaptureKeyboard is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// System samples the driver every frame and defers the render of every
// panel to the end of the frame.
type System struct {
	Driver *particles.Driver
	Panels []Panel
	Input  InputState

	timer *FrameTimer
}

// NewSystem creates a debug UI system for driver with the given panels.
func NewSystem(driver *particles.Driver, panels ...Panel) *System {
	return &System{
		Driver: driver,
		Panels: panels,
		timer:  NewFrameTimer(),
	}
}

// Execute updates input state and queues all panel renders.
func (s *System) Execute(frame *particles.UpdateFrame) error {
	io := imgui.CurrentIO()
	s.Input.WantCaptureMouse = io.WantCaptureMouse()
	s.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	f := &Frame{
		Sim:       frame.Sim,
		Stats:     s.Driver.GetStats(),
		Commands:  frame.Commands,
		Advance:   frame.Advance,
		DeltaTime: s.timer.GetDeltaTime(),
	}
	for _, panel := range s.Panels {
		frame.Commands.Defer(func() { panel.Render(f) })
	}
	return nil
}

// DefaultPanels returns the performance, population and control panels.
func DefaultPanels() []Panel {
	return []Panel{
		NewPerformancePanel(120),
		NewPopulationPanel(300),
		NewControlsPanel(),
	}
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
