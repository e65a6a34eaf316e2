package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/fountain/particles"
)

// PopulationPanel charts how many particles are alive, unborn and awaiting
// rebirth, and the births and deaths of each pass.
type PopulationPanel struct {
	Census particles.Census

	alive    *History
	awaiting *History
	unborn   *History
	births   *History
	deaths   *History
}

func NewPopulationPanel(historyFrames int) *PopulationPanel {
	return &PopulationPanel{
		alive:    NewHistory(historyFrames),
		awaiting: NewHistory(historyFrames),
		unborn:   NewHistory(historyFrames),
		births:   NewHistory(historyFrames),
		deaths:   NewHistory(historyFrames),
	}
}

// Sample takes a census of the store. Paused frames are not sampled.
func (pp *PopulationPanel) Sample(frame *Frame) {
	pp.Census = frame.Sim.Store().Census()
	if frame.Advance.Pass == 0 {
		return
	}
	pp.alive.Push(float32(pp.Census.Alive))
	pp.awaiting.Push(float32(pp.Census.AwaitingRebirth))
	pp.unborn.Push(float32(pp.Census.Unborn))
	pp.births.Push(float32(frame.Advance.Births))
	pp.deaths.Push(float32(frame.Advance.Deaths))
}

func (pp *PopulationPanel) Render(frame *Frame) {
	pp.Sample(frame)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 360), imgui.CondOnce)
	if !imgui.BeginV("Population", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Time: %.3f", frame.Sim.Time()))
	imgui.Text(fmt.Sprintf("Alive: %d", pp.Census.Alive))
	imgui.Text(fmt.Sprintf("Awaiting rebirth: %d", pp.Census.AwaitingRebirth))
	imgui.Text(fmt.Sprintf("Unborn: %d", pp.Census.Unborn))
	imgui.Separator()

	if imgui.BeginTabBar("PopulationTabs") {
		if imgui.BeginTabItem("States") {
			if implot.BeginPlotV("Population Over Time", imgui.NewVec2(-1, -1), 0) {
				implot.SetupAxesV("Pass", "Particles", 0, 0)
				implot.SetupAxisLimitsV(implot.AxisY1, 0, float64(frame.Sim.Store().Len()), implot.CondAlways)
				plotHistory("Alive", pp.alive)
				plotHistory("Awaiting rebirth", pp.awaiting)
				plotHistory("Unborn", pp.unborn)
				implot.EndPlot()
			}
			imgui.EndTabItem()
		}

		if imgui.BeginTabItem("Turnover") {
			if implot.BeginPlotV("Births and Deaths", imgui.NewVec2(-1, -1), 0) {
				implot.SetupAxesV("Pass", "Per pass", 0, implot.AxisFlagsAutoFit)
				plotHistory("Births", pp.births)
				plotHistory("Deaths", pp.deaths)
				implot.EndPlot()
			}
			imgui.EndTabItem()
		}
		imgui.EndTabBar()
	}

	imgui.End()
}

func plotHistory(label string, h *History) {
	samples := h.Ordered()
	implot.PlotLineFloatPtrInt(label, &samples[0], int32(len(samples)))
}
