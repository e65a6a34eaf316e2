package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
)

// PerformancePanel shows frame times and per-phase durations.
type PerformancePanel struct {
	frameHistory *History
	phases       map[string]*History
	phaseOrder   []string
	historySize  int
}

func NewPerformancePanel(historyFrames int) *PerformancePanel {
	return &PerformancePanel{
		frameHistory: NewHistory(historyFrames),
		phases:       make(map[string]*History),
		historySize:  historyFrames,
	}
}

// Sample records the frame time and the latest duration of every phase.
func (pp *PerformancePanel) Sample(frame *Frame) {
	pp.frameHistory.Push(frame.DeltaTime * 1000.0)
	for _, phase := range frame.Stats.Phases {
		h, ok := pp.phases[phase.Name]
		if !ok {
			h = NewHistory(pp.historySize)
			pp.phases[phase.Name] = h
			pp.phaseOrder = append(pp.phaseOrder, phase.Name)
		}
		h.Push(float32(phase.LastDuration.Microseconds()) / 1000.0)
	}
}

// FrameTimes returns the frame time history in milliseconds.
func (pp *PerformancePanel) FrameTimes() *History { return pp.frameHistory }

// Phase returns the latency history of the named phase, or nil if it was
// never sampled.
func (pp *PerformancePanel) Phase(name string) *History { return pp.phases[name] }

func (pp *PerformancePanel) Render(frame *Frame) {
	pp.Sample(frame)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := pp.frameHistory.Mean()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}
	imgui.Text(fmt.Sprintf("Frames: %d  Pass: %d", frame.Stats.TotalFrames, frame.Sim.Engine().Pass()))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	samples := pp.frameHistory.Ordered()
	imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))

	if imgui.TreeNodeStr("Phases") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("PhaseTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, phase := range frame.Stats.Phases {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(phase.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", phase.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(phase.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(phase.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if implot.BeginPlotV("Phase Latency", imgui.NewVec2(-1, 160), 0) {
		yMax := float64(1)
		for _, name := range pp.phaseOrder {
			yMax = max(yMax, float64(pp.phases[name].Max())*1.1)
		}
		implot.SetupAxesV("Frame", "Time (ms)", 0, 0)
		implot.SetupAxisLimitsV(implot.AxisY1, 0, yMax, implot.CondAlways)
		for _, name := range pp.phaseOrder {
			samples := pp.phases[name].Ordered()
			implot.PlotLineFloatPtrInt(name, &samples[0], int32(len(samples)))
		}
		implot.EndPlot()
	}

	imgui.End()
}
