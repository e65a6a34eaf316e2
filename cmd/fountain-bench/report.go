package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/fountain/particles"
)

type Report struct {
	// Configuration
	Simulation string
	Duration   time.Duration
	Particles  int
	Workers    int
	ChunkSize  int
	Seed       uint64

	// Results
	Ticks          uint64
	SimulatedTime  float64
	TotalTime      time.Duration
	FrameTime      Stats
	Phases         []particles.PhaseStats
	Births         int64
	Deaths         int64
	Submitted      int64
	Census         particles.Census
	Verifications  int
	VerifyErrors   []string
	Audit          *AuditSummary
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type AuditSummary struct {
	Lives       int
	MinLifetime float64
	MaxLifetime float64
	Violations  []string
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// TicksPerSecond is the wall-clock tick rate.
func (r *Report) TicksPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.Ticks) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Fountain Benchmark Report

## Configuration
- **Simulation:** {{.Simulation}}
- **Run Duration:** {{.Duration}}
- **Particles:** {{.Particles}}
- **Workers:** {{if .Workers}}{{.Workers}}{{else}}GOMAXPROCS{{end}}
- **Chunk Size:** {{.ChunkSize}}
- **Seed:** {{.Seed}}

## Lifecycle
- **Ticks:** {{.Ticks}} ({{printf "%.1f" .TicksPerSecond}}/s)
- **Simulated Time:** {{printf "%.3f" .SimulatedTime}}
- **Births:** {{.Births}}
- **Deaths:** {{.Deaths}}
- **Final Census:** {{.Census.Alive}} alive, {{.Census.AwaitingRebirth}} awaiting rebirth, {{.Census.Unborn}} unborn
{{- if .Submitted}}
- **Particles Submitted:** {{.Submitted}}
{{- end}}

## Frame Time
- **Avg:** {{.FrameTime.Avg}}
- **Min:** {{.FrameTime.Min}}
- **Max:** {{.FrameTime.Max}}

## Phases
{{range .Phases}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{end}}
{{- if .Verifications}}
## Invariants
- **Checks:** {{.Verifications}}
- **Failures:** {{len .VerifyErrors}}
{{range .VerifyErrors}}  - {{.}}
{{end}}
{{- end}}
{{- with .Audit}}
## Lifespan Audit
- **Completed Lives:** {{.Lives}}
- **Lifetime:** {{printf "%.4f" .MinLifetime}} .. {{printf "%.4f" .MaxLifetime}}
- **Violations:** {{len .Violations}}
{{range .Violations}}  - {{.}}
{{end}}
{{- end}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc | mb}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc | mb}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys | mb}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
