package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/fountain/internal/cli"
	"github.com/plus3/fountain/particles"
)

func main() {
	shared := cli.Register(flag.CommandLine)
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	maxTicks := flag.Int64("ticks", 0, "Stop after this many ticks; 0 runs for the full duration.")
	render := flag.Bool("render", true, "Project live particles into a frame buffer every frame.")
	verifyEvery := flag.Int("verify", 0, "Check the lifecycle invariants every N ticks; 0 disables.")
	audit := flag.Bool("audit", false, "Track every life and check it against the lifespan.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting fountain benchmark...")

	var opts []particles.SimulationOption
	var lifeAudit *particles.Audit
	if *audit {
		lifeAudit = particles.NewAudit(shared.Config())
		opts = append(opts, particles.WithEngineOptions(particles.WithObserver(lifeAudit)))
	}

	sim, err := shared.NewSimulation(os.Stderr, opts...)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	driver := particles.NewDriver(sim)
	var renderSystem *particles.RenderSystem
	if *render {
		renderSystem = particles.NewRenderSystem(&particles.FrameBuffer{})
		driver.Register(renderSystem)
	}

	cfg := sim.Config()
	report := &Report{
		Simulation:     sim.ID().String(),
		Duration:       *duration,
		Particles:      cfg.Count,
		Workers:        cfg.Workers,
		ChunkSize:      cfg.ChunkSize,
		Seed:           cfg.Seed,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d particles for %s...\n", cfg.Count, *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			frameStart := time.Now()
			if err := driver.Once(); err != nil {
				log.Fatalf("Frame failed: %v", err)
			}
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))

			adv := sim.LastAdvance()
			report.Births += int64(adv.Births)
			report.Deaths += int64(adv.Deaths)
			if renderSystem != nil {
				report.Submitted += int64(renderSystem.Submitted)
			}

			if *verifyEvery > 0 && adv.Pass%uint64(*verifyEvery) == 0 {
				report.Verifications++
				if err := sim.Store().Verify(sim.Time(), cfg); err != nil {
					report.VerifyErrors = append(report.VerifyErrors, fmt.Sprintf("pass %d: %v", adv.Pass, err))
				}
			}

			if *maxTicks > 0 && int64(adv.Pass) >= *maxTicks {
				break Loop
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Ticks = sim.Engine().Pass()
	report.SimulatedTime = sim.Time()
	report.Census = sim.Store().Census()
	report.Phases = driver.GetStats().Phases
	report.FrameTime.Finalize()
	if lifeAudit != nil {
		report.Audit = &AuditSummary{
			Lives:       lifeAudit.Lives,
			MinLifetime: lifeAudit.MinLifetime,
			MaxLifetime: lifeAudit.MaxLifetime,
			Violations:  lifeAudit.Violations,
		}
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Benchmark finished.")

	fmt.Println("\n\n--- Fountain Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	if len(report.VerifyErrors) > 0 || (report.Audit != nil && len(report.Audit.Violations) > 0) {
		os.Exit(1)
	}
}
