package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/fountain/internal/cli"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/render/term"
)

func main() {
	shared := cli.Register(flag.CommandLine)
	interval := flag.Duration("interval", 16*time.Millisecond, "Time between frames.")
	logFile := flag.String("log", "", "Write logs to this file; the terminal is busy drawing.")
	flag.Set("particles", "50000")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	sim, err := shared.NewSimulation(logOut)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	driver := particles.NewDriver(sim)
	driver.Register(particles.NewRenderSystem(term.NewSink(screen)))

	err = run(screen, driver, *interval)
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fountain-term: %v\n", err)
		os.Exit(1)
	}
}

func run(screen tcell.Screen, driver *particles.Driver, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if term.HandleEvent(screen, ev, driver.Commands()) {
				return nil
			}
		case <-ticker.C:
			if err := driver.Once(); err != nil {
				return err
			}
		}
	}
}
