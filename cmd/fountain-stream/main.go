package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/fountain/internal/cli"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/render/wsstream"
)

func main() {
	shared := cli.Register(flag.CommandLine)
	addr := flag.String("addr", "localhost:8080", "Address to serve websocket clients on.")
	interval := flag.Duration("interval", 16*time.Millisecond, "Time between frames.")
	stride := flag.Int("stride", 10, "Send one particle out of every N.")
	flag.Parse()

	sim, err := shared.NewSimulation(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}
	logger := sim.Logger()

	driver := particles.NewDriver(sim)
	hub := wsstream.NewHub(sim, driver.Commands(), logger)
	hub.Stride = *stride
	driver.Register(particles.NewRenderSystem(hub))

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("serving", "addr", *addr, "path", "/ws")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	if err := driver.Run(ctx, *interval); err != nil {
		logger.Error("driver stopped", "err", err)
	}

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("stopped", "frames", driver.GetStats().TotalFrames, "dropped", hub.Dropped())
}
