package particles

import (
	"context"
	"io"
	"log/slog"
)

// NewLogger returns a text logger whose threshold follows lv, so toggling
// verbose output takes effect on the next record.
func NewLogger(w io.Writer, lv *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

// LogObserver writes births and deaths at debug level.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Enabled() bool {
	return o.logger.Enabled(context.Background(), slog.LevelDebug)
}

func (o *LogObserver) ObserveReset(generation uint64, count int) {
	o.logger.Info("particles reset", "generation", generation, "count", count)
}

func (o *LogObserver) ObserveAdvance(pass uint64, now float64, transitions []Transition) {
	for _, t := range transitions {
		switch t.Kind {
		case StateAlive:
			o.logger.Debug("birth", "particle", t.Index,
				"vx", t.Velocity.X(), "vy", t.Velocity.Y(), "vz", t.Velocity.Z(), "time", now)
		case StateAwaitingRebirth:
			o.logger.Debug("death", "particle", t.Index, "time", now)
		}
	}
}
