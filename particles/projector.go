package particles

import (
	"context"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute is the per-particle vertex input of the rendering stage. Its
// layout is three packed vec3/float attributes, 28 bytes.
type Attribute struct {
	Position  mgl32.Vec3 // initial position
	Velocity  mgl32.Vec3 // initial velocity
	BirthTime float32
}

// Uniforms are the inputs shared by every particle of a frame.
type Uniforms struct {
	Time              float32
	Acceleration      mgl32.Vec3
	Lifespan          float32
	ComputedPointSize bool
	Pass              uint64
}

// Sink is a rendering stage. Per frame it receives one BeginFrame, any
// number of Submit calls carrying the live particles in index order, and one
// EndFrame. Batches are only valid for the duration of the call.
type Sink interface {
	BeginFrame(u Uniforms) error
	Submit(batch []Attribute) error
	EndFrame() error
}

// Projector streams the live particles of a simulation to a Sink. It never
// evaluates positions; that is the sink's job.
type Projector struct {
	buffers [][]Attribute // per chunk, reused between frames
}

func NewProjector() *Projector {
	return &Projector{}
}

// Project gathers the live particles chunk by chunk in parallel, then
// submits the chunks in index order. Dead and unborn particles are never
// submitted. It returns the number of particles submitted.
func (p *Projector) Project(sim *Simulation, sink Sink) (int, error) {
	cfg := sim.Config()
	store := sim.Store()
	count := chunkCount(store.Len(), cfg.ChunkSize)
	if len(p.buffers) != count {
		p.buffers = make([][]Attribute, count)
	}

	_ = parallelFor(store.Len(), cfg.ChunkSize, cfg.workers(), func(c chunk) error {
		buf := p.buffers[c.index][:0]
		for _, particle := range store.Range(c.lo, c.hi) {
			if particle.Alive {
				buf = append(buf, particle.Attribute())
			}
		}
		p.buffers[c.index] = buf
		return nil
	})

	u := UniformsOf(sim)
	if err := sink.BeginFrame(u); err != nil {
		return 0, err
	}

	logger := sim.Logger()
	verbose := logger.Enabled(context.Background(), slog.LevelDebug)
	if verbose {
		logger.Debug("pass", "pass", u.Pass)
	}

	submitted := 0
	for i, buf := range p.buffers {
		if len(buf) == 0 {
			continue
		}
		if verbose {
			logDrawn(logger, i*cfg.ChunkSize, store, buf, u.Time)
		}
		if err := sink.Submit(buf); err != nil {
			return submitted, err
		}
		submitted += len(buf)
	}
	return submitted, sink.EndFrame()
}

func logDrawn(logger *slog.Logger, lo int, store *Store, buf []Attribute, now float32) {
	n := 0
	for i := lo; n < len(buf); i++ {
		if !store.Get(i).Alive {
			continue
		}
		a := buf[n]
		logger.Debug("drew", "particle", i,
			"vx", a.Velocity.X(), "vy", a.Velocity.Y(), "vz", a.Velocity.Z(), "time", now)
		n++
	}
}

// UniformsOf returns the shared frame inputs of sim.
func UniformsOf(sim *Simulation) Uniforms {
	cfg := sim.Config()
	return Uniforms{
		Time:              float32(sim.Time()),
		Acceleration:      cfg.Acceleration,
		Lifespan:          float32(cfg.Lifespan),
		ComputedPointSize: sim.ComputedPointSize(),
		Pass:              sim.Engine().Pass(),
	}
}

// RenderSystem projects the simulation into a sink every frame.
type RenderSystem struct {
	Projector *Projector
	Sink      Sink

	Submitted int // particles submitted in the last frame
}

// NewRenderSystem pairs a fresh projector with sink.
func NewRenderSystem(sink Sink) *RenderSystem {
	return &RenderSystem{Projector: NewProjector(), Sink: sink}
}

func (r *RenderSystem) Execute(frame *UpdateFrame) error {
	n, err := r.Projector.Project(frame.Sim, r.Sink)
	r.Submitted = n
	return err
}

// FrameBuffer is a Sink that keeps a copy of the last complete frame.
type FrameBuffer struct {
	Uniforms   Uniforms
	Attributes []Attribute
	Frames     int

	pending []Attribute
}

func (f *FrameBuffer) BeginFrame(u Uniforms) error {
	f.Uniforms = u
	f.pending = f.pending[:0]
	return nil
}

func (f *FrameBuffer) Submit(batch []Attribute) error {
	f.pending = append(f.pending, batch...)
	return nil
}

func (f *FrameBuffer) EndFrame() error {
	f.Attributes, f.pending = f.pending, f.Attributes
	f.Frames++
	return nil
}
