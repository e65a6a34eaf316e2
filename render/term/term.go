// Package term draws a fountain on a terminal. Each cell shows how many
// particles landed in it, shaded by their average age.
package term

import (
	"fmt"
	"math/bits"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/fountain/particles"
	"github.com/plus3/fountain/pipeline"
)

// Ramp lists the glyphs used for increasing particle density. Density
// doubles from one glyph to the next.
const Ramp = " .:-=+*#%@"

// CellAspect is the height of a terminal cell relative to its width.
const CellAspect = 2

// Sink is a particles.Sink that draws onto a tcell screen. The bottom row
// is reserved for a status line.
type Sink struct {
	Screen tcell.Screen
	Camera pipeline.Camera
	Status bool

	width, height int
	density       []uint32
	age           []float32
	uniforms      particles.Uniforms
	mvp           mgl32.Mat4
	drawn         int
}

func NewSink(screen tcell.Screen) *Sink {
	return &Sink{
		Screen: screen,
		Camera: pipeline.DefaultCamera(),
		Status: true,
	}
}

// Drawn returns the number of particles that landed on screen in the last
// frame.
func (s *Sink) Drawn() int { return s.drawn }

func (s *Sink) BeginFrame(u particles.Uniforms) error {
	w, h := s.Screen.Size()
	if s.Status {
		h--
	}
	w, h = max(w, 1), max(h, 1)
	if w != s.width || h != s.height {
		s.width, s.height = w, h
		s.density = make([]uint32, w*h)
		s.age = make([]float32, w*h)
	} else {
		clear(s.density)
		clear(s.age)
	}

	s.uniforms = u
	s.drawn = 0
	aspect := float32(w) / float32(h*CellAspect)
	s.mvp = s.Camera.ViewProjection(u.Time, aspect)
	return nil
}

func (s *Sink) Submit(batch []particles.Attribute) error {
	for _, a := range batch {
		pos := pipeline.Position(a, s.uniforms)
		x, y, _, ok := pipeline.Project(s.mvp, pos, s.width, s.height)
		if !ok {
			continue
		}
		cx := min(int(x), s.width-1)
		cy := min(int(y), s.height-1)
		i := cy*s.width + cx
		s.density[i]++
		s.age[i] += pipeline.LifeFraction(a, s.uniforms)
		s.drawn++
	}
	return nil
}

func (s *Sink) EndFrame() error {
	bg := tcell.NewRGBColor(int32(pipeline.ClearColor.R), int32(pipeline.ClearColor.G), int32(pipeline.ClearColor.B))
	base := tcell.StyleDefault.Background(bg)

	for y := range s.height {
		for x := range s.width {
			i := y*s.width + x
			n := s.density[i]
			if n == 0 {
				s.Screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			c := pipeline.Color(s.age[i] / float32(n))
			fg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			s.Screen.SetContent(x, y, Glyph(n), nil, base.Foreground(fg))
		}
	}

	if s.Status {
		s.drawStatus()
	}
	s.Screen.Show()
	return nil
}

func (s *Sink) drawStatus() {
	w, h := s.Screen.Size()
	line := fmt.Sprintf(" t=%.3f pass=%d drawn=%d  [space] animate [p] size [r] reset [v] verbose [q] quit",
		s.uniforms.Time, s.uniforms.Pass, s.drawn)
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		s.Screen.SetContent(x, h-1, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		s.Screen.SetContent(x, h-1, ' ', nil, style)
	}
}

// Glyph returns the ramp glyph for a cell holding n particles.
func Glyph(n uint32) rune {
	i := min(bits.Len32(n), len(Ramp)-1)
	return rune(Ramp[i])
}
