// Package ebitenview shows a fountain in an Ebiten window. Particles are
// rasterized in software by the pipeline package and uploaded to the GPU
// once per frame.
package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/fountain/pipeline"
)

// Sink is a particles.Sink that draws into an ebiten image.
type Sink struct {
	*pipeline.Raster

	image *ebiten.Image
}

func NewSink(width, height int) *Sink {
	return &Sink{Raster: pipeline.NewRaster(width, height)}
}

// EndFrame completes the raster and uploads it.
func (s *Sink) EndFrame() error {
	if err := s.Raster.EndFrame(); err != nil {
		return err
	}

	rgba := s.Raster.Image()
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if s.image == nil || s.image.Bounds().Dx() != w || s.image.Bounds().Dy() != h {
		if s.image != nil {
			s.image.Deallocate()
		}
		s.image = ebiten.NewImage(w, h)
	}
	s.image.WritePixels(rgba.Pix)
	return nil
}

// Image returns the last uploaded frame, or nil before the first frame.
func (s *Sink) Image() *ebiten.Image { return s.image }
