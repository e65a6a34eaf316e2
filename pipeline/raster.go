package pipeline

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/fountain/particles"
)

// Raster is a software point renderer. It implements particles.Sink and
// draws every submitted particle as a square splat into an RGBA image.
//
// The completed image is only valid between EndFrame and the next
// BeginFrame.
type Raster struct {
	Camera Camera
	Clear  color.RGBA

	img      *image.RGBA
	uniforms particles.Uniforms
	mvp      mgl32.Mat4
	drawn    int
	frames   int
}

// NewRaster creates a w×h raster using the default camera.
func NewRaster(w, h int) *Raster {
	return &Raster{
		Camera: DefaultCamera(),
		Clear:  ClearColor,
		img:    image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
	}
}

// Resize changes the viewport, dropping the current contents.
func (r *Raster) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if b := r.img.Bounds(); b.Dx() == w && b.Dy() == h {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Image returns the raster's backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Uniforms returns the inputs of the current frame.
func (r *Raster) Uniforms() particles.Uniforms { return r.uniforms }

// Drawn returns the number of particles that landed in the viewport during
// the last frame.
func (r *Raster) Drawn() int { return r.drawn }

// Frames returns the number of completed frames.
func (r *Raster) Frames() int { return r.frames }

func (r *Raster) BeginFrame(u particles.Uniforms) error {
	r.uniforms = u
	r.drawn = 0
	b := r.img.Bounds()
	r.mvp = r.Camera.ViewProjection(u.Time, float32(b.Dx())/float32(b.Dy()))

	pix := r.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = r.Clear.R
		pix[i+1] = r.Clear.G
		pix[i+2] = r.Clear.B
		pix[i+3] = r.Clear.A
	}
	return nil
}

func (r *Raster) Submit(batch []particles.Attribute) error {
	b := r.img.Bounds()
	w, h := b.Dx(), b.Dy()
	for _, a := range batch {
		v := Shade(a, r.uniforms)
		x, y, _, ok := Project(r.mvp, v.Position, w, h)
		if !ok {
			continue
		}
		r.splat(x, y, v.Size, v.Color)
		r.drawn++
	}
	return nil
}

func (r *Raster) EndFrame() error {
	r.frames++
	return nil
}

func (r *Raster) splat(cx, cy, size float32, c color.RGBA) {
	half := size / 2
	b := r.img.Bounds()
	x0 := max(int(math.Floor(float64(cx-half))), b.Min.X)
	y0 := max(int(math.Floor(float64(cy-half))), b.Min.Y)
	x1 := min(int(math.Ceil(float64(cx+half))), b.Max.X)
	y1 := min(int(math.Ceil(float64(cy+half))), b.Max.Y)

	for y := y0; y < y1; y++ {
		off := r.img.PixOffset(x0, y)
		for x := x0; x < x1; x++ {
			px := r.img.Pix[off : off+4 : off+4]
			px[0] = c.R
			px[1] = c.G
			px[2] = c.B
			px[3] = c.A
			off += 4
		}
	}
}
