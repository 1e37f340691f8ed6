package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

// imageSurface draws onto an offscreen ebiten image.
type imageSurface struct {
	img *ebiten.Image
}

func newImageSurface(width, height int) *imageSurface {
	s := &imageSurface{}
	s.Resize(width, height)
	return s
}

func (s *imageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the image. Contents are discarded, as with a canvas.
func (s *imageSurface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if s.img != nil {
		if w, h := s.Size(); w == width && h == height {
			return
		}
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(width, height)
}

func (s *imageSurface) Clear(c color.Color) {
	s.img.Fill(c)
}

func (s *imageSurface) FillCircle(cx, cy, r float64, c color.Color) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}

func (s *imageSurface) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	if r <= 0 {
		return
	}
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), c, true)
}

func (s *imageSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (s *imageSurface) Composite(src orbit.Surface, x, y float64) {
	is, ok := src.(*imageSurface)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	s.img.DrawImage(is.img, op)
}
