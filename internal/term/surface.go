package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

// A terminal cell stands in for CellWidth x CellHeight scene pixels and is
// drawn as two square half-block pixels.
const (
	CellWidth  = 8
	CellHeight = 16
	pixelSize  = CellHeight / 2
)

// Viewport converts a terminal size in cells to scene pixels.
func Viewport(cols, rows int) (width, height int) {
	return cols * CellWidth, rows * CellHeight
}

// pixelSurface rasterises drawing calls onto a grid of half-block pixels.
type pixelSurface struct {
	cols, rows int
	px         []colorful.Color // cols x (rows*2), row-major
}

func newPixelSurface(width, height int) *pixelSurface {
	s := &pixelSurface{}
	s.Resize(width, height)
	return s
}

func (s *pixelSurface) Size() (int, int) { return Viewport(s.cols, s.rows) }

func (s *pixelSurface) Resize(width, height int) {
	cols, rows := width/CellWidth, height/CellHeight
	if cols == s.cols && rows == s.rows && s.px != nil {
		return
	}
	s.cols, s.rows = cols, rows
	s.px = make([]colorful.Color, cols*rows*2)
}

func (s *pixelSurface) gridHeight() int { return s.rows * 2 }

func (s *pixelSurface) at(gx, gy int) colorful.Color { return s.px[gy*s.cols+gx] }

func (s *pixelSurface) blend(gx, gy int, c colorful.Color, alpha float64) {
	if gx < 0 || gy < 0 || gx >= s.cols || gy >= s.gridHeight() {
		return
	}
	i := gy*s.cols + gx
	if alpha >= 1 {
		s.px[i] = c
		return
	}
	s.px[i] = s.px[i].BlendRgb(c, alpha)
}

// toColorful un-premultiplies c. ok is false for fully transparent colours.
func toColorful(c color.Color) (colorful.Color, float64, bool) {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return colorful.Color{}, 0, false
	}
	cc, _ := colorful.MakeColor(c)
	return cc, float64(a) / 0xffff, true
}

func (s *pixelSurface) Clear(c color.Color) {
	cc, _, ok := toColorful(c)
	if !ok {
		cc = colorful.Color{}
	}
	for i := range s.px {
		s.px[i] = cc
	}
}

// pixelCenter returns the scene coordinates of the middle of grid pixel (gx, gy).
func pixelCenter(gx, gy int) (float64, float64) {
	return (float64(gx) + 0.5) * CellWidth, (float64(gy) + 0.5) * pixelSize
}

func (s *pixelSurface) bounds(cx, cy, r float64) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor((cx - r) / CellWidth))
	x1 = int(math.Floor((cx + r) / CellWidth))
	y0 = int(math.Floor((cy - r) / pixelSize))
	y1 = int(math.Floor((cy + r) / pixelSize))
	return
}

func (s *pixelSurface) FillCircle(cx, cy, r float64, c color.Color) {
	cc, alpha, ok := toColorful(c)
	if !ok {
		return
	}
	hit := false
	x0, y0, x1, y1 := s.bounds(cx, cy, r)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			px, py := pixelCenter(gx, gy)
			if math.Hypot(px-cx, py-cy) <= r {
				s.blend(gx, gy, cc, alpha)
				hit = true
			}
		}
	}
	// bodies smaller than a pixel still show up
	if !hit {
		s.blend(int(math.Floor(cx/CellWidth)), int(math.Floor(cy/pixelSize)), cc, alpha)
	}
}

func (s *pixelSurface) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	if r <= 0 {
		return
	}
	cc, alpha, ok := toColorful(c)
	if !ok {
		return
	}
	half := math.Max(width/2, pixelSize/2)
	x0, y0, x1, y1 := s.bounds(cx, cy, r+half)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			px, py := pixelCenter(gx, gy)
			if math.Abs(math.Hypot(px-cx, py-cy)-r) <= half {
				s.blend(gx, gy, cc, alpha)
			}
		}
	}
}

func (s *pixelSurface) StrokeLine(x0, y0, x1, y1, _ float64, c color.Color) {
	cc, alpha, ok := toColorful(c)
	if !ok {
		return
	}
	steps := int(math.Ceil(math.Hypot(x1-x0, y1-y0) / (pixelSize / 2)))
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		gx := int(math.Floor((x0 + (x1-x0)*t) / CellWidth))
		gy := int(math.Floor((y0 + (y1-y0)*t) / pixelSize))
		if gx == lastX && gy == lastY {
			continue
		}
		lastX, lastY = gx, gy
		s.blend(gx, gy, cc, alpha)
	}
}

func (s *pixelSurface) Composite(src orbit.Surface, x, y float64) {
	ps, ok := src.(*pixelSurface)
	if !ok {
		if ss, isScreen := src.(*screenSurface); isScreen {
			ps = ss.pixelSurface
		} else {
			return
		}
	}
	dx, dy := int(math.Round(x/CellWidth)), int(math.Round(y/pixelSize))
	if dx == 0 && dy == 0 && ps.cols == s.cols && ps.rows == s.rows {
		copy(s.px, ps.px)
		return
	}
	for gy := 0; gy < ps.gridHeight(); gy++ {
		for gx := 0; gx < ps.cols; gx++ {
			tx, ty := gx+dx, gy+dy
			if tx < 0 || ty < 0 || tx >= s.cols || ty >= s.gridHeight() {
				continue
			}
			s.px[ty*s.cols+tx] = ps.at(gx, gy)
		}
	}
}

// screenSurface is the visible surface: compositing onto it also pushes the
// pixels to the terminal.
type screenSurface struct {
	*pixelSurface
	screen tcell.Screen
}

func newScreenSurface(screen tcell.Screen) *screenSurface {
	cols, rows := screen.Size()
	w, h := Viewport(cols, rows)
	return &screenSurface{pixelSurface: newPixelSurface(w, h), screen: screen}
}

func (s *screenSurface) Composite(src orbit.Surface, x, y float64) {
	s.pixelSurface.Composite(src, x, y)
	s.flush()
}

func (s *screenSurface) flush() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top, bottom := s.at(col, row*2), s.at(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			s.screen.SetContent(col, row, '▀', nil, style)
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
