package orbit

import (
	"fmt"
	"image/color"
)

// recordingSurface logs every drawing call as a short string.
type recordingSurface struct {
	name          string
	width, height int
	ops           []string
}

func (r *recordingSurface) Size() (int, int) { return r.width, r.height }

func (r *recordingSurface) Resize(w, h int) {
	r.width, r.height = w, h
	r.ops = append(r.ops, fmt.Sprintf("resize %dx%d", w, h))
}

func (r *recordingSurface) Clear(color.Color) { r.ops = append(r.ops, "clear") }

func (r *recordingSurface) FillCircle(cx, cy, rad float64, _ color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("fill %.0f,%.0f r%.0f", cx, cy, rad))
}

func (r *recordingSurface) StrokeCircle(cx, cy, rad, _ float64, _ color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("circle %.0f,%.0f r%.0f", cx, cy, rad))
}

func (r *recordingSurface) StrokeLine(x0, y0, x1, y1, _ float64, _ color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("line %.0f,%.0f-%.0f,%.0f", x0, y0, x1, y1))
}

func (r *recordingSurface) Composite(src Surface, x, y float64) {
	name := "?"
	if rs, ok := src.(*recordingSurface); ok {
		name = rs.name
	}
	r.ops = append(r.ops, fmt.Sprintf("composite %s %.0f,%.0f", name, x, y))
}

func (r *recordingSurface) reset() { r.ops = r.ops[:0] }

func (r *recordingSurface) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
