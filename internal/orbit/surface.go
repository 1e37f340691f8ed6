package orbit

import "image/color"

// Surface is a 2D drawing target. Backends provide one implementation for the
// off-screen backing surface and one for the visible surface.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)

	Clear(c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, width float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)

	// Composite draws all of src onto the surface with its origin at (x, y).
	// src must come from the same backend.
	Composite(src Surface, x, y float64)
}

var (
	// Background is the colour a cleared frame starts from (#111).
	Background = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

	outlineColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// 50% white, premultiplied.
	trailColor = color.RGBA{R: 128, G: 128, B: 128, A: 128}
	// 80% white, premultiplied.
	ringColor = color.RGBA{R: 204, G: 204, B: 204, A: 204}
)

const (
	trailWidth = 2
	ringWidth  = 2
)
