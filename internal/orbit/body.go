package orbit

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidRadius = errors.New("body radius must be positive")
	ErrInvalidApsis  = errors.New("body apsis must not be negative")
)

// ApsisMode selects how a body's configured apsis becomes a pixel distance.
type ApsisMode int

const (
	// ApsisScaled treats the apsis as a fraction of min(width, height) * ApsisScale.
	ApsisScaled ApsisMode = iota
	// ApsisFixed treats the apsis as an absolute pixel distance.
	ApsisFixed
)

func (m ApsisMode) String() string {
	switch m {
	case ApsisScaled:
		return "scaled"
	case ApsisFixed:
		return "fixed"
	default:
		return fmt.Sprintf("ApsisMode(%d)", int(m))
	}
}

// BodyConfig is the immutable description of one body.
type BodyConfig struct {
	Name         string
	Color        color.RGBA
	Radius       float64 // pixels
	InitialAngle float64 // radians
	Apsis        float64 // relative distance or pixels, see ApsisMode
	Velocity     float64 // radians per ms before speed scaling
}

// Validate reports whether the config can be drawn.
func (c BodyConfig) Validate() error {
	if !(c.Radius > 0) {
		return fmt.Errorf("%s: %w (got %v)", c.Name, ErrInvalidRadius, c.Radius)
	}
	if c.Apsis < 0 || math.IsNaN(c.Apsis) {
		return fmt.Errorf("%s: %w (got %v)", c.Name, ErrInvalidApsis, c.Apsis)
	}
	return nil
}

// BodyState is the part of a body that changes from frame to frame.
type BodyState struct {
	Angle    float64 // radians, accumulated without wrapping
	Apsis    float64 // pixels, resolved on the last update
	Position mgl64.Vec2
}

// Body is one orbiting (or central) body.
type Body struct {
	ID     int
	Config BodyConfig
	State  BodyState
}

// NewBody validates cfg and places the body at its initial angle.
func NewBody(id int, cfg BodyConfig, initial BodyState) (*Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Body{ID: id, Config: cfg, State: initial}, nil
}

// Advance accumulates the angle covered in deltaMs and returns the new angle.
func (b *Body) Advance(deltaMs, speedScale float64) float64 {
	b.State.Angle += b.Config.Velocity * deltaMs * speedScale
	return b.State.Angle
}

// ResolveApsis converts a configured apsis into pixels for the given viewport.
func ResolveApsis(apsis float64, mode ApsisMode, scale float64, width, height int) float64 {
	if mode == ApsisFixed {
		return apsis
	}
	multiplier := float64(min(width, height)) * scale
	return math.Round(apsis * multiplier)
}

// PositionAt converts polar coordinates around center into pixel space.
func PositionAt(angle, apsis float64, center mgl64.Vec2) mgl64.Vec2 {
	sin, cos := math.Sincos(angle)
	return mgl64.Vec2{apsis * cos, apsis * sin}.Add(center)
}

// Update advances the body by deltaMs and recomputes its position in scene.
func (b *Body) Update(deltaMs float64, p Params, scene *SceneState) {
	angle := b.Advance(deltaMs, p.SpeedScale)
	b.place(angle, p, scene)
}

func (b *Body) place(angle float64, p Params, scene *SceneState) {
	b.State.Apsis = ResolveApsis(b.Config.Apsis, p.ApsisMode, p.ApsisScale, scene.Width, scene.Height)
	b.State.Position = PositionAt(angle, b.State.Apsis, scene.Center)
}

// Render draws the body outline and fill at its current position.
func (b *Body) Render(s Surface, outline float64) {
	x, y := b.State.Position.X(), b.State.Position.Y()
	if outline > 0 {
		s.StrokeCircle(x, y, b.Config.Radius, outline, outlineColor)
	}
	s.FillCircle(x, y, b.Config.Radius, b.Config.Color)
}

// RenderPath draws the circular path the body follows.
func (b *Body) RenderPath(s Surface, center mgl64.Vec2) {
	s.StrokeCircle(center.X(), center.Y(), b.State.Apsis, ringWidth, ringColor)
}
