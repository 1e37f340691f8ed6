package orbit

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrTrailLink = errors.New("trail must link two distinct bodies")

// TrailConfig describes the line effect drawn between two bodies.
type TrailConfig struct {
	Interval float64 // ms between segments
	From, To int     // body indices

	// MaxSegments caps the retained history. 0 keeps every segment, which makes
	// memory and per-frame drawing cost grow for as long as the animation runs.
	MaxSegments int
}

// Validate checks the config against the number of bodies in the scene.
func (c TrailConfig) Validate(bodies int) error {
	if !(c.Interval > 0) {
		return fmt.Errorf("trail interval must be positive, got %v", c.Interval)
	}
	if c.MaxSegments < 0 {
		return fmt.Errorf("trail max segments must not be negative, got %d", c.MaxSegments)
	}
	if c.From == c.To || c.From < 0 || c.To < 0 || c.From >= bodies || c.To >= bodies {
		return fmt.Errorf("%w: from %d to %d with %d bodies", ErrTrailLink, c.From, c.To, bodies)
	}
	return nil
}

// Segment is one line of the trail.
type Segment struct {
	From, To mgl64.Vec2
}

// Trail is an ordered history of segments. When capped it is a ring buffer
// that overwrites the oldest segment.
type Trail struct {
	cfg       TrailConfig
	segments  []Segment
	nextIndex int
	since     float64
}

func NewTrail(cfg TrailConfig) *Trail {
	t := &Trail{cfg: cfg}
	if cfg.MaxSegments > 0 {
		t.segments = make([]Segment, 0, cfg.MaxSegments)
	}
	return t
}

// MaybeEmit accumulates deltaMs and appends one segment per elapsed interval,
// linking the current positions of the configured bodies. It returns the number
// of segments appended.
func (t *Trail) MaybeEmit(deltaMs float64, bodies []*Body) int {
	t.since += deltaMs
	n := 0
	for t.since > t.cfg.Interval {
		t.since -= t.cfg.Interval
		t.push(Segment{
			From: bodies[t.cfg.From].State.Position,
			To:   bodies[t.cfg.To].State.Position,
		})
		n++
	}
	return n
}

func (t *Trail) push(s Segment) {
	if t.cfg.MaxSegments <= 0 || len(t.segments) < t.cfg.MaxSegments {
		t.segments = append(t.segments, s)
		return
	}
	t.segments[t.nextIndex] = s
	t.nextIndex++
	if t.nextIndex >= len(t.segments) {
		t.nextIndex = 0
	}
}

// Len returns the number of retained segments.
func (t *Trail) Len() int { return len(t.segments) }

// Segments returns the retained segments, oldest first.
func (t *Trail) Segments() []Segment {
	out := make([]Segment, 0, len(t.segments))
	out = append(out, t.segments[t.nextIndex:]...)
	return append(out, t.segments[:t.nextIndex]...)
}

// RenderAll redraws every retained segment, oldest first.
func (t *Trail) RenderAll(s Surface) {
	t.each(func(seg Segment) {
		s.StrokeLine(seg.From.X(), seg.From.Y(), seg.To.X(), seg.To.Y(), trailWidth, trailColor)
	})
}

func (t *Trail) each(fn func(Segment)) {
	for i := t.nextIndex; i < len(t.segments); i++ {
		fn(t.segments[i])
	}
	for i := 0; i < t.nextIndex; i++ {
		fn(t.segments[i])
	}
}

func (t *Trail) restore(segments []Segment, since float64) {
	t.segments = t.segments[:0]
	t.nextIndex = 0
	t.since = since
	for _, s := range segments {
		t.push(s)
	}
}
