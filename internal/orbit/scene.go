package orbit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Params holds the per-variant constants shared by every body.
type Params struct {
	SpeedScale   float64
	ApsisMode    ApsisMode
	ApsisScale   float64
	OutlineWidth float64
	Rings        bool
	Trail        *TrailConfig // nil disables the trail
}

// SceneState is everything the frame driver owns and mutates.
type SceneState struct {
	Params Params

	Width, Height int
	Center        mgl64.Vec2

	Bodies []*Body
	Trail  *Trail
	Clock  FrameClock
	Frame  uint64
}

// NewScene builds bodies from configs and places them for a width x height viewport.
func NewScene(p Params, configs []BodyConfig, width, height int) (*SceneState, error) {
	s := &SceneState{Params: p}
	s.Resize(width, height)

	s.Bodies = make([]*Body, 0, len(configs))
	for i, cfg := range configs {
		b, err := NewBody(i, cfg, BodyState{Angle: cfg.InitialAngle})
		if err != nil {
			return nil, err
		}
		b.place(b.State.Angle, p, s)
		s.Bodies = append(s.Bodies, b)
	}

	if p.Trail != nil {
		if err := p.Trail.Validate(len(s.Bodies)); err != nil {
			return nil, err
		}
		s.Trail = NewTrail(*p.Trail)
	}
	return s, nil
}

// Resize updates the viewport. Bodies pick up the new center and apsis on
// their next update.
func (s *SceneState) Resize(width, height int) {
	s.Width, s.Height = width, height
	s.Center = mgl64.Vec2{float64(width) / 2, float64(height) / 2}
}

// Snapshot is the persistable part of a scene.
type Snapshot struct {
	Frame       uint64
	Angles      []float64
	Segments    []Segment
	TrailMillis float64
}

func (s *SceneState) Snapshot() Snapshot {
	snap := Snapshot{Frame: s.Frame, Angles: make([]float64, len(s.Bodies))}
	for i, b := range s.Bodies {
		snap.Angles[i] = b.State.Angle
	}
	if s.Trail != nil {
		snap.Segments = s.Trail.Segments()
		snap.TrailMillis = s.Trail.since
	}
	return snap
}

// Restore loads angles and trail history from snap. The clock is left alone:
// timestamps from another session do not line up with this one.
func (s *SceneState) Restore(snap Snapshot) error {
	if len(snap.Angles) != len(s.Bodies) {
		return fmt.Errorf("snapshot has %d bodies, scene has %d", len(snap.Angles), len(s.Bodies))
	}
	s.Frame = snap.Frame
	for i, b := range s.Bodies {
		b.State.Angle = snap.Angles[i]
		b.place(b.State.Angle, s.Params, s)
	}
	if s.Trail != nil {
		s.Trail.restore(snap.Segments, snap.TrailMillis)
	}
	return nil
}
