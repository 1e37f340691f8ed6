package orbit

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func trailBodies(n int) []*Body {
	bodies := make([]*Body, n)
	for i := range bodies {
		bodies[i] = &Body{ID: i, Config: BodyConfig{Radius: 1}}
	}
	return bodies
}

func TestTrailEmission(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   int
	}{
		{"Below interval", []float64{16, 16, 16}, 0},
		{"Exactly one interval is not enough", []float64{80}, 0},
		{"Crosses once", []float64{50, 50}, 1},
		{"Long frame emits several", []float64{250}, 3},
		{"Steady 60fps for one second", repeat(1000.0/60, 60), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTrail(TrailConfig{Interval: 80, From: 1, To: 2})
			bodies := trailBodies(3)
			for _, d := range tt.deltas {
				tr.MaybeEmit(d, bodies)
			}
			if tr.Len() != tt.want {
				t.Errorf("Expected %d segments, got %d", tt.want, tr.Len())
			}
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestTrailLinksConfiguredBodies(t *testing.T) {
	bodies := trailBodies(3)
	bodies[0].State.Position = mgl64.Vec2{1, 1}
	bodies[1].State.Position = mgl64.Vec2{10, 20}
	bodies[2].State.Position = mgl64.Vec2{30, 40}

	tr := NewTrail(TrailConfig{Interval: 80, From: 1, To: 2})
	tr.MaybeEmit(100, bodies)

	segs := tr.Segments()
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].From != bodies[1].State.Position || segs[0].To != bodies[2].State.Position {
		t.Errorf("Expected segment between bodies 1 and 2, got %v", segs[0])
	}

	s := &recordingSurface{}
	tr.RenderAll(s)
	if len(s.ops) != 1 || s.ops[0] != "line 10,20-30,40" {
		t.Errorf("Expected one trail line, got %v", s.ops)
	}
}

func TestTrailUnboundedByDefault(t *testing.T) {
	tr := NewTrail(TrailConfig{Interval: 1, From: 0, To: 1})
	bodies := trailBodies(2)
	for i := 0; i < 5000; i++ {
		tr.MaybeEmit(1.5, bodies)
	}
	if tr.Len() < 5000 {
		t.Errorf("Expected history to keep growing, got %d segments", tr.Len())
	}
}

func TestTrailCapKeepsNewest(t *testing.T) {
	tr := NewTrail(TrailConfig{Interval: 10, From: 0, To: 1, MaxSegments: 3})
	bodies := trailBodies(2)

	for i := 1; i <= 5; i++ {
		bodies[0].State.Position = mgl64.Vec2{float64(i), 0}
		tr.MaybeEmit(11, bodies)
	}

	segs := tr.Segments()
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}
	for i, want := range []float64{3, 4, 5} {
		if segs[i].From.X() != want {
			t.Errorf("Expected segment %d to start at x=%v, got %v", i, want, segs[i].From.X())
		}
	}

	s := &recordingSurface{}
	tr.RenderAll(s)
	if s.ops[0] != "line 3,0-0,0" || s.ops[2] != "line 5,0-0,0" {
		t.Errorf("Expected oldest-first rendering, got %v", s.ops)
	}
}

func TestTrailConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TrailConfig
		bodies  int
		wantErr bool
		link    bool
	}{
		{"Default link", TrailConfig{Interval: 80, From: 1, To: 2}, 3, false, false},
		{"Zero interval", TrailConfig{Interval: 0, From: 1, To: 2}, 3, true, false},
		{"Negative cap", TrailConfig{Interval: 80, From: 1, To: 2, MaxSegments: -1}, 3, true, false},
		{"Same body", TrailConfig{Interval: 80, From: 1, To: 1}, 3, true, true},
		{"Out of range", TrailConfig{Interval: 80, From: 1, To: 3}, 3, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.bodies)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.link && !errors.Is(err, ErrTrailLink) {
				t.Errorf("Expected ErrTrailLink, got %v", err)
			}
		})
	}
}
