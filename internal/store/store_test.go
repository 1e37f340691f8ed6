package store

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

func sample(frame uint64) orbit.FrameSample {
	angle := float64(frame) * 0.1
	return orbit.FrameSample{
		Frame:     frame,
		ElapsedMs: float64(frame) * 16,
		DeltaMs:   16,
		Bodies: []orbit.BodySample{
			{ID: 0, Position: mgl64.Vec2{400, 300}},
			{ID: 1, Angle: angle, Apsis: 100, Position: mgl64.Vec2{400 + 100*math.Cos(angle), 300 + 100*math.Sin(angle)}},
		},
	}
}

func TestRecorderWritesEveryFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.sqlite")
	r, err := OpenRecorder(path, logging.Discard())
	if err != nil {
		t.Fatalf("OpenRecorder failed: %v", err)
	}

	for f := uint64(1); f <= 10; f++ {
		r.ObserveFrame(sample(f))
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	written, dropped := r.Stats()
	if written != 10 || dropped != 0 {
		t.Errorf("Expected 10 written and 0 dropped, got %d and %d", written, dropped)
	}

	track, err := ReadTrack(path, 1)
	if err != nil {
		t.Fatalf("ReadTrack failed: %v", err)
	}
	if len(track) != 10 {
		t.Fatalf("Expected 10 rows for body 1, got %d", len(track))
	}
	for i, row := range track {
		want := sample(uint64(i + 1)).Bodies[1]
		if row.Frame != uint64(i+1) || row.Angle != want.Angle || row.X != want.Position.X() {
			t.Errorf("Expected row %d to match sample, got %+v", i, row)
		}
	}
}

func TestRecorderCloseTwice(t *testing.T) {
	r, err := OpenRecorder(filepath.Join(t.TempDir(), "frames.sqlite"), logging.Discard())
	if err != nil {
		t.Fatalf("OpenRecorder failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); !errors.Is(err, ErrRecorderClosed) {
		t.Errorf("Expected ErrRecorderClosed, got %v", err)
	}
	// late samples are ignored rather than panicking on a closed channel
	r.ObserveFrame(sample(1))
}

func TestReadTrackMissingFile(t *testing.T) {
	if _, err := ReadTrack(filepath.Join(t.TempDir(), "nope.sqlite"), 0); err == nil {
		t.Error("Expected error for missing recording")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbits.state")
	want := SavedState{
		Variant: "trails",
		Snapshot: orbit.Snapshot{
			Frame:       42,
			Angles:      []float64{0, 3.5, 2.25},
			TrailMillis: 12.5,
			Segments: []orbit.Segment{
				{From: mgl64.Vec2{1, 2}, To: mgl64.Vec2{3, 4}},
				{From: mgl64.Vec2{5, 6}, To: mgl64.Vec2{7, 8}},
			},
		},
	}

	if err := SaveState(path, want); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	if got.Variant != want.Variant || got.Snapshot.Frame != 42 || got.Snapshot.TrailMillis != 12.5 {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if len(got.Snapshot.Angles) != 3 || got.Snapshot.Angles[1] != 3.5 {
		t.Errorf("Expected angles %v, got %v", want.Snapshot.Angles, got.Snapshot.Angles)
	}
	if len(got.Snapshot.Segments) != 2 || got.Snapshot.Segments[1].To != (mgl64.Vec2{7, 8}) {
		t.Errorf("Expected segments %v, got %v", want.Snapshot.Segments, got.Snapshot.Segments)
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbits.state")
	if err := os.WriteFile(path, []byte("not a gob"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil {
		t.Error("Expected decode error")
	}
}
