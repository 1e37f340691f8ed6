package term

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func lit(s *pixelSurface, gx, gy int) bool {
	r, g, b := s.at(gx, gy).RGB255()
	return r > 0 || g > 0 || b > 0
}

func TestViewport(t *testing.T) {
	w, h := Viewport(80, 24)
	if w != 640 || h != 384 {
		t.Errorf("Expected 640x384, got %dx%d", w, h)
	}
}

func TestPixelSurfaceResize(t *testing.T) {
	s := newPixelSurface(640, 384)
	if s.cols != 80 || s.rows != 24 || len(s.px) != 80*48 {
		t.Errorf("Expected 80x24 cells with 3840 pixels, got %dx%d with %d", s.cols, s.rows, len(s.px))
	}
	s.Resize(320, 160)
	if w, h := s.Size(); w != 320 || h != 160 {
		t.Errorf("Expected 320x160 after resize, got %dx%d", w, h)
	}
}

func TestFillCircle(t *testing.T) {
	s := newPixelSurface(640, 384)
	s.Clear(color.Black)
	s.FillCircle(320, 192, 20, white)

	// (320,192) is the corner of pixels (39..40, 23..24)
	for _, p := range [][2]int{{39, 23}, {40, 23}, {39, 24}, {40, 24}} {
		if !lit(s, p[0], p[1]) {
			t.Errorf("Expected pixel %v inside the circle to be lit", p)
		}
	}
	if lit(s, 0, 0) || lit(s, 45, 24) {
		t.Error("Expected pixels outside the circle to stay dark")
	}
}

func TestTinyCircleStillVisible(t *testing.T) {
	s := newPixelSurface(640, 384)
	s.FillCircle(100, 100, 1, white)
	if !lit(s, 12, 12) {
		t.Error("Expected sub-pixel body to light its pixel")
	}
}

func TestStrokeCircleHollow(t *testing.T) {
	s := newPixelSurface(640, 384)
	s.StrokeCircle(320, 192, 80, 2, white)

	if lit(s, 39, 23) {
		t.Error("Expected ring centre to stay dark")
	}
	// pixel (49,23) is centred about 76px from the middle
	if !lit(s, 49, 23) {
		t.Error("Expected ring edge to be lit")
	}

	s2 := newPixelSurface(640, 384)
	s2.StrokeCircle(320, 192, 0, 2, white)
	for i := range s2.px {
		if r, _, _ := s2.px[i].RGB255(); r != 0 {
			t.Fatal("Expected zero-radius ring to draw nothing")
		}
	}
}

func TestStrokeLineTranslucent(t *testing.T) {
	s := newPixelSurface(640, 384)
	s.Clear(color.Black)
	half := color.RGBA{R: 128, G: 128, B: 128, A: 128}
	s.StrokeLine(4, 4, 636, 4, 2, half)

	for gx := 0; gx < s.cols; gx++ {
		r, _, _ := s.at(gx, 0).RGB255()
		if r < 100 || r > 160 {
			t.Fatalf("Expected half-bright pixel at column %d, got %d", gx, r)
		}
	}
	if lit(s, 0, 1) {
		t.Error("Expected the row below the line to stay dark")
	}
}

func TestCompositeCopiesPixels(t *testing.T) {
	src := newPixelSurface(160, 64)
	src.FillCircle(80, 32, 10, white)
	dst := newPixelSurface(160, 64)
	dst.Composite(src, 0, 0)

	for i := range src.px {
		if src.px[i] != dst.px[i] {
			t.Fatalf("Expected pixel %d to be copied", i)
		}
	}

	shifted := newPixelSurface(160, 64)
	shifted.Composite(src, CellWidth, 0)
	if shifted.at(10, 4) != src.at(9, 4) {
		t.Error("Expected composite offset by one column")
	}
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		r      rune
		want   orbit.Action
		wantOK bool
	}{
		{"Space", tcell.KeyRune, ' ', orbit.ActionPlayPause, true},
		{"q", tcell.KeyRune, 'q', orbit.ActionQuit, true},
		{"Escape", tcell.KeyEscape, 0, orbit.ActionQuit, true},
		{"Save", tcell.KeyRune, 's', orbit.ActionSaveState, true},
		{"Other letter", tcell.KeyRune, 'x', 0, false},
		{"Arrow", tcell.KeyUp, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := actionForKey(tt.key, tt.r)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Expected %v/%v, got %v/%v", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	scene, err := orbit.NewScene(orbit.Params{
		SpeedScale:   0.001,
		ApsisMode:    orbit.ApsisScaled,
		ApsisScale:   0.5,
		OutlineWidth: 2,
		Rings:        true,
		Trail:        &orbit.TrailConfig{Interval: 80, From: 1, To: 2},
	}, []orbit.BodyConfig{
		{Name: "sun", Color: color.RGBA{R: 255, G: 215, A: 255}, Radius: 20},
		{Name: "mercury", Color: color.RGBA{R: 255, A: 255}, Radius: 5, Apsis: 0.387, Velocity: 1.59},
		{Name: "venus", Color: color.RGBA{R: 255, G: 255, B: 224, A: 255}, Radius: 12, Apsis: 0.723, Velocity: 1.18},
	}, 100, 100)
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	return New(screen, scene, logging.Discard()), screen
}

func TestAppUsesScreenSize(t *testing.T) {
	app, _ := newTestApp(t)
	scene := app.Driver().Scene()
	if scene.Width != 640 || scene.Height != 384 {
		t.Errorf("Expected scene 640x384, got %dx%d", scene.Width, scene.Height)
	}
	if scene.Center.X() != 320 || scene.Center.Y() != 192 {
		t.Errorf("Expected center (320,192), got %v", scene.Center)
	}
}

func TestAppFramesAndPause(t *testing.T) {
	app, _ := newTestApp(t)
	app.driver.Start()

	start := app.start
	for i := 1; i <= 3; i++ {
		app.frame(start.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	if f := app.driver.Scene().Frame; f != 3 {
		t.Fatalf("Expected 3 frames, got %d", f)
	}

	app.driver.Dispatch(orbit.ActionPlayPause)
	app.frame(start.Add(time.Second))
	if f := app.driver.Scene().Frame; f != 3 {
		t.Errorf("Expected no frames while paused, got %d", f)
	}

	app.driver.Dispatch(orbit.ActionPlayPause)
	app.frame(start.Add(2 * time.Second))
	if f := app.driver.Scene().Frame; f != 4 {
		t.Errorf("Expected frame 4 after resume, got %d", f)
	}

	// the sun sits in the middle of the visible surface
	if !lit(app.status.pixelSurface, 40, 24) {
		t.Error("Expected the central body on the visible surface")
	}
}

func TestAppResizeAndQuit(t *testing.T) {
	app, _ := newTestApp(t)

	app.resize(40, 12)
	scene := app.driver.Scene()
	if scene.Width != 320 || scene.Height != 192 {
		t.Errorf("Expected 320x192 after resize, got %dx%d", scene.Width, scene.Height)
	}
	if app.status.cols != 40 || app.status.rows != 12 {
		t.Errorf("Expected visible surface 40x12 cells, got %dx%d", app.status.cols, app.status.rows)
	}

	app.driver.Dispatch(orbit.ActionQuit)
	if !app.quit {
		t.Error("Expected quit action to stop the app")
	}
}
