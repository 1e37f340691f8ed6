// Package game runs the orbit animation in a desktop window using ebiten.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/orbit-visualization/internal/config"
	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

// Options tweaks the window backend.
type Options struct {
	MusicPath string // soundtrack to start with, optional
}

// Game implements ebiten.Game on top of an orbit.Driver. ebiten calls Update
// once per tick; the pending frame callback is fired from there.
type Game struct {
	driver  *orbit.Driver
	queue   *orbit.FrameQueue
	visible *imageSurface
	music   *soundtrack
	log     *logging.Logger
	keys    map[ebiten.Key]orbit.Action

	start         time.Time
	width, height int
	quit          bool
	lastErr       error
}

func defaultKeys() map[ebiten.Key]orbit.Action {
	return map[ebiten.Key]orbit.Action{
		ebiten.KeySpace:  orbit.ActionPlayPause,
		ebiten.KeyEscape: orbit.ActionQuit,
		ebiten.KeyQ:      orbit.ActionQuit,
		ebiten.KeyO:      orbit.ActionOpenSoundtrack,
		ebiten.KeyS:      orbit.ActionSaveState,
	}
}

func NewGame(scene *orbit.SceneState, log *logging.Logger, opts Options) *Game {
	queue := &orbit.FrameQueue{}
	backing := newImageSurface(scene.Width, scene.Height)
	visible := newImageSurface(scene.Width, scene.Height)

	g := &Game{
		driver:  orbit.NewDriver(scene, queue, backing, visible),
		queue:   queue,
		visible: visible,
		music:   newSoundtrack(log),
		log:     log,
		keys:    defaultKeys(),
		width:   scene.Width,
		height:  scene.Height,
	}
	g.driver.Bind(map[orbit.Action]func(){
		orbit.ActionPlayPause:      g.togglePause,
		orbit.ActionQuit:           func() { g.quit = true },
		orbit.ActionOpenSoundtrack: g.openSoundtrack,
	})

	if opts.MusicPath != "" {
		if err := g.music.load(opts.MusicPath, false); err != nil {
			g.lastErr = err
			log.Failure("soundtrack not loaded", err, "path", opts.MusicPath)
		}
	}
	return g
}

func (g *Game) Driver() *orbit.Driver { return g.driver }

// Fail shows err in the status line.
func (g *Game) Fail(err error) { g.lastErr = err }

func (g *Game) togglePause() {
	running := g.driver.Toggle()
	g.music.setPaused(!running)
	g.log.Info("toggled", "running", running, "frame", g.driver.Scene().Frame)
}

func (g *Game) openSoundtrack() {
	if err := g.music.openDialog(!g.driver.Running()); err != nil {
		g.lastErr = err
		g.log.Failure("soundtrack not loaded", err)
	}
}

func (g *Game) Update() error {
	for key, action := range g.keys {
		if inpututil.IsKeyJustPressed(key) {
			g.driver.Dispatch(action)
		}
	}
	if g.quit {
		return ebiten.Termination
	}

	g.queue.Fire(float64(time.Since(g.start).Microseconds()) / 1000)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.visible.img, nil)

	scene := g.driver.Scene()
	status := "Running - Space to pause"
	if !g.driver.Running() {
		status = "Paused - Space to play"
	}
	status += fmt.Sprintf(", O soundtrack, S save | %s frame %d", formatElapsed(scene.Clock.Elapsed()), scene.Frame)
	if scene.Trail != nil {
		status += fmt.Sprintf(" trail %d", scene.Trail.Len())
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	if g.music.loaded() {
		g.drawLevel(screen)
	}
}

// drawLevel shows the soundtrack loudness as a small bar under the status line.
func (g *Game) drawLevel(screen *ebiten.Image) {
	const barX, barY, barWidth, barHeight = 12, 32, 120, 6
	vector.StrokeRect(screen, barX, barY, barWidth, barHeight, 1, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)
	fill := float32(g.music.level()) * barWidth
	if fill > 0 {
		vector.DrawFilledRect(screen, barX, barY, fill, barHeight, color.RGBA{R: 200, G: 200, B: 200, A: 200}, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.driver.Resize(outsideWidth, outsideHeight)
		g.log.Debug("resized", "width", outsideWidth, "height", outsideHeight)
	}
	return g.width, g.height
}

// Run opens the window and blocks until the user quits.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	defer g.music.close()

	g.start = time.Now()
	g.driver.Start()
	g.log.Info("window animation started", "width", g.width, "height", g.height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
