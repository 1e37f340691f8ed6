// Package term runs the orbit animation inside a terminal using tcell.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/orbit-visualization/internal/config"
	"github.com/iburimskiy/orbit-visualization/internal/logging"
	"github.com/iburimskiy/orbit-visualization/internal/orbit"
)

// App owns the screen, the driver and the frame queue. Everything runs on the
// goroutine that calls Run; input arrives over a channel.
type App struct {
	screen tcell.Screen
	driver *orbit.Driver
	queue  *orbit.FrameQueue
	log    *logging.Logger
	status *screenSurface

	start time.Time
	quit  bool
}

// New wires scene to an initialised screen.
func New(screen tcell.Screen, scene *orbit.SceneState, log *logging.Logger) *App {
	queue := &orbit.FrameQueue{}
	visible := newScreenSurface(screen)
	backing := newPixelSurface(visible.Size())

	a := &App{
		screen: screen,
		queue:  queue,
		log:    log,
		status: visible,
		start:  time.Now(),
	}
	a.driver = orbit.NewDriver(scene, queue, backing, visible)
	a.resize(screen.Size())

	a.driver.Bind(map[orbit.Action]func(){
		orbit.ActionPlayPause: a.togglePause,
		orbit.ActionQuit:      func() { a.quit = true },
	})
	return a
}

func (a *App) Driver() *orbit.Driver { return a.driver }

// actionForKey maps a key press to an action. ok is false for ignored keys.
func actionForKey(key tcell.Key, r rune) (orbit.Action, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return orbit.ActionQuit, true
	case tcell.KeyRune:
		switch r {
		case ' ':
			return orbit.ActionPlayPause, true
		case 'q', 'Q':
			return orbit.ActionQuit, true
		case 's', 'S':
			return orbit.ActionSaveState, true
		}
	}
	return 0, false
}

func (a *App) togglePause() {
	running := a.driver.Toggle()
	a.log.Info("toggled", "running", running, "frame", a.driver.Scene().Frame)
}

func (a *App) resize(cols, rows int) {
	w, h := Viewport(cols, rows)
	a.driver.Resize(w, h)
	a.log.Debug("resized", "cols", cols, "rows", rows, "width", w, "height", h)
}

func (a *App) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if action, ok := actionForKey(ev.Key(), ev.Rune()); ok {
			a.driver.Dispatch(action)
		}
	case *tcell.EventResize:
		a.resize(ev.Size())
		a.screen.Sync()
	}
}

// frame fires the pending frame callback and refreshes the status line.
func (a *App) frame(now time.Time) {
	a.queue.Fire(float64(now.Sub(a.start).Microseconds()) / 1000)
	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawStatus() {
	state := "Running - Space to pause"
	if !a.driver.Running() {
		state = "Paused - Space to play"
	}
	text := fmt.Sprintf(" %s, S to save, Q to quit | frame %d ", state, a.driver.Scene().Frame)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	cols, _ := a.screen.Size()
	for i, r := range text {
		if i >= cols {
			break
		}
		a.screen.SetContent(i, 0, r, nil, style)
	}
}

// Run starts the animation and blocks until quit or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(config.TerminalFrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.driver.Start()
	a.log.Info("terminal animation started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			a.handle(ev)
			if a.quit {
				return nil
			}
		case now := <-ticker.C:
			a.frame(now)
		}
	}
}
