// Package orbit animates bodies on uniform circular orbits around a scene
// center and draws them onto double-buffered surfaces.
package orbit

import "github.com/go-gl/mathgl/mgl64"

// Action is a recognised input.
type Action int

const (
	ActionPlayPause Action = iota
	ActionQuit
	ActionOpenSoundtrack
	ActionSaveState
)

func (a Action) String() string {
	switch a {
	case ActionPlayPause:
		return "play/pause"
	case ActionQuit:
		return "quit"
	case ActionOpenSoundtrack:
		return "open soundtrack"
	case ActionSaveState:
		return "save state"
	default:
		return "unknown"
	}
}

// BodySample is one body's state at the end of a frame.
type BodySample struct {
	ID       int
	Angle    float64
	Apsis    float64
	Position mgl64.Vec2
}

// FrameSample is published to observers after every composited frame.
type FrameSample struct {
	Frame     uint64
	ElapsedMs float64
	DeltaMs   float64
	Bodies    []BodySample
}

// FrameObserver receives a sample of every rendered frame. Observers run on the
// frame loop and must not block.
type FrameObserver interface {
	ObserveFrame(FrameSample)
}

// Driver runs the animation: one synchronous pass per scheduled frame.
type Driver struct {
	scene   *SceneState
	sched   Scheduler
	backing Surface
	visible Surface

	handle    FrameHandle
	running   bool
	handlers  map[Action]func()
	observers []FrameObserver
}

func NewDriver(scene *SceneState, sched Scheduler, backing, visible Surface) *Driver {
	backing.Resize(scene.Width, scene.Height)
	visible.Resize(scene.Width, scene.Height)
	return &Driver{
		scene:    scene,
		sched:    sched,
		backing:  backing,
		visible:  visible,
		handlers: map[Action]func(){},
	}
}

func (d *Driver) Scene() *SceneState { return d.scene }
func (d *Driver) Running() bool      { return d.running }
func (d *Driver) Visible() Surface   { return d.visible }

// Observe registers o for every subsequent frame.
func (d *Driver) Observe(o FrameObserver) {
	d.observers = append(d.observers, o)
}

// Bind installs handlers for the given actions. A nil handler removes the
// binding. Actions not named keep their current handler.
func (d *Driver) Bind(handlers map[Action]func()) {
	for a, fn := range handlers {
		if fn == nil {
			delete(d.handlers, a)
			continue
		}
		d.handlers[a] = fn
	}
}

// Dispatch runs the handler bound to a and reports whether there was one.
func (d *Driver) Dispatch(a Action) bool {
	fn, ok := d.handlers[a]
	if !ok {
		return false
	}
	fn()
	return true
}

// Start requests the first frame. It is a no-op while running.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.handle = d.sched.RequestFrame(d.run)
}

// Pause cancels the pending frame. It is a no-op while paused.
func (d *Driver) Pause() {
	if !d.running {
		return
	}
	d.sched.CancelFrame(d.handle)
	d.handle = 0
	d.running = false
}

// Toggle switches between running and paused and returns the new state.
func (d *Driver) Toggle() bool {
	if d.running {
		d.Pause()
	} else {
		d.Start()
	}
	return d.running
}

// Resize updates the viewport and both surfaces.
func (d *Driver) Resize(width, height int) {
	d.scene.Resize(width, height)
	d.backing.Resize(width, height)
	d.visible.Resize(width, height)
}

func (d *Driver) run(timestampMs float64) {
	d.Step(timestampMs)
	d.handle = d.sched.RequestFrame(d.run)
}

// Step performs one frame pass without scheduling the next one.
func (d *Driver) Step(timestampMs float64) {
	s := d.scene
	p := s.Params

	d.backing.Clear(Background)
	delta := s.Clock.Tick(timestampMs)

	if s.Trail != nil {
		s.Trail.MaybeEmit(delta, s.Bodies)
		s.Trail.RenderAll(d.backing)
	}
	for _, b := range s.Bodies {
		b.Update(delta, p, s)
		b.Render(d.backing, p.OutlineWidth)
	}
	if p.Rings {
		for _, b := range s.Bodies {
			b.RenderPath(d.backing, s.Center)
		}
	}

	d.visible.Composite(d.backing, 0, 0)
	s.Frame++
	d.publish(delta)
}

func (d *Driver) publish(delta float64) {
	if len(d.observers) == 0 {
		return
	}
	s := d.scene
	sample := FrameSample{
		Frame:     s.Frame,
		ElapsedMs: s.Clock.Elapsed(),
		DeltaMs:   delta,
		Bodies:    make([]BodySample, len(s.Bodies)),
	}
	for i, b := range s.Bodies {
		sample.Bodies[i] = BodySample{
			ID:       b.ID,
			Angle:    b.State.Angle,
			Apsis:    b.State.Apsis,
			Position: b.State.Position,
		}
	}
	for _, o := range d.observers {
		o.ObserveFrame(sample)
	}
}
