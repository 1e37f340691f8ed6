package orbit

// FrameClock turns host frame timestamps (milliseconds) into per-frame deltas.
type FrameClock struct {
	started  bool
	epoch    float64
	previous float64
}

// Tick returns the milliseconds elapsed since the previous tick. The first tick
// records the epoch and returns 0.
func (c *FrameClock) Tick(timestampMs float64) float64 {
	if !c.started {
		c.started = true
		c.epoch = timestampMs
	}
	total := timestampMs - c.epoch
	delta := total - c.previous
	c.previous = total
	return delta
}

// Elapsed returns the total milliseconds between the epoch and the last tick.
func (c *FrameClock) Elapsed() float64 {
	return c.previous
}
