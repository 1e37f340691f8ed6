package game

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a beep.Streamer and records the last N samples into a ring
// buffer so the frame loop can show how loud the soundtrack is.
type levelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    bool
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
				t.filled = true
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// level returns the RMS of the recorded samples, mixed to mono, in [0, 1].
func (t *levelTap) level() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.nextIndex
	if t.filled {
		n = len(t.buffer)
	}
	if n == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range t.buffer[:n] {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	return clamp01(math.Sqrt(sumSquares / float64(n)))
}
