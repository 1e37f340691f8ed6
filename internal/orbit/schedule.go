package orbit

// FrameHandle identifies a pending frame request. The zero handle is never issued.
type FrameHandle uint64

// Scheduler is the host's refresh-synchronised frame primitive.
type Scheduler interface {
	RequestFrame(fn func(timestampMs float64)) FrameHandle
	CancelFrame(h FrameHandle)
}

// FrameQueue is a single-slot Scheduler: at most one callback is pending and
// the host loop fires it once per refresh.
type FrameQueue struct {
	last    FrameHandle
	pending FrameHandle
	fn      func(float64)
}

func (q *FrameQueue) RequestFrame(fn func(timestampMs float64)) FrameHandle {
	q.last++
	q.pending = q.last
	q.fn = fn
	return q.pending
}

// CancelFrame drops the pending callback if h still refers to it.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	if h != 0 && h == q.pending {
		q.pending = 0
		q.fn = nil
	}
}

// Pending reports whether a callback is waiting to be fired.
func (q *FrameQueue) Pending() bool { return q.fn != nil }

// Fire runs the pending callback, if any. The slot is cleared first so the
// callback may request the next frame.
func (q *FrameQueue) Fire(timestampMs float64) bool {
	fn := q.fn
	if fn == nil {
		return false
	}
	q.pending = 0
	q.fn = nil
	fn(timestampMs)
	return true
}
