package engine

// deferredCall is one pending one-shot callback.
type deferredCall struct {
	due int64 // engine tick at which the call becomes runnable
	fn  func()
}

// scheduler is a tick-polled one-shot call queue. Callbacks run no
// earlier than their requested delay, in FIFO schedule order, and are
// only resolved at whole-tick boundaries. There is no cancellation:
// a callback that outlives the engine run must check engine state
// itself and no-op.
type scheduler struct {
	tick  int64
	queue []deferredCall
}

// After queues fn to run once, no earlier than the given number of
// ticks from now. A delay of zero runs on the next Advance, never
// synchronously.
func (s *scheduler) After(ticks int64, fn func()) {
	if ticks < 0 {
		ticks = 0
	}
	s.queue = append(s.queue, deferredCall{due: s.tick + ticks, fn: fn})
}

// Advance moves to the next tick and runs every call that has come due.
// The due set is detached before any callback runs, so a callback that
// schedules new work - even with zero delay - defers it to a later
// tick and one tick can never re-enter itself.
func (s *scheduler) Advance() {
	s.tick++

	var ready []deferredCall
	rest := s.queue[:0]
	for _, c := range s.queue {
		if c.due <= s.tick {
			ready = append(ready, c)
		} else {
			rest = append(rest, c)
		}
	}
	s.queue = rest

	for _, c := range ready {
		c.fn()
	}
}

// Reset drops all pending calls and rewinds the tick counter.
func (s *scheduler) Reset() {
	s.tick = 0
	s.queue = nil
}

// Pending reports how many calls are still queued.
func (s *scheduler) Pending() int {
	return len(s.queue)
}
