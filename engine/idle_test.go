package engine

import (
	"testing"

	"gridloom/timeline"
)

// A tick with nothing pending must not mutate the timeline or repaint.
func TestIdleTickIdempotentWhenQuiet(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)

	// Settle: the first ticks consume the start flags and lock
	// playback to the loom.
	for i := 0; i < 3; i++ {
		e.OnIdleTick()
	}

	repaints := 0
	e.SetSinks(Sinks{Repaint: func() { repaints++ }})
	before := tl.Mutations()
	for i := 0; i < 10; i++ {
		e.OnIdleTick()
	}
	if got := tl.Mutations(); got != before {
		t.Errorf("quiet ticks performed %d mutations", got-before)
	}
	if repaints != 0 {
		t.Errorf("quiet ticks repainted %d times", repaints)
	}
}

func TestIdleTickLocksPlaybackToLoom(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)

	tl.SetPlaybackSlot(2)
	e.OnIdleTick()

	if got := tl.PlaybackSlot(); got != e.LoomSlot() {
		t.Fatalf("playback slot = %d after tick, want loom %d", got, e.LoomSlot())
	}
}

func TestAutoStartPlaysOnFirstTick(t *testing.T) {
	tl := timeline.New(4, 6, 16)
	e := New(tl, Options{AutoStart: true})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tl.Playing() {
		t.Fatal("transport started synchronously, want deferred to the tick")
	}
	e.OnIdleTick()
	if !tl.Playing() {
		t.Fatal("auto-start did not begin playback on the first tick")
	}
}

func TestNoAutoStartLeavesTransport(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	e.OnIdleTick()
	if tl.Playing() {
		t.Fatal("transport started without auto-start")
	}
}

func TestNavFlagsFireOncePerMove(t *testing.T) {
	_, e := newTestEngine(t, 12, 20, 16)

	var axes []Axis
	e.SetSinks(Sinks{NavChanged: func(a Axis) { axes = append(axes, a) }})

	e.SetHorizontal(3)
	e.SetVertical(2)
	e.OnIdleTick()
	if len(axes) != 2 {
		t.Fatalf("NavChanged fired %d times, want 2 (one per axis)", len(axes))
	}
	if axes[0] != AxisH || axes[1] != AxisV {
		t.Errorf("axes = %v, want [AxisH AxisV]", axes)
	}

	e.OnIdleTick()
	if len(axes) != 2 {
		t.Errorf("NavChanged re-fired on a quiet tick")
	}
}

func TestRefreshFlagFiresRepaintOnce(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	for i := 0; i < 3; i++ {
		e.OnIdleTick()
	}

	repaints := 0
	e.SetSinks(Sinks{Repaint: func() { repaints++ }})

	tl.SetNote(2, 2, 1, note(40))
	e.toggleLogical(2, 2, false)
	e.OnIdleTick()
	if repaints != 1 {
		t.Fatalf("repaints = %d after a toggle, want 1", repaints)
	}
	e.OnIdleTick()
	if repaints != 1 {
		t.Errorf("repaints = %d after a quiet tick, want still 1", repaints)
	}
}

func TestIdleTickNoopWhileStopped(t *testing.T) {
	tl := timeline.New(4, 6, 16)
	e := New(tl, Options{})
	before := tl.Mutations()
	e.OnIdleTick()
	if tl.Mutations() != before {
		t.Error("stopped engine mutated the timeline on a tick")
	}
}
