package surface

import (
	"testing"
	"time"

	"gridloom/engine"
	"gridloom/midi"
	"gridloom/song"
	"gridloom/theme"
	"gridloom/timeline"
)

// fakeController captures LED batches and lets tests feed pad events.
type fakeController struct {
	pads    chan midi.PadEvent
	batches [][]midi.LEDUpdate
}

func newFakeController() *fakeController {
	return &fakeController{pads: make(chan midi.PadEvent, 16)}
}

func (f *fakeController) ID() string                      { return "fake" }
func (f *fakeController) PadEvents() <-chan midi.PadEvent { return f.pads }
func (f *fakeController) Close() error                    { return nil }

func (f *fakeController) SetLEDBatch(updates []midi.LEDUpdate) error {
	f.batches = append(f.batches, updates)
	return nil
}

// newTestRuntime wires a runtime without launching its loop, so tests
// can drive it single-threaded.
func newTestRuntime(t *testing.T) (*Runtime, *timeline.Memory, *engine.Engine) {
	t.Helper()
	tl := timeline.New(4, 6, 16)
	eng := engine.New(tl, engine.Options{Polyrhythms: true, HoldToCopy: false})
	rt := New(eng, tl, theme.New(nil))
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return rt, tl, eng
}

func TestDoRunsOnTheLoop(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	rt.Start()
	defer rt.Stop()

	done := make(chan struct{})
	rt.Do(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do never ran")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rt, _, eng := newTestRuntime(t)
	rt.Start()
	rt.Stop()
	rt.Stop()
	if eng.Running() {
		t.Error("engine still running after Stop")
	}
}

func TestStatusRingIsBounded(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	for i := 0; i < 300; i++ {
		rt.pushStatus("msg")
	}
	if got := len(rt.Statuses()); got != 200 {
		t.Errorf("status ring holds %d entries, want capped 200", got)
	}
}

// TestSnapshotIsSafeUnderTheLoop reads the published snapshot from a
// second goroutine while the loop runs toggles and idle ticks, the
// call pattern of a view rendering during live input. Run with the
// race detector to cover the publish path.
func TestSnapshotIsSafeUnderTheLoop(t *testing.T) {
	rt, tl, eng := newTestRuntime(t)
	tl.SetNote(2, 1, 1, song.Note{Pitch: 38, Velocity: 100})
	rt.Start()
	defer rt.Stop()

	readers := make(chan struct{})
	go func() {
		defer close(readers)
		for i := 0; i < 500; i++ {
			snap := rt.Snapshot()
			if len(snap.Cells) != 64 {
				t.Errorf("snapshot carries %d cells, want 64", len(snap.Cells))
				return
			}
		}
	}()
	for i := 0; i < 50; i++ {
		rt.Do(func() { eng.Toggle(2, 1, false) })
	}
	rt.Do(func() { eng.Toggle(2, 1, false) }) // leave the cell toggled on
	<-readers

	// Two round trips: the loop publishes after each command, so the
	// second one orders the last publish before the read below.
	for i := 0; i < 2; i++ {
		done := make(chan struct{})
		rt.Do(func() { close(done) })
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("loop stalled")
		}
	}

	snap := rt.Snapshot()
	if !snap.EngineOn {
		t.Error("snapshot does not show the running engine")
	}
	if snap.TrackCount != tl.TrackCount() || snap.SlotCount != tl.SlotCount() {
		t.Errorf("snapshot counts %d/%d, want %d/%d",
			snap.TrackCount, snap.SlotCount, tl.TrackCount(), tl.SlotCount())
	}
	found := false
	for _, c := range snap.Cells {
		if c.Col == 2 && c.Row == 1 && c.Kind == engine.CellActive {
			found = true
		}
	}
	if !found {
		t.Error("toggled cell (2,1) not active in the snapshot")
	}
}

func TestRoutePadGridPress(t *testing.T) {
	rt, tl, _ := newTestRuntime(t)

	// Device row 7 is the top pad row; col 1 maps to grid column 2,
	// logical track 2, slot 1.
	rt.routePad(midi.PadEvent{Row: 7, Col: 1, Pressed: true})

	// First touch of track 2 mutes its sibling slots.
	if !tl.Muted(2, 2) {
		t.Error("pad press did not reach the toggler")
	}
	if tl.Muted(2, 1) {
		t.Error("pressed slot ended up muted")
	}
}

func TestRoutePadReleaseForHoldGesture(t *testing.T) {
	tl := timeline.New(4, 6, 16)
	eng := engine.New(tl, engine.Options{HoldToCopy: true, HoldTicks: 4})
	rt := New(eng, tl, theme.New(nil))
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rt.routePad(midi.PadEvent{Row: 7, Col: 1, Pressed: true})
	if tl.Muted(2, 2) {
		t.Fatal("press alone toggled; hold gesture should wait for release")
	}
	rt.routePad(midi.PadEvent{Row: 7, Col: 1, Pressed: false})
	if !tl.Muted(2, 2) {
		t.Error("tap (press+release) did not toggle in track mode")
	}
}

func TestRoutePadSceneButtonsPage(t *testing.T) {
	tl := timeline.New(4, 20, 16)
	eng := engine.New(tl, engine.Options{HoldToCopy: false})
	rt := New(eng, tl, theme.New(nil))
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rt.routePad(midi.PadEvent{Row: 1, Col: 8, Pressed: true}) // page down
	if _, y := eng.ViewportPos(); y != 9 {
		t.Fatalf("Y = %d after page-next scene button, want 9", y)
	}
	rt.routePad(midi.PadEvent{Row: 7, Col: 8, Pressed: true}) // first
	if _, y := eng.ViewportPos(); y != 1 {
		t.Fatalf("Y = %d after page-first scene button, want 1", y)
	}
	// Releases on buttons are ignored.
	rt.routePad(midi.PadEvent{Row: 1, Col: 8, Pressed: false})
	if _, y := eng.ViewportPos(); y != 1 {
		t.Fatalf("Y = %d after button release, want unchanged 1", y)
	}
}

func TestRoutePadTransportButton(t *testing.T) {
	rt, tl, _ := newTestRuntime(t)

	rt.routePad(midi.PadEvent{Row: 8, Col: 7, Pressed: true})
	if !tl.Playing() {
		t.Fatal("transport button did not start playback")
	}
	rt.routePad(midi.PadEvent{Row: 8, Col: 7, Pressed: true})
	if tl.Playing() {
		t.Fatal("transport button did not stop playback")
	}
}

func TestFlushLEDsDiffs(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	c := newFakeController()
	rt.controller = c

	rt.flushLEDs()
	if len(c.batches) != 1 {
		t.Fatalf("batches = %d after first flush, want 1", len(c.batches))
	}
	// 64 grid cells, 4 scene buttons, 4 paging buttons, 2 transport.
	if got := len(c.batches[0]); got != 74 {
		t.Errorf("first batch has %d updates, want full surface 74", got)
	}

	rt.flushLEDs()
	if len(c.batches) != 1 {
		t.Errorf("unchanged state flushed %d extra batches", len(c.batches)-1)
	}
}

func TestFlushLEDsSendsOnlyChanges(t *testing.T) {
	rt, tl, eng := newTestRuntime(t)
	c := newFakeController()
	rt.controller = c

	rt.flushLEDs()
	tl.SetNote(2, 2, 1, song.Note{Pitch: 36, Velocity: 100})
	eng.Toggle(2, 2, false)
	rt.flushLEDs()

	if len(c.batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(c.batches))
	}
	second := c.batches[1]
	if len(second) == 0 || len(second) >= 74 {
		t.Errorf("second batch has %d updates, want a small diff", len(second))
	}
}
