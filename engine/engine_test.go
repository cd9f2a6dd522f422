package engine

import (
	"testing"

	"gridloom/song"
	"gridloom/timeline"
)

// newTestEngine starts an engine over a blank timeline: content tracks
// plus the master track Memory appends, every pattern at the given
// length. Follow and auto-start are off so tests see only the effects
// they trigger.
func newTestEngine(t *testing.T, tracks, slots, length int) (*timeline.Memory, *Engine) {
	t.Helper()
	tl := timeline.New(tracks, slots, length)
	e := New(tl, Options{Polyrhythms: true, HoldToCopy: true, HoldTicks: 4})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return tl, e
}

func TestStartEstablishesLoom(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)

	if got := tl.SlotCount(); got != 7 {
		t.Fatalf("SlotCount = %d after start, want 7 (loom appended)", got)
	}
	if got := e.LoomSlot(); got != 7 {
		t.Fatalf("LoomSlot = %d, want 7", got)
	}
	if got := tl.PatternName(7); got != LoomName {
		t.Fatalf("PatternName(7) = %q, want the reserved name", got)
	}
	for tr := 1; tr <= tl.TrackCount(); tr++ {
		if tl.Muted(tr, 7) {
			t.Errorf("loom slot muted on track %d", tr)
		}
	}
	if !e.Running() {
		t.Fatal("engine not running after Start")
	}
}

func TestStartSeedsFirstTrack(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)

	if got, ok := e.activeSlots[1]; !ok || got != 1 {
		t.Fatalf("activeSlots[1] = %d,%v, want 1,true", got, ok)
	}
	if got, ok := e.polyCounter[1]; !ok || got != 16 {
		t.Fatalf("polyCounter[1] = %d,%v, want 16,true", got, ok)
	}
	// Track 1's other source slots got muted, the seeded one did not.
	for s := 2; s <= 6; s++ {
		if !tl.Muted(1, s) {
			t.Errorf("track 1 slot %d not muted after seed", s)
		}
	}
	if tl.Muted(1, 1) {
		t.Error("track 1 slot 1 muted after seed")
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	_, e := newTestEngine(t, 2, 4, 16)
	if err := e.Start(); err == nil {
		t.Fatal("second Start succeeded, want error")
	}
}

func TestStartFromPlaybackSlotWhenPlaying(t *testing.T) {
	tl := timeline.New(4, 6, 16)
	tl.SetPlaybackSlot(3)
	tl.SetPlaying(true)

	e := New(tl, Options{})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got, ok := e.activeSlots[1]; !ok || got != 3 {
		t.Fatalf("seed slot = %d,%v, want playback slot 3", got, ok)
	}
}

func TestStartSeedFallsBackWhenStartSlotIsLoom(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	loom := e.LoomSlot()
	e.Stop()

	// Playback parked on the surviving loom pattern: the remembered
	// start slot is the loom itself, which can never feed itself.
	tl.SetPlaying(true)
	tl.SetPlaybackSlot(loom)
	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}

	got, ok := e.activeSlots[1]
	if !ok {
		t.Fatal("track 1 has no active slot after restart")
	}
	if got == e.loomSlot {
		t.Fatalf("seed landed on the loom slot %d", got)
	}
	if got != 1 {
		t.Errorf("seed slot = %d, want fallback slot 1", got)
	}
	if _, ok := e.polyCounter[1]; !ok {
		t.Error("loom not fed after restart")
	}
}

func TestStartWithoutContentTracksReportsStatus(t *testing.T) {
	tl := timeline.New(0, 4, 16) // master track only
	e := New(tl, Options{})
	var msgs []string
	e.SetSinks(Sinks{Status: func(msg string) { msgs = append(msgs, msg) }})

	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(e.activeSlots) != 0 {
		t.Error("active slot recorded with no content tracks")
	}
	if len(msgs) == 0 {
		t.Error("no operator message about the missing seed")
	}
}

func TestStopRestoresTimeline(t *testing.T) {
	tl := timeline.New(4, 6, 16)
	tl.SetMuted(2, 3, true) // pre-existing mute state to restore

	e := New(tl, Options{Polyrhythms: true})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Leave some engine state behind to revert.
	e.toggleLogical(2, 4, false)
	e.toggleLogical(3, 2, false)

	e.Stop()

	if e.Running() {
		t.Fatal("still running after Stop")
	}
	if !tl.Muted(2, 3) {
		t.Error("pre-existing mute was not restored")
	}
	if !tl.Muted(2, 4) || !tl.Muted(3, 2) {
		t.Error("engine-activated slots were not muted on Stop")
	}
	if got := tl.PlaybackSlot(); got != 1 {
		t.Errorf("PlaybackSlot = %d after Stop, want running-start slot 1", got)
	}
}

func TestRestartReusesLoomPattern(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	e.Stop()

	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := tl.SlotCount(); got != 7 {
		t.Fatalf("SlotCount = %d after restart, want 7 (no second loom)", got)
	}
	if got := e.LoomSlot(); got != 7 {
		t.Fatalf("LoomSlot = %d after restart, want 7", got)
	}
}

func TestStructureChangeResetsState(t *testing.T) {
	tl, e := newTestEngine(t, 4, 20, 16)
	e.toggleLogical(2, 3, false)
	e.SetVertical(2)

	tl.AddSlot(16)

	if len(e.activeSlots) != 0 || len(e.polyCounter) != 0 {
		t.Error("slot state survived a structure change")
	}
	if x, y := e.ViewportPos(); x != 1 || y != 1 {
		t.Errorf("viewport = (%d,%d) after structure change, want (1,1)", x, y)
	}
	if !e.loomIntact() {
		t.Error("loom not re-established after structure change")
	}
}

func TestTrackKindsNeverToggle(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	master := tl.TrackCount() // Memory appends the master last

	before := tl.Mutations()
	e.toggleLogical(master, 2, false)
	if tl.Mutations() != before {
		t.Error("toggle on the master track mutated the timeline")
	}
	if _, ok := e.activeSlots[master]; ok {
		t.Error("master track gained an active slot")
	}
	if tl.TrackKind(master) != song.KindMaster {
		t.Fatalf("test setup: track %d is not the master", master)
	}
}
