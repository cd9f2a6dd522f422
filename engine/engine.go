// Package engine implements the gridloom recombination engine: the
// state machine that copies per-track pattern content from a linear
// song into one reserved "loom" pattern, driven by an 8x8 pad grid.
//
// The engine is single-threaded and cooperative. All entry points
// (Press/Release/Toggle, navigation, OnIdleTick, host notifications)
// must be called from one goroutine; the surface runtime serializes
// them.
package engine

import (
	"fmt"

	"gridloom/debug"
	"gridloom/song"
)

// Physical grid dimensions (Launchpad X main field).
const (
	MatrixWidth  = 8
	MatrixHeight = 8
)

// FollowMode controls how viewport moves push the host selection.
type FollowMode int

const (
	FollowOff FollowMode = iota
	FollowTrack
	FollowTrackSlot
)

// Options is the engine's recognized configuration surface. Follow,
// Polyrhythms and page sizes may be swapped at runtime via SetOptions;
// HoldToCopy and AutoStart are read once at Start.
type Options struct {
	Follow      FollowMode
	Polyrhythms bool
	PageWidth   int // 0 = automatic (grid width)
	PageHeight  int // 0 = automatic (grid height)
	AutoStart   bool
	HoldToCopy  bool
	HoldTicks   int64 // ticks a pad must stay down to count as a hold
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Follow:      FollowTrack,
		Polyrhythms: true,
		HoldToCopy:  true,
		HoldTicks:   10,
	}
}

// Sinks receive engine-driven UI effects. All callbacks fire on the
// engine's goroutine; nil entries are skipped.
type Sinks struct {
	// Repaint fires when the grid needs a full repaint.
	Repaint func()
	// NavChanged fires when one viewport axis moved.
	NavChanged func(axis Axis)
	// Status carries informational operator messages.
	Status func(msg string)
	// Aborted fires after a lost-invariant abort, with the reason.
	Aborted func(reason string)
}

// lifecycle is the engine's explicit run state, checked once at every
// entry point.
type lifecycle int

const (
	lifeStopped lifecycle = iota
	lifeStarting
	lifeRunning
	lifeAborting
)

// heldCell is the at-most-one outstanding pressed pad, used to tell a
// release-after-hold apart from a plain tap.
type heldCell struct {
	col, row int
	seq      uint64
}

// pendingFlags are set by operations and consumed by the idle loop.
// Each flag is cleared before its work runs, so a re-trigger during
// the same tick waits for the next one.
type pendingFlags struct {
	refresh  bool
	navH     bool
	navV     bool
	wantPlay bool
}

// Engine owns all recombination state for one timeline. Shared state
// (active slots, poly counters, viewport) has no other writer, so no
// locking is needed.
type Engine struct {
	tl    Timeline
	opts  Options
	sinks Sinks

	life lifecycle
	view Viewport

	// activeSlots maps track -> the slot currently feeding the loom.
	activeSlots map[int]int
	// polyCounter maps track -> source length of its last copy. No
	// entry means the track is silent/cleared.
	polyCounter map[int]int
	// revert records (track, slot) pairs that were already muted
	// before Start, restored verbatim on Stop.
	revert map[[2]int]bool

	held    *heldCell
	heldSeq uint64

	loomSlot  int // slot of the reserved loom pattern
	startSlot int // remembered running-start slot

	sched scheduler
	flags pendingFlags
	unsub func()
}

// New creates an engine over the given timeline. The engine is stopped
// until Start is called.
func New(tl Timeline, opts Options) *Engine {
	if opts.HoldTicks <= 0 {
		opts.HoldTicks = DefaultOptions().HoldTicks
	}
	return &Engine{
		tl:          tl,
		opts:        opts,
		activeSlots: make(map[int]int),
		polyCounter: make(map[int]int),
		revert:      make(map[[2]int]bool),
	}
}

// SetSinks attaches the UI effect callbacks. Call before Start.
func (e *Engine) SetSinks(s Sinks) {
	e.sinks = s
}

// SetOptions applies a new option set. Follow, Polyrhythms and page
// sizes take effect immediately; HoldToCopy, HoldTicks and AutoStart
// are latched at Start and keep their running values.
func (e *Engine) SetOptions(opts Options) {
	if opts.HoldTicks <= 0 {
		opts.HoldTicks = DefaultOptions().HoldTicks
	}
	if e.life == lifeRunning {
		opts.HoldToCopy = e.opts.HoldToCopy
		opts.HoldTicks = e.opts.HoldTicks
		opts.AutoStart = e.opts.AutoStart
	}
	e.opts = opts
	e.view.pageW = resolvePageSize(opts.PageWidth, MatrixWidth)
	e.view.pageH = resolvePageSize(opts.PageHeight, MatrixHeight)
	e.flags.refresh = true
}

// Options returns the engine's current option set.
func (e *Engine) Options() Options {
	return e.opts
}

// Running reports whether the engine has taken over the timeline.
func (e *Engine) Running() bool {
	return e.life == lifeRunning
}

// LoomSlot returns the slot of the reserved loom pattern, or 0 when
// the engine is stopped.
func (e *Engine) LoomSlot() int {
	if e.life != lifeRunning {
		return 0
	}
	return e.loomSlot
}

// Start takes over the timeline: captures the mute state to revert on
// Stop, establishes the loom pattern, remembers the running-start
// point and seeds the loom with track 1 at that slot.
func (e *Engine) Start() error {
	if e.life != lifeStopped {
		return fmt.Errorf("engine: start while %v", e.life)
	}
	e.life = lifeStarting

	e.view = newViewport(e.opts)
	e.activeSlots = make(map[int]int)
	e.polyCounter = make(map[int]int)
	e.revert = make(map[[2]int]bool)
	e.held = nil
	e.sched.Reset()

	// Non-destructive takeover: remember every pair that is already
	// muted before we touch anything.
	for t := 1; t <= e.tl.TrackCount(); t++ {
		for s := 1; s <= e.tl.SlotCount(); s++ {
			if e.tl.Muted(t, s) {
				e.revert[[2]int{t, s}] = true
			}
		}
	}

	e.ensureLoom()

	if e.tl.Playing() {
		e.startSlot = e.tl.PlaybackSlot()
	} else {
		e.startSlot = e.tl.EditSlot()
	}

	e.life = lifeRunning
	e.unsub = e.tl.Subscribe(e)

	// Seed so the loom is fed from the first tick. The remembered slot
	// can be unusable - a restart with playback parked on the surviving
	// loom pattern - so fall back to the first valid pair.
	if track, slot := e.seedPosition(); track > 0 {
		e.toggleLogical(track, slot, false)
	} else {
		e.status("no content track to seed the loom from")
	}

	if e.opts.AutoStart {
		e.flags.wantPlay = true
	}
	e.flags.refresh = true

	debug.Log("engine", "started loom=%d startSlot=%d", e.loomSlot, e.startSlot)
	return nil
}

// seedPosition picks the initial (track, slot) pair for Start's seed:
// the first content track at the running-start slot. When the
// remembered slot is off the timeline or the loom itself, the first
// non-loom slot stands in. A zero track means the timeline has no
// content track at all.
func (e *Engine) seedPosition() (track, slot int) {
	for t := 1; t <= e.tl.TrackCount(); t++ {
		if e.tl.TrackKind(t) == song.KindContent {
			track = t
			break
		}
	}
	slot = e.startSlot
	if slot < 1 || slot > e.tl.SlotCount() || slot == e.loomSlot {
		for s := 1; s <= e.tl.SlotCount(); s++ {
			if s != e.loomSlot {
				slot = s
				break
			}
		}
	}
	return track, slot
}

// Stop hands the timeline back: restores the revert set, mutes the
// slots the engine left active and returns the transport to the
// remembered running-start slot when it is still valid.
func (e *Engine) Stop() {
	if e.life != lifeRunning {
		return
	}
	e.shutdown()
	debug.Log("engine", "stopped")
}

func (e *Engine) shutdown() {
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.revertAll()
	e.activeSlots = make(map[int]int)
	e.polyCounter = make(map[int]int)
	e.revert = make(map[[2]int]bool)
	e.held = nil
	e.sched.Reset()
	e.flags = pendingFlags{}
	e.life = lifeStopped
}

// abort is the lost-invariant path: the loom pattern disappeared or
// was renamed outside the engine's control. Stop and surface a
// message; never crash the host.
func (e *Engine) abort(reason string) {
	e.life = lifeAborting
	debug.Log("engine", "abort: %s", reason)
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.revertAll()
	e.activeSlots = make(map[int]int)
	e.polyCounter = make(map[int]int)
	e.revert = make(map[[2]int]bool)
	e.held = nil
	e.sched.Reset()
	e.flags = pendingFlags{}
	e.life = lifeStopped
	if e.sinks.Aborted != nil {
		e.sinks.Aborted(reason)
	}
}

func (e *Engine) status(format string, args ...any) {
	if e.sinks.Status != nil {
		e.sinks.Status(fmt.Sprintf(format, args...))
	}
}

// song.Observer implementation. The host calls these; they only act
// while running.
var _ song.Observer = (*Engine)(nil)

// StructureChanged resets viewport, slot and poly state after tracks
// or slots were inserted/removed, and re-establishes the loom.
func (e *Engine) StructureChanged() {
	if e.life != lifeRunning {
		return
	}
	debug.Log("engine", "structure changed, resetting")
	e.activeSlots = make(map[int]int)
	e.polyCounter = make(map[int]int)
	e.view = newViewport(e.opts)
	e.ensureLoom()
	e.flags.refresh = true
}

// SelectionChanged scrolls the viewport to keep the host selection in
// view when follow mode is on.
func (e *Engine) SelectionChanged(track, slot int) {
	if e.life != lifeRunning || e.opts.Follow == FollowOff {
		return
	}
	if track < e.view.X || track >= e.view.X+MatrixWidth {
		e.setHorizontal(track, false)
	}
	if e.opts.Follow == FollowTrackSlot {
		if slot < e.view.Y || slot >= e.view.Y+MatrixHeight {
			e.setVertical(slot, false)
		}
	}
}

// PlayStateChanged repaints so playhead-dependent cell states update.
func (e *Engine) PlayStateChanged(playing bool) {
	if e.life != lifeRunning {
		return
	}
	e.flags.refresh = true
}

func (l lifecycle) String() string {
	switch l {
	case lifeStopped:
		return "stopped"
	case lifeStarting:
		return "starting"
	case lifeRunning:
		return "running"
	case lifeAborting:
		return "aborting"
	default:
		return "unknown"
	}
}
