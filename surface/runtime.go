// Package surface is the gridloom runtime: it owns the engine's
// single logical thread, drives the idle tick, routes pad input to
// engine operations, and mirrors the grid to controller LEDs at a
// fixed FPS with diffing.
package surface

import (
	"sync"
	"time"

	"gridloom/debug"
	"gridloom/engine"
	"gridloom/midi"
	"gridloom/theme"
	"gridloom/timeline"
)

// Tick and LED refresh rates.
const (
	tickRate = 40 // engine idle ticks per second
	ledFPS   = 30
)

// Runtime serializes every engine entry point onto one goroutine. All
// external input - pads, TUI keys, config reloads - goes through Do.
type Runtime struct {
	eng *engine.Engine
	tl  *timeline.Memory
	th  *theme.Theme

	cmds     chan func()
	stopChan chan struct{}
	stopOnce sync.Once

	controller midi.Controller
	ctrlMu     sync.RWMutex

	ledDirty bool
	dirtyMu  sync.Mutex
	prevLEDs map[[2]int]midi.LEDUpdate

	statusMu sync.Mutex
	statuses []string

	snapMu sync.RWMutex
	snap   Snapshot

	// UpdateChan notifies the TUI that state changed.
	UpdateChan chan struct{}
}

// Snapshot is an immutable copy of the visible state. The loop
// goroutine publishes it after every engine entry point; readers on
// other goroutines (the TUI view) must use it instead of touching the
// engine or timeline directly.
type Snapshot struct {
	Cells      []engine.Cell
	ViewX      int
	ViewY      int
	EngineOn   bool
	Playing    bool
	TrackCount int
	SlotCount  int
}

// New wires a runtime over the engine and timeline.
func New(eng *engine.Engine, tl *timeline.Memory, th *theme.Theme) *Runtime {
	r := &Runtime{
		eng:        eng,
		tl:         tl,
		th:         th,
		cmds:       make(chan func(), 64),
		stopChan:   make(chan struct{}),
		prevLEDs:   make(map[[2]int]midi.LEDUpdate),
		UpdateChan: make(chan struct{}, 1),
	}
	eng.SetSinks(engine.Sinks{
		Repaint:    r.markDirty,
		NavChanged: func(axis engine.Axis) { r.markDirty() },
		Status:     r.pushStatus,
		Aborted: func(reason string) {
			r.pushStatus("engine aborted: " + reason)
			r.markDirty()
		},
	})
	r.publish()
	return r
}

// Start launches the runtime loop.
func (r *Runtime) Start() {
	go r.loop()
}

// Stop shuts the loop down and stops the engine on its own goroutine.
func (r *Runtime) Stop() {
	done := make(chan struct{})
	r.Do(func() {
		r.eng.Stop()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	r.stopOnce.Do(func() { close(r.stopChan) })
}

// Do runs fn on the engine goroutine. Drops when the queue is full
// rather than blocking input callbacks.
func (r *Runtime) Do(fn func()) {
	select {
	case r.cmds <- fn:
	case <-r.stopChan:
	}
}

func (r *Runtime) loop() {
	tick := time.NewTicker(time.Second / tickRate)
	led := time.NewTicker(time.Second / ledFPS)
	defer tick.Stop()
	defer led.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case fn := <-r.cmds:
			fn()
			r.publish()
			r.notify()
		case <-tick.C:
			r.eng.OnIdleTick()
			r.publish()
		case <-led.C:
			r.dirtyMu.Lock()
			dirty := r.ledDirty
			r.ledDirty = false
			r.dirtyMu.Unlock()
			if dirty {
				r.flushLEDs()
				r.publish()
				r.notify()
			}
		}
	}
}

// publish refreshes the cross-goroutine snapshot. Runs on the loop
// goroutine only; the engine and timeline are read nowhere else.
func (r *Runtime) publish() {
	vx, vy := r.eng.ViewportPos()
	snap := Snapshot{
		Cells:      r.eng.RenderCells(),
		ViewX:      vx,
		ViewY:      vy,
		EngineOn:   r.eng.Running(),
		Playing:    r.tl.Playing(),
		TrackCount: r.tl.TrackCount(),
		SlotCount:  r.tl.SlotCount(),
	}
	r.snapMu.Lock()
	r.snap = snap
	r.snapMu.Unlock()
}

// Snapshot returns the last published visible state. Safe from any
// goroutine.
func (r *Runtime) Snapshot() Snapshot {
	r.snapMu.RLock()
	defer r.snapMu.RUnlock()
	return r.snap
}

func (r *Runtime) markDirty() {
	r.dirtyMu.Lock()
	r.ledDirty = true
	r.dirtyMu.Unlock()
}

func (r *Runtime) notify() {
	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}

func (r *Runtime) pushStatus(msg string) {
	r.statusMu.Lock()
	r.statuses = append(r.statuses, time.Now().Format("15:04:05 ")+msg)
	if len(r.statuses) > 200 {
		r.statuses = r.statuses[len(r.statuses)-200:]
	}
	r.statusMu.Unlock()
	r.notify()
}

// Statuses returns a snapshot of the operator message log.
func (r *Runtime) Statuses() []string {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	out := make([]string, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// SetController attaches a pad controller (nil detaches) and begins
// routing its events.
func (r *Runtime) SetController(c midi.Controller) {
	r.ctrlMu.Lock()
	r.controller = c
	r.ctrlMu.Unlock()

	if c == nil {
		return
	}
	debug.Log("surface", "controller attached: %s", c.ID())

	// Reset the diff so the first flush repaints everything.
	r.Do(func() {
		r.prevLEDs = make(map[[2]int]midi.LEDUpdate)
		r.markDirty()
	})

	go func() {
		for pad := range c.PadEvents() {
			p := pad
			r.Do(func() { r.routePad(p) })
		}
	}()
}
