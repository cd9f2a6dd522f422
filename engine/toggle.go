package engine

import (
	"gridloom/debug"
	"gridloom/song"
)

// The cell toggler: single entry point for grid interaction. Each
// toggle fully determines the next state from the Active Slot Map, the
// Poly Counter and the pressed coordinate - no hidden history.

// Toggle executes a grid press at a physical cell. Column and row are
// 1-based grid coordinates; wholeRegion selects whole-region mode over
// track mode.
func (e *Engine) Toggle(col, row int, wholeRegion bool) {
	if e.life != lifeRunning {
		return
	}
	if col < 1 || col > MatrixWidth || row < 1 || row > MatrixHeight {
		debug.Log("toggle", "cell (%d,%d) off the grid, ignored", col, row)
		return
	}
	e.toggleLogical(col+e.view.X-1, row+e.view.Y-1, wholeRegion)
}

func (e *Engine) toggleLogical(track, slot int, wholeRegion bool) {
	if e.garbagePosition(track, slot) {
		debug.Log("toggle", "garbage position track=%d slot=%d, rejected", track, slot)
		return
	}

	oldLen := e.tl.PatternLength(e.loomSlot)
	oldLine := e.tl.PlaybackLine()

	if wholeRegion {
		e.toggleWhole(slot)
	} else {
		e.toggleTrack(track, slot)
	}

	if newLen := e.tl.PatternLength(e.loomSlot); newLen < oldLen {
		e.preservePlayback(oldLen, newLen, oldLine)
	}
	e.flags.refresh = true
}

// toggleWhole handles whole-region mode: either silence the loom by
// muting (cheap, when every track already aggregates the pressed slot)
// or copy the entire source pattern. Either way every content track's
// active slot becomes the pressed one.
func (e *Engine) toggleWhole(slot int) {
	if e.canWholeRegionToggle(slot) {
		e.tl.ClearPattern(e.loomSlot)
		for t := 1; t <= e.tl.TrackCount(); t++ {
			if e.tl.TrackKind(t) != song.KindContent {
				continue
			}
			for s := 1; s <= e.tl.SlotCount(); s++ {
				if s == e.loomSlot {
					continue
				}
				e.tl.SetMuted(t, s, true)
			}
			delete(e.polyCounter, t)
			e.activeSlots[t] = slot
		}
		debug.Log("toggle", "whole-region slot=%d silenced", slot)
		return
	}

	srcLen := e.tl.PatternLength(slot)
	e.tl.SetPatternLength(e.loomSlot, srcLen)
	e.tl.CopyPattern(e.loomSlot, slot)
	for t := 1; t <= e.tl.TrackCount(); t++ {
		if e.tl.TrackKind(t) != song.KindContent {
			continue
		}
		e.polyCounter[t] = srcLen
		e.setTrackActive(t, slot)
	}
	debug.Log("toggle", "whole-region slot=%d copied, %d lines", slot, srcLen)
}

// toggleTrack handles track mode: a press on the track's current
// active slot toggles it off (clear + mute), anything else copies the
// pressed slot in.
func (e *Engine) toggleTrack(track, slot int) {
	if cur, ok := e.activeSlots[track]; ok && cur == slot {
		if _, populated := e.polyCounter[track]; populated {
			e.tl.ClearPatternTrack(e.loomSlot, track)
			delete(e.polyCounter, track)
			delete(e.activeSlots, track)
			e.tl.SetMuted(track, slot, true)
			e.pulseMute(track, slot)
			debug.Log("toggle", "track=%d slot=%d off", track, slot)
			return
		}
	}

	e.polyCounter[track] = e.tl.PatternLength(slot)
	e.resolveTrackCopy(track, slot)
	e.setTrackActive(track, slot)
	debug.Log("toggle", "track=%d slot=%d on, len=%d", track, slot, e.polyCounter[track])
}

// Press records a pad going down. With hold-to-copy enabled the press
// only arms the held cell; a deferred check promotes it to
// whole-region mode once it has stayed down long enough.
func (e *Engine) Press(col, row int) {
	if e.life != lifeRunning {
		return
	}
	if !e.opts.HoldToCopy {
		e.Toggle(col, row, false)
		return
	}

	e.heldSeq++
	h := &heldCell{col: col, row: row, seq: e.heldSeq}
	e.held = h
	e.sched.After(e.opts.HoldTicks, func() {
		if e.life != lifeRunning || e.held == nil || e.held.seq != h.seq {
			return
		}
		e.held = nil
		e.Toggle(h.col, h.row, true)
	})
}

// Release resolves a pad coming back up: a release before the hold
// check fired is a plain tap and toggles in track mode. A release
// whose press was already consumed by the hold is ignored.
func (e *Engine) Release(col, row int) {
	if e.life != lifeRunning || e.held == nil {
		return
	}
	if e.held.col != col || e.held.row != row {
		return
	}
	e.held = nil
	e.Toggle(col, row, false)
}
