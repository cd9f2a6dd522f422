package engine

import "gridloom/debug"

// LoomName is the reserved name of the recombination pattern. At most
// one pattern may hold it at any time.
const LoomName = "__GRID LOOM__"

// ensureLoom establishes the reserved loom pattern at the end of the
// timeline. A last pattern already carrying the reserved name is
// reused (content cleared, slot unmuted on every track); otherwise a
// fresh pattern is appended and named. Stale holders of the reserved
// name anywhere else - leftovers of a crashed prior run - lose it
// first.
func (e *Engine) ensureLoom() {
	last := e.tl.SlotCount()
	for s := 1; s < last; s++ {
		if e.tl.PatternName(s) == LoomName {
			debug.Log("loom", "clearing stale loom name at slot %d", s)
			e.tl.SetPatternName(s, "")
		}
	}

	if e.tl.PatternName(last) == LoomName {
		e.loomSlot = last
		e.tl.ClearPattern(e.loomSlot)
	} else {
		e.loomSlot = e.tl.InsertPatternAfter(last)
		e.tl.SetPatternName(e.loomSlot, LoomName)
	}
	for t := 1; t <= e.tl.TrackCount(); t++ {
		e.tl.SetMuted(t, e.loomSlot, false)
	}
}

// loomIntact checks the reserved-name invariant the idle loop enforces.
func (e *Engine) loomIntact() bool {
	if e.loomSlot < 1 || e.loomSlot > e.tl.SlotCount() {
		return false
	}
	return e.tl.PatternName(e.loomSlot) == LoomName
}

// preservePlayback keeps the beat across a loom shrink: the playback
// line keeps its relative distance to the loop end rather than its
// absolute position. Growth never places playback out of bounds, so
// nothing is done for it.
func (e *Engine) preservePlayback(oldLen, newLen int, oldLine int) {
	if e.tl.PlaybackSlot() != e.loomSlot {
		return
	}
	if oldLine <= newLen {
		return
	}
	line := oldLine - oldLen + newLen
	lpb := e.tl.LinesPerBeat()
	if lpb < 1 {
		lpb = 1
	}
	for line < 0 {
		line += lpb
		if line > newLen {
			line = line % newLen
		}
	}
	if line == 0 {
		line = newLen
	}
	debug.Log("loom", "shrink %d->%d moved playback line %d->%d", oldLen, newLen, oldLine, line)
	e.tl.SetPlaybackLine(line)
}
