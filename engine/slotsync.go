package engine

import (
	"gridloom/debug"
	"gridloom/song"
)

// Slot/mute synchronization: keeps the host's per-(track, slot) mute
// flags consistent with the Active Slot Map, so exactly one slot per
// touched track contributes to the loom. The loom slot's own mute
// state is owned by the pattern manager and never written here.

// garbagePosition reports whether a logical (track, slot) target is
// invalid: off the timeline, a non-content track, or the loom itself.
func (e *Engine) garbagePosition(track, slot int) bool {
	if slot < 1 || slot > e.tl.SlotCount() {
		return true
	}
	if track < 1 || track > e.tl.TrackCount() {
		return true
	}
	if e.tl.TrackKind(track) != song.KindContent {
		return true
	}
	if slot == e.loomSlot {
		return true
	}
	return false
}

// canWholeRegionToggle is the whole-region silence gate: true only if
// every content track either already has the pressed slot active or
// has never been toggled - and those two groups don't mix. When true a
// whole-region press can be satisfied by muting instead of copying.
func (e *Engine) canWholeRegionToggle(slot int) bool {
	toggled, untoggled := 0, 0
	for t := 1; t <= e.tl.TrackCount(); t++ {
		if e.tl.TrackKind(t) != song.KindContent {
			continue
		}
		if _, ok := e.polyCounter[t]; ok {
			if e.activeSlots[t] != slot {
				return false
			}
			toggled++
		} else {
			untoggled++
		}
	}
	return toggled == 0 || untoggled == 0
}

// setTrackActive makes slot the track's single unmuted slot. A track
// with a prior active slot needs only the O(1) transition; the first
// touch of a track walks every slot and sets mute state explicitly.
func (e *Engine) setTrackActive(track, slot int) {
	if prev, ok := e.activeSlots[track]; ok {
		if prev != slot && prev >= 1 && prev <= e.tl.SlotCount() {
			e.tl.SetMuted(track, prev, true)
		}
		e.tl.SetMuted(track, slot, false)
	} else {
		for s := 1; s <= e.tl.SlotCount(); s++ {
			if s == e.loomSlot {
				continue
			}
			e.tl.SetMuted(track, s, s != slot)
		}
	}
	e.activeSlots[track] = slot
}

// pulseMute cycles the mute flag of a just-cleared slot so the host's
// mute indicator repaints; direct reassignment does not repaint
// externally. Runs through the deferred queue, one step per tick.
func (e *Engine) pulseMute(track, slot int) {
	e.sched.After(1, func() {
		if e.life != lifeRunning {
			return
		}
		e.tl.SetMuted(track, slot, false)
		e.sched.After(1, func() {
			if e.life != lifeRunning {
				return
			}
			e.tl.SetMuted(track, slot, true)
		})
	})
}

// revertAll restores the mute states recorded at Start, mutes every
// slot the engine left active, and returns the transport to the
// running-start slot when it is still a valid index.
func (e *Engine) revertAll() {
	tracks, slots := e.tl.TrackCount(), e.tl.SlotCount()
	for pair := range e.revert {
		t, s := pair[0], pair[1]
		if t >= 1 && t <= tracks && s >= 1 && s <= slots {
			e.tl.SetMuted(t, s, true)
		}
	}
	for t, s := range e.activeSlots {
		if t >= 1 && t <= tracks && s >= 1 && s <= slots {
			e.tl.SetMuted(t, s, true)
		}
	}
	if e.startSlot >= 1 && e.startSlot <= slots {
		e.tl.SetPlaybackSlot(e.startSlot)
	} else {
		debug.Log("engine", "start slot %d no longer valid, skipping transport restore", e.startSlot)
		e.status("start position is gone, transport left in place")
	}
}
