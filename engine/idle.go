package engine

// OnIdleTick is the cooperative reconciliation step, invoked once per
// host tick. It checks the loom invariant, drains due deferred calls,
// then lazily applies pending UI work. Every flag is cleared before
// its work runs, so a re-trigger during the tick waits for the next
// one.
func (e *Engine) OnIdleTick() {
	if e.life != lifeRunning {
		return
	}

	if !e.loomIntact() {
		e.abort("the loom pattern was deleted or renamed")
		return
	}

	e.sched.Advance()
	if e.life != lifeRunning {
		return
	}

	if e.flags.navH {
		e.flags.navH = false
		if e.sinks.NavChanged != nil {
			e.sinks.NavChanged(AxisH)
		}
	}
	if e.flags.navV {
		e.flags.navV = false
		if e.sinks.NavChanged != nil {
			e.sinks.NavChanged(AxisV)
		}
	}

	if e.flags.refresh {
		e.flags.refresh = false
		if e.sinks.Repaint != nil {
			e.sinks.Repaint()
		}
	}

	// Keep playback locked to the loom.
	if e.tl.PlaybackSlot() != e.loomSlot {
		e.tl.SetPlaybackSlot(e.loomSlot)
	}

	if e.flags.wantPlay {
		e.flags.wantPlay = false
		if !e.tl.Playing() {
			e.tl.SetPlaying(true)
		}
	}
}
