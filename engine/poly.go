package engine

import (
	"gridloom/debug"
	"gridloom/song"
)

// Polyrhythm resolution: when active tracks disagree on source length,
// the loom grows to the least common multiple of the lengths and
// shorter content tiles across it, so every track stays period-correct
// independent of which track triggered the resize.

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// combinedLength returns the LCM of the given lengths, capped: ok is
// false once the running LCM exceeds limit.
func combinedLength(lengths []int, limit int) (lcm int, ok bool) {
	lcm = 1
	for _, l := range lengths {
		if l <= 0 {
			continue
		}
		lcm = lcm / gcd(lcm, l) * l
		if lcm > limit {
			return lcm, false
		}
	}
	return lcm, true
}

func (e *Engine) distinctLengths() []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range e.polyCounter {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// resolveTrackCopy copies (srcSlot, track) into the loom, expanding
// the loom for polyrhythms when active lengths disagree. The caller
// must already have recorded the track's length in the poly counter.
func (e *Engine) resolveTrackCopy(track, srcSlot int) {
	srcLen := e.tl.PatternLength(srcSlot)
	dstLen := e.tl.PatternLength(e.loomSlot)

	lengths := e.distinctLengths()
	combined, fits := combinedLength(lengths, e.tl.MaxPatternLines())

	simple := len(lengths) <= 1 ||
		!e.opts.Polyrhythms ||
		!fits ||
		(combined == srcLen && combined == dstLen)

	if simple {
		if !fits {
			debug.Log("poly", "lcm %d over cap %d, falling back to simple copy", combined, e.tl.MaxPatternLines())
		}
		e.tl.SetPatternLength(e.loomSlot, srcLen)
		e.tl.CopyPatternTrack(e.loomSlot, srcSlot, track)
		return
	}

	e.tl.SetPatternLength(e.loomSlot, combined)
	e.tl.CopyPatternTrack(e.loomSlot, srcSlot, track)

	// The new track's own expansion waits a tick: the host's resize
	// must commit before the tile copy can read correct bounds, and
	// several edits before the next tick collapse into one expansion.
	e.sched.After(1, func() {
		if e.life != lifeRunning {
			return
		}
		if got, ok := e.polyCounter[track]; !ok || got != srcLen {
			return // re-toggled before the tick, superseded
		}
		e.tileTrack(track, srcLen)
		e.flags.refresh = true
	})

	// Other populated tracks are re-tiled eagerly when the loom grew,
	// each with its own prior length as the stride.
	if combined > dstLen {
		for t, stride := range e.polyCounter {
			if t == track {
				continue
			}
			e.tileTrack(t, stride)
		}
	}

	if len(lengths) > 1 {
		e.status("polyrhythm: %d lengths active, loom length %d", len(lengths), combined)
	}
}

// tileTrack replicates the first stride lines of a loom track lane
// across the whole loom, shifting automation points by the stride per
// repetition. Points outside the source tile are skipped.
func (e *Engine) tileTrack(track, stride int) {
	if stride <= 0 {
		return
	}
	total := e.tl.PatternLength(e.loomSlot)
	if total <= stride {
		return
	}

	points := e.tl.Automation(e.loomSlot, track)

	for from := stride + 1; from <= total; from += stride {
		to := from + stride - 1
		if to > total {
			to = total
		}
		e.tl.CopyTrackLines(e.loomSlot, track, 1, to-from+1, from)

		shift := from - 1
		for _, p := range points {
			if p.Line < 1 || p.Line > stride {
				continue
			}
			line := p.Line + shift
			if line > total {
				continue
			}
			e.tl.AddAutomation(e.loomSlot, track, song.AutomationPoint{Line: line, Value: p.Value})
		}
	}
}
