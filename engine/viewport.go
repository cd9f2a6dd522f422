package engine

// Axis selects a viewport axis.
type Axis int

const (
	AxisH Axis = iota // tracks
	AxisV             // sequence slots
)

// Viewport is the visible window into the track x slot space: X/Y are
// the 1-based logical coordinates of the grid's top-left cell.
type Viewport struct {
	X, Y         int
	pageW, pageH int
}

func resolvePageSize(configured, automatic int) int {
	if configured >= 1 && configured <= 16 {
		return configured
	}
	return automatic
}

func newViewport(opts Options) Viewport {
	return Viewport{
		X:     1,
		Y:     1,
		pageW: resolvePageSize(opts.PageWidth, MatrixWidth),
		pageH: resolvePageSize(opts.PageHeight, MatrixHeight),
	}
}

// LimitH is the highest valid horizontal offset. The vertical limit
// keeps the asymmetric form used for slot paging elsewhere in the
// system.
func (e *Engine) LimitH() int {
	return maxInt(1, e.tl.TrackCount()-MatrixWidth+1)
}

// LimitV is the highest valid vertical offset.
func (e *Engine) LimitV() int {
	return maxInt(1, e.tl.SlotCount()-MatrixHeight)
}

// ViewportPos returns the current top-left logical coordinate.
func (e *Engine) ViewportPos() (x, y int) {
	return e.view.X, e.view.Y
}

// SetHorizontal moves the viewport's track offset. No-op unless the
// clamped value differs from the current one.
func (e *Engine) SetHorizontal(idx int) {
	if e.life != lifeRunning {
		return
	}
	e.setHorizontal(idx, true)
}

// SetVertical moves the viewport's slot offset.
func (e *Engine) SetVertical(idx int) {
	if e.life != lifeRunning {
		return
	}
	e.setVertical(idx, true)
}

func (e *Engine) setHorizontal(idx int, follow bool) {
	idx = clampInt(idx, 1, e.LimitH())
	if idx == e.view.X {
		return
	}
	e.view.X = idx
	e.flags.navH = true
	e.flags.refresh = true
	if follow && e.opts.Follow != FollowOff {
		e.tl.SelectTrack(e.view.X)
	}
}

func (e *Engine) setVertical(idx int, follow bool) {
	idx = clampInt(idx, 1, e.LimitV())
	if idx == e.view.Y {
		return
	}
	e.view.Y = idx
	e.flags.navV = true
	e.flags.refresh = true
	if follow && e.opts.Follow == FollowTrackSlot {
		e.tl.SelectSlot(e.view.Y)
	}
}

// Paging. Offsets step by the configured page size and clamp to
// [1, limit]. "Last" is reached by whole page steps from 1, not by
// jumping to the raw limit: when the page size does not divide the
// limit evenly the last page lands short of it. That convention is
// shared with the bounded stepping of paged navigation elsewhere and
// is deliberately preserved.

// PageNext advances one page on the given axis.
func (e *Engine) PageNext(axis Axis) {
	if e.life != lifeRunning {
		return
	}
	if axis == AxisH {
		e.setHorizontal(e.view.X+e.view.pageW, true)
	} else {
		e.setVertical(e.view.Y+e.view.pageH, true)
	}
}

// PagePrev steps one page back on the given axis.
func (e *Engine) PagePrev(axis Axis) {
	if e.life != lifeRunning {
		return
	}
	if axis == AxisH {
		e.setHorizontal(e.view.X-e.view.pageW, true)
	} else {
		e.setVertical(e.view.Y-e.view.pageH, true)
	}
}

// PageFirst jumps to offset 1 on the given axis.
func (e *Engine) PageFirst(axis Axis) {
	if e.life != lifeRunning {
		return
	}
	if axis == AxisH {
		e.setHorizontal(1, true)
	} else {
		e.setVertical(1, true)
	}
}

// PageLast steps to the last page on the given axis.
func (e *Engine) PageLast(axis Axis) {
	if e.life != lifeRunning {
		return
	}
	if axis == AxisH {
		e.setHorizontal(steppedLast(e.view.pageW, e.LimitH()), true)
	} else {
		e.setVertical(steppedLast(e.view.pageH, e.LimitV()), true)
	}
}

// steppedLast walks whole page steps from 1 and returns the largest
// offset that stays within the limit.
func steppedLast(page, limit int) int {
	pos := 1
	for pos+page <= limit {
		pos += page
	}
	return pos
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
