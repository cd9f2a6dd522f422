package engine

// CellKind is the small fixed set of visual states a grid cell can
// take, derived from loom occupancy and mute state.
type CellKind int

const (
	// CellOutOfBounds marks cells past the timeline, on non-content
	// tracks, or over the loom slot itself.
	CellOutOfBounds CellKind = iota
	// CellEmpty is an addressable slot with no content for the track.
	CellEmpty
	// CellFilled has source content but is not feeding the loom.
	CellFilled
	// CellActive is the track's active slot, contributing to the loom.
	CellActive
	// CellSilent is an assigned active slot whose loom lane holds no
	// content (silenced whole-region state or cleared track).
	CellSilent
)

// Cell is one grid cell's classification for repaint. Col and Row are
// 1-based physical grid coordinates.
type Cell struct {
	Col, Row int
	Kind     CellKind
	Muted    bool
}

// RenderCells classifies every physical grid cell against the current
// viewport. Safe to call while stopped; everything is out of bounds
// then.
func (e *Engine) RenderCells() []Cell {
	cells := make([]Cell, 0, MatrixWidth*MatrixHeight)
	for row := 1; row <= MatrixHeight; row++ {
		for col := 1; col <= MatrixWidth; col++ {
			cells = append(cells, e.classify(col, row))
		}
	}
	return cells
}

func (e *Engine) classify(col, row int) Cell {
	c := Cell{Col: col, Row: row, Kind: CellOutOfBounds}
	if e.life != lifeRunning {
		return c
	}

	track := col + e.view.X - 1
	slot := row + e.view.Y - 1
	if e.garbagePosition(track, slot) {
		return c
	}

	c.Muted = e.tl.Muted(track, slot)

	if active, ok := e.activeSlots[track]; ok && active == slot {
		if _, populated := e.polyCounter[track]; populated {
			c.Kind = CellActive
		} else {
			c.Kind = CellSilent
		}
		return c
	}

	if e.tl.TrackHasContent(slot, track) {
		c.Kind = CellFilled
	} else {
		c.Kind = CellEmpty
	}
	return c
}
