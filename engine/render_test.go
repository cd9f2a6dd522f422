package engine

import (
	"testing"

	"gridloom/timeline"
)

func cellAt(cells []Cell, col, row int) Cell {
	for _, c := range cells {
		if c.Col == col && c.Row == row {
			return c
		}
	}
	return Cell{}
}

func TestRenderStoppedIsAllOutOfBounds(t *testing.T) {
	e := New(timeline.New(4, 6, 16), Options{})
	cells := e.RenderCells()
	if len(cells) != MatrixWidth*MatrixHeight {
		t.Fatalf("len(cells) = %d, want %d", len(cells), MatrixWidth*MatrixHeight)
	}
	for _, c := range cells {
		if c.Kind != CellOutOfBounds {
			t.Fatalf("cell (%d,%d) = %v while stopped, want out of bounds", c.Col, c.Row, c.Kind)
		}
	}
}

func TestRenderClassification(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	tl.SetNote(3, 2, 1, note(40)) // slot 3, track 2: filled
	tl.SetNote(2, 2, 1, note(41))
	e.toggleLogical(2, 2, false) // track 2 active at slot 2

	cells := e.RenderCells()

	// Column 1 row 1: the seeded track at its start slot.
	if got := cellAt(cells, 1, 1).Kind; got != CellActive {
		t.Errorf("seed cell = %v, want active", got)
	}
	if got := cellAt(cells, 2, 2).Kind; got != CellActive {
		t.Errorf("track 2 slot 2 = %v, want active", got)
	}
	if got := cellAt(cells, 2, 3).Kind; got != CellFilled {
		t.Errorf("track 2 slot 3 = %v, want filled", got)
	}
	if got := cellAt(cells, 3, 2).Kind; got != CellEmpty {
		t.Errorf("track 3 slot 2 = %v, want empty", got)
	}
	// Column 5 is the master track: never addressable.
	if got := cellAt(cells, 5, 1).Kind; got != CellOutOfBounds {
		t.Errorf("master column = %v, want out of bounds", got)
	}
	// Row 7 is the loom slot, row 8 is past the timeline.
	if got := cellAt(cells, 1, 7).Kind; got != CellOutOfBounds {
		t.Errorf("loom row = %v, want out of bounds", got)
	}
	if got := cellAt(cells, 1, 8).Kind; got != CellOutOfBounds {
		t.Errorf("row past timeline = %v, want out of bounds", got)
	}
}

func TestRenderSilentAfterWholeRegionSilence(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	tl.SetNote(2, 1, 1, note(36))

	e.toggleLogical(1, 2, true)
	e.toggleLogical(1, 2, true)

	cells := e.RenderCells()
	for col := 1; col <= 4; col++ {
		if got := cellAt(cells, col, 2).Kind; got != CellSilent {
			t.Errorf("track %d slot 2 = %v after silence, want silent", col, got)
		}
	}
}

func TestRenderMutedFlagMirrorsHost(t *testing.T) {
	tl, e := newTestEngine(t, 4, 6, 16)
	tl.SetNote(2, 2, 1, note(40))
	e.toggleLogical(2, 2, false) // mutes track 2's other slots

	cells := e.RenderCells()
	if !cellAt(cells, 2, 3).Muted {
		t.Error("sibling slot not reported muted")
	}
	if cellAt(cells, 2, 2).Muted {
		t.Error("active slot reported muted")
	}
}

func TestRenderFollowsViewport(t *testing.T) {
	tl, e := newTestEngine(t, 12, 20, 16)
	tl.SetNote(9, 10, 1, note(40)) // slot 9, track 10

	e.SetHorizontal(5)
	e.SetVertical(8)

	cells := e.RenderCells()
	// Logical (track 10, slot 9) is physical (6, 2) from offset (5, 8).
	if got := cellAt(cells, 6, 2).Kind; got != CellFilled {
		t.Errorf("cell (6,2) = %v, want filled through the viewport", got)
	}
}
