package surface

import (
	"gridloom/debug"
	"gridloom/engine"
	"gridloom/midi"
)

// Physical layout on the Launchpad:
//   8x8 field     -> grid cells (engine row 1 is the top pad row)
//   right column  -> vertical paging: first / prev / next / last
//   top row       -> horizontal paging (cols 0-3), engine start/stop
//                    (col 6), transport play/stop (col 7)

func (r *Runtime) routePad(p midi.PadEvent) {
	switch {
	case p.Row < 8 && p.Col < 8:
		col := p.Col + 1
		row := engine.MatrixHeight - p.Row // bottom-up device rows, top-down grid rows
		if p.Pressed {
			r.eng.Press(col, row)
		} else {
			r.eng.Release(col, row)
		}
	case p.Col == 8 && p.Pressed:
		r.routeSceneButton(p.Row)
	case p.Row == 8 && p.Pressed:
		r.routeTopButton(p.Col)
	}
}

func (r *Runtime) routeSceneButton(row int) {
	switch row {
	case 7:
		r.eng.PageFirst(engine.AxisV)
	case 6:
		r.eng.PagePrev(engine.AxisV)
	case 1:
		r.eng.PageNext(engine.AxisV)
	case 0:
		r.eng.PageLast(engine.AxisV)
	}
}

func (r *Runtime) routeTopButton(col int) {
	switch col {
	case 0:
		r.eng.PageFirst(engine.AxisH)
	case 1:
		r.eng.PagePrev(engine.AxisH)
	case 2:
		r.eng.PageNext(engine.AxisH)
	case 3:
		r.eng.PageLast(engine.AxisH)
	case 6:
		r.ToggleEngine()
	case 7:
		r.tl.SetPlaying(!r.tl.Playing())
		r.markDirty()
	}
}

// ToggleEngine starts or stops the recombination engine. Must run on
// the engine goroutine.
func (r *Runtime) ToggleEngine() {
	if r.eng.Running() {
		r.eng.Stop()
		r.pushStatus("engine stopped")
	} else {
		if err := r.eng.Start(); err != nil {
			debug.Log("surface", "start failed: %v", err)
			r.pushStatus("engine start failed: " + err.Error())
			return
		}
		r.pushStatus("engine running")
	}
	r.markDirty()
}

// flushLEDs diffs the current grid against the last flush and sends
// only what changed. Runs on the engine goroutine.
func (r *Runtime) flushLEDs() {
	r.ctrlMu.RLock()
	c := r.controller
	r.ctrlMu.RUnlock()
	if c == nil {
		return
	}

	newMap := make(map[[2]int]midi.LEDUpdate, 80)

	for _, cell := range r.eng.RenderCells() {
		rgb := r.th.CellRGB(cell)
		channel := midi.ChannelStatic
		if cell.Kind == engine.CellActive {
			channel = midi.ChannelPulse
		}
		row := engine.MatrixHeight - cell.Row
		col := cell.Col - 1
		newMap[[2]int{row, col}] = midi.LEDUpdate{
			Row: row, Col: col, Color: [3]uint8(rgb), Channel: channel,
		}
	}

	nav := r.th.NavRGB()
	for _, row := range []int{0, 1, 6, 7} {
		newMap[[2]int{row, 8}] = midi.LEDUpdate{Row: row, Col: 8, Color: [3]uint8(nav)}
	}
	for _, col := range []int{0, 1, 2, 3} {
		newMap[[2]int{8, col}] = midi.LEDUpdate{Row: 8, Col: col, Color: [3]uint8(nav)}
	}
	run := r.th.TransportRGB(r.eng.Running())
	newMap[[2]int{8, 6}] = midi.LEDUpdate{Row: 8, Col: 6, Color: [3]uint8(run)}
	play := r.th.TransportRGB(r.tl.Playing())
	newMap[[2]int{8, 7}] = midi.LEDUpdate{Row: 8, Col: 7, Color: [3]uint8(play)}

	var updates []midi.LEDUpdate
	for key, led := range newMap {
		if prev, ok := r.prevLEDs[key]; !ok || prev != led {
			updates = append(updates, led)
		}
	}
	for key := range r.prevLEDs {
		if _, ok := newMap[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	if len(updates) > 0 {
		debug.LogEvery(20, "led", "flush batch=%d", len(updates))
		if err := c.SetLEDBatch(updates); err != nil {
			debug.Log("led", "flush failed: %v", err)
		}
	}
	r.prevLEDs = newMap
}
