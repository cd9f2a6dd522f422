package midi

import (
	"fmt"

	"gridloom/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// LaunchpadController drives a Novation Launchpad X in Programmer
// mode.
type LaunchpadController struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan chan PadEvent
}

// NewLaunchpadController opens the ports and configures the device.
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		padChan: make(chan PadEvent, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send

		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
		// Brightness to maximum: F0 00 20 29 02 0C 08 <level> F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var channel, note, velocity uint8
			var cc, value uint8

			// Grid + side buttons arrive as notes; velocity 0 is a
			// release. The hold gesture needs both edges.
			if msg.GetNoteOn(&channel, &note, &velocity) {
				row, col := noteToRowCol(note)
				if row >= 0 {
					lp.emit(PadEvent{Row: row, Col: col, Pressed: velocity > 0, Velocity: velocity})
				}
			}

			// Top control row arrives as CC 91-98.
			if msg.GetControlChange(&channel, &cc, &value) {
				row, col := ccToRowCol(cc)
				if row >= 0 {
					lp.emit(PadEvent{Row: row, Col: col, Pressed: value > 0, Velocity: value})
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) emit(e PadEvent) {
	select {
	case lp.padChan <- e:
	default:
		// Drop rather than block the MIDI callback.
	}
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

// SetLEDBatch sends LED updates as individual NoteOn messages. SysEx
// RGB batching exists but the palette path is simpler and the caller's
// diffing already keeps batches small.
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		note := rowColToNote(u.Row, u.Col)
		lp.send(gomidi.NoteOn(u.Channel, note, mapRGBToLaunchpad(u.Color)))
	}
	debug.LogEvery(50, "lp-send", "led batch=%d", len(updates))
	return nil
}

func (lp *LaunchpadController) Close() error {
	if lp.send != nil {
		var updates []LEDUpdate
		for row := 0; row < 9; row++ {
			for col := 0; col < 9; col++ {
				if row == 8 && col == 8 {
					continue // no LED at 8,8
				}
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
		lp.SetLEDBatch(updates)
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	return nil
}

// mapRGBToLaunchpad finds the nearest Launchpad X palette color for an
// RGB value.
func mapRGBToLaunchpad(rgb [3]uint8) uint8 {
	// Approximate RGB values for key palette entries.
	// Format: {velocity, R, G, B}
	palette := [][4]uint8{
		{0, 0, 0, 0},         // off
		{5, 255, 0, 0},       // red
		{7, 180, 60, 60},     // dim red
		{9, 255, 100, 0},     // orange
		{11, 180, 80, 40},    // dim orange
		{13, 255, 200, 0},    // yellow
		{17, 0, 180, 0},      // green
		{21, 0, 255, 0},      // bright green
		{37, 0, 200, 200},    // cyan
		{43, 40, 60, 120},    // dim blue
		{45, 0, 100, 255},    // blue
		{49, 150, 0, 200},    // purple
		{53, 255, 80, 180},   // pink
		{81, 90, 20, 120},    // dim purple
		{84, 255, 150, 50},   // bright orange
		{97, 180, 180, 60},   // dim yellow
		{119, 255, 255, 255}, // white
	}

	bestMatch := uint8(0)
	bestDist := 1 << 30
	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])
	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}
	return bestMatch
}

// Launchpad X note layout:
// 8x8 grid:  row 0 (bottom) = notes 11-18, row 7 = notes 81-88
// Side col:  col 8 = notes 19, 29, ... 89
// Top row:   row 8 = CC 91-98 (LEDs addressed as notes 91-98)

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return 8, int(cc - 91)
	}
	return -1, -1
}
