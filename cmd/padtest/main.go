package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"gridloom/midi"
	"gridloom/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectPad()
	case "leds":
		testLEDs()
	case "pads":
		watchPads()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("gridloom pad controller test")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Find a Launchpad")
	fmt.Println("  leds    - Paint the loom palette ramp on the grid")
	fmt.Println("  pads    - Echo pad presses and releases")
	fmt.Println("  poll    - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func findPadPorts() (drivers.In, drivers.Out) {
	var in drivers.In
	var out drivers.Out
	for _, p := range gomidi.GetInPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			in = p
			break
		}
	}
	for _, p := range gomidi.GetOutPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			out = p
			break
		}
	}
	return in, out
}

func detectPad() {
	fmt.Println("Looking for a Launchpad...")
	in, out := findPadPorts()
	if in != nil {
		fmt.Printf("Found input:  %s\n", in.String())
	}
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	}
	if in != nil && out != nil {
		fmt.Println("\nPad controller detected!")
	} else {
		fmt.Println("\nPad controller not found")
	}
}

func testLEDs() {
	in, out := findPadPorts()
	if in == nil || out == nil {
		fmt.Println("No pad controller found")
		return
	}

	lp, err := midi.NewLaunchpadController(out.String(), in, out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer lp.Close()

	fmt.Println("Painting the loom palette ramp...")

	pal := theme.DefaultPalette()
	var updates []midi.LEDUpdate
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := pal.Lookup(float64(row*8+col) / 63.0)
			updates = append(updates, midi.LEDUpdate{
				Row: row, Col: col, Color: [3]uint8(c),
			})
		}
	}
	if err := lp.SetLEDBatch(updates); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
}

func watchPads() {
	in, out := findPadPorts()
	if in == nil || out == nil {
		fmt.Println("No pad controller found")
		return
	}

	lp, err := midi.NewLaunchpadController(out.String(), in, out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer lp.Close()

	fmt.Println("Press pads. Ctrl+C to exit.")
	for e := range lp.PadEvents() {
		state := "release"
		if e.Pressed {
			state = "press"
		}
		fmt.Printf("  row=%d col=%d %s vel=%d\n", e.Row, e.Col, state, e.Velocity)
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a controller to test. Ctrl+C to exit.")

	last := ""
	for {
		var names []string
		for _, p := range gomidi.GetInPorts() {
			names = append(names, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			names = append(names, p.String())
		}
		current := strings.Join(names, ",")
		if current != last {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
			last = current
		}
		time.Sleep(2 * time.Second)
	}
}
