package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gridloom/config"
	"gridloom/debug"
	"gridloom/engine"
	"gridloom/midi"
	"gridloom/surface"
	"gridloom/theme"
	"gridloom/timeline"
	"gridloom/tui"
)

func main() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("config: %v (using defaults)\n", err)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
	}

	// Load theme
	palette := theme.DefaultPalette()
	if cfg.UI.PalettePath != "" {
		p, err := theme.LoadGPL(cfg.UI.PalettePath)
		if err != nil {
			fmt.Printf("palette: %v (using default)\n", err)
		} else {
			palette = p
		}
	}
	th := theme.New(palette)

	// Song and engine
	tl := timeline.NewDemoSong()
	eng := engine.New(tl, cfg.Options())

	rt := surface.New(eng, tl, th)
	rt.Start()
	defer rt.Stop()

	// Live config reload: engine options apply through the runtime.
	watchStop := make(chan struct{})
	defer close(watchStop)
	go func() {
		err := config.Watch(cfgPath, watchStop, func(c config.Config) {
			rt.Do(func() { eng.SetOptions(c.Options()) })
		})
		if err != nil {
			debug.Log("config", "watch: %v", err)
		}
	}()

	// Pad controller hot-plug
	deviceMgr := midi.NewDeviceManager(cfg.Controller.PortName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Controller.AutoConnect {
		go deviceMgr.Run(ctx)
	}

	fmt.Println("gridloom")
	fmt.Println("Connect a pad controller any time - it'll be detected automatically")
	fmt.Println("")

	m := tui.NewModel(rt, eng, tl, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
