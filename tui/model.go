package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridloom/engine"
	"gridloom/midi"
	"gridloom/surface"
	"gridloom/theme"
	"gridloom/timeline"
	"gridloom/widgets"
)

type Model struct {
	Runtime   *surface.Runtime
	Engine    *engine.Engine
	Timeline  *timeline.Memory
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	keys       keyMap
	log        viewport.Model
	showLog    bool
	cursorCol  int // 0-based grid column
	cursorRow  int // 0-based grid row, top-down
	quitting   bool
	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(rt *surface.Runtime, eng *engine.Engine, tl *timeline.Memory, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	log := viewport.New(60, 8)
	return Model{
		Runtime:   rt,
		Engine:    eng,
		Timeline:  tl,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      defaultKeyMap(),
		log:       log,
	}
}

func ListenForUpdates(rt *surface.Runtime) tea.Cmd {
	return func() tea.Msg {
		<-rt.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Runtime),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Runtime.Stop()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursorRow > 0 {
				m.cursorRow--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursorRow < engine.MatrixHeight-1 {
				m.cursorRow++
			}
		case key.Matches(msg, m.keys.Left):
			if m.cursorCol > 0 {
				m.cursorCol--
			}
		case key.Matches(msg, m.keys.Right):
			if m.cursorCol < engine.MatrixWidth-1 {
				m.cursorCol++
			}

		case key.Matches(msg, m.keys.Track):
			col, row := m.cursorCol+1, m.cursorRow+1
			m.Runtime.Do(func() { m.Engine.Toggle(col, row, false) })
		case key.Matches(msg, m.keys.Whole):
			col, row := m.cursorCol+1, m.cursorRow+1
			m.Runtime.Do(func() { m.Engine.Toggle(col, row, true) })

		case key.Matches(msg, m.keys.PrevH):
			m.Runtime.Do(func() { m.Engine.PagePrev(engine.AxisH) })
		case key.Matches(msg, m.keys.NextH):
			m.Runtime.Do(func() { m.Engine.PageNext(engine.AxisH) })
		case key.Matches(msg, m.keys.PrevV):
			m.Runtime.Do(func() { m.Engine.PagePrev(engine.AxisV) })
		case key.Matches(msg, m.keys.NextV):
			m.Runtime.Do(func() { m.Engine.PageNext(engine.AxisV) })

		case key.Matches(msg, m.keys.Engine):
			m.Runtime.Do(func() { m.Runtime.ToggleEngine() })
		case key.Matches(msg, m.keys.Play):
			m.Runtime.Do(func() { m.Timeline.SetPlaying(!m.Timeline.Playing()) })

		case key.Matches(msg, m.keys.Log):
			m.showLog = !m.showLog
		}

	case tea.WindowSizeMsg:
		m.log.Width = msg.Width - 4
		if m.log.Width < 20 {
			m.log.Width = 20
		}

	case UpdateMsg:
		m.log.SetContent(strings.Join(m.Runtime.Statuses(), "\n"))
		m.log.GotoBottom()
		return m, ListenForUpdates(m.Runtime)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			m.Runtime.SetController(event.Controller)
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.Runtime.SetController(nil)
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	// View runs on the bubbletea goroutine while the runtime loop owns
	// the engine, so everything rendered comes from the published
	// snapshot.
	snap := m.Runtime.Snapshot()

	engState := "IDLE"
	if snap.EngineOn {
		engState = "LOOM"
	}
	playState := "STOP"
	if snap.Playing {
		playState = "PLAY"
	}
	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = "  LP:X"
	}
	header := headerStyle.Render(fmt.Sprintf("gridloom  %s  %s%s", engState, playState, deviceStatus))

	// Grid mirror
	var cells [8][8][3]uint8
	for _, c := range snap.Cells {
		cells[c.Row-1][c.Col-1] = m.Theme.CellRGB(c)
	}
	grid := widgets.RenderGrid(cells, m.cursorCol, m.cursorRow)

	axes := dimStyle.Render(
		widgets.RenderAxisLabel("tracks", snap.ViewX, engine.MatrixWidth, snap.TrackCount) +
			"   " +
			widgets.RenderAxisLabel("patterns", snap.ViewY, engine.MatrixHeight, snap.SlotCount))

	legend := strings.Join([]string{
		widgets.RenderLegendItem(m.Theme.CellRGB(engine.Cell{Kind: engine.CellEmpty}), "empty", "no content"),
		widgets.RenderLegendItem(m.Theme.CellRGB(engine.Cell{Kind: engine.CellFilled}), "filled", "pattern content"),
		widgets.RenderLegendItem(m.Theme.CellRGB(engine.Cell{Kind: engine.CellActive}), "active", "feeding the loom"),
		widgets.RenderLegendItem(m.Theme.CellRGB(engine.Cell{Kind: engine.CellSilent}), "silent", "active, empty slot"),
	}, "\n")

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "hjkl", Desc: "move cursor"},
			{Key: "space/enter", Desc: "toggle track / whole row"},
			{Key: "[ ] { }", Desc: "page tracks / patterns"},
			{Key: "s  p  d  q", Desc: "engine, play, log, quit"},
		}},
	}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(axes)
	out.WriteString("\n\n")
	out.WriteString(legend)
	out.WriteString("\n\n")
	out.WriteString(help)

	if m.showLog {
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render("log"))
		out.WriteString("\n")
		out.WriteString(m.log.View())
	}

	return out.String()
}
