// Package theme maps palette positions onto the roles the grid and
// terminal UI paint with, including the fixed cell-state colors shared
// by the Launchpad LEDs and the TUI mirror.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"gridloom/engine"
)

// Theme binds a palette to role colors.
type Theme struct {
	Palette *Palette
}

// New builds a theme over a palette; nil uses the built-in one.
func New(p *Palette) *Theme {
	if p == nil {
		p = DefaultPalette()
	}
	return &Theme{Palette: p}
}

// Palette roles as normalized positions.
const (
	roleBG      = 0.0
	roleMuted   = 0.2
	roleFG      = 0.45
	roleAccent  = 0.55
	roleWarning = 0.8
	roleBright  = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return toLipgloss(t.Palette.Lookup(roleBG)) }
func (t *Theme) FG() lipgloss.Color      { return toLipgloss(t.Palette.Lookup(roleFG)) }
func (t *Theme) Muted() lipgloss.Color   { return toLipgloss(t.Palette.Lookup(roleMuted)) }
func (t *Theme) Accent() lipgloss.Color  { return toLipgloss(t.Palette.Lookup(roleAccent)) }
func (t *Theme) Warning() lipgloss.Color { return toLipgloss(t.Palette.Lookup(roleWarning)) }

// CellRGB returns the grid color for a cell classification. Muted
// variants of active/filled cells are dimmed toward the background.
func (t *Theme) CellRGB(c engine.Cell) RGB {
	var norm float64
	switch c.Kind {
	case engine.CellOutOfBounds:
		return t.Palette.Lookup(roleBG)
	case engine.CellEmpty:
		norm = 0.12
	case engine.CellFilled:
		norm = 0.55
	case engine.CellActive:
		norm = 1.0
	case engine.CellSilent:
		norm = 0.8
	}
	rgb := t.Palette.Lookup(norm)
	if c.Muted && c.Kind == engine.CellFilled {
		rgb = dim(rgb)
	}
	return rgb
}

// CellColor is CellRGB as a lipgloss color.
func (t *Theme) CellColor(c engine.Cell) lipgloss.Color {
	return toLipgloss(t.CellRGB(c))
}

// NavRGB is the color of paging/navigation buttons.
func (t *Theme) NavRGB() RGB {
	return t.Palette.Lookup(roleAccent)
}

// TransportRGB is the color of the start/stop button, keyed on play
// state.
func (t *Theme) TransportRGB(playing bool) RGB {
	if playing {
		return t.Palette.Lookup(roleBright)
	}
	return t.Palette.Lookup(roleWarning)
}

func dim(c RGB) RGB {
	return RGB{c[0] / 3, c[1] / 3, c[2] / 3}
}

func toLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
