package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderGrid renders the 8x8 recombination grid, top row first, with a
// cursor marker around one cell. Pass cursorCol/cursorRow as -1 to
// render without a cursor.
func RenderGrid(cells [8][8][3]uint8, cursorCol, cursorRow int) string {
	var lines []string
	for row := 0; row < 8; row++ {
		var line strings.Builder
		for col := 0; col < 8; col++ {
			if col == cursorCol && row == cursorRow {
				line.WriteString("[" + RenderPad(cells[row][col]) + "]")
			} else {
				line.WriteString(" " + RenderPad(cells[row][col]) + " ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderAxisLabel renders a viewport position readout, e.g. "tracks 9-16 of 24".
func RenderAxisLabel(name string, from, width, total int) string {
	to := from + width - 1
	if to > total {
		to = total
	}
	return fmt.Sprintf("%s %d-%d of %d", name, from, to, total)
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
