package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RGB is an 8-bit color triple.
type RGB [3]uint8

// Palette is an ordered color ramp, looked up by normalized position.
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is the built-in ramp used when no GPL file is
// configured: deep violet through magenta to warm yellow.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "loom",
		Colors: []RGB{
			{24, 5, 48},
			{54, 14, 92},
			{92, 24, 130},
			{140, 26, 160},
			{190, 40, 140},
			{228, 78, 92},
			{250, 140, 60},
			{252, 200, 80},
			{250, 240, 140},
		},
	}
}

// LoadGPL parses a GIMP palette file.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		r, err1 := strconv.Atoi(fields[0])
		g, err2 := strconv.Atoi(fields[1])
		b, err3 := strconv.Atoi(fields[2])
		if err1 == nil && err2 == nil && err3 == nil {
			p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors in palette %s", path)
	}
	return p, nil
}

// Lookup returns the interpolated color at a normalized position 0-1.
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}
	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)
	c0, c1 := p.Colors[i], p.Colors[i+1]
	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
