// Package timeline provides an in-memory host backend: a full
// implementation of the engine's Timeline capability surface, used as
// the demo song in the standalone binary and as the host double in
// tests.
package timeline

import "gridloom/song"

// lane is one track's content inside a pattern.
type lane struct {
	notes      map[int]song.Note // line -> note
	automation []song.AutomationPoint
	muted      bool
}

func newLane() *lane {
	return &lane{notes: make(map[int]song.Note)}
}

func (l *lane) clone() *lane {
	c := newLane()
	for line, n := range l.notes {
		c.notes[line] = n
	}
	c.automation = append(c.automation, l.automation...)
	c.muted = l.muted
	return c
}

// Pattern is a fixed-length block of per-track content at one slot.
type Pattern struct {
	name   string
	length int
	lanes  []*lane
}

func newPattern(tracks, length int) *Pattern {
	p := &Pattern{length: length, lanes: make([]*lane, tracks)}
	for i := range p.lanes {
		p.lanes[i] = newLane()
	}
	return p
}

// Track describes one timeline track.
type Track struct {
	Name string
	Kind song.TrackKind
}

// Memory is the in-memory timeline. All indices on the public API are
// 1-based, matching the engine's host contract.
type Memory struct {
	tracks   []Track
	patterns []*Pattern

	playing  bool
	playSlot int
	playLine int
	editSlot int
	lpb      int

	selTrack, selSlot int

	maxLines int

	observers map[int]song.Observer
	nextObs   int

	mutations int
}

// New creates a timeline with the given content tracks and slots, all
// patterns at the given length and with no content. A master track is
// appended after the content tracks.
func New(tracks, slots, length int) *Memory {
	m := &Memory{
		playSlot:  1,
		playLine:  1,
		editSlot:  1,
		lpb:       4,
		selTrack:  1,
		selSlot:   1,
		maxLines:  512,
		observers: make(map[int]song.Observer),
	}
	for i := 0; i < tracks; i++ {
		m.tracks = append(m.tracks, Track{Name: trackName(i), Kind: song.KindContent})
	}
	m.tracks = append(m.tracks, Track{Name: "Master", Kind: song.KindMaster})
	for i := 0; i < slots; i++ {
		m.patterns = append(m.patterns, newPattern(len(m.tracks), length))
	}
	return m
}

func trackName(i int) string {
	names := []string{"Kick", "Snare", "Hats", "Perc", "Bass", "Keys", "Lead", "Pad"}
	if i < len(names) {
		return names[i]
	}
	return "Track"
}

// NewDemoSong builds a small playable song: 8 content tracks over 12
// slots with mixed pattern lengths, seeded with simple note content so
// the grid has something to recombine.
func NewDemoSong() *Memory {
	m := New(8, 12, 16)
	lengths := []int{16, 16, 8, 8, 4, 6, 16, 12, 16, 8, 4, 16}
	for s, l := range lengths {
		m.patterns[s].length = l
	}
	for s := range m.patterns {
		for t := 0; t < 8; t++ {
			step := t + 1
			for line := 1; line <= m.patterns[s].length; line += step {
				m.patterns[s].lanes[t].notes[line] = song.Note{
					Pitch:    uint8(36 + t),
					Velocity: 100,
				}
			}
		}
	}
	// A couple of automation curves for the poly expansion to carry.
	m.patterns[4].lanes[4].automation = []song.AutomationPoint{
		{Line: 1, Value: 0.0},
		{Line: 3, Value: 1.0},
	}
	m.patterns[5].lanes[5].automation = []song.AutomationPoint{
		{Line: 2, Value: 0.5},
	}
	return m
}

// Mutations counts every mutating call since creation. Tests use it to
// assert that reconciliation with nothing pending touches nothing.
func (m *Memory) Mutations() int {
	return m.mutations
}

func (m *Memory) pattern(slot int) *Pattern {
	return m.patterns[slot-1]
}

func (m *Memory) lane(slot, track int) *lane {
	return m.patterns[slot-1].lanes[track-1]
}

// Timeline capability surface.

func (m *Memory) TrackCount() int { return len(m.tracks) }
func (m *Memory) SlotCount() int  { return len(m.patterns) }

func (m *Memory) TrackKind(track int) song.TrackKind {
	return m.tracks[track-1].Kind
}

// TrackName returns the display name of a track.
func (m *Memory) TrackName(track int) string {
	return m.tracks[track-1].Name
}

func (m *Memory) Muted(track, slot int) bool {
	return m.lane(slot, track).muted
}

func (m *Memory) SetMuted(track, slot int, muted bool) {
	m.mutations++
	m.lane(slot, track).muted = muted
}

func (m *Memory) PatternLength(slot int) int {
	return m.pattern(slot).length
}

func (m *Memory) SetPatternLength(slot, lines int) {
	m.mutations++
	if lines < 1 {
		lines = 1
	}
	if lines > m.maxLines {
		lines = m.maxLines
	}
	p := m.pattern(slot)
	if lines < p.length {
		// Content past the new end is dropped, as a host resize would.
		for _, l := range p.lanes {
			for line := range l.notes {
				if line > lines {
					delete(l.notes, line)
				}
			}
			kept := l.automation[:0]
			for _, pt := range l.automation {
				if pt.Line <= lines {
					kept = append(kept, pt)
				}
			}
			l.automation = kept
		}
	}
	p.length = lines
}

func (m *Memory) PatternName(slot int) string {
	return m.pattern(slot).name
}

func (m *Memory) SetPatternName(slot int, name string) {
	m.mutations++
	m.pattern(slot).name = name
}

func (m *Memory) MaxPatternLines() int { return m.maxLines }

func (m *Memory) ClearPattern(slot int) {
	m.mutations++
	p := m.pattern(slot)
	for i, l := range p.lanes {
		muted := l.muted
		p.lanes[i] = newLane()
		p.lanes[i].muted = muted
	}
}

func (m *Memory) ClearPatternTrack(slot, track int) {
	m.mutations++
	l := m.lane(slot, track)
	muted := l.muted
	fresh := newLane()
	fresh.muted = muted
	m.patterns[slot-1].lanes[track-1] = fresh
}

func (m *Memory) CopyPattern(dst, src int) {
	m.mutations++
	dp, sp := m.pattern(dst), m.pattern(src)
	for i := range dp.lanes {
		muted := dp.lanes[i].muted
		dp.lanes[i] = sp.lanes[i].clone()
		dp.lanes[i].muted = muted
	}
}

func (m *Memory) CopyPatternTrack(dst, src, track int) {
	m.mutations++
	muted := m.lane(dst, track).muted
	cloned := m.lane(src, track).clone()
	cloned.muted = muted
	// Content past the destination length is dropped.
	length := m.pattern(dst).length
	for line := range cloned.notes {
		if line > length {
			delete(cloned.notes, line)
		}
	}
	kept := cloned.automation[:0]
	for _, pt := range cloned.automation {
		if pt.Line <= length {
			kept = append(kept, pt)
		}
	}
	cloned.automation = kept
	m.patterns[dst-1].lanes[track-1] = cloned
}

func (m *Memory) CopyTrackLines(slot, track, srcFrom, srcTo, dstFrom int) {
	m.mutations++
	l := m.lane(slot, track)
	length := m.pattern(slot).length
	for line := srcFrom; line <= srcTo; line++ {
		target := dstFrom + (line - srcFrom)
		if target > length {
			break
		}
		if n, ok := l.notes[line]; ok {
			l.notes[target] = n
		} else {
			delete(l.notes, target)
		}
	}
}

func (m *Memory) TrackHasContent(slot, track int) bool {
	l := m.lane(slot, track)
	return len(l.notes) > 0 || len(l.automation) > 0
}

func (m *Memory) Automation(slot, track int) []song.AutomationPoint {
	l := m.lane(slot, track)
	out := make([]song.AutomationPoint, len(l.automation))
	copy(out, l.automation)
	return out
}

func (m *Memory) AddAutomation(slot, track int, p song.AutomationPoint) {
	m.mutations++
	l := m.lane(slot, track)
	for i, old := range l.automation {
		if old.Line == p.Line {
			l.automation[i] = p
			return
		}
	}
	l.automation = append(l.automation, p)
}

// Note returns the note at a line, if any.
func (m *Memory) Note(slot, track, line int) (song.Note, bool) {
	n, ok := m.lane(slot, track).notes[line]
	return n, ok
}

// SetNote places a note at a line.
func (m *Memory) SetNote(slot, track, line int, n song.Note) {
	m.mutations++
	m.lane(slot, track).notes[line] = n
}

// InsertPatternAfter appends an empty pattern after the given slot.
// Deliberately does not notify observers: the engine inserts its own
// loom pattern and must not see it as an external structure change.
func (m *Memory) InsertPatternAfter(slot int) int {
	m.mutations++
	p := newPattern(len(m.tracks), m.pattern(slot).length)
	rest := make([]*Pattern, 0, len(m.patterns)+1)
	rest = append(rest, m.patterns[:slot]...)
	rest = append(rest, p)
	rest = append(rest, m.patterns[slot:]...)
	m.patterns = rest
	return slot + 1
}

// Transport.

func (m *Memory) Playing() bool { return m.playing }

func (m *Memory) SetPlaying(playing bool) {
	if m.playing == playing {
		return
	}
	m.mutations++
	m.playing = playing
	for _, o := range m.observers {
		o.PlayStateChanged(playing)
	}
}

func (m *Memory) PlaybackSlot() int { return m.playSlot }
func (m *Memory) PlaybackLine() int { return m.playLine }

func (m *Memory) SetPlaybackSlot(slot int) {
	m.mutations++
	m.playSlot = slot
	if m.playLine > m.pattern(slot).length {
		m.playLine = 1
	}
}

func (m *Memory) SetPlaybackLine(line int) {
	m.mutations++
	m.playLine = line
}

func (m *Memory) EditSlot() int { return m.editSlot }

// SetEditSlot moves the edit cursor (no observer notification; the
// host treats it as part of selection).
func (m *Memory) SetEditSlot(slot int) {
	m.mutations++
	m.editSlot = slot
}

func (m *Memory) LinesPerBeat() int { return m.lpb }

// SetLinesPerBeat sets the tempo's lines-per-beat value.
func (m *Memory) SetLinesPerBeat(lpb int) {
	m.mutations++
	m.lpb = lpb
}

// Selection.

func (m *Memory) SelectTrack(track int) {
	m.mutations++
	m.selTrack = track
	for _, o := range m.observers {
		o.SelectionChanged(m.selTrack, m.selSlot)
	}
}

func (m *Memory) SelectSlot(slot int) {
	m.mutations++
	m.selSlot = slot
	for _, o := range m.observers {
		o.SelectionChanged(m.selTrack, m.selSlot)
	}
}

// Selection returns the current selection.
func (m *Memory) Selection() (track, slot int) {
	return m.selTrack, m.selSlot
}

func (m *Memory) Subscribe(o song.Observer) func() {
	id := m.nextObs
	m.nextObs++
	m.observers[id] = o
	return func() { delete(m.observers, id) }
}

// Structural edits beyond the engine's capability surface. These DO
// notify observers: they stand in for the host's own song edits.

// AddSlot appends a pattern at the end of the timeline.
func (m *Memory) AddSlot(length int) {
	m.mutations++
	m.patterns = append(m.patterns, newPattern(len(m.tracks), length))
	m.notifyStructure()
}

// RemoveSlot deletes the pattern at a slot.
func (m *Memory) RemoveSlot(slot int) {
	m.mutations++
	m.patterns = append(m.patterns[:slot-1], m.patterns[slot:]...)
	if m.playSlot > len(m.patterns) {
		m.playSlot = len(m.patterns)
	}
	if m.editSlot > len(m.patterns) {
		m.editSlot = len(m.patterns)
	}
	m.notifyStructure()
}

// AddTrack appends a content track before the master track.
func (m *Memory) AddTrack(name string) {
	m.mutations++
	insert := len(m.tracks) - 1
	m.tracks = append(m.tracks[:insert], append([]Track{{Name: name, Kind: song.KindContent}}, m.tracks[insert:]...)...)
	for _, p := range m.patterns {
		p.lanes = append(p.lanes[:insert], append([]*lane{newLane()}, p.lanes[insert:]...)...)
	}
	m.notifyStructure()
}

func (m *Memory) notifyStructure() {
	for _, o := range m.observers {
		o.StructureChanged()
	}
}
