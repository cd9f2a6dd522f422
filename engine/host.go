package engine

import "gridloom/song"

// Timeline is the capability surface the engine consumes from a host
// sequencer. Tracks, slots and lines are 1-based throughout. Slots map
// 1:1 onto patterns: the pattern at a slot is addressed by the slot
// index.
//
// Every mutation is assumed to succeed given valid arguments; argument
// validity (the garbage-position checks) is the engine's own
// responsibility. Any backend offering these operations is
// substitutable - timeline.Memory is the reference implementation.
type Timeline interface {
	TrackCount() int
	SlotCount() int
	TrackKind(track int) song.TrackKind

	Muted(track, slot int) bool
	SetMuted(track, slot int, muted bool)

	PatternLength(slot int) int
	SetPatternLength(slot, lines int)
	PatternName(slot int) string
	SetPatternName(slot int, name string)
	// MaxPatternLines is the longest pattern the host can represent.
	MaxPatternLines() int

	ClearPattern(slot int)
	ClearPatternTrack(slot, track int)
	// CopyPattern copies every track lane of src into dst, content and
	// automation. Lengths are not touched.
	CopyPattern(dst, src int)
	// CopyPatternTrack copies one track lane of src into dst, content
	// and automation.
	CopyPatternTrack(dst, src, track int)
	// CopyTrackLines copies note content of lines [srcFrom, srcTo] onto
	// dstFrom within one pattern's track lane. Automation curves are
	// not touched; callers replicate points themselves.
	CopyTrackLines(slot, track, srcFrom, srcTo, dstFrom int)
	TrackHasContent(slot, track int) bool

	Automation(slot, track int) []song.AutomationPoint
	// AddAutomation writes an automation point. A lane holds at most
	// one point per line; a point already on the same line is replaced,
	// so replicating over a previous replication cannot pile up
	// duplicates.
	AddAutomation(slot, track int, p song.AutomationPoint)

	// InsertPatternAfter appends an empty pattern after the given slot
	// and returns the new slot index.
	InsertPatternAfter(slot int) int

	Playing() bool
	SetPlaying(playing bool)
	PlaybackSlot() int
	PlaybackLine() int
	SetPlaybackSlot(slot int)
	SetPlaybackLine(line int)
	EditSlot() int
	LinesPerBeat() int

	SelectTrack(track int)
	SelectSlot(slot int)

	// Subscribe registers a change observer and returns its cancel.
	Subscribe(o song.Observer) (cancel func())
}
