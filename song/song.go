// Package song holds the shared vocabulary of the host timeline: track
// kinds, note and automation data, and the observer contract for host
// change notifications. Both the engine and timeline backends speak in
// these types.
package song

// TrackKind distinguishes content tracks from the master/auxiliary
// lanes that can never feed the loom pattern.
type TrackKind int

const (
	KindContent TrackKind = iota
	KindMaster
	KindAux
)

func (k TrackKind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindMaster:
		return "master"
	case KindAux:
		return "aux"
	default:
		return "unknown"
	}
}

// Note is one line's note data in a pattern track lane.
type Note struct {
	Pitch    uint8
	Velocity uint8
}

// AutomationPoint is one automation curve point inside a pattern track,
// anchored to a 1-based line within the pattern.
type AutomationPoint struct {
	Line  int
	Value float64
}

// Observer receives host-side change notifications. Implementations
// must be safe to call from the host's notification context; the
// gridloom runtime funnels everything onto one goroutine.
type Observer interface {
	// StructureChanged fires when tracks or slots are inserted/removed.
	StructureChanged()
	// SelectionChanged fires when the selected track or slot moves.
	SelectionChanged(track, slot int)
	// PlayStateChanged fires when the transport starts or stops.
	PlayStateChanged(playing bool)
}
