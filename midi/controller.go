// Package midi connects gridloom to pad-grid controllers: hot-plug
// detection, pad press/release input and batched LED output.
package midi

// PadEvent is one pad transition on a grid controller. Row 0 is the
// bottom of the 8x8 field; col 8 is the right-hand button column and
// row 8 the top control row.
type PadEvent struct {
	Row, Col int
	Pressed  bool
	Velocity uint8
}

// LEDUpdate is one pending LED change.
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// Controller is the interface for grid controllers.
type Controller interface {
	ID() string

	// PadEvents streams pad transitions, press and release.
	PadEvents() <-chan PadEvent

	// SetLEDBatch applies a batch of LED changes. Callers are expected
	// to diff and only send what changed.
	SetLEDBatch(updates []LEDUpdate) error

	Close() error
}

// LED channel modes (Launchpad X semantics).
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
